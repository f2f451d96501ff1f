package engine

import (
	"testing"

	"github.com/mezquit/mezquit/testutils"
)

func TestIdentifierTableInsertGetRemove(t *testing.T) {
	table := NewIdentifierTable[string]()

	_, ok := table.Get(1)
	testutils.CheckTrue(!ok, t)

	table.Insert(1, "first")
	v, ok := table.Get(1)
	testutils.CheckTrue(ok, t)
	testutils.CheckEqual("first", v, t)

	table.Update(1, "second")
	v, ok = table.Get(1)
	testutils.CheckTrue(ok, t)
	testutils.CheckEqual("second", v, t)

	v, ok = table.Remove(1)
	testutils.CheckTrue(ok, t)
	testutils.CheckEqual("second", v, t)

	_, ok = table.Remove(1)
	testutils.CheckTrue(!ok, t)
}

func TestIdentifierTableSnapshot(t *testing.T) {
	table := NewIdentifierTable[int]()
	table.Insert(1, 100)
	table.Insert(2, 200)

	snap := table.Snapshot()
	testutils.CheckEqual(2, len(snap), t)

	seen := map[PacketId]int{}
	for _, e := range snap {
		seen[e.ID] = e.Value
	}
	testutils.CheckEqual(100, seen[1], t)
	testutils.CheckEqual(200, seen[2], t)
}

func TestIdentifierTableRemoveAll(t *testing.T) {
	table := NewIdentifierTable[int]()
	table.Insert(1, 100)
	table.Insert(2, 200)

	removed := map[PacketId]int{}
	table.RemoveAll(func(id PacketId, v int) {
		removed[id] = v
	})

	testutils.CheckEqual(2, len(removed), t)
	testutils.CheckEqual(0, len(table.Snapshot()), t)
}

func TestInboundQoS2SetCheckAndAdd(t *testing.T) {
	set := NewInboundQoS2Set()

	testutils.CheckTrue(!set.Contains(7), t)

	alreadyPresent := set.CheckAndAdd(7)
	testutils.CheckTrue(!alreadyPresent, t)
	testutils.CheckTrue(set.Contains(7), t)

	alreadyPresent = set.CheckAndAdd(7)
	testutils.CheckTrue(alreadyPresent, t)

	set.Remove(7)
	testutils.CheckTrue(!set.Contains(7), t)
}
