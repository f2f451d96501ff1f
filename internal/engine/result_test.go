package engine

import (
	"testing"
	"time"

	"github.com/mezquit/mezquit/testutils"
)

func TestOneShotCompleteThenAwait(t *testing.T) {
	o := newOneShot[int]()
	o.Complete(42)
	testutils.CheckEqual(42, o.Await(), t)
}

func TestOneShotAwaitBlocksUntilComplete(t *testing.T) {
	o := newOneShot[string]()
	done := make(chan string, 1)
	go func() {
		done <- o.Await()
	}()

	select {
	case <-done:
		t.Fatal("Await returned before Complete was called")
	case <-time.After(20 * time.Millisecond):
	}

	o.Complete("value")
	select {
	case v := <-done:
		testutils.CheckEqual("value", v, t)
	case <-time.After(time.Second):
		t.Fatal("Await did not unblock after Complete")
	}
}

func TestOneShotSecondCompleteIsANoOp(t *testing.T) {
	o := newOneShot[int]()
	o.Complete(1)
	o.Complete(2) // must not block or panic, and must not change the delivered value

	testutils.CheckEqual(1, o.Await(), t)
}

func TestResultKindString(t *testing.T) {
	testutils.CheckEqual("Empty", ResultEmpty.String(), t)
	testutils.CheckEqual("QoS", ResultQoS.String(), t)
	testutils.CheckEqual("Cancelled", ResultCancelled.String(), t)
}

func TestQoSResult(t *testing.T) {
	r := QoSResult([]int{0, 1, 2})
	testutils.CheckEqual(ResultQoS, r.Kind, t)
	testutils.CheckEqual([]int{0, 1, 2}, r.GrantedQoS, t)
}
