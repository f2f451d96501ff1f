package engine

// Message is an application-level publication delivered to the caller (spec.md §3).
type Message struct {
	Topic   string
	Payload []byte
}
