package events

// Subscriber receives raw event payloads from the bus.
type Subscriber interface {
	// Subscribe delivers payloads for topic (wildcards allowed) on the
	// returned channel until the cancel function is called.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}
