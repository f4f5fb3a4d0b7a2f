package publisher

// Publisher represents a service for publishing persisted job records
// to downstream consumers
type Publisher interface {
	// Publish publishes a message keyed by the source identifier
	Publish(source string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
