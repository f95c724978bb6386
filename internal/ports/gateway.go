package ports

// Gateway defines the interface for a network front end to the verifier
type Gateway interface {
	// Name identifies the gateway in logs
	Name() string

	// Start starts serving in the background
	Start() error

	// Stop stops the gateway
	Stop() error
}
