package client

// Routing errors
var (
	ErrTransport      = &RoutingError{"Transport error"}
	ErrServiceOffline = &RoutingError{"Service offline"}
)

// RoutingError represents a remote call that did not produce a service reply
type RoutingError struct {
	Message string
}

func (e *RoutingError) Error() string {
	return e.Message
}
