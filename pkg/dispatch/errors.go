package dispatch

// Dispatcher errors
var (
	ErrNoWorkersAvailable = &DispatchError{"No workers available"}
	ErrShutdown           = &DispatchError{"Dispatcher shut down"}
)

// DispatchError represents a job the pool could not accept or finish
type DispatchError struct {
	Message string
}

func (e *DispatchError) Error() string {
	return e.Message
}
