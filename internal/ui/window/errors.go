package window

// WindowError represents a window-related error.
type WindowError struct {
	Message string
}

func (e WindowError) Error() string {
	return e.Message
}

// Error constants.
var (
	ErrWindowCreationFailed = WindowError{Message: "failed to create application window"}
)

// ErrWidgetCreationFailed creates an error for widget creation failure.
func ErrWidgetCreationFailed(name string) error {
	return WindowError{Message: "failed to create widget: " + name}
}
