package application

// PageError is returned when the embedded conversation could not be located in a
// page. It keeps the page so callers can save it for inspection.
type PageError struct {
	HTML string
	Err  error
}

func (e *PageError) Error() string {
	return e.Err.Error()
}

func (e *PageError) Unwrap() error {
	return e.Err
}
