package query

import "fmt"

const (
	serviceGeolocation = "geolocation"
	serviceWeather     = "weather"
)

// FieldError is returned if the geolocation response is missing a field, or the field has an unexpected type.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("error getting %s from geolocation response", e.Field)
}

// TransportError is returned if a request to one of the remote services could not be completed.
type TransportError struct {
	Service string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
