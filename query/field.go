package query

// field reads a top-level member of a decoded JSON object and coerces it to T.
// A member that is absent or of the wrong type is reported as a FieldError.
func field[T any](doc map[string]interface{}, name string, coerce func(interface{}) (T, bool)) (T, error) {
	var zero T
	raw, ok := doc[name]
	if !ok {
		return zero, &FieldError{Field: name}
	}
	v, ok := coerce(raw)
	if !ok {
		return zero, &FieldError{Field: name}
	}
	return v, nil
}

func asFloat(v interface{}) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

func asString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
