package authclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMalformedResponse is returned when a response body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response from authentication service")
)

// StatusError is returned for any non-2xx status other than 422.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("authentication service returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// FieldError holds the messages the service reported for one field.
type FieldError struct {
	Field    string
	Messages []string
}

// ValidationError is returned for a 422 response. Fields keep the order the
// service sent them in.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("authentication service rejected %d field(s)", len(e.Fields))
}

// Messages flattens the field errors into one ordered list.
func (e *ValidationError) Messages() []string {
	var out []string
	for _, f := range e.Fields {
		out = append(out, f.Messages...)
	}
	return out
}

// decodeValidationError reads the field-keyed errors object of a 422 body.
// The object may sit at the top level or under "data".
func decodeValidationError(body []byte) (*ValidationError, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	raw, ok := top["errors"]
	if !ok {
		if data, found := top["data"]; found {
			var inner map[string]json.RawMessage
			if err := json.Unmarshal(data, &inner); err == nil {
				raw, ok = inner["errors"]
			}
		}
	}
	if !ok {
		return nil, fmt.Errorf("%w: 422 without errors object", ErrMalformedResponse)
	}

	fields, err := orderedFieldErrors(raw)
	if err != nil {
		return nil, err
	}
	return &ValidationError{Fields: fields}, nil
}

// orderedFieldErrors walks the object token by token; a map would lose the
// field order.
func orderedFieldErrors(raw json.RawMessage) ([]FieldError, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: errors is not an object", ErrMalformedResponse)
	}

	var fields []FieldError
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		key, _ := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrMalformedResponse, key, err)
		}
		msgs, err := fieldMessages(value)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrMalformedResponse, key, err)
		}
		fields = append(fields, FieldError{Field: key, Messages: msgs})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return fields, nil
}

func fieldMessages(value json.RawMessage) ([]string, error) {
	var one string
	if err := json.Unmarshal(value, &one); err == nil {
		return []string{one}, nil
	}
	var many []string
	if err := json.Unmarshal(value, &many); err != nil {
		return nil, errors.New("expected a string or an array of strings")
	}
	return many, nil
}
