package apub

import (
	"encoding/json"
	"errors"
	"fmt"
)

// WireObject is implemented by every interchange type.
type WireObject interface {
	// Address returns the object's own identifier as it appears on the wire.
	Address() string
	// RequiredFields lists the JSON members that must be present.
	RequiredFields() []string
	Validate() error
}

// PeekKind returns the type discriminator of a payload without decoding the
// rest of it.
func PeekKind(data []byte) (string, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return "", err
	}
	return kindOf(fields)
}

// Decode parses data as a W whose type discriminator must equal kind.
// Unknown members are ignored.
func Decode[W WireObject](data []byte, kind string) (W, error) {
	var zero W

	fields, err := decodeObject(data)
	if err != nil {
		return zero, err
	}

	got, err := kindOf(fields)
	if err != nil {
		return zero, err
	}
	if got != kind {
		return zero, ValidationError{Field: "type", Reason: fmt.Sprintf("expected %q, got %q", kind, got)}
	}

	for _, name := range zero.RequiredFields() {
		if _, ok := fields[name]; !ok {
			return zero, ValidationError{Field: name, Reason: "missing required field"}
		}
	}

	var out W
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, asValidation(err)
	}

	if err := out.Validate(); err != nil {
		return zero, asValidation(err)
	}

	return out, nil
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	if !json.Valid(data) {
		return nil, DecodeError{Err: fmt.Errorf("payload is not valid json")}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, DecodeError{Err: fmt.Errorf("payload is not a json object")}
	}
	return fields, nil
}

func kindOf(fields map[string]json.RawMessage) (string, error) {
	raw, ok := fields["type"]
	if !ok {
		return "", ValidationError{Field: "type", Reason: "missing required field"}
	}
	var kind string
	if err := json.Unmarshal(raw, &kind); err != nil {
		return "", ValidationError{Field: "type", Reason: "must be a string"}
	}
	return kind, nil
}

func asValidation(err error) error {
	if errors.Is(err, ErrValidationFailed) {
		var verr ValidationError
		if errors.As(err, &verr) {
			return verr
		}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return ValidationError{Field: typeErr.Field, Reason: "unexpected " + typeErr.Value}
	}

	var addrErr InvalidAddressError
	if errors.As(err, &addrErr) {
		return ValidationError{Reason: "invalid address", Err: addrErr}
	}

	return ValidationError{Err: err}
}
