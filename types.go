package apub

import (
	"bytes"
	"encoding/json"
)

// Audience is an ordered list of addresses. On the wire it may be a single
// address or an array; it always encodes as an array.
type Audience []string

func (a Audience) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

func (a *Audience) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	var many []string
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &many); err != nil {
			return ValidationError{Field: "to", Err: err}
		}
	} else {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return ValidationError{Field: "to", Reason: "expected an address or a list of addresses"}
		}
		many = []string{one}
	}

	out := make(Audience, 0, len(many))
	for _, addr := range many {
		if IsPublic(addr) {
			out = append(out, Public)
			continue
		}
		normalized, err := ParseAddress(addr)
		if err != nil {
			return ValidationError{Field: "to", Err: err}
		}
		out = append(out, normalized)
	}
	*a = out
	return nil
}

// WebfingerLink is a single link of a JRD document.
type WebfingerLink struct {
	Rel  string `json:"rel"`
	Type string `json:"type,omitempty"`
	Href string `json:"href,omitempty"`
}

// Webfinger is the JRD document served at /.well-known/webfinger.
type Webfinger struct {
	Subject string          `json:"subject"`
	Aliases []string        `json:"aliases,omitempty"`
	Links   []WebfingerLink `json:"links"`
}
