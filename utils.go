package apub

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Public is the well-known audience meaning "visible to anyone". It is never
// dereferenced.
const Public = "https://www.w3.org/ns/activitystreams#Public"

// IsPublic reports whether addr names the public audience, accepting the
// compact forms used by some implementations.
func IsPublic(addr string) bool {
	switch addr {
	case Public, "as:Public", "Public":
		return true
	}
	return false
}

// ParseAddress validates raw as an absolute http(s) URL with a host and
// returns its normalized form.
func ParseAddress(raw string) (string, error) {
	u, err := parseURL(raw)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func parseURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, InvalidAddressError{Address: raw, Reason: "address cannot be empty"}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, InvalidAddressError{Address: raw, Reason: err.Error()}
	}

	if !u.IsAbs() {
		return nil, InvalidAddressError{Address: raw, Reason: "address must be absolute"}
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, InvalidAddressError{Address: raw, Reason: "unsupported scheme " + u.Scheme}
	}

	if u.Opaque != "" || u.Hostname() == "" {
		return nil, InvalidAddressError{Address: raw, Reason: "missing domain"}
	}

	u.Host = strings.ToLower(u.Host)
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		u.Host = strings.TrimSuffix(u.Host, ":"+port)
	}

	if u.Path == "" && u.RawPath == "" {
		u.Path = "/"
	}

	return u, nil
}

// GenerateObjectID derives a fresh identifier on the given domain.
func GenerateObjectID[T any](scheme, domain string) (ObjectID[T], error) {
	if scheme == "" {
		scheme = "https"
	}
	u := &url.URL{
		Scheme: scheme,
		Host:   domain,
		Path:   "/objects/" + uuid.NewString(),
	}
	return ParseObjectID[T](u.String())
}

func sameDomain(a, b string) bool {
	return strings.EqualFold(a, b)
}
