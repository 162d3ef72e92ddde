package apub

import (
	"encoding/json"
	"net/url"
)

// ObjectID names an object of kind T anywhere in the federation.
//
// T is a phantom tag: it is never stored, but ObjectID[domain.Post] and
// ObjectID[domain.Actor] are different types, so an actor identifier cannot be
// passed where a post identifier is expected without an explicit Cast.
// The zero value is an unset identifier.
type ObjectID[T any] struct {
	href   string
	domain string
}

// ParseObjectID validates and normalizes raw.
func ParseObjectID[T any](raw string) (ObjectID[T], error) {
	u, err := parseURL(raw)
	if err != nil {
		return ObjectID[T]{}, err
	}
	return ObjectID[T]{href: u.String(), domain: u.Host}, nil
}

// NewObjectID wraps an already parsed URL.
func NewObjectID[T any](u *url.URL) (ObjectID[T], error) {
	if u == nil {
		return ObjectID[T]{}, InvalidAddressError{Reason: "address cannot be empty"}
	}
	return ParseObjectID[T](u.String())
}

// MustParseObjectID is like ParseObjectID but panics on error.
func MustParseObjectID[T any](raw string) ObjectID[T] {
	id, err := ParseObjectID[T](raw)
	if err != nil {
		panic(err)
	}
	return id
}

// Cast reinterprets an identifier as naming a different kind.
func Cast[U, T any](id ObjectID[T]) ObjectID[U] {
	return ObjectID[U]{href: id.href, domain: id.domain}
}

func (id ObjectID[T]) String() string {
	return id.href
}

// URL returns a fresh copy of the underlying address.
func (id ObjectID[T]) URL() *url.URL {
	u, err := url.Parse(id.href)
	if err != nil {
		return &url.URL{}
	}
	return u
}

// Domain returns the owning domain (host and non-default port).
func (id ObjectID[T]) Domain() string {
	return id.domain
}

// IsLocal reports whether the identifier belongs to the given domain.
func (id ObjectID[T]) IsLocal(localDomain string) bool {
	return !id.IsZero() && sameDomain(id.domain, localDomain)
}

func (id ObjectID[T]) IsZero() bool {
	return id.href == ""
}

func (id ObjectID[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.href)
}

func (id *ObjectID[T]) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return InvalidAddressError{Address: string(data), Reason: "address must be a string"}
	}
	parsed, err := ParseObjectID[T](raw)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
