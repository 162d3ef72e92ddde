package domain

import (
	"net/url"

	"github.com/totegamma/apub-playground"
	"github.com/totegamma/apub-playground/schemas"
)

// Actor is a user that authors posts, local or federated.
type Actor struct {
	ID        apub.ObjectID[Actor] `json:"id"`
	Name      string               `json:"name"`
	Inbox     string               `json:"inbox"`
	Followers string               `json:"followers"`
	Local     bool                 `json:"local"`
}

// NewActor creates a local actor whose addresses live under /users/<name>.
func NewActor(name, scheme, domain string) (Actor, error) {
	if name == "" {
		return Actor{}, apub.ValidationError{Field: "name", Reason: "missing required field"}
	}
	if scheme == "" {
		scheme = "https"
	}

	base := &url.URL{Scheme: scheme, Host: domain, Path: "/users/" + name}
	id, err := apub.NewObjectID[Actor](base)
	if err != nil {
		return Actor{}, err
	}

	return Actor{
		ID:        id,
		Name:      name,
		Inbox:     id.URL().JoinPath("inbox").String(),
		Followers: id.URL().JoinPath("followers").String(),
		Local:     true,
	}, nil
}

// FollowersURL returns the address of the actor's followers collection.
func (a Actor) FollowersURL() (string, error) {
	if a.Followers == "" {
		return "", apub.ValidationError{Field: "followers", Reason: "actor " + a.ID.String() + " has no followers collection"}
	}
	return apub.ParseAddress(a.Followers)
}

// Person is the wire form of an Actor.
type Person struct {
	Context           any                  `json:"@context,omitempty"`
	Kind              string               `json:"type"`
	ID                apub.ObjectID[Actor] `json:"id"`
	PreferredUsername string               `json:"preferredUsername"`
	Inbox             string               `json:"inbox"`
	Followers         string               `json:"followers"`
}

func (p Person) Address() string { return p.ID.String() }

func (p Person) RequiredFields() []string {
	return []string{"id", "inbox", "followers"}
}

func (p Person) Validate() error {
	if p.Kind != schemas.PersonType {
		return apub.ValidationError{Field: "type", Reason: "expected " + schemas.PersonType}
	}
	if p.ID.IsZero() {
		return apub.ValidationError{Field: "id", Reason: "missing required field"}
	}
	if _, err := apub.ParseAddress(p.Inbox); err != nil {
		return apub.ValidationError{Field: "inbox", Err: err}
	}
	if _, err := apub.ParseAddress(p.Followers); err != nil {
		return apub.ValidationError{Field: "followers", Err: err}
	}
	return nil
}
