package store

import "github.com/totegamma/apub-playground/internal/domain"

// NewPostMemory returns a post store. Posts are never rewritten once stored.
func NewPostMemory() *Memory[domain.Post] {
	return NewMemory(func(p domain.Post) string { return p.ID.String() })
}

// NewActorMemory returns an actor store that refreshes an actor on re-insert,
// matching the upsert done by the Postgres repository.
func NewActorMemory() *Memory[domain.Actor] {
	return NewMemory(func(a domain.Actor) string { return a.ID.String() }, WithReplace[domain.Actor]())
}
