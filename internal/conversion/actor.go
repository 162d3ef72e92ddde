package conversion

import (
	"context"
	"errors"

	"github.com/totegamma/apub-playground"
	"github.com/totegamma/apub-playground/internal/domain"
	"github.com/totegamma/apub-playground/internal/store"
	"github.com/totegamma/apub-playground/schemas"
)

// ActorConverter maps Actor <-> Person.
type ActorConverter struct {
	actors store.Store[domain.Actor]
}

func NewActorConverter(actors store.Store[domain.Actor]) *ActorConverter {
	return &ActorConverter{actors: actors}
}

func (c *ActorConverter) Kind() string {
	return schemas.PersonType
}

func (c *ActorConverter) ToWire(ctx context.Context, actor domain.Actor) (domain.Person, error) {
	return domain.Person{
		Context:           schemas.ContextURL,
		Kind:              schemas.PersonType,
		ID:                actor.ID,
		PreferredUsername: actor.Name,
		Inbox:             actor.Inbox,
		Followers:         actor.Followers,
	}, nil
}

func (c *ActorConverter) FromWire(ctx context.Context, person domain.Person) (domain.Actor, error) {
	actor := domain.Actor{
		ID:        person.ID,
		Name:      person.PreferredUsername,
		Inbox:     person.Inbox,
		Followers: person.Followers,
		Local:     false,
	}

	if err := c.actors.Insert(ctx, actor); err != nil {
		return domain.Actor{}, err
	}
	return actor, nil
}

func (c *ActorConverter) ReadLocal(ctx context.Context, id apub.ObjectID[domain.Actor]) (domain.Actor, bool, error) {
	actor, err := c.actors.Get(ctx, id.String())
	if err != nil {
		if errors.Is(err, apub.ErrNotFound) {
			return domain.Actor{}, false, nil
		}
		return domain.Actor{}, false, err
	}
	return actor, true, nil
}

var _ apub.Converter[domain.Actor, domain.Person] = (*ActorConverter)(nil)
