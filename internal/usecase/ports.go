package usecase

import (
	"context"
	"time"

	"github.com/totegamma/apub-playground"
	"github.com/totegamma/apub-playground/internal/domain"
)

// PostResolver dereferences post identifiers.
type PostResolver interface {
	Resolve(ctx context.Context, id apub.ObjectID[domain.Post]) (domain.Post, error)
	ResolveAll(ctx context.Context, ids []apub.ObjectID[domain.Post]) ([]domain.Post, error)
}

// ActorResolver dereferences actor identifiers.
type ActorResolver interface {
	Resolve(ctx context.Context, id apub.ObjectID[domain.Actor]) (domain.Actor, error)
}

// PostConverter maps posts to and from notes.
type PostConverter interface {
	ToWire(ctx context.Context, post domain.Post) (domain.Note, error)
	FromWire(ctx context.Context, note domain.Note) (domain.Post, error)
}

// ActorConverter maps actors to and from persons.
type ActorConverter interface {
	ToWire(ctx context.Context, actor domain.Actor) (domain.Person, error)
	FromWire(ctx context.Context, person domain.Person) (domain.Actor, error)
}

// Publisher broadcasts events about stored objects.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Finger resolves user@domain handles to actor identifiers.
type Finger interface {
	Webfinger(ctx context.Context, acct string) (string, error)
}

// InboundObserver records inbound delivery outcomes.
type InboundObserver interface {
	ObserveInbound(kind string, err error)
}

// NodeInfo is the part of the node configuration the use cases need.
type NodeInfo struct {
	Domain string
	Scheme string
}

func newEvent(kind, typ, id string) domain.Event {
	return domain.Event{
		Type:      typ,
		Kind:      kind,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}
