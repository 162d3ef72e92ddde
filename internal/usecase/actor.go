package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/totegamma/apub-playground"
	"github.com/totegamma/apub-playground/internal/domain"
	"github.com/totegamma/apub-playground/internal/store"
	"github.com/totegamma/apub-playground/schemas"
)

type ActorUsecase struct {
	node      NodeInfo
	actors    store.Store[domain.Actor]
	resolver  ActorResolver
	conv      ActorConverter
	finger    Finger
	publisher Publisher
	logger    *zap.Logger
}

func NewActorUsecase(
	node NodeInfo,
	actors store.Store[domain.Actor],
	resolver ActorResolver,
	conv ActorConverter,
	finger Finger,
	publisher Publisher,
	logger *zap.Logger,
) *ActorUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActorUsecase{
		node:      node,
		actors:    actors,
		resolver:  resolver,
		conv:      conv,
		finger:    finger,
		publisher: publisher,
		logger:    logger,
	}
}

// Register creates a local actor.
func (uc *ActorUsecase) Register(ctx context.Context, name string) (domain.Actor, error) {
	ctx, span := tracer.Start(ctx, "Usecase.Actor.Register")
	defer span.End()

	if name == "" || strings.ContainsAny(name, "/@?#") {
		return domain.Actor{}, apub.ValidationError{Field: "name", Reason: "invalid actor name"}
	}

	actor, err := domain.NewActor(name, uc.node.Scheme, uc.node.Domain)
	if err != nil {
		return domain.Actor{}, err
	}

	_, err = uc.actors.Get(ctx, actor.ID.String())
	if err == nil {
		return domain.Actor{}, apub.ValidationError{Field: "name", Reason: name + " is already registered"}
	}
	if !errors.Is(err, apub.ErrNotFound) {
		return domain.Actor{}, err
	}

	if err := uc.actors.Insert(ctx, actor); err != nil {
		span.RecordError(pkgerrors.Wrap(err, "Usecase.Actor.Register: actors.Insert failed"))
		return domain.Actor{}, err
	}

	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, newEvent(schemas.PersonType, domain.EventCreated, actor.ID.String())); err != nil {
			uc.logger.Warn("failed to publish event", zap.String("id", actor.ID.String()), zap.Error(err))
		}
	}
	return actor, nil
}

// Get returns the local actor called name.
func (uc *ActorUsecase) Get(ctx context.Context, name string) (domain.Actor, error) {
	actor, err := domain.NewActor(name, uc.node.Scheme, uc.node.Domain)
	if err != nil {
		return domain.Actor{}, err
	}
	return uc.resolver.Resolve(ctx, actor.ID)
}

// Person returns the wire form of the local actor called name.
func (uc *ActorUsecase) Person(ctx context.Context, name string) (domain.Person, error) {
	actor, err := uc.Get(ctx, name)
	if err != nil {
		return domain.Person{}, err
	}
	return uc.conv.ToWire(ctx, actor)
}

func (uc *ActorUsecase) Receive(ctx context.Context, payload []byte) (domain.Actor, error) {
	ctx, span := tracer.Start(ctx, "Usecase.Actor.Receive")
	defer span.End()

	person, err := apub.Decode[domain.Person](payload, schemas.PersonType)
	if err != nil {
		span.RecordError(pkgerrors.Wrap(err, "Usecase.Actor.Receive: decode failed"))
		return domain.Actor{}, err
	}
	if person.ID.IsLocal(uc.node.Domain) {
		return domain.Actor{}, apub.ValidationError{Field: "id", Reason: "inbound person claims local id " + person.ID.String()}
	}

	actor, err := uc.conv.FromWire(ctx, person)
	if err != nil {
		span.RecordError(pkgerrors.Wrap(err, "Usecase.Actor.Receive: conv.FromWire failed"))
		return domain.Actor{}, err
	}

	uc.logger.Info("received person", zap.String("id", actor.ID.String()))
	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, newEvent(schemas.PersonType, domain.EventReceived, actor.ID.String())); err != nil {
			uc.logger.Warn("failed to publish event", zap.String("id", actor.ID.String()), zap.Error(err))
		}
	}
	return actor, nil
}

func (uc *ActorUsecase) Resolve(ctx context.Context, id string) (domain.Actor, error) {
	actorID, err := apub.ParseObjectID[domain.Actor](id)
	if err != nil {
		return domain.Actor{}, err
	}
	return uc.resolver.Resolve(ctx, actorID)
}

// Lookup resolves a user@domain handle.
func (uc *ActorUsecase) Lookup(ctx context.Context, acct string) (domain.Actor, error) {
	name, host, err := splitAcct(acct)
	if err != nil {
		return domain.Actor{}, err
	}

	if strings.EqualFold(host, uc.node.Domain) {
		return uc.Get(ctx, name)
	}

	if uc.finger == nil {
		return domain.Actor{}, apub.NotFoundError{Resource: "acct:" + name + "@" + host}
	}

	href, err := uc.finger.Webfinger(ctx, name+"@"+host)
	if err != nil {
		return domain.Actor{}, err
	}
	return uc.Resolve(ctx, href)
}

// Webfinger answers a webfinger query for a local actor.
func (uc *ActorUsecase) Webfinger(ctx context.Context, resource string) (apub.Webfinger, error) {
	name, host, err := splitAcct(resource)
	if err != nil {
		return apub.Webfinger{}, err
	}
	if !strings.EqualFold(host, uc.node.Domain) {
		return apub.Webfinger{}, apub.NotFoundError{Resource: resource}
	}

	actor, err := uc.Get(ctx, name)
	if err != nil {
		return apub.Webfinger{}, err
	}

	return apub.Webfinger{
		Subject: "acct:" + name + "@" + uc.node.Domain,
		Aliases: []string{actor.ID.String()},
		Links: []apub.WebfingerLink{
			{
				Rel:  "self",
				Type: schemas.ActivityJSON,
				Href: actor.ID.String(),
			},
		},
	}, nil
}

func splitAcct(acct string) (string, string, error) {
	acct = strings.TrimPrefix(acct, "acct:")
	acct = strings.TrimPrefix(acct, "@")
	if unescaped, err := url.QueryUnescape(acct); err == nil {
		acct = unescaped
	}
	name, host, ok := strings.Cut(acct, "@")
	if !ok || name == "" || host == "" {
		return "", "", apub.InvalidAddressError{Address: acct, Reason: "expected user@domain"}
	}
	return name, host, nil
}

// Outbound returns the wire form of the actor named by id.
func (uc *ActorUsecase) Outbound(ctx context.Context, id string) (domain.Person, error) {
	actor, err := uc.Resolve(ctx, id)
	if err != nil {
		return domain.Person{}, err
	}
	return uc.conv.ToWire(ctx, actor)
}
