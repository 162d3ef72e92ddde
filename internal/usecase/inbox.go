package usecase

import (
	"context"

	"github.com/totegamma/apub-playground"
	"github.com/totegamma/apub-playground/schemas"
)

// InboxUsecase dispatches inbound deliveries by their type discriminator.
type InboxUsecase struct {
	posts    *PostUsecase
	actors   *ActorUsecase
	observer InboundObserver
}

func NewInboxUsecase(posts *PostUsecase, actors *ActorUsecase, observer InboundObserver) *InboxUsecase {
	return &InboxUsecase{
		posts:    posts,
		actors:   actors,
		observer: observer,
	}
}

// Receive stores the object carried by payload and returns its kind and id.
func (uc *InboxUsecase) Receive(ctx context.Context, payload []byte) (string, string, error) {
	kind, err := apub.PeekKind(payload)
	if err != nil {
		uc.observe("unknown", err)
		return "", "", err
	}

	var id string
	switch kind {
	case schemas.NoteType:
		post, rerr := uc.posts.Receive(ctx, payload)
		id, err = post.ID.String(), rerr
	case schemas.PersonType:
		actor, rerr := uc.actors.Receive(ctx, payload)
		id, err = actor.ID.String(), rerr
	default:
		err = apub.ValidationError{Field: "type", Reason: "unsupported object type " + kind}
		kind = "unknown"
	}

	uc.observe(kind, err)
	if err != nil {
		return "", "", err
	}
	return kind, id, nil
}

func (uc *InboxUsecase) observe(kind string, err error) {
	if uc.observer != nil {
		uc.observer.ObserveInbound(kind, err)
	}
}
