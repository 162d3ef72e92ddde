package usecase

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/totegamma/apub-playground"
	"github.com/totegamma/apub-playground/internal/domain"
	"github.com/totegamma/apub-playground/internal/store"
	"github.com/totegamma/apub-playground/schemas"
)

var tracer = otel.Tracer("usecase")

type PostUsecase struct {
	node      NodeInfo
	posts     store.Store[domain.Post]
	resolver  PostResolver
	actors    ActorResolver
	conv      PostConverter
	publisher Publisher
	logger    *zap.Logger
}

func NewPostUsecase(
	node NodeInfo,
	posts store.Store[domain.Post],
	resolver PostResolver,
	actors ActorResolver,
	conv PostConverter,
	publisher Publisher,
	logger *zap.Logger,
) *PostUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostUsecase{
		node:      node,
		posts:     posts,
		resolver:  resolver,
		actors:    actors,
		conv:      conv,
		publisher: publisher,
		logger:    logger,
	}
}

// Create authors a new post for a local actor.
func (uc *PostUsecase) Create(ctx context.Context, text, creator string) (domain.Post, error) {
	ctx, span := tracer.Start(ctx, "Usecase.Post.Create")
	defer span.End()

	creatorID, err := apub.ParseObjectID[domain.Actor](creator)
	if err != nil {
		return domain.Post{}, err
	}
	if !creatorID.IsLocal(uc.node.Domain) {
		return domain.Post{}, apub.ValidationError{Field: "creator", Reason: "creator " + creatorID.String() + " is not a local actor"}
	}

	if _, err := uc.actors.Resolve(ctx, creatorID); err != nil {
		span.RecordError(errors.Wrap(err, "Usecase.Post.Create: actors.Resolve failed"))
		return domain.Post{}, err
	}

	post, err := domain.NewPost(text, creatorID, uc.node.Scheme)
	if err != nil {
		return domain.Post{}, err
	}

	if err := uc.posts.Insert(ctx, post); err != nil {
		span.RecordError(errors.Wrap(err, "Usecase.Post.Create: posts.Insert failed"))
		return domain.Post{}, err
	}

	uc.publish(ctx, newEvent(schemas.NoteType, domain.EventCreated, post.ID.String()))
	return post, nil
}

// Receive decodes, validates, converts and stores an inbound Note. Nothing
// is stored when any step fails.
func (uc *PostUsecase) Receive(ctx context.Context, payload []byte) (domain.Post, error) {
	ctx, span := tracer.Start(ctx, "Usecase.Post.Receive")
	defer span.End()

	note, err := apub.Decode[domain.Note](payload, schemas.NoteType)
	if err != nil {
		span.RecordError(errors.Wrap(err, "Usecase.Post.Receive: decode failed"))
		return domain.Post{}, err
	}
	if note.ID.IsLocal(uc.node.Domain) {
		return domain.Post{}, apub.ValidationError{Field: "id", Reason: "inbound note claims local id " + note.ID.String()}
	}

	post, err := uc.conv.FromWire(ctx, note)
	if err != nil {
		span.RecordError(errors.Wrap(err, "Usecase.Post.Receive: conv.FromWire failed"))
		return domain.Post{}, err
	}

	uc.logger.Info("received note",
		zap.String("id", post.ID.String()),
		zap.String("attributedTo", post.Creator.String()),
	)
	uc.publish(ctx, newEvent(schemas.NoteType, domain.EventReceived, post.ID.String()))
	return post, nil
}

// Outbound returns the wire form of the post named by id.
func (uc *PostUsecase) Outbound(ctx context.Context, id string) (domain.Note, error) {
	ctx, span := tracer.Start(ctx, "Usecase.Post.Outbound")
	defer span.End()

	post, err := uc.Resolve(ctx, id)
	if err != nil {
		return domain.Note{}, err
	}

	note, err := uc.conv.ToWire(ctx, post)
	if err != nil {
		span.RecordError(errors.Wrap(err, "Usecase.Post.Outbound: conv.ToWire failed"))
		return domain.Note{}, err
	}
	return note, nil
}

func (uc *PostUsecase) Resolve(ctx context.Context, id string) (domain.Post, error) {
	postID, err := apub.ParseObjectID[domain.Post](id)
	if err != nil {
		return domain.Post{}, err
	}
	return uc.resolver.Resolve(ctx, postID)
}

func (uc *PostUsecase) ResolveMany(ctx context.Context, ids []string) ([]domain.Post, error) {
	postIDs := make([]apub.ObjectID[domain.Post], 0, len(ids))
	for _, raw := range ids {
		id, err := apub.ParseObjectID[domain.Post](raw)
		if err != nil {
			return nil, err
		}
		postIDs = append(postIDs, id)
	}
	return uc.resolver.ResolveAll(ctx, postIDs)
}

func (uc *PostUsecase) publish(ctx context.Context, event domain.Event) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("failed to publish event", zap.String("id", event.ID), zap.Error(err))
	}
}

// OutboundMany resolves ids concurrently and returns their wire forms in the
// order of ids.
func (uc *PostUsecase) OutboundMany(ctx context.Context, ids []string) ([]domain.Note, error) {
	ctx, span := tracer.Start(ctx, "Usecase.Post.OutboundMany")
	defer span.End()

	posts, err := uc.ResolveMany(ctx, ids)
	if err != nil {
		span.RecordError(errors.Wrap(err, "Usecase.Post.OutboundMany: ResolveMany failed"))
		return nil, err
	}

	notes := make([]domain.Note, 0, len(posts))
	for _, post := range posts {
		note, err := uc.conv.ToWire(ctx, post)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}
