package conversion

import (
	"context"
	"errors"

	"github.com/totegamma/apub-playground"
	"github.com/totegamma/apub-playground/internal/domain"
	"github.com/totegamma/apub-playground/internal/store"
	"github.com/totegamma/apub-playground/schemas"
)

// ActorResolver dereferences actor identifiers, locally or remotely.
type ActorResolver interface {
	Resolve(ctx context.Context, id apub.ObjectID[domain.Actor]) (domain.Actor, error)
}

// PostConverter maps Post <-> Note.
type PostConverter struct {
	posts  store.Store[domain.Post]
	actors ActorResolver
}

func NewPostConverter(posts store.Store[domain.Post], actors ActorResolver) *PostConverter {
	return &PostConverter{
		posts:  posts,
		actors: actors,
	}
}

func (c *PostConverter) Kind() string {
	return schemas.NoteType
}

// ToWire builds the Note for post. The audience is always the public
// collection followed by the creator's followers.
func (c *PostConverter) ToWire(ctx context.Context, post domain.Post) (domain.Note, error) {
	creator, err := c.actors.Resolve(ctx, post.Creator)
	if err != nil {
		return domain.Note{}, err
	}

	followers, err := creator.FollowersURL()
	if err != nil {
		return domain.Note{}, err
	}

	return domain.Note{
		Context:      schemas.ContextURL,
		Kind:         schemas.NoteType,
		ID:           post.ID,
		AttributedTo: post.Creator,
		To:           apub.Audience{apub.Public, followers},
		Content:      post.Text,
	}, nil
}

// FromWire stores the note as a federated post. Inbound objects are never
// treated as locally authored.
func (c *PostConverter) FromWire(ctx context.Context, note domain.Note) (domain.Post, error) {
	post := domain.Post{
		ID:      note.ID,
		Creator: note.AttributedTo,
		Text:    note.Content,
		Local:   false,
	}

	if err := c.posts.Insert(ctx, post); err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

func (c *PostConverter) ReadLocal(ctx context.Context, id apub.ObjectID[domain.Post]) (domain.Post, bool, error) {
	post, err := c.posts.Get(ctx, id.String())
	if err != nil {
		if errors.Is(err, apub.ErrNotFound) {
			return domain.Post{}, false, nil
		}
		return domain.Post{}, false, err
	}
	return post, true, nil
}

var _ apub.Converter[domain.Post, domain.Note] = (*PostConverter)(nil)
