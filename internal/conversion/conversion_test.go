package conversion

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/totegamma/apub-playground"
	"github.com/totegamma/apub-playground/internal/domain"
	"github.com/totegamma/apub-playground/internal/store"
	"github.com/totegamma/apub-playground/schemas"
)

type mockActorResolver struct {
	actors map[string]domain.Actor
	err    error
}

func (m *mockActorResolver) Resolve(ctx context.Context, id apub.ObjectID[domain.Actor]) (domain.Actor, error) {
	if m.err != nil {
		return domain.Actor{}, m.err
	}
	actor, ok := m.actors[id.String()]
	if !ok {
		return domain.Actor{}, apub.NotFoundError{Resource: id.String()}
	}
	return actor, nil
}

func setup(t *testing.T) (*PostConverter, domain.Actor, *store.Memory[domain.Post]) {
	t.Helper()
	alice, err := domain.NewActor("alice", "https", "local.example")
	require.NoError(t, err)

	posts := store.NewPostMemory()
	resolver := &mockActorResolver{actors: map[string]domain.Actor{alice.ID.String(): alice}}
	return NewPostConverter(posts, resolver), alice, posts
}

func TestPostToWireAudience(t *testing.T) {
	conv, alice, _ := setup(t)

	post, err := domain.NewPost("hello", alice.ID, "https")
	require.NoError(t, err)

	note, err := conv.ToWire(context.Background(), post)
	require.NoError(t, err)

	assert.Equal(t, schemas.NoteType, note.Kind)
	assert.Equal(t, post.ID, note.ID)
	assert.Equal(t, alice.ID, note.AttributedTo)
	assert.Equal(t, "hello", note.Content)
	assert.Equal(t, apub.Audience{apub.Public, "https://local.example/users/alice/followers"}, note.To)
}

func TestPostRoundTrip(t *testing.T) {
	conv, alice, posts := setup(t)
	ctx := context.Background()

	post, err := domain.NewPost("round trip", alice.ID, "https")
	require.NoError(t, err)

	note, err := conv.ToWire(ctx, post)
	require.NoError(t, err)

	back, err := conv.FromWire(ctx, note)
	require.NoError(t, err)

	assert.Equal(t, post.ID, back.ID)
	assert.Equal(t, post.Creator, back.Creator)
	assert.Equal(t, post.Text, back.Text)
	assert.False(t, back.Local)
	assert.Equal(t, 1, posts.Len())
}

func TestPostToWireResolverErrorsPropagate(t *testing.T) {
	posts := store.NewPostMemory()
	creator := apub.MustParseObjectID[domain.Actor]("https://remote.example/users/bob")
	post := domain.Post{
		ID:      apub.MustParseObjectID[domain.Post]("https://remote.example/objects/1"),
		Creator: creator,
	}

	for _, want := range []error{
		apub.FetchError{URL: creator.String(), StatusCode: 502},
		apub.NotFoundError{Resource: creator.String()},
		apub.ValidationError{Field: "inbox"},
	} {
		conv := NewPostConverter(posts, &mockActorResolver{err: want})
		_, err := conv.ToWire(context.Background(), post)
		assert.Equal(t, want, err)
	}
}

func TestPostToWireWithoutFollowers(t *testing.T) {
	bob := domain.Actor{ID: apub.MustParseObjectID[domain.Actor]("https://remote.example/users/bob")}
	conv := NewPostConverter(store.NewPostMemory(), &mockActorResolver{
		actors: map[string]domain.Actor{bob.ID.String(): bob},
	})

	_, err := conv.ToWire(context.Background(), domain.Post{
		ID:      apub.MustParseObjectID[domain.Post]("https://remote.example/objects/1"),
		Creator: bob.ID,
	})
	assert.True(t, errors.Is(err, apub.ErrValidationFailed))
}

func TestPostFromWireConcurrent(t *testing.T) {
	const n = 100
	conv, _, posts := setup(t)
	ctx := context.Background()

	var g errgroup.Group
	for i := 0; i < n; i++ {
		note := domain.Note{
			Kind:         schemas.NoteType,
			ID:           apub.MustParseObjectID[domain.Post](fmt.Sprintf("https://remote.example/objects/%d", i)),
			AttributedTo: apub.MustParseObjectID[domain.Actor]("https://remote.example/users/bob"),
			To:           apub.Audience{apub.Public},
			Content:      fmt.Sprintf("note %d", i),
		}
		g.Go(func() error {
			_, err := conv.FromWire(ctx, note)
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, n, posts.Len())
}

func TestPostFromWireKeepsStoredPost(t *testing.T) {
	conv, _, posts := setup(t)
	ctx := context.Background()

	note := domain.Note{
		Kind:         schemas.NoteType,
		ID:           apub.MustParseObjectID[domain.Post]("https://remote.example/objects/1"),
		AttributedTo: apub.MustParseObjectID[domain.Actor]("https://remote.example/users/bob"),
		To:           apub.Audience{apub.Public},
		Content:      "original",
	}
	_, err := conv.FromWire(ctx, note)
	require.NoError(t, err)

	note.Content = "rewritten"
	_, err = conv.FromWire(ctx, note)
	require.NoError(t, err)

	got, ok, err := conv.ReadLocal(ctx, note.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "original", got.Text)
	assert.Equal(t, 1, posts.Len())
}

func TestPostReadLocal(t *testing.T) {
	conv, alice, posts := setup(t)
	ctx := context.Background()

	post, err := domain.NewPost("stored", alice.ID, "https")
	require.NoError(t, err)
	require.NoError(t, posts.Insert(ctx, post))

	got, ok, err := conv.ReadLocal(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, post, got)

	_, ok, err = conv.ReadLocal(ctx, apub.MustParseObjectID[domain.Post]("https://local.example/objects/none"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestActorRoundTrip(t *testing.T) {
	actors := store.NewActorMemory()
	conv := NewActorConverter(actors)
	ctx := context.Background()

	alice, err := domain.NewActor("alice", "https", "local.example")
	require.NoError(t, err)

	person, err := conv.ToWire(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, schemas.PersonType, person.Kind)
	assert.Equal(t, "alice", person.PreferredUsername)
	assert.Equal(t, "https://local.example/users/alice/inbox", person.Inbox)

	back, err := conv.FromWire(ctx, person)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, back.ID)
	assert.Equal(t, alice.Followers, back.Followers)
	assert.False(t, back.Local)

	_, ok, err := conv.ReadLocal(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}
