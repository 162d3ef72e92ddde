package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/totegamma/apub-playground"
	"github.com/totegamma/apub-playground/internal/domain"
	"github.com/totegamma/apub-playground/internal/store"
)

type postFixture struct {
	uc        *PostUsecase
	posts     *store.Memory[domain.Post]
	publisher *mockPublisher
	alice     domain.Actor
}

func newPostFixture(t *testing.T) postFixture {
	t.Helper()
	alice, err := domain.NewActor("alice", testNode.Scheme, testNode.Domain)
	if err != nil {
		t.Fatalf("NewActor: %v", err)
	}

	posts := store.NewPostMemory()
	actors := &mockActorResolver{actors: map[string]domain.Actor{alice.ID.String(): alice}}
	publisher := &mockPublisher{}
	uc := NewPostUsecase(
		testNode,
		posts,
		&mockPostResolver{posts: posts},
		actors,
		&mockPostConverter{posts: posts},
		publisher,
		nil,
	)
	return postFixture{uc: uc, posts: posts, publisher: publisher, alice: alice}
}

const remoteNote = `{
	"@context": "https://www.w3.org/ns/activitystreams",
	"type": "Note",
	"id": "https://remote.example/objects/1",
	"attributedTo": "https://remote.example/users/bob",
	"to": "https://www.w3.org/ns/activitystreams#Public",
	"content": "hi from remote"
}`

func TestPostCreate(t *testing.T) {
	f := newPostFixture(t)

	post, err := f.uc.Create(context.Background(), "hello", f.alice.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !post.Local {
		t.Fatalf("expected local post")
	}
	if !post.ID.IsLocal(testNode.Domain) {
		t.Fatalf("expected id on local domain, got %s", post.ID)
	}
	if f.posts.Len() != 1 {
		t.Fatalf("expected 1 stored post, got %d", f.posts.Len())
	}
	if len(f.publisher.events) != 1 || f.publisher.events[0].Type != domain.EventCreated {
		t.Fatalf("expected created event, got %+v", f.publisher.events)
	}
}

func TestPostCreateRejectsRemoteCreator(t *testing.T) {
	f := newPostFixture(t)

	_, err := f.uc.Create(context.Background(), "hello", "https://remote.example/users/bob")
	if !errors.Is(err, apub.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.posts.Len() != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestPostCreateUnknownCreator(t *testing.T) {
	f := newPostFixture(t)

	_, err := f.uc.Create(context.Background(), "hello", "https://local.example/users/nobody")
	if !errors.Is(err, apub.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPostCreateInvalidCreator(t *testing.T) {
	f := newPostFixture(t)

	_, err := f.uc.Create(context.Background(), "hello", "users/alice")
	if !errors.Is(err, apub.ErrInvalidAddress) {
		t.Fatalf("expected invalid address, got %v", err)
	}
}

func TestPostCreatePublishFailureIsIgnored(t *testing.T) {
	f := newPostFixture(t)
	f.publisher.err = errors.New("redis down")

	if _, err := f.uc.Create(context.Background(), "hello", f.alice.ID.String()); err != nil {
		t.Fatalf("publish failures must not fail creation: %v", err)
	}
}

func TestPostReceive(t *testing.T) {
	f := newPostFixture(t)

	post, err := f.uc.Receive(context.Background(), []byte(remoteNote))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.ID.String() != "https://remote.example/objects/1" {
		t.Fatalf("unexpected id %s", post.ID)
	}
	if _, err := f.posts.Get(context.Background(), post.ID.String()); err != nil {
		t.Fatalf("expected stored post: %v", err)
	}
	if len(f.publisher.events) != 1 || f.publisher.events[0].Type != domain.EventReceived {
		t.Fatalf("expected received event, got %+v", f.publisher.events)
	}
}

func TestPostReceiveRejected(t *testing.T) {
	cases := map[string]struct {
		payload string
		want    error
	}{
		"wrong type":     {`{"type":"Foo","id":"https://remote.example/objects/1","attributedTo":"https://remote.example/users/bob","to":[],"content":""}`, apub.ErrValidationFailed},
		"not json":       {`<html></html>`, apub.ErrDecodeFailed},
		"missing author": {`{"type":"Note","id":"https://remote.example/objects/1","to":[],"content":""}`, apub.ErrValidationFailed},
		"local id":       {`{"type":"Note","id":"https://local.example/objects/1","attributedTo":"https://remote.example/users/bob","to":[],"content":""}`, apub.ErrValidationFailed},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newPostFixture(t)
			_, err := f.uc.Receive(context.Background(), []byte(tc.payload))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if f.posts.Len() != 0 {
				t.Fatalf("rejected payload must not be stored")
			}
		})
	}
}

func TestPostOutboundMany(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	a, err := f.uc.Create(ctx, "first", f.alice.ID.String())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := f.uc.Create(ctx, "second", f.alice.ID.String())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	notes, err := f.uc.OutboundMany(ctx, []string{b.ID.String(), a.ID.String()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 2 || notes[0].Content != "second" || notes[1].Content != "first" {
		t.Fatalf("unexpected notes %+v", notes)
	}

	if _, err := f.uc.OutboundMany(ctx, []string{"nope"}); !errors.Is(err, apub.ErrInvalidAddress) {
		t.Fatalf("expected invalid address, got %v", err)
	}
}
