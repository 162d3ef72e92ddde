package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/totegamma/apub-playground"
	"github.com/totegamma/apub-playground/internal/domain"
	"github.com/totegamma/apub-playground/internal/store"
	"github.com/totegamma/apub-playground/schemas"
)

func newInbox(t *testing.T) (*InboxUsecase, *mockObserver, *store.Memory[domain.Post], *store.Memory[domain.Actor]) {
	t.Helper()
	posts := store.NewPostMemory()
	actors := store.NewActorMemory()

	postUC := NewPostUsecase(testNode, posts, &mockPostResolver{posts: posts}, &mockActorResolver{}, &mockPostConverter{posts: posts}, nil, nil)
	actorUC := NewActorUsecase(testNode, actors, &mockActorResolver{}, &mockActorConverter{actors: actors}, nil, nil, nil)
	observer := &mockObserver{}
	return NewInboxUsecase(postUC, actorUC, observer), observer, posts, actors
}

func TestInboxDispatch(t *testing.T) {
	inbox, observer, posts, actors := newInbox(t)
	ctx := context.Background()

	kind, id, err := inbox.Receive(ctx, []byte(remoteNote))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != schemas.NoteType || id != "https://remote.example/objects/1" {
		t.Fatalf("unexpected result %s %s", kind, id)
	}

	person := `{"type":"Person","id":"https://remote.example/users/bob","inbox":"https://remote.example/users/bob/inbox","followers":"https://remote.example/users/bob/followers"}`
	kind, _, err = inbox.Receive(ctx, []byte(person))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != schemas.PersonType {
		t.Fatalf("unexpected kind %s", kind)
	}

	if posts.Len() != 1 || actors.Len() != 1 {
		t.Fatalf("expected one post and one actor, got %d and %d", posts.Len(), actors.Len())
	}
	if len(observer.kinds) != 2 || observer.outcomes[0] != nil || observer.outcomes[1] != nil {
		t.Fatalf("unexpected observations %+v %+v", observer.kinds, observer.outcomes)
	}
}

func TestInboxRejectsUnknownType(t *testing.T) {
	inbox, observer, posts, actors := newInbox(t)

	_, _, err := inbox.Receive(context.Background(), []byte(`{"type":"Foo","id":"https://remote.example/objects/1"}`))
	if !errors.Is(err, apub.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if posts.Len() != 0 || actors.Len() != 0 {
		t.Fatalf("nothing should be stored")
	}
	if len(observer.kinds) != 1 || observer.kinds[0] != "unknown" {
		t.Fatalf("unexpected observations %+v", observer.kinds)
	}
}

func TestInboxRejectsGarbage(t *testing.T) {
	inbox, _, _, _ := newInbox(t)

	_, _, err := inbox.Receive(context.Background(), []byte(`garbage`))
	if !errors.Is(err, apub.ErrDecodeFailed) {
		t.Fatalf("expected decode error, got %v", err)
	}
}
