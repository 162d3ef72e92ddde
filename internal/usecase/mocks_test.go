package usecase

import (
	"context"
	"sync"

	"github.com/totegamma/apub-playground"
	"github.com/totegamma/apub-playground/internal/domain"
	"github.com/totegamma/apub-playground/internal/store"
	"github.com/totegamma/apub-playground/schemas"
)

// --- mocks ---

type mockActorResolver struct {
	actors   map[string]domain.Actor
	resolved []string
}

func (m *mockActorResolver) Resolve(ctx context.Context, id apub.ObjectID[domain.Actor]) (domain.Actor, error) {
	m.resolved = append(m.resolved, id.String())
	actor, ok := m.actors[id.String()]
	if !ok {
		return domain.Actor{}, apub.NotFoundError{Resource: id.String()}
	}
	return actor, nil
}

type mockPostResolver struct {
	posts store.Store[domain.Post]
}

func (m *mockPostResolver) Resolve(ctx context.Context, id apub.ObjectID[domain.Post]) (domain.Post, error) {
	return m.posts.Get(ctx, id.String())
}

func (m *mockPostResolver) ResolveAll(ctx context.Context, ids []apub.ObjectID[domain.Post]) ([]domain.Post, error) {
	out := make([]domain.Post, 0, len(ids))
	for _, id := range ids {
		post, err := m.Resolve(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, post)
	}
	return out, nil
}

type mockPostConverter struct {
	posts store.Store[domain.Post]
}

func (m *mockPostConverter) ToWire(ctx context.Context, post domain.Post) (domain.Note, error) {
	return domain.Note{
		Kind:         schemas.NoteType,
		ID:           post.ID,
		AttributedTo: post.Creator,
		To:           apub.Audience{apub.Public},
		Content:      post.Text,
	}, nil
}

func (m *mockPostConverter) FromWire(ctx context.Context, note domain.Note) (domain.Post, error) {
	post := domain.Post{ID: note.ID, Creator: note.AttributedTo, Text: note.Content}
	return post, m.posts.Insert(ctx, post)
}

type mockActorConverter struct {
	actors store.Store[domain.Actor]
}

func (m *mockActorConverter) ToWire(ctx context.Context, actor domain.Actor) (domain.Person, error) {
	return domain.Person{
		Kind:              schemas.PersonType,
		ID:                actor.ID,
		PreferredUsername: actor.Name,
		Inbox:             actor.Inbox,
		Followers:         actor.Followers,
	}, nil
}

func (m *mockActorConverter) FromWire(ctx context.Context, person domain.Person) (domain.Actor, error) {
	actor := domain.Actor{
		ID:        person.ID,
		Name:      person.PreferredUsername,
		Inbox:     person.Inbox,
		Followers: person.Followers,
	}
	return actor, m.actors.Insert(ctx, actor)
}

type mockPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, event domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.err
}

type mockFinger struct {
	hrefs map[string]string
}

func (m *mockFinger) Webfinger(ctx context.Context, acct string) (string, error) {
	href, ok := m.hrefs[acct]
	if !ok {
		return "", apub.FetchError{URL: acct, StatusCode: 404}
	}
	return href, nil
}

type mockObserver struct {
	kinds    []string
	outcomes []error
}

func (m *mockObserver) ObserveInbound(kind string, err error) {
	m.kinds = append(m.kinds, kind)
	m.outcomes = append(m.outcomes, err)
}

var testNode = NodeInfo{Domain: "local.example", Scheme: "https"}
