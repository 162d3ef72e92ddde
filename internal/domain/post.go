package domain

import (
	"github.com/totegamma/apub-playground"
	"github.com/totegamma/apub-playground/schemas"
)

// Post is a short text object authored by an Actor.
// Posts are never mutated after creation.
type Post struct {
	ID      apub.ObjectID[Post]  `json:"id"`
	Creator apub.ObjectID[Actor] `json:"creator"`
	Text    string               `json:"text"`
	// Local is true when the post was authored on this instance.
	Local bool `json:"local"`
}

// NewPost creates a locally authored post with a fresh identifier on the
// creator's domain.
func NewPost(text string, creator apub.ObjectID[Actor], scheme string) (Post, error) {
	id, err := apub.GenerateObjectID[Post](scheme, creator.Domain())
	if err != nil {
		return Post{}, err
	}
	return Post{
		ID:      id,
		Creator: creator,
		Text:    text,
		Local:   true,
	}, nil
}

// Note is the wire form of a Post.
type Note struct {
	Context      any                  `json:"@context,omitempty"`
	Kind         string               `json:"type"`
	ID           apub.ObjectID[Post]  `json:"id"`
	AttributedTo apub.ObjectID[Actor] `json:"attributedTo"`
	To           apub.Audience        `json:"to"`
	Content      string               `json:"content"`
}

func (n Note) Address() string { return n.ID.String() }

func (n Note) RequiredFields() []string {
	return []string{"id", "attributedTo", "to", "content"}
}

func (n Note) Validate() error {
	if n.Kind != schemas.NoteType {
		return apub.ValidationError{Field: "type", Reason: "expected " + schemas.NoteType}
	}
	if n.ID.IsZero() {
		return apub.ValidationError{Field: "id", Reason: "missing required field"}
	}
	if n.AttributedTo.IsZero() {
		return apub.ValidationError{Field: "attributedTo", Reason: "missing required field"}
	}
	return nil
}
