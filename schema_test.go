package apub

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testNote struct {
	Kind    string             `json:"type"`
	ID      ObjectID[testPost] `json:"id"`
	To      Audience           `json:"to"`
	Content string             `json:"content"`
}

func (n testNote) Address() string { return n.ID.String() }

func (n testNote) RequiredFields() []string { return []string{"id", "to", "content"} }

func (n testNote) Validate() error {
	if n.ID.IsZero() {
		return ValidationError{Field: "id", Reason: "missing required field"}
	}
	return nil
}

func TestDecode(t *testing.T) {
	note, err := Decode[testNote]([]byte(`{
		"type": "Note",
		"id": "https://example.com/objects/1",
		"to": "https://example.com/users/alice/followers",
		"content": "hello",
		"sensitive": false
	}`), "Note")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/objects/1", note.ID.String())
	assert.Equal(t, Audience{"https://example.com/users/alice/followers"}, note.To)
	assert.Equal(t, "hello", note.Content)
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    error
	}{
		{"not json", `{"type":`, ErrDecodeFailed},
		{"not an object", `["Note"]`, ErrDecodeFailed},
		{"null", `null`, ErrDecodeFailed},
		{"wrong type", `{"type":"Foo","id":"https://example.com/objects/1","to":[],"content":""}`, ErrValidationFailed},
		{"missing type", `{"id":"https://example.com/objects/1","to":[],"content":""}`, ErrValidationFailed},
		{"type not a string", `{"type":1,"id":"https://example.com/objects/1","to":[],"content":""}`, ErrValidationFailed},
		{"missing field", `{"type":"Note","id":"https://example.com/objects/1","to":[]}`, ErrValidationFailed},
		{"bad id", `{"type":"Note","id":"objects/1","to":[],"content":""}`, ErrValidationFailed},
		{"bad field type", `{"type":"Note","id":"https://example.com/objects/1","to":[],"content":5}`, ErrValidationFailed},
		{"bad audience", `{"type":"Note","id":"https://example.com/objects/1","to":["nope"],"content":""}`, ErrValidationFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode[testNote]([]byte(tc.payload), "Note")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestDecodeMissingFieldNamesTheField(t *testing.T) {
	_, err := Decode[testNote]([]byte(`{"type":"Note","id":"https://example.com/objects/1","content":""}`), "Note")

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "to", verr.Field)
}

func TestPeekKind(t *testing.T) {
	kind, err := PeekKind([]byte(`{"type":"Person","id":"https://example.com/users/alice"}`))
	require.NoError(t, err)
	assert.Equal(t, "Person", kind)

	_, err = PeekKind([]byte(`not json`))
	assert.True(t, errors.Is(err, ErrDecodeFailed))

	_, err = PeekKind([]byte(`{}`))
	assert.True(t, errors.Is(err, ErrValidationFailed))
}
