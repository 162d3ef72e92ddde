package schemas

const (
	ContextURL string = "https://www.w3.org/ns/activitystreams"
)

const (
	NoteType   string = "Note"
	PersonType string = "Person"
)

const (
	ActivityJSON string = "application/activity+json"
	LDJSON       string = `application/ld+json; profile="https://www.w3.org/ns/activitystreams"`
	JRDJSON      string = "application/jrd+json"
)
