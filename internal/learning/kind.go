package learning

import "fmt"

// Kind selects which word list a session is built from.
type Kind string

const (
	NewCollection    Kind = "new-collection"
	ReviewCollection Kind = "review-collection"
	NewTopic         Kind = "new-topic"
	ReviewTopic      Kind = "review-topic"
)

// ParseKind validates a kind received from the presentation layer.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case NewCollection, ReviewCollection, NewTopic, ReviewTopic:
		return k, nil
	default:
		return "", fmt.Errorf("unknown session kind %q", s)
	}
}

// Revision reports whether the session resurfaces already seen words.
// Revision sessions start directly in quiz mode.
func (k Kind) Revision() bool {
	return k == ReviewCollection || k == ReviewTopic
}

// Topic reports whether the id names a topic rather than a collection.
func (k Kind) Topic() bool {
	return k == NewTopic || k == ReviewTopic
}

func (k Kind) String() string {
	return string(k)
}
