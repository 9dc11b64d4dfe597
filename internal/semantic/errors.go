package semantic

import "fmt"

// Side identifies which input of a comparison an error refers to
type Side string

const (
	SideSource Side = "source"
	SideTarget Side = "target"
)

// InsufficientContentError is returned when a text has no sentence long enough
// to embed, so its document embedding is undefined.
type InsufficientContentError struct {
	Side Side
}

func (e *InsufficientContentError) Error() string {
	return fmt.Sprintf("insufficient content: %s text has no sentence longer than %d characters", e.Side, minSentenceLength)
}
