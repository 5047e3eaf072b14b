package teascout

import (
	"context"

	"github.com/teascout/teascout/events"
)

// Hook receives every event of a workflow run, the typed final result, and a
// close notification once the run is finished.
type Hook[T any] interface {
	events.Hook[T]
	OnClose(context.Context)
}
