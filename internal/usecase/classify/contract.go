package classify

import "context"

// Completer generates chat completions.
type Completer interface {
	Complete(ctx context.Context, system, user string, jsonMode bool) (string, error)
}
