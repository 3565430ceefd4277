// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import "github.com/rs/zerolog"

// Result is the outcome of an optional external call: either the items it
// returned or the error that stopped it. Handlers treat a failed Result
// like an empty one but can still tell the two apart.
type Result[T any] struct {
	Items []T
	Err   error
}

// Collect wraps a call's return values in a Result. A failure is logged
// at warn level under op.
func Collect[T any](log zerolog.Logger, op string, items []T, err error) Result[T] {
	if err != nil {
		log.Warn().Err(err).Str("op", op).Msg("optional call failed, continuing without results")
		return Result[T]{Err: err}
	}
	return Result[T]{Items: items}
}

// Empty reports whether there is nothing to work with, either because the
// call failed or because it returned no items.
func (r Result[T]) Empty() bool {
	return len(r.Items) == 0
}
