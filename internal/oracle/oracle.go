// Package oracle provides scaling oracle clients. The oracle owns the
// subject-to-scaled-score transform; everything here only transports or
// tabulates it. Errors are ordinary return values meaning "no score for this
// value", never a reason to abort a batch.
package oracle

import "context"

// Client forward-transforms a (subject, raw value) pair into a scaled score.
type Client interface {
	Scale(ctx context.Context, subject, value string) (float64, error)
}
