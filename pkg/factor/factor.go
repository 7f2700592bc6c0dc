// Package factor loads factor return tables such as the Fama-French factor
// sets.
package factor

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-alpha/pkg/frame"
)

// Source fetches a named factor set. The returned frame is indexed by
// midnight UTC calendar dates within [start, end] and has one column per
// factor.
type Source interface {
	FetchFactorSet(ctx context.Context, name string, start time.Time, end time.Time) (*frame.Frame, error)
}
