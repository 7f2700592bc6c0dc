package provider

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-alpha/internal/types"
)

// Router sends each ticker to a dedicated provider when one is registered and
// to the fallback otherwise. It lets the risk-free series come from a rates
// source while instruments come from a market data vendor.
type Router struct {
	fallback Provider
	routes   map[string]Provider
}

// NewRouter creates a Router over fallback.
func NewRouter(fallback Provider) *Router {
	return &Router{
		fallback: fallback,
		routes:   make(map[string]Provider),
	}
}

// Route sends ticker to p.
func (r *Router) Route(ticker string, p Provider) *Router {
	r.routes[ticker] = p

	return r
}

// Fetch implements Provider.
func (r *Router) Fetch(ctx context.Context, ticker string, startDate time.Time, endDate time.Time) (optional.Option[types.RawTable], error) {
	if p, ok := r.routes[ticker]; ok {
		return p.Fetch(ctx, ticker, startDate, endDate)
	}

	return r.fallback.Fetch(ctx, ticker, startDate, endDate)
}
