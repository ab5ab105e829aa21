package filter

import (
	"context"
	"fmt"

	"github.com/hupe1980/crumbtrail/internal/breadcrumb"
)

// ActionFilter is the interface for all before-action filters.
type ActionFilter interface {
	// BeforeAction runs before the request's action. A returned error aborts
	// the chain.
	BeforeAction(ctx context.Context, req *breadcrumb.Request) error
}

// ActionFilterFunc adapts a function to ActionFilter.
type ActionFilterFunc func(ctx context.Context, req *breadcrumb.Request) error

// BeforeAction calls fn(ctx, req).
func (fn ActionFilterFunc) BeforeAction(ctx context.Context, req *breadcrumb.Request) error {
	return fn(ctx, req)
}

// Result holds the outcome of a chain application.
type Result struct {
	// Applied names the filters that ran, in order.
	Applied []string
}

// Chain applies filters sequentially.
type Chain struct {
	filters []ActionFilter
}

// NewChain creates a filter chain from the given filters.
func NewChain(filters ...ActionFilter) *Chain {
	return &Chain{filters: filters}
}

// Append adds filters to the end of the chain.
func (c *Chain) Append(filters ...ActionFilter) {
	c.filters = append(c.filters, filters...)
}

// Len returns the number of filters in the chain.
func (c *Chain) Len() int { return len(c.filters) }

// Apply runs all filters in order. It stops at the first error, which is
// returned wrapped with the failing filter's name.
func (c *Chain) Apply(ctx context.Context, req *breadcrumb.Request) (*Result, error) {
	r := &Result{}

	for _, f := range c.filters {
		select {
		case <-ctx.Done():
			return r, ctx.Err()
		default:
		}

		name := Name(f)
		if err := f.BeforeAction(ctx, req); err != nil {
			return r, fmt.Errorf("filter %s: %w", name, err)
		}

		r.Applied = append(r.Applied, name)
	}

	return r, nil
}

// Name returns a filter's display name: its String method if it has one,
// otherwise its type.
func Name(f ActionFilter) string {
	if s, ok := f.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("%T", f)
}
