package cacheaside

import (
	"context"
	"encoding/json"

	"github.com/ehomehq/ehome/internal/cache"
)

// Page is one rendered page of a paginated query.
type Page struct {
	Payload    []byte
	TotalPages int
}

// PageLoader runs the store query for one page and renders it.
type PageLoader func(ctx context.Context) (Page, error)

// PageResult is a page payload and whether it came from or went into the bucket.
type PageResult struct {
	Payload json.RawMessage
	Outcome Outcome
	Stored  bool
}

// FetchPage serves page from bucket, or loads it and adds it to the bucket.
// Only pages within [1, TotalPages] are stored; each write also refreshes the
// bucket expiry so every page of a bucket expires together.
func (c *Cache) FetchPage(ctx context.Context, res Resource, bucket string, page int, load PageLoader) (PageResult, error) {
	field := cache.PageField(page)
	outcome := c.lookup(ctx, res, bucket+"#"+field, func() ([]byte, bool, error) {
		return c.store.HGet(ctx, bucket, field)
	})
	if outcome.hit {
		return PageResult{Payload: outcome.payload, Outcome: OutcomeHit}, nil
	}

	rendered, err := observeLoad(res, func() (Page, error) { return load(ctx) })
	if err != nil {
		return PageResult{}, err
	}

	result := PageResult{Payload: rendered.Payload, Outcome: outcome.kind}
	if page < 1 || page > rendered.TotalPages {
		return result, nil
	}

	if err := c.store.SetField(ctx, bucket, field, rendered.Payload, res.TTL); err != nil {
		c.writeFailed(res, bucket+"#"+field, err)
		return result, nil
	}
	result.Stored = true
	return result, nil
}
