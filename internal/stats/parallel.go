package stats

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/bgricker/teststat/internal/record"
)

// AggregateParallel aggregates recs across workers shards keyed by build id.
// Every execution of a build lands in the same shard in source order, so the
// result matches a sequential pass. workers <= 1 aggregates inline, and no
// more shards than records are created.
func AggregateParallel(ctx context.Context, recs []record.Execution, workers int, opts Options) (*Aggregator, error) {
	workers = min(workers, len(recs))
	if workers <= 1 {
		agg := New(opts)
		agg.Absorb(recs)
		return agg, ctx.Err()
	}

	shards := make([][]record.Execution, workers)
	for _, rec := range recs {
		i := int(uint64(rec.BuildID) % uint64(workers))
		shards[i] = append(shards[i], rec)
	}

	results := make([]*Aggregator, workers)
	g, gctx := errgroup.WithContext(ctx)
	for i := range shards {
		g.Go(func() error {
			agg := New(opts)
			for _, rec := range shards[i] {
				if err := gctx.Err(); err != nil {
					return err
				}
				agg.Add(rec)
			}
			results[i] = agg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	root := New(opts)
	for _, agg := range results {
		root.Merge(agg)
	}
	return root, nil
}
