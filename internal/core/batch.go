package core

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/licitaciones/internal/entity"
)

const DefaultBatchWorkers = 4

// Summary counts batch outcomes.
type Summary struct {
	Total            int
	Processed        int
	SkippedProcessed int
	SkippedClosed    int
	Failed           int
}

func (s *Summary) add(o Outcome) {
	s.Total++
	switch o {
	case OutcomeProcessed:
		s.Processed++
	case OutcomeSkippedProcessed:
		s.SkippedProcessed++
	case OutcomeSkippedClosed:
		s.SkippedClosed++
	case OutcomeFailed:
		s.Failed++
	}
}

// Batch processes docs with at most workers in flight. A failing document
// does not stop the others; results are returned in input order. The error
// is non-nil only when ctx ends before every document was attempted.
func Batch(ctx context.Context, p *Processor, docs []entity.Document, workers int, force bool) ([]Result, Summary, error) {
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}
	results := make([]Result, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, doc := range docs {
		if gctx.Err() != nil {
			break
		}
		i, doc := i, doc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], _ = p.Process(gctx, Request{Document: doc, Force: force})
			return nil
		})
	}
	err := g.Wait()

	var sum Summary
	for i := range results {
		if results[i].Outcome == "" {
			continue
		}
		sum.add(results[i].Outcome)
	}
	if err == nil {
		err = ctx.Err()
	}
	return results, sum, err
}
