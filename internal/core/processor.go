// Package core wires extraction, eligibility and persistence for one
// document at a time, and in bounded batches.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/licitaciones/internal/eligibility"
	"github.com/joseph-ayodele/licitaciones/internal/entity"
	"github.com/joseph-ayodele/licitaciones/internal/extract"
	"github.com/joseph-ayodele/licitaciones/internal/metrics"
)

// Extractor produces a fully populated record from document text.
type Extractor interface {
	Extract(ctx context.Context, in extract.Input) entity.ExtractedRecord
}

// Sink persists processed documents. repository.Store satisfies it.
type Sink interface {
	IsProcessed(ctx context.Context, emailID string) (bool, error)
	Upsert(ctx context.Context, l *entity.Licitacion) (*entity.Licitacion, error)
}

type Outcome string

const (
	OutcomeProcessed        Outcome = "processed"
	OutcomeSkippedProcessed Outcome = "skipped_processed"
	OutcomeSkippedClosed    Outcome = "skipped_closed"
	OutcomeFailed           Outcome = "failed"
)

// Request is one unit of work. Force reprocesses a document the sink has
// already seen.
type Request struct {
	Document entity.Document
	Force    bool
}

// Result reports what happened to one document. Licitacion is set whenever
// extraction ran, even if the record was not stored.
type Result struct {
	Path       string
	EmailID    string
	Outcome    Outcome
	Licitacion *entity.Licitacion
	Err        error
}

// Processor coordinates extraction, the open-bidding check and the sink.
type Processor struct {
	extractor Extractor
	sink      Sink
	eval      eligibility.Evaluator
	openOnly  bool
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type ProcessorOption func(*Processor)

// WithOpenOnly skips persisting biddings whose close date has passed.
func WithOpenOnly(v bool) ProcessorOption {
	return func(p *Processor) { p.openOnly = v }
}

// WithEvaluator replaces the wall-clock eligibility evaluator.
func WithEvaluator(e eligibility.Evaluator) ProcessorOption {
	return func(p *Processor) { p.eval = e }
}

// WithMetrics records document outcomes on m.
func WithMetrics(m *metrics.Metrics) ProcessorOption {
	return func(p *Processor) { p.metrics = m }
}

// NewProcessor builds a processor. sink may be nil for dry runs, in which
// case nothing is deduplicated or stored.
func NewProcessor(extractor Extractor, sink Sink, logger *slog.Logger, opts ...ProcessorOption) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{extractor: extractor, sink: sink, logger: logger}
	for _, o := range opts {
		o(p)
	}
	if p.eval.Logger == nil {
		p.eval.Logger = logger
	}
	return p
}

// Process runs one document through extraction and into the sink. The
// returned error mirrors Result.Err.
func (p *Processor) Process(ctx context.Context, req Request) (Result, error) {
	doc := req.Document
	res := Result{Path: doc.Path, EmailID: doc.Source.EmailID}
	start := time.Now()

	if p.sink != nil && !req.Force && doc.Source.EmailID != "" {
		done, err := p.sink.IsProcessed(ctx, doc.Source.EmailID)
		if err != nil {
			return p.fail(res, fmt.Errorf("check processed: %w", err))
		}
		if done {
			p.logger.Info("processor.skip.processed", "email_id", doc.Source.EmailID, "path", doc.Path)
			return p.finish(res, OutcomeSkippedProcessed), nil
		}
	}

	rec := p.extractor.Extract(ctx, extract.Input{
		Text:     doc.Text,
		Subject:  doc.Source.Subject,
		Filename: doc.Source.PDFFilename,
	})
	res.Licitacion = &entity.Licitacion{Source: doc.Source, Record: rec}

	if p.openOnly && !p.eval.IsOpen(rec.BiddingCloseDate) {
		p.logger.Info("processor.skip.closed", "email_id", doc.Source.EmailID, "close_date", rec.BiddingCloseDate)
		return p.finish(res, OutcomeSkippedClosed), nil
	}

	if p.sink != nil {
		saved, err := p.sink.Upsert(ctx, res.Licitacion)
		if err != nil {
			return p.fail(res, fmt.Errorf("store: %w", err))
		}
		res.Licitacion = saved
	}

	p.logger.Info("processor.done",
		"email_id", doc.Source.EmailID,
		"method", rec.ExtractionMethod,
		"confidence", rec.Confidence,
		"close_date", rec.BiddingCloseDate,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return p.finish(res, OutcomeProcessed), nil
}

func (p *Processor) finish(res Result, outcome Outcome) Result {
	res.Outcome = outcome
	p.metrics.RecordDocument(string(outcome))
	return res
}

func (p *Processor) fail(res Result, err error) (Result, error) {
	p.logger.Error("processor.failed", "email_id", res.EmailID, "path", res.Path, "error", err)
	res.Err = err
	return p.finish(res, OutcomeFailed), err
}
