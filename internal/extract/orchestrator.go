// Package extract turns raw notice text into a validated record, preferring
// the model-assisted strategy and falling back to the pattern library.
package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/licitaciones/constants"
	"github.com/joseph-ayodele/licitaciones/internal/classify"
	"github.com/joseph-ayodele/licitaciones/internal/entity"
	"github.com/joseph-ayodele/licitaciones/internal/llm"
	"github.com/joseph-ayodele/licitaciones/internal/metrics"
	"github.com/joseph-ayodele/licitaciones/internal/normalize"
	"github.com/joseph-ayodele/licitaciones/internal/patterns"
	"github.com/joseph-ayodele/licitaciones/internal/scoring"
)

const (
	DefaultMinConfidence = 50
	DefaultModelTimeout  = 60 * time.Second
)

// Config holds thresholds for the orchestrator.
type Config struct {
	MinConfidence int           // model records below this fall back; default 50
	ModelTimeout  time.Duration // per-call deadline; default 60s
	Now           func() time.Time
}

type Orchestrator struct {
	model   llm.FieldExtractor
	cfg     Config
	dates   normalize.Dates
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewOrchestrator builds an orchestrator. model may be nil, in which case
// every document takes the pattern path; m may be nil.
func NewOrchestrator(model llm.FieldExtractor, cfg Config, logger *slog.Logger, m *metrics.Metrics) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = DefaultMinConfidence
	}
	if cfg.ModelTimeout <= 0 {
		cfg.ModelTimeout = DefaultModelTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Orchestrator{
		model:   model,
		cfg:     cfg,
		dates:   normalize.Dates{Now: cfg.Now, Logger: logger},
		logger:  logger,
		metrics: m,
	}
}

// Extract always returns a fully populated record. Model failures of any
// kind, including ctx expiry, end in the pattern strategy.
func (o *Orchestrator) Extract(ctx context.Context, in Input) entity.ExtractedRecord {
	text := normalize.Text(in.Text)
	req := llm.ExtractRequest{Text: text, Subject: in.Subject, Filename: in.Filename}

	var (
		rec    entity.ExtractedRecord
		reason string
	)
	state := StateStart
	for state != StateDone {
		next := o.step(ctx, state, req, &rec, &reason)
		o.logger.Debug("extract.state", "from", state, "to", next, "filename", in.Filename)
		state = next
	}

	if rec.ExtractionMethod == constants.PatternBased {
		o.metrics.RecordFallback(reason)
		o.logger.Info("extract.fallback", "reason", reason, "filename", in.Filename, "confidence", rec.Confidence)
	} else {
		o.logger.Info("extract.model.ok", "filename", in.Filename, "confidence", rec.Confidence, "category", rec.Category)
	}
	o.metrics.RecordExtraction(string(rec.ExtractionMethod), rec.Confidence)
	return rec
}

func (o *Orchestrator) step(ctx context.Context, state State, req llm.ExtractRequest, rec *entity.ExtractedRecord, reason *string) State {
	switch state {
	case StateStart:
		if !o.modelEnabled() || strings.TrimSpace(req.Text) == "" {
			*reason = ReasonDisabled
			return StateTryPattern
		}
		return StateTryModel

	case StateTryModel:
		f, err := o.callModel(ctx, req)
		if err != nil {
			o.logger.Warn("extract.model.error", "error", err, "filename", req.Filename)
			*reason = ReasonModelError
			return StateTryPattern
		}
		*rec = o.fromModel(f)
		return StateValidateModel

	case StateValidateModel:
		warnings, err := ValidateModelRecord(*rec)
		if err != nil {
			o.logger.Warn("extract.model.rejected", "error", err, "filename", req.Filename)
			*reason = ReasonModelRejected
			return StateTryPattern
		}
		for _, w := range warnings {
			o.logger.Warn("extract.model.irregular", "detail", w, "filename", req.Filename)
		}
		if rec.Confidence < o.cfg.MinConfidence {
			o.logger.Warn("extract.model.low_confidence", "confidence", rec.Confidence, "min", o.cfg.MinConfidence)
			*reason = ReasonLowConfidence
			return StateTryPattern
		}
		return StateAccept

	case StateAccept:
		rec.ExtractionMethod = constants.ModelAssisted
		return StateDone

	case StateTryPattern:
		*rec = o.fromPatterns(req.Text)
		return StateDone
	}
	return StateDone
}

func (o *Orchestrator) modelEnabled() bool {
	if o.model == nil {
		return false
	}
	if e, ok := o.model.(interface{ Enabled() bool }); ok {
		return e.Enabled()
	}
	return true
}

func (o *Orchestrator) callModel(ctx context.Context, req llm.ExtractRequest) (llm.BiddingFields, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.ModelTimeout)
	defer cancel()
	start := time.Now()
	f, _, err := o.model.ExtractFields(ctx, req)
	o.metrics.ObserveModel(time.Since(start))
	return f, err
}

// fromModel maps model fields onto a normalized record and scores it.
func (o *Orchestrator) fromModel(f llm.BiddingFields) entity.ExtractedRecord {
	rec := entity.ExtractedRecord{
		Location:         f.Location,
		Description:      f.Description,
		Summary:          f.Summary,
		SiteVisitDate:    f.SiteVisitDate,
		SiteVisitTime:    f.SiteVisitTime,
		VisitLocation:    f.VisitLocation,
		ContactName:      f.ContactName,
		ContactPhone:     f.ContactPhone,
		BiddingCloseDate: f.BiddingCloseDate,
		BiddingCloseTime: f.BiddingCloseTime,
		ExtractionMethod: constants.ModelAssisted,
	}
	if normalize.IsSentinel(rec.Summary) {
		rec.Summary = patterns.Summarize(rec.Description)
	}
	o.finalize(&rec)

	if c, ok := classify.Canonicalize(f.Category); ok {
		rec.Category = c
	} else {
		rec.Category = classify.Category(rec.Description, rec.Summary)
		o.logger.Warn("extract.category.unknown", "label", f.Category, "resolved", rec.Category)
	}
	if p, ok := constants.ParsePriority(f.Priority); ok {
		rec.Priority = p
	} else {
		rec.Priority = classify.Priority(rec.BiddingCloseDate, o.cfg.Now())
	}
	rec.Confidence = scoring.Confidence(rec, scoring.IsPurchase(string(rec.Category)))
	return rec
}

// fromPatterns runs the pattern library; it cannot fail.
func (o *Orchestrator) fromPatterns(text string) entity.ExtractedRecord {
	rec := patterns.Extract(text)
	o.finalize(&rec)
	rec.Category = classify.Category(rec.Description, rec.Summary)
	rec.Priority = classify.Priority(rec.BiddingCloseDate, o.cfg.Now())
	rec.ExtractionMethod = constants.PatternBased
	rec.Confidence = patterns.PatternConfidence
	return rec
}

// finalize applies the date and time normalizers and fills sentinels.
func (o *Orchestrator) finalize(rec *entity.ExtractedRecord) {
	rec.Fill()
	rec.SiteVisitDate = o.dates.Normalize(rec.SiteVisitDate)
	rec.BiddingCloseDate = o.dates.Normalize(rec.BiddingCloseDate)
	rec.SiteVisitTime = o.normalizeTime(rec.SiteVisitTime)
	rec.BiddingCloseTime = o.normalizeTime(rec.BiddingCloseTime)
}

// normalizeTime returns HH:MM, the sentinel, or the trimmed raw token when the value
// cannot be read as a time.
func (o *Orchestrator) normalizeTime(v string) string {
	if normalize.IsSentinel(v) {
		return constants.Unavailable
	}
	if hhmm, ok := normalize.Time(v); ok {
		return hhmm
	}
	raw := strings.TrimSpace(v)
	o.logger.Warn("normalize.time.unparsed", "token", raw)
	return raw
}
