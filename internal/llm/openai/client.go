package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/licitaciones/internal/llm"
)

// ExtractFields implements llm.FieldExtractor using chat/completions in JSON
// mode. The answer is sanitized and then validated against the bidding
// schema; any violation is an error.
func (c *Client) ExtractFields(ctx context.Context, req llm.ExtractRequest) (llm.BiddingFields, []byte, error) {
	if !c.Enabled() {
		return llm.BiddingFields{}, nil, ErrDisabled
	}
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"text_len", len(req.Text),
		"filename", req.Filename,
	)

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"max_tokens":      c.cfg.MaxTokens,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt()},
			{"role": "user", "content": llm.BuildUserPrompt(req, c.cfg.MaxInputChars)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.BiddingFields{}, nil, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.BiddingFields{}, raw, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.extract.no_choices",
			"req_id", rid, "raw", string(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.BiddingFields{}, raw, fmt.Errorf("no choices in openai response")
	}
	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	cleaned, _, err := llm.NormalizeAndSanitizeJSON(content, c.log)
	if err != nil {
		c.log.Error("llm.extract.sanitize_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.BiddingFields{}, content, fmt.Errorf("sanitize failed: %w", err)
	}
	if err := llm.ValidateBidding(cleaned); err != nil {
		c.log.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err, "content", string(cleaned),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.BiddingFields{}, cleaned, fmt.Errorf("schema validation failed: %w", err)
	}

	var out llm.BiddingFields
	if err := json.Unmarshal(cleaned, &out); err != nil {
		return llm.BiddingFields{}, cleaned, fmt.Errorf("unmarshal fields: %w", err)
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"location", out.Location,
		"close_date", out.BiddingCloseDate,
		"category", out.Category,
		"priority", out.Priority,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, cleaned, nil
}

// post sends body through the rate limiter, retrying 429, 5xx and transport
// failures with exponential backoff.
func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.cfg.BaseBackoff * time.Duration(1<<(attempt-1))
			c.log.Warn("llm.extract.retry", "attempt", attempt, "backoff_ms", backoff.Milliseconds(), "error", lastErr)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		raw, _, err := llm.SendJSON(ctx, c.http, url, body, headers, c.log)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !isRetryable(ctx, err) {
			return nil, fmt.Errorf("openai: %w", err)
		}
	}
	return nil, fmt.Errorf("openai: max retries exceeded: %w", lastErr)
}

func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var se *llm.StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	// transport failure
	return true
}
