package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/hqdat/examlens/config"
	"github.com/rs/zerolog/log"
)

// PageImage is one full-page raster handed to the vision oracle. Detail is
// the per-page fidelity hint, "high" or "low".
type PageImage struct {
	DataURL string
	Detail  string
}

// VisionOracle delegates structured exam understanding to an external
// vision-capable model. Implementations return the raw model output; the
// orchestrator parses it.
type VisionOracle interface {
	ExtractStructured(ctx context.Context, pages []PageImage, prompt string) (string, error)
}

var (
	ErrOracleUnavailable = errors.New("vision oracle unavailable")
	ErrOracleMalformed   = errors.New("vision oracle returned malformed output")
)

const (
	oracleMaxAttempts = 3
	oracleRetryDelay  = 5 * time.Second
	oracleTimeout     = 90 * time.Second
)

type openAIVisionOracle struct {
	cfg        *config.Config
	httpc      *http.Client
	endpoint   string
	retryDelay time.Duration
}

func NewOpenAIVisionOracle(cfg *config.Config) VisionOracle {
	return &openAIVisionOracle{
		cfg:        cfg,
		httpc:      &http.Client{Timeout: oracleTimeout},
		endpoint:   "https://api.openai.com/v1/chat/completions",
		retryDelay: oracleRetryDelay,
	}
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractStructured issues one chat-completion request carrying the prompt
// and every page image. Transport timeouts and 502/503 responses are retried
// up to oracleMaxAttempts with a fixed delay; any other non-2xx status is
// logged and the body is parsed anyway, failing closed if it is not a valid
// completion.
func (o *openAIVisionOracle) ExtractStructured(ctx context.Context, pages []PageImage, prompt string) (string, error) {
	if o.cfg.OpenAI.APIKey == "" {
		return "", fmt.Errorf("%w: OPENAI_API_KEY is not configured", ErrOracleUnavailable)
	}

	content := make([]any, 0, len(pages)+1)
	content = append(content, map[string]any{"type": "text", "text": prompt})
	for _, p := range pages {
		content = append(content, map[string]any{
			"type":      "image_url",
			"image_url": map[string]any{"url": p.DataURL, "detail": p.Detail},
		})
	}
	body := map[string]any{
		"model":           o.cfg.OpenAI.Model,
		"messages":        []any{map[string]any{"role": "user", "content": content}},
		"max_tokens":      4096,
		"response_format": map[string]any{"type": "json_object"},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal oracle request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= oracleMaxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(payload))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+o.cfg.OpenAI.APIKey)

		resp, err := o.httpc.Do(req)
		if err != nil {
			if isTimeout(err) && attempt < oracleMaxAttempts {
				log.Warn().Err(err).Int("attempt", attempt).Msg("Oracle request timed out, retrying")
				lastErr = err
				time.Sleep(o.retryDelay)
				continue
			}
			return "", fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
		}

		raw, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return "", fmt.Errorf("%w: %v", ErrOracleUnavailable, readErr)
		}

		retryableStatus := resp.StatusCode == http.StatusBadGateway || resp.StatusCode == http.StatusServiceUnavailable
		switch {
		case retryableStatus:
			lastErr = fmt.Errorf("oracle returned status %d", resp.StatusCode)
			if attempt < oracleMaxAttempts {
				log.Warn().Int("status", resp.StatusCode).Int("attempt", attempt).Msg("Oracle unavailable, retrying")
				time.Sleep(o.retryDelay)
				continue
			}
			log.Error().Int("status", resp.StatusCode).Msg("Oracle still unavailable on final attempt")
		case resp.StatusCode != http.StatusOK:
			log.Error().Int("status", resp.StatusCode).Str("body", truncate(string(raw), 512)).Msg("Oracle returned non-OK status")
		}

		var completion chatCompletionResponse
		if err := json.Unmarshal(raw, &completion); err != nil || len(completion.Choices) == 0 {
			if retryableStatus {
				return "", fmt.Errorf("%w: %v", ErrOracleUnavailable, lastErr)
			}
			return "", fmt.Errorf("%w: response carries no completion", ErrOracleMalformed)
		}
		return completion.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("%w: %v", ErrOracleUnavailable, lastErr)
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
