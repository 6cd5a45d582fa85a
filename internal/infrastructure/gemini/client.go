// Package gemini is the secondary text vendor client, used only to rewrite
// flower prompts before the primary image API renders them.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"petal-studio/server/internal/domain/images"
	"petal-studio/server/internal/infrastructure/metrics"
)

const providerName = "gemini"

const rewriteInstruction = "Rewrite the following image prompt so a " +
	"text-to-image model produces a richer, more detailed botanical " +
	"photograph. Keep the subject and composition, add concrete visual " +
	"detail. Reply with the rewritten prompt only.\n\n"

// ClientConfig holds the secondary vendor settings.
type ClientConfig struct {
	APIKey    string
	BaseURL   string
	TextModel string
	Timeout   time.Duration
}

// Client calls the vendor's generateContent text endpoint. The vendor's
// image endpoint is never used: it is not functional for image synthesis on
// this integration.
type Client struct {
	cfg  ClientConfig
	http *resty.Client
	log  zerolog.Logger
}

var _ images.PromptRewriter = (*Client)(nil)

// NewClient wires the HTTP client. A missing API key leaves the client in
// an unconfigured state; callers must check Configured before Rewrite.
func NewClient(cfg ClientConfig, log zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &Client{
		cfg:  cfg,
		http: httpClient,
		log:  log.With().Str("component", "gemini-client").Logger(),
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && strings.TrimSpace(c.cfg.APIKey) != ""
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Rewrite asks the text model for an enhanced version of the prompt.
func (c *Client) Rewrite(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("gemini API key is not configured")
	}

	start := time.Now()
	defer func() {
		metrics.RecordExternalProviderLatency(providerName, time.Since(start).Seconds())
	}()

	body := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: rewriteInstruction + prompt}}}},
	}

	var result generateContentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", c.cfg.APIKey).
		SetBody(body).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("/models/%s:generateContent", c.cfg.TextModel))

	if err != nil {
		c.log.Error().Err(err).Msg("failed to call gemini API")
		return "", fmt.Errorf("failed to call gemini API: %w", err)
	}
	if resp.IsError() {
		message := strings.TrimSpace(result.Error.Message)
		if message == "" {
			message = strings.TrimSpace(resp.String())
		}
		c.log.Error().Int("status", resp.StatusCode()).Str("message", message).Msg("gemini API error")
		return "", fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode(), message)
	}

	for _, candidate := range result.Candidates {
		for _, p := range candidate.Content.Parts {
			if text := strings.TrimSpace(p.Text); text != "" {
				return text, nil
			}
		}
	}
	return "", fmt.Errorf("gemini API returned no text candidates")
}
