// Package openai is the resty-backed client for the upstream image API.
package openai

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"petal-studio/server/internal/domain/images"
	"petal-studio/server/internal/infrastructure/metrics"
)

const providerName = "openai"

// ClientConfig holds the upstream image API settings.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client dispatches resolved payloads to the image API. No retries: upstream
// rejections surface to the caller untouched.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

var _ images.ImageClient = (*Client)(nil)

// NewClient wires the shared HTTP client for the image API.
func NewClient(cfg ClientConfig, log zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(cfg.APIKey).
		SetTimeout(cfg.Timeout)

	return &Client{
		http: httpClient,
		log:  log.With().Str("component", "openai-client").Logger(),
	}
}

type imageListResponse struct {
	Created int64                  `json:"created"`
	Data    []images.UpstreamImage `json:"data"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Generate calls POST /images/generations with a JSON body.
func (c *Client) Generate(ctx context.Context, payload *images.GenerationPayload) ([]images.UpstreamImage, error) {
	start := time.Now()
	defer func() {
		metrics.RecordExternalProviderLatency(providerName, time.Since(start).Seconds())
	}()

	var result imageListResponse
	var apiErr apiErrorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		SetResult(&result).
		SetError(&apiErr).
		Post("/images/generations")

	if err != nil {
		c.log.Error().Err(err).Str("model", payload.Model).Msg("failed to call image generations API")
		return nil, fmt.Errorf("failed to call image API: %w", err)
	}
	if resp.IsError() {
		return nil, c.upstreamError(resp, &apiErr, "generations")
	}

	return result.Data, nil
}

// Edit calls POST /images/edits as multipart form data. A single source
// image is sent as one image part; multiple sources become ordered image[]
// parts (only gpt-image-1 reaches this path with more than one).
func (c *Client) Edit(ctx context.Context, payload *images.EditPayload) ([]images.UpstreamImage, error) {
	start := time.Now()
	defer func() {
		metrics.RecordExternalProviderLatency(providerName, time.Since(start).Seconds())
	}()

	var result imageListResponse
	var apiErr apiErrorResponse
	req := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&apiErr).
		SetMultipartFormData(c.editFormFields(payload))

	if len(payload.Images) == 1 {
		img := payload.Images[0]
		req.SetMultipartField("image", partFilename(img), img.Mime, bytes.NewReader(img.Data))
	} else {
		for _, img := range payload.Images {
			req.SetMultipartField("image[]", partFilename(img), img.Mime, bytes.NewReader(img.Data))
		}
	}
	if payload.Mask != nil {
		req.SetMultipartField("mask", partFilename(*payload.Mask), payload.Mask.Mime, bytes.NewReader(payload.Mask.Data))
	}

	resp, err := req.Post("/images/edits")
	if err != nil {
		c.log.Error().Err(err).Str("model", payload.Model).Msg("failed to call image edits API")
		return nil, fmt.Errorf("failed to call image API: %w", err)
	}
	if resp.IsError() {
		return nil, c.upstreamError(resp, &apiErr, "edits")
	}

	return result.Data, nil
}

// Variations calls POST /images/variations as multipart form data.
func (c *Client) Variations(ctx context.Context, payload *images.VariationPayload) ([]images.UpstreamImage, error) {
	start := time.Now()
	defer func() {
		metrics.RecordExternalProviderLatency(providerName, time.Since(start).Seconds())
	}()

	fields := map[string]string{
		"model": payload.Model,
		"n":     strconv.Itoa(payload.N),
		"size":  payload.Size,
	}
	if payload.ResponseFormat != "" {
		fields["response_format"] = payload.ResponseFormat
	}
	if payload.User != "" {
		fields["user"] = payload.User
	}

	var result imageListResponse
	var apiErr apiErrorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&apiErr).
		SetMultipartFormData(fields).
		SetMultipartField("image", partFilename(payload.Image), payload.Image.Mime, bytes.NewReader(payload.Image.Data)).
		Post("/images/variations")

	if err != nil {
		c.log.Error().Err(err).Msg("failed to call image variations API")
		return nil, fmt.Errorf("failed to call image API: %w", err)
	}
	if resp.IsError() {
		return nil, c.upstreamError(resp, &apiErr, "variations")
	}

	return result.Data, nil
}

func (c *Client) editFormFields(payload *images.EditPayload) map[string]string {
	fields := map[string]string{
		"model":  payload.Model,
		"prompt": payload.Prompt,
		"n":      strconv.Itoa(payload.N),
		"size":   payload.Size,
	}
	if payload.Quality != "" {
		fields["quality"] = payload.Quality
	}
	if payload.OutputFormat != "" {
		fields["output_format"] = payload.OutputFormat
	}
	if payload.OutputCompression != nil {
		fields["output_compression"] = strconv.Itoa(*payload.OutputCompression)
	}
	if payload.Background != "" {
		fields["background"] = payload.Background
	}
	if payload.ResponseFormat != "" {
		fields["response_format"] = payload.ResponseFormat
	}
	if payload.User != "" {
		fields["user"] = payload.User
	}
	return fields
}

func (c *Client) upstreamError(resp *resty.Response, apiErr *apiErrorResponse, operation string) error {
	message := strings.TrimSpace(apiErr.Error.Message)
	if message == "" {
		message = strings.TrimSpace(resp.String())
	}
	c.log.Error().
		Int("status", resp.StatusCode()).
		Str("operation", operation).
		Str("message", message).
		Msg("image API error")
	return fmt.Errorf("image API error (status %d): %s", resp.StatusCode(), message)
}

func partFilename(part images.FilePart) string {
	if part.Filename != "" {
		return part.Filename
	}
	switch part.Mime {
	case "image/jpeg":
		return "image.jpg"
	case "image/webp":
		return "image.webp"
	default:
		return "image.png"
	}
}
