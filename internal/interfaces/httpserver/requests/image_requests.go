// Package requests holds the HTTP request schemas and multipart decoding for
// the image endpoints.
package requests

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"petal-studio/server/internal/domain/batch"
	"petal-studio/server/internal/domain/images"
)

// GenerateRequest is the JSON body of POST /api/generate.
type GenerateRequest struct {
	Prompt            string `json:"prompt" binding:"required"`
	Model             string `json:"model" binding:"required"`
	Size              string `json:"size" binding:"required"`
	N                 int    `json:"n" binding:"required,min=1,max=10"`
	Quality           string `json:"quality"`
	Style             string `json:"style"`
	ResponseFormat    string `json:"responseFormat"`
	OutputFormat      string `json:"outputFormat"`
	OutputCompression *int   `json:"outputCompression"`
	Background        string `json:"background"`
	Moderation        string `json:"moderation"`
	User              string `json:"user"`
}

// Validate applies the cross-field rules binding tags cannot express.
func (r *GenerateRequest) Validate() error {
	return validateCompression(r.OutputCompression, r.OutputFormat)
}

// ToDomain converts the request to the domain model.
func (r *GenerateRequest) ToDomain() images.GenerationRequest {
	return images.GenerationRequest{
		Prompt:            strings.TrimSpace(r.Prompt),
		Model:             images.Model(r.Model),
		Size:              r.Size,
		N:                 r.N,
		Quality:           r.Quality,
		Style:             r.Style,
		ResponseFormat:    r.ResponseFormat,
		OutputFormat:      r.OutputFormat,
		OutputCompression: r.OutputCompression,
		Background:        r.Background,
		Moderation:        r.Moderation,
		User:              r.User,
	}
}

// FlowerGenerateRequest is the JSON body of POST /api/flower-generate.
type FlowerGenerateRequest struct {
	TemplateID        string            `json:"templateId" binding:"required"`
	Variables         map[string]string `json:"variables"`
	Model             string            `json:"model" binding:"required"`
	Size              string            `json:"size" binding:"required"`
	N                 int               `json:"n" binding:"required,min=1,max=10"`
	Quality           string            `json:"quality"`
	Style             string            `json:"style"`
	ResponseFormat    string            `json:"responseFormat"`
	OutputFormat      string            `json:"outputFormat"`
	OutputCompression *int              `json:"outputCompression"`
	Background        string            `json:"background"`
	Moderation        string            `json:"moderation"`
	User              string            `json:"user"`
}

func (r *FlowerGenerateRequest) Validate() error {
	return validateCompression(r.OutputCompression, r.OutputFormat)
}

func (r *FlowerGenerateRequest) ToDomain() images.FlowerRequest {
	return images.FlowerRequest{
		TemplateID:        r.TemplateID,
		Variables:         r.Variables,
		Model:             images.Model(r.Model),
		Size:              r.Size,
		N:                 r.N,
		Quality:           r.Quality,
		Style:             r.Style,
		ResponseFormat:    r.ResponseFormat,
		OutputFormat:      r.OutputFormat,
		OutputCompression: r.OutputCompression,
		Background:        r.Background,
		Moderation:        r.Moderation,
		User:              r.User,
	}
}

// BatchItemRequest is one unit of work in a batch flower generation.
type BatchItemRequest struct {
	ReferenceImageID string            `json:"referenceImageId" binding:"required"`
	Variables        map[string]string `json:"variables"`
}

// FlowerConfig is the shared generation configuration of a batch request.
// It carries the model parameters only; the template id lives on the batch
// envelope and the variables on each item.
type FlowerConfig struct {
	Model             string `json:"model" binding:"required"`
	Size              string `json:"size" binding:"required"`
	N                 int    `json:"n" binding:"required,min=1,max=10"`
	Quality           string `json:"quality"`
	Style             string `json:"style"`
	ResponseFormat    string `json:"responseFormat"`
	OutputFormat      string `json:"outputFormat"`
	OutputCompression *int   `json:"outputCompression"`
	Background        string `json:"background"`
	Moderation        string `json:"moderation"`
	User              string `json:"user"`
}

// BatchFlowerGenerateRequest is the JSON body of POST /api/batch-flower-generate.
// The config applies to every item; only the variables differ per item.
type BatchFlowerGenerateRequest struct {
	TemplateID string             `json:"templateId" binding:"required"`
	Items      []BatchItemRequest `json:"items" binding:"required,min=1,dive"`
	Config     FlowerConfig       `json:"config" binding:"required"`
}

func (r *BatchFlowerGenerateRequest) Validate() error {
	return validateCompression(r.Config.OutputCompression, r.Config.OutputFormat)
}

func (r *BatchFlowerGenerateRequest) ToDomain() images.BatchFlowerRequest {
	items := make([]batch.Item, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, batch.Item{
			ReferenceImageID: item.ReferenceImageID,
			Variables:        item.Variables,
		})
	}
	return images.BatchFlowerRequest{
		TemplateID: r.TemplateID,
		Items:      items,
		Config: images.FlowerRequest{
			TemplateID:        r.TemplateID,
			Model:             images.Model(r.Config.Model),
			Size:              r.Config.Size,
			N:                 r.Config.N,
			Quality:           r.Config.Quality,
			Style:             r.Config.Style,
			ResponseFormat:    r.Config.ResponseFormat,
			OutputFormat:      r.Config.OutputFormat,
			OutputCompression: r.Config.OutputCompression,
			Background:        r.Config.Background,
			Moderation:        r.Config.Moderation,
			User:              r.Config.User,
		},
	}
}

// ParseEditRequest decodes the multipart body of POST /api/edit. Source images
// arrive as a repeated "images" field, in order, plus an optional "mask".
func ParseEditRequest(c *gin.Context, maxUploadBytes int64) (images.EditRequest, error) {
	var req images.EditRequest

	form, err := c.MultipartForm()
	if err != nil {
		return req, fmt.Errorf("invalid multipart form: %w", err)
	}

	req.Prompt = strings.TrimSpace(formValue(form, "prompt"))
	if req.Prompt == "" {
		return req, errors.New("prompt is required")
	}
	req.Model = images.Model(formValue(form, "model"))
	if req.Model == "" {
		return req, errors.New("model is required")
	}
	req.Size = formValue(form, "size")
	if req.Size == "" {
		return req, errors.New("size is required")
	}

	req.N, err = parseCount(formValue(form, "n"))
	if err != nil {
		return req, err
	}

	req.Quality = formValue(form, "quality")
	req.OutputFormat = formValue(form, "outputFormat")
	req.Background = formValue(form, "background")
	req.ResponseFormat = formValue(form, "responseFormat")
	req.User = formValue(form, "user")

	if raw := formValue(form, "outputCompression"); raw != "" {
		compression, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("outputCompression must be an integer, got %q", raw)
		}
		req.OutputCompression = &compression
	}
	if err := validateCompression(req.OutputCompression, req.OutputFormat); err != nil {
		return req, err
	}

	files := form.File["images"]
	if len(files) == 0 {
		return req, errors.New("at least one images file is required")
	}
	if len(files) > images.MaxEditSourceImages {
		return req, fmt.Errorf("at most %d source images are allowed, got %d", images.MaxEditSourceImages, len(files))
	}
	for _, header := range files {
		source, err := readUpload(header, maxUploadBytes)
		if err != nil {
			return req, err
		}
		req.Images = append(req.Images, source)
	}

	if masks := form.File["mask"]; len(masks) > 0 {
		mask, err := readUpload(masks[0], maxUploadBytes)
		if err != nil {
			return req, err
		}
		req.Mask = &mask
	}

	return req, nil
}

// ParseVariationRequest decodes the multipart body of POST /api/variations.
func ParseVariationRequest(c *gin.Context, maxUploadBytes int64) (images.VariationRequest, error) {
	var req images.VariationRequest

	form, err := c.MultipartForm()
	if err != nil {
		return req, fmt.Errorf("invalid multipart form: %w", err)
	}

	req.Size = formValue(form, "size")
	if req.Size == "" {
		return req, errors.New("size is required")
	}
	req.N, err = parseCount(formValue(form, "n"))
	if err != nil {
		return req, err
	}
	req.ResponseFormat = formValue(form, "responseFormat")
	req.User = formValue(form, "user")

	files := form.File["image"]
	if len(files) == 0 {
		return req, errors.New("image file is required")
	}
	req.Image, err = readUpload(files[0], maxUploadBytes)
	if err != nil {
		return req, err
	}

	return req, nil
}

func formValue(form *multipart.Form, key string) string {
	values := form.Value[key]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func parseCount(raw string) (int, error) {
	if raw == "" {
		return 0, errors.New("n is required")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("n must be an integer, got %q", raw)
	}
	if n < 1 || n > images.MaxImagesPerRequest {
		return 0, fmt.Errorf("n must be between 1 and %d, got %d", images.MaxImagesPerRequest, n)
	}
	return n, nil
}

func readUpload(header *multipart.FileHeader, maxUploadBytes int64) (images.SourceImage, error) {
	var source images.SourceImage
	if header.Size > maxUploadBytes {
		return source, fmt.Errorf("file %s exceeds max upload size of %d bytes", header.Filename, maxUploadBytes)
	}

	file, err := header.Open()
	if err != nil {
		return source, fmt.Errorf("open upload %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return source, fmt.Errorf("read upload %s: %w", header.Filename, err)
	}
	if int64(len(data)) > maxUploadBytes {
		return source, fmt.Errorf("file %s exceeds max upload size of %d bytes", header.Filename, maxUploadBytes)
	}
	if len(data) == 0 {
		return source, fmt.Errorf("file %s is empty", header.Filename)
	}

	source.Filename = header.Filename
	source.Data = data
	return source, nil
}

// validateCompression enforces the cross-field rule the resolver leaves to the
// request layer: compression only applies to lossy output formats.
func validateCompression(compression *int, outputFormat string) error {
	if compression == nil {
		return nil
	}
	if outputFormat != "jpeg" && outputFormat != "webp" {
		return errors.New("outputCompression requires outputFormat to be jpeg or webp")
	}
	return nil
}
