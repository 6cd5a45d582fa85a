// Package responses holds the HTTP response schemas for the image endpoints.
package responses

import (
	"petal-studio/server/internal/domain/batch"
	"petal-studio/server/internal/domain/library"
	"petal-studio/server/internal/domain/templates"
)

// ImagesResponse is the uniform success body for generate, edit and
// variations: a list of addressable image strings (https URLs or data URLs).
type ImagesResponse struct {
	ImageURLs []string `json:"imageUrls"`
}

// BuildImagesResponse never returns a nil slice; zero upstream images encode
// as an empty JSON array.
func BuildImagesResponse(urls []string) *ImagesResponse {
	if urls == nil {
		urls = []string{}
	}
	return &ImagesResponse{ImageURLs: urls}
}

// FlowerResponse adds the substituted prompt to the image list.
type FlowerResponse struct {
	ImageURLs       []string `json:"imageUrls"`
	ProcessedPrompt string   `json:"processedPrompt"`
}

func BuildFlowerResponse(urls []string, prompt string) *FlowerResponse {
	if urls == nil {
		urls = []string{}
	}
	return &FlowerResponse{ImageURLs: urls, ProcessedPrompt: prompt}
}

// BatchResponse wraps the per-item results of a batch flower generation.
type BatchResponse struct {
	Results []batch.Result `json:"results"`
}

func BuildBatchResponse(results []batch.Result) *BatchResponse {
	if results == nil {
		results = []batch.Result{}
	}
	return &BatchResponse{Results: results}
}

// TemplatesResponse lists the available flower templates.
type TemplatesResponse struct {
	Templates []templates.Template `json:"templates"`
}

func BuildTemplatesResponse(list []templates.Template) *TemplatesResponse {
	if list == nil {
		list = []templates.Template{}
	}
	return &TemplatesResponse{Templates: list}
}

// SaveImageResponse is the body returned after a library save.
type SaveImageResponse struct {
	ID    string `json:"id"`
	Mime  string `json:"mime"`
	Bytes int64  `json:"bytes"`
	URL   string `json:"url,omitempty"`
}

func BuildSaveImageResponse(saved *library.SavedImage) *SaveImageResponse {
	return &SaveImageResponse{
		ID:    saved.ID,
		Mime:  saved.Mime,
		Bytes: saved.Bytes,
		URL:   saved.URL,
	}
}

// PresignResponse carries a short-lived download URL for a saved image.
type PresignResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func BuildPresignResponse(id, url string) *PresignResponse {
	return &PresignResponse{ID: id, URL: url}
}
