package requests

import (
	"petal-studio/server/internal/domain/library"
)

// SaveImageRequest is the JSON body of POST /api/library/save.
type SaveImageRequest struct {
	Source   LibrarySource `json:"source" binding:"required"`
	Filename string        `json:"filename"`
	UserID   string        `json:"userId"`
}

// LibrarySource describes where the image bytes come from.
type LibrarySource struct {
	Type    string `json:"type" binding:"required"`
	DataURL string `json:"dataUrl"`
	URL     string `json:"url"`
}

// ToDomain converts the request to the domain model.
func (r *SaveImageRequest) ToDomain() library.SaveRequest {
	return library.SaveRequest{
		Source: library.Source{
			Type:    r.Source.Type,
			DataURL: r.Source.DataURL,
			URL:     r.Source.URL,
		},
		Filename: r.Filename,
		UserID:   r.UserID,
	}
}
