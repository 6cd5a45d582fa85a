// Package library saves produced images to the configured cloud storage so
// users can keep results beyond their browser-local history.
package library

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"petal-studio/server/internal/config"
	"petal-studio/server/internal/utils/imageid"
	"petal-studio/server/internal/utils/platformerrors"
)

var allowedMIMEs = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// Storage defines the object store operations the library needs.
type Storage interface {
	Enabled() bool
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType, filename string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Source describes where the image bytes come from: a data URL produced by a
// generation, or a remote URL returned by the image API.
type Source struct {
	Type    string
	DataURL string
	URL     string
}

// SaveRequest asks for one image to be stored in the library.
type SaveRequest struct {
	Source   Source
	Filename string
	UserID   string
}

// SavedImage is the stored object's metadata.
type SavedImage struct {
	ID    string
	Key   string
	Mime  string
	Bytes int64
	URL   string
}

// Service stores images and mints presigned download URLs. Nothing about a
// generation is persisted beyond the object itself.
type Service struct {
	cfg        *config.Config
	storage    Storage
	log        zerolog.Logger
	httpClient *http.Client
}

func NewService(cfg *config.Config, storage Storage, log zerolog.Logger) *Service {
	return &Service{
		cfg:     cfg,
		storage: storage,
		log:     log.With().Str("component", "library-service").Logger(),
		httpClient: &http.Client{
			Timeout: cfg.RemoteFetchTimeout,
		},
	}
}

// Save uploads the image to storage under an img_* key.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*SavedImage, error) {
	if !s.storage.Enabled() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConfiguration,
			"image library storage is not configured", nil)
	}

	data, err := s.loadBytes(ctx, req.Source)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, err.Error(), err)
	}
	if len(data) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "image is empty", nil)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("image exceeds max size of %d bytes", s.cfg.MaxUploadBytes), nil)
	}

	mimeType := mimetype.Detect(data).String()
	if _, ok := allowedMIMEs[mimeType]; !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("unsupported mime type %s", mimeType), nil)
	}

	id := imageid.New()
	key := objectKey(id)
	filename := strings.TrimSpace(req.Filename)

	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), mimeType, filename); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"failed to upload image to storage", err)
	}

	url, err := s.storage.PresignGet(ctx, key, s.cfg.S3PresignTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("id", id).Msg("failed to presign saved image, continuing without URL")
		url = ""
	}

	s.log.Info().Str("id", id).Str("mime", mimeType).Int("bytes", len(data)).Str("user_id", req.UserID).Msg("image saved to library")
	return &SavedImage{
		ID:    id,
		Key:   key,
		Mime:  mimeType,
		Bytes: int64(len(data)),
		URL:   url,
	}, nil
}

// Presign returns a short-lived download URL for a saved image.
func (s *Service) Presign(ctx context.Context, id string) (string, error) {
	if !s.storage.Enabled() {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConfiguration,
			"image library storage is not configured", nil)
	}
	if !imageid.IsValid(id) {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("invalid image id %q", id), nil)
	}
	url, err := s.storage.PresignGet(ctx, objectKey(id), s.cfg.S3PresignTTL)
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"failed to presign image", err)
	}
	return url, nil
}

func objectKey(id string) string {
	return "flowers/" + id
}

func (s *Service) loadBytes(ctx context.Context, source Source) ([]byte, error) {
	switch strings.ToLower(source.Type) {
	case "data_url", "dataurl":
		return decodeDataURL(source.DataURL)
	case "remote_url", "remote":
		return s.fetchRemote(ctx, source.URL)
	default:
		return nil, fmt.Errorf("unknown source type %q", source.Type)
	}
}

func decodeDataURL(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("dataUrl is required")
	}
	parts := strings.SplitN(value, ",", 2)
	if len(parts) != 2 {
		return nil, errors.New("invalid data url")
	}
	if !strings.Contains(parts[0], ";base64") {
		return nil, errors.New("data url must be base64 encoded")
	}
	return base64.StdEncoding.DecodeString(parts[1])
}

func (s *Service) fetchRemote(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, errors.New("url is required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("remote fetch error: %s", resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, s.cfg.MaxUploadBytes+1))
}
