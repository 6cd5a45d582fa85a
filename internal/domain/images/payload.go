package images

import (
	"fmt"
	"slices"
	"strings"
)

// FilePart is one file destined for a multipart upstream call.
type FilePart struct {
	Filename string
	Mime     string
	Data     []byte
}

// GenerationPayload is the exact body sent to the generations endpoint.
// Builders only set the fields the target model accepts, so a marshaled
// payload never carries a key the model would reject.
type GenerationPayload struct {
	Model             string `json:"model"`
	Prompt            string `json:"prompt"`
	N                 int    `json:"n"`
	Size              string `json:"size"`
	Quality           string `json:"quality,omitempty"`
	Style             string `json:"style,omitempty"`
	ResponseFormat    string `json:"response_format,omitempty"`
	OutputFormat      string `json:"output_format,omitempty"`
	OutputCompression *int   `json:"output_compression,omitempty"`
	Background        string `json:"background,omitempty"`
	Moderation        string `json:"moderation,omitempty"`
	User              string `json:"user,omitempty"`
}

// EditPayload is the multipart body for the edits endpoint. Images keeps
// submission order; the client emits a single image part when len == 1.
type EditPayload struct {
	Model             string
	Prompt            string
	N                 int
	Size              string
	Quality           string
	OutputFormat      string
	OutputCompression *int
	Background        string
	ResponseFormat    string
	User              string
	Images            []FilePart
	Mask              *FilePart
}

// VariationPayload is the multipart body for the variations endpoint.
type VariationPayload struct {
	Model          string
	N              int
	Size           string
	ResponseFormat string
	User           string
	Image          FilePart
}

// ResolveGeneration builds the upstream payload for a generation request.
// Pure: equal requests resolve to equal payloads.
func ResolveGeneration(req GenerationRequest) (*GenerationPayload, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("prompt is required")
	}
	if req.N < 1 || req.N > MaxImagesPerRequest {
		return nil, fmt.Errorf("n must be between 1 and %d", MaxImagesPerRequest)
	}
	sizes := GenerationSizes(req.Model)
	if sizes == nil {
		return nil, fmt.Errorf("model %q is not supported for generation", req.Model)
	}
	if !slices.Contains(sizes, req.Size) {
		return nil, fmt.Errorf("size %q is not supported by %s", req.Size, req.Model)
	}

	payload := &GenerationPayload{
		Model:  string(req.Model),
		Prompt: req.Prompt,
		N:      req.N,
		Size:   req.Size,
		User:   strings.TrimSpace(req.User),
	}

	switch req.Model {
	case ModelDallE2:
		if err := optionalEnum("response_format", req.ResponseFormat, responseFormats); err != nil {
			return nil, err
		}
		payload.ResponseFormat = req.ResponseFormat

	case ModelDallE3:
		// The tiered model only ever renders one image per call.
		payload.N = 1
		if err := optionalEnum("quality", req.Quality, dalle3Qualities); err != nil {
			return nil, err
		}
		if err := optionalEnum("style", req.Style, dalle3Styles); err != nil {
			return nil, err
		}
		if err := optionalEnum("response_format", req.ResponseFormat, responseFormats); err != nil {
			return nil, err
		}
		payload.Quality = req.Quality
		payload.Style = req.Style
		payload.ResponseFormat = req.ResponseFormat

	case ModelGPTImage:
		// gpt-image-1 always answers base64; response_format is never sent.
		if err := optionalEnum("quality", req.Quality, gptImageQualities); err != nil {
			return nil, err
		}
		if err := optionalEnum("output_format", req.OutputFormat, outputFormats); err != nil {
			return nil, err
		}
		if err := optionalEnum("background", req.Background, backgrounds); err != nil {
			return nil, err
		}
		if err := optionalEnum("moderation", req.Moderation, moderations); err != nil {
			return nil, err
		}
		if err := compressionInRange(req.OutputCompression); err != nil {
			return nil, err
		}
		payload.Quality = req.Quality
		payload.OutputFormat = req.OutputFormat
		payload.OutputCompression = req.OutputCompression
		payload.Background = req.Background
		payload.Moderation = req.Moderation
	}

	return payload, nil
}

// ResolveEdit builds the upstream payload for an edit request. The baseline
// model takes exactly one source image; submitting more is rejected rather
// than silently truncated.
func ResolveEdit(req EditRequest) (*EditPayload, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("prompt is required")
	}
	if req.N < 1 || req.N > MaxImagesPerRequest {
		return nil, fmt.Errorf("n must be between 1 and %d", MaxImagesPerRequest)
	}
	if len(req.Images) == 0 {
		return nil, fmt.Errorf("at least one source image is required")
	}

	payload := &EditPayload{
		Model:  string(req.Model),
		Prompt: req.Prompt,
		N:      req.N,
		Size:   req.Size,
		User:   strings.TrimSpace(req.User),
	}

	switch req.Model {
	case ModelDallE2:
		if len(req.Images) != 1 {
			return nil, fmt.Errorf("%s edits accept exactly one source image, got %d", ModelDallE2, len(req.Images))
		}
		if !slices.Contains(dalle2Sizes, req.Size) {
			return nil, fmt.Errorf("size %q is not supported by %s", req.Size, req.Model)
		}
		if err := optionalEnum("response_format", req.ResponseFormat, responseFormats); err != nil {
			return nil, err
		}
		payload.ResponseFormat = req.ResponseFormat

	case ModelGPTImage:
		if len(req.Images) > MaxEditSourceImages {
			return nil, fmt.Errorf("%s edits accept at most %d source images, got %d", ModelGPTImage, MaxEditSourceImages, len(req.Images))
		}
		if !slices.Contains(gptImageSizes, req.Size) {
			return nil, fmt.Errorf("size %q is not supported by %s", req.Size, req.Model)
		}
		if err := optionalEnum("quality", req.Quality, gptImageQualities); err != nil {
			return nil, err
		}
		if err := optionalEnum("output_format", req.OutputFormat, outputFormats); err != nil {
			return nil, err
		}
		if err := optionalEnum("background", req.Background, backgrounds); err != nil {
			return nil, err
		}
		if err := compressionInRange(req.OutputCompression); err != nil {
			return nil, err
		}
		payload.Quality = req.Quality
		payload.OutputFormat = req.OutputFormat
		payload.OutputCompression = req.OutputCompression
		payload.Background = req.Background

	default:
		return nil, fmt.Errorf("model %q is not supported for edits", req.Model)
	}

	for _, img := range req.Images {
		payload.Images = append(payload.Images, FilePart{
			Filename: img.Filename,
			Mime:     ClassifyImage(img.Data),
			Data:     img.Data,
		})
	}
	if req.Mask != nil {
		payload.Mask = &FilePart{
			Filename: req.Mask.Filename,
			Mime:     ClassifyMask(req.Mask.Data),
			Data:     req.Mask.Data,
		}
	}

	return payload, nil
}

// ResolveVariation builds the upstream payload for a variation request.
// There is a single upstream model; response_format defaults to "url".
func ResolveVariation(req VariationRequest) (*VariationPayload, error) {
	if req.N < 1 || req.N > MaxImagesPerRequest {
		return nil, fmt.Errorf("n must be between 1 and %d", MaxImagesPerRequest)
	}
	if !slices.Contains(VariationSizes(), req.Size) {
		return nil, fmt.Errorf("size %q is not supported for variations", req.Size)
	}
	if len(req.Image.Data) == 0 {
		return nil, fmt.Errorf("a source image is required")
	}
	responseFormat := req.ResponseFormat
	if responseFormat == "" {
		responseFormat = "url"
	}
	if !slices.Contains(responseFormats, responseFormat) {
		return nil, fmt.Errorf("response_format %q is not valid", responseFormat)
	}

	return &VariationPayload{
		Model:          string(ModelDallE2),
		N:              req.N,
		Size:           req.Size,
		ResponseFormat: responseFormat,
		User:           strings.TrimSpace(req.User),
		Image: FilePart{
			Filename: req.Image.Filename,
			Mime:     ClassifyImage(req.Image.Data),
			Data:     req.Image.Data,
		},
	}, nil
}

func optionalEnum(field, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("%s %q is not valid (allowed: %s)", field, value, strings.Join(allowed, ", "))
	}
	return nil
}

func compressionInRange(value *int) error {
	if value == nil {
		return nil
	}
	if *value < 0 || *value > 100 {
		return fmt.Errorf("output_compression must be between 0 and 100")
	}
	return nil
}
