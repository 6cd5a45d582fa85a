// Package images implements the request normalization core: per-model
// parameter resolution, upload classification, upstream dispatch and
// response normalization for the image generation endpoints.
package images

import "context"

// Model identifies an upstream image model.
type Model string

const (
	// ModelDallE2 is the baseline model: no quality/style extras.
	ModelDallE2 Model = "dall-e-2"
	// ModelDallE3 is the tiered model: quality/style, single image per call.
	ModelDallE3 Model = "dall-e-3"
	// ModelGPTImage is the image-native model: always returns base64.
	ModelGPTImage Model = "gpt-image-1"
	// ModelGemini is the secondary text vendor. It cannot synthesize pixels
	// on our plan; choosing it routes through a prompt rewrite and falls
	// back to gpt-image-1.
	ModelGemini Model = "gemini"
)

const (
	// MaxImagesPerRequest is the upper bound for n on every endpoint.
	MaxImagesPerRequest = 10
	// MaxEditSourceImages is the gpt-image-1 source image limit.
	MaxEditSourceImages = 16
)

var (
	dalle2Sizes   = []string{"256x256", "512x512", "1024x1024"}
	dalle3Sizes   = []string{"1024x1024", "1792x1024", "1024x1792"}
	gptImageSizes = []string{"1024x1024", "1536x1024", "1024x1536", "auto"}

	dalle3Qualities   = []string{"standard", "hd"}
	dalle3Styles      = []string{"vivid", "natural"}
	gptImageQualities = []string{"auto", "high", "medium", "low"}
	outputFormats     = []string{"png", "jpeg", "webp"}
	backgrounds       = []string{"auto", "transparent", "opaque"}
	moderations       = []string{"auto", "low"}
	responseFormats   = []string{"url", "b64_json"}
)

// GenerationSizes returns the size allow-list for a generation model.
func GenerationSizes(model Model) []string {
	switch model {
	case ModelDallE2:
		return dalle2Sizes
	case ModelDallE3:
		return dalle3Sizes
	case ModelGPTImage:
		return gptImageSizes
	default:
		return nil
	}
}

// VariationSizes returns the three sizes the variations endpoint accepts.
func VariationSizes() []string {
	return dalle2Sizes
}

// SourceImage is one uploaded buffer with its classified MIME label.
type SourceImage struct {
	Filename string
	Mime     string
	Data     []byte
}

// GenerationRequest is the model-agnostic text-to-image request.
type GenerationRequest struct {
	Prompt            string
	Model             Model
	Size              string
	N                 int
	Quality           string
	Style             string
	ResponseFormat    string
	OutputFormat      string
	OutputCompression *int
	Background        string
	Moderation        string
	User              string
}

// EditRequest carries source buffers plus generation-style parameters.
type EditRequest struct {
	Prompt            string
	Model             Model
	Size              string
	N                 int
	Quality           string
	OutputFormat      string
	OutputCompression *int
	Background        string
	ResponseFormat    string
	User              string
	Images            []SourceImage
	Mask              *SourceImage
}

// VariationRequest has no prompt and no model choice.
type VariationRequest struct {
	N              int
	Size           string
	ResponseFormat string
	User           string
	Image          SourceImage
}

// UpstreamImage is the per-image union returned by the image API.
type UpstreamImage struct {
	URL           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// ImageClient is the upstream image API as consumed by the domain layer.
type ImageClient interface {
	Generate(ctx context.Context, payload *GenerationPayload) ([]UpstreamImage, error)
	Edit(ctx context.Context, payload *EditPayload) ([]UpstreamImage, error)
	Variations(ctx context.Context, payload *VariationPayload) ([]UpstreamImage, error)
}

// PromptRewriter produces an enhanced prompt via the secondary text vendor.
type PromptRewriter interface {
	Configured() bool
	Rewrite(ctx context.Context, prompt string) (string, error)
}

// TemplateResolver substitutes variables into a named flower template.
type TemplateResolver interface {
	Resolve(id string, variables map[string]string) (string, error)
}
