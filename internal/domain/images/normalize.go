package images

import "fmt"

// ErrInvalidResponseFormat reports an upstream image carrying neither a url
// nor a base64 payload. The whole call fails; partial results are not kept.
var ErrInvalidResponseFormat = fmt.Errorf("invalid response format from image API")

// NormalizeImages flattens the upstream per-image union into strings usable
// directly as <img src> values, preserving order. An empty upstream list
// passes through; callers decide whether zero images is a failure.
func NormalizeImages(upstream []UpstreamImage) ([]string, error) {
	urls := make([]string, 0, len(upstream))
	for i, img := range upstream {
		switch {
		case img.URL != "":
			urls = append(urls, img.URL)
		case img.B64JSON != "":
			urls = append(urls, "data:image/png;base64,"+img.B64JSON)
		default:
			return nil, fmt.Errorf("%w: image %d has neither url nor b64_json", ErrInvalidResponseFormat, i)
		}
	}
	return urls, nil
}
