package images

import "github.com/gabriel-vasile/mimetype"

const (
	mimePNG  = "image/png"
	mimeJPEG = "image/jpeg"
	mimeWebP = "image/webp"
)

// ClassifyImage labels an uploaded buffer for the upstream multipart call.
// The upstream edit endpoints only distinguish png, jpeg and webp, so any
// other detection collapses onto the webp fallback. The caller-provided
// filename extension is never consulted.
func ClassifyImage(data []byte) string {
	switch mimetype.Detect(data).String() {
	case mimePNG:
		return mimePNG
	case mimeJPEG:
		return mimeJPEG
	default:
		return mimeWebP
	}
}

// ClassifyMask always labels mask buffers as PNG: the upstream API requires
// masks to be PNG with an alpha channel. This is a relabeling, not a
// conversion; bytes that are not valid PNG fail upstream and that failure is
// surfaced as-is.
func ClassifyMask(_ []byte) string {
	return mimePNG
}
