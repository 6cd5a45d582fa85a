package images_test

import (
	"testing"

	"petal-studio/server/internal/domain/images"
)

func TestClassifyImage(t *testing.T) {
	jpegBytes := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	webpBytes := append([]byte("RIFF"), 0x24, 0x00, 0x00, 0x00, 'W', 'E', 'B', 'P', 'V', 'P', '8', ' ')

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png magic bytes", pngBytes, "image/png"},
		{"jpeg magic bytes", jpegBytes, "image/jpeg"},
		{"webp magic bytes", webpBytes, "image/webp"},
		{"unrecognized bytes fall back to webp", []byte("definitely not an image"), "image/webp"},
		{"empty buffer falls back to webp", nil, "image/webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := images.ClassifyImage(tt.data); got != tt.want {
				t.Fatalf("ClassifyImage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyMask_AlwaysPNG(t *testing.T) {
	inputs := [][]byte{
		pngBytes,
		{0xFF, 0xD8, 0xFF, 0xE0},
		[]byte("garbage"),
		nil,
	}
	for _, data := range inputs {
		if got := images.ClassifyMask(data); got != "image/png" {
			t.Fatalf("ClassifyMask() = %q, want image/png", got)
		}
	}
}
