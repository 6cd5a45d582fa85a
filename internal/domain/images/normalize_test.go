package images_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petal-studio/server/internal/domain/images"
)

func TestNormalizeImages(t *testing.T) {
	t.Run("urls pass through verbatim", func(t *testing.T) {
		urls, err := images.NormalizeImages([]images.UpstreamImage{
			{URL: "https://cdn.example.com/a.png"},
			{URL: "https://cdn.example.com/b.png"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn.example.com/a.png", "https://cdn.example.com/b.png"}, urls)
	})

	t.Run("base64 payloads become data urls", func(t *testing.T) {
		urls, err := images.NormalizeImages([]images.UpstreamImage{{B64JSON: "aGVsbG8="}})
		require.NoError(t, err)
		require.Len(t, urls, 1)
		assert.Equal(t, "data:image/png;base64,aGVsbG8=", urls[0])
	})

	t.Run("mixed entries keep order", func(t *testing.T) {
		urls, err := images.NormalizeImages([]images.UpstreamImage{
			{B64JSON: "YQ=="},
			{URL: "https://cdn.example.com/b.png"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"data:image/png;base64,YQ==", "https://cdn.example.com/b.png"}, urls)
	})

	t.Run("empty upstream list passes through", func(t *testing.T) {
		urls, err := images.NormalizeImages(nil)
		require.NoError(t, err)
		assert.Empty(t, urls)
	})

	t.Run("entry with neither field fails the whole call", func(t *testing.T) {
		_, err := images.NormalizeImages([]images.UpstreamImage{
			{URL: "https://cdn.example.com/a.png"},
			{},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, images.ErrInvalidResponseFormat))
	})
}
