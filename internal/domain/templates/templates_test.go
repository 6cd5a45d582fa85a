package templates_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petal-studio/server/internal/domain/templates"
)

func newRegistry(t *testing.T) *templates.Registry {
	t.Helper()
	registry, err := templates.NewRegistry("", time.Minute, zerolog.Nop())
	require.NoError(t, err)
	return registry
}

func TestRegistry_List(t *testing.T) {
	registry := newRegistry(t)

	list, err := registry.List()
	require.NoError(t, err)
	require.NotEmpty(t, list)

	ids := make(map[string]bool, len(list))
	for _, tpl := range list {
		assert.NotEmpty(t, tpl.ID)
		assert.NotEmpty(t, tpl.Prompt)
		assert.False(t, ids[tpl.ID], "duplicate id %s", tpl.ID)
		ids[tpl.ID] = true
	}
	assert.True(t, ids["single-flower"])
}

func TestRegistry_Resolve(t *testing.T) {
	registry := newRegistry(t)

	t.Run("substitutes all placeholders", func(t *testing.T) {
		prompt, err := registry.Resolve("single-flower", map[string]string{
			"flowerType": "peony",
			"color":      "blush pink",
			"background": "white",
		})
		require.NoError(t, err)
		assert.Contains(t, prompt, "peony")
		assert.Contains(t, prompt, "blush pink")
		assert.NotContains(t, prompt, "{")
	})

	t.Run("extra variables are ignored", func(t *testing.T) {
		prompt, err := registry.Resolve("single-flower", map[string]string{
			"flowerType": "peony",
			"color":      "white",
			"background": "black",
			"mood":       "unused",
		})
		require.NoError(t, err)
		assert.NotContains(t, prompt, "unused")
	})

	t.Run("missing variable fails with its name", func(t *testing.T) {
		_, err := registry.Resolve("single-flower", map[string]string{"flowerType": "rose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing variables")
		assert.Contains(t, err.Error(), "color")
	})

	t.Run("blank variable counts as missing", func(t *testing.T) {
		_, err := registry.Resolve("single-flower", map[string]string{
			"flowerType": "rose",
			"color":      "   ",
			"background": "white",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "color")
	})

	t.Run("unknown template id", func(t *testing.T) {
		_, err := registry.Resolve("no-such-template", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown template "no-such-template"`)
	})
}

func TestRegistry_FileOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.yaml")
	content := `templates:
  - id: custom
    name: Custom
    prompt: "A {flowerType} in a vase"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	registry, err := templates.NewRegistry(path, time.Minute, zerolog.Nop())
	require.NoError(t, err)

	prompt, err := registry.Resolve("custom", map[string]string{"flowerType": "dahlia"})
	require.NoError(t, err)
	assert.Equal(t, "A dahlia in a vase", prompt)

	_, err = registry.Resolve("single-flower", nil)
	require.Error(t, err, "file override replaces the embedded set")
}

func TestNewRegistry_FailsFastOnBrokenSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("templates: [ {name: NoID} ]"), 0o644))

	_, err := templates.NewRegistry(path, time.Minute, zerolog.Nop())
	require.Error(t, err)
}
