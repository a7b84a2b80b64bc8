package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHash_StableAndDistinct(t *testing.T) {
	a := NewHash([]byte("https://example.com/posts/1")).ComputeHash()
	b := NewHash([]byte("https://example.com/posts/1")).ComputeHash()
	c := NewHash([]byte("https://example.com/posts/2")).ComputeHash()

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestFilterArray(t *testing.T) {
	evens := FilterArray([]int{1, 2, 3, 4, 5}, func(n int) bool { return n%2 == 0 })
	assert.Equal(t, []int{2, 4}, evens)

	none := FilterArray([]int{1, 3}, func(n int) bool { return n%2 == 0 })
	assert.Empty(t, none)
}

func TestToJSON_EscapesForTemplates(t *testing.T) {
	assert.Equal(t, `"plain"`, ToJSON("plain"))
	assert.Equal(t, `"with \"quotes\""`, ToJSON(`with "quotes"`))
	assert.Equal(t, `""`, ToJSON(""))
}

func TestLoadPostTemplate_MissingFile(t *testing.T) {
	_, err := LoadPostTemplate("does-not-exist.tmpl")
	require.Error(t, err)
}

func TestLoadPostTemplate_RegistersJSONFunc(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.tmpl")
	require.NoError(t, os.WriteFile(path, []byte(`{"text": {{ json . }}}`), 0o644))

	tmpl, err := LoadPostTemplate(path)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, tmpl.Execute(&buf, `say "hi"`))
	assert.Equal(t, `{"text": "say \"hi\""}`, buf.String())
}
