package ingest

import (
	"bytes"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVariantsDimensions(t *testing.T) {
	src, err := DecodeImage(encodePNG(t, 300, 200))
	require.NoError(t, err)

	variants, err := GenerateVariants(src, 800)
	require.NoError(t, err)

	require.Contains(t, variants, VariantOriginal)
	require.Contains(t, variants, VariantSmartCrop)

	for name, data := range variants {
		img, _, err := image.Decode(bytes.NewReader(data))
		require.NoError(t, err, "variant %s must decode", name)
		bounds := img.Bounds()
		assert.Equal(t, 800, bounds.Dx(), "variant %s width", name)
		assert.Equal(t, 800, bounds.Dy(), "variant %s height", name)
	}
}

func TestGenerateVariantsSmartEqualsOriginal(t *testing.T) {
	src, err := DecodeImage(encodePNG(t, 256, 256))
	require.NoError(t, err)

	variants, err := GenerateVariants(src, 800)
	require.NoError(t, err)
	assert.Equal(t, variants[VariantOriginal], variants[VariantSmartCrop])
}

func TestGenerateVariantsDeterministic(t *testing.T) {
	src, err := DecodeImage(encodePNG(t, 300, 200))
	require.NoError(t, err)

	first, err := GenerateVariants(src, 800)
	require.NoError(t, err)
	second, err := GenerateVariants(src, 800)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for name := range first {
		assert.Equal(t, first[name], second[name], "variant %s must be deterministic", name)
	}
}

func TestCanonicalizeStable(t *testing.T) {
	src, err := DecodeImage(encodePNG(t, 128, 96))
	require.NoError(t, err)

	a, err := Canonicalize(src)
	require.NoError(t, err)
	b, err := Canonicalize(src)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
