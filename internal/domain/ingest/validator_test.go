package ingest

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanNameIdempotent(t *testing.T) {
	inputs := []string{
		"  Синяя   футболка  ",
		"shirt",
		"\tдлинное\n имя \r\n",
		"",
	}
	for _, input := range inputs {
		once := CleanName(input)
		twice := CleanName(once)
		assert.Equal(t, once, twice, "CleanName must be idempotent for %q", input)
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		ok     bool
		reason string
	}{
		{"russian clothing name", "Синяя футболка", true, ""},
		{"english clothing name", "blue shirt", true, ""},
		{"not clothing", "random stuff", false, ReasonNameNotClothes},
		{"too short", "a", false, ReasonNameTooShort},
		{"bad characters", "футболка <script>", false, ReasonNameBadChars},
		{"keyword as substring", "Джинсы slim fit", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := ValidateName(CleanName(tt.input))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestValidateNameCleanStable(t *testing.T) {
	// Validation outcome must not change when the input is cleaned again.
	input := "  Синяя   футболка "
	cleaned := CleanName(input)
	ok1, reason1 := ValidateName(cleaned)
	ok2, reason2 := ValidateName(CleanName(cleaned))
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, reason1, reason2)
}

func TestValidateImage(t *testing.T) {
	valid := encodePNG(t, 100, 120)

	tests := []struct {
		name   string
		data   []byte
		ok     bool
		reason string
	}{
		{"valid png", valid, true, ""},
		{"empty", nil, false, ReasonImageEmpty},
		{"garbage", []byte("not an image"), false, ReasonImageUndecoded},
		{"too small", encodePNG(t, 32, 32), false, ReasonImageTooSmall},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := ValidateImage(tt.data, 5*1024*1024)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestValidateImageTooLarge(t *testing.T) {
	data := encodePNG(t, 100, 100)
	ok, reason := ValidateImage(data, int64(len(data))-1)
	assert.False(t, ok)
	assert.Equal(t, ReasonImageTooLarge, reason)
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
