package ingest

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

const jpegQuality = 85

// GenerateVariants produces the deterministic variant set at size×size.
// A failing variant other than "original" is omitted; a failing "original"
// fails the whole set.
func GenerateVariants(img image.Image, size int) (VariantSet, error) {
	flat := flattenOnWhite(img)

	center := centerCrop(flat, size)
	original, err := encodeJPEG(center)
	if err != nil {
		return nil, fmt.Errorf("encode original variant: %w", err)
	}

	set := VariantSet{VariantOriginal: original}

	// smart_crop duplicates center_crop for now; it keeps its own name so a
	// content-aware crop can slot in without changing the interface.
	set[VariantSmartCrop] = original

	if tight, err := encodeJPEG(tightCrop(flat, size)); err == nil {
		set[VariantTightCrop] = tight
	}

	if enhanced, err := encodeJPEG(enhance(center)); err == nil {
		set[VariantEnhanced] = enhanced
	} else {
		set[VariantEnhanced] = original
	}

	return set, nil
}

// Canonicalize re-encodes the decoded image as a flattened JPEG at its
// native size. The sha256 of these bytes is the pipeline's content hash.
func Canonicalize(img image.Image) ([]byte, error) {
	return encodeJPEG(flattenOnWhite(img))
}

// centerCrop crops the centered square of side min(W,H) and downscales to
// size×size.
func centerCrop(img image.Image, size int) image.Image {
	side := minSide(img)
	cropped := imaging.CropCenter(img, side, side)
	return imaging.Resize(cropped, size, size, imaging.Lanczos)
}

// tightCrop crops the centered square of side ⌊0.9·min(W,H)⌋.
func tightCrop(img image.Image, size int) image.Image {
	side := minSide(img) * 9 / 10
	if side < 1 {
		side = 1
	}
	cropped := imaging.CropCenter(img, side, side)
	return imaging.Resize(cropped, size, size, imaging.Lanczos)
}

// enhance applies a mild sharpen and contrast lift to an already-cropped
// variant. Any panic inside the imaging routines falls back to the input.
func enhance(img image.Image) (out image.Image) {
	out = img
	defer func() {
		if recover() != nil {
			out = img
		}
	}()
	sharpened := imaging.Sharpen(img, 0.3)
	return imaging.AdjustContrast(sharpened, 5)
}

// flattenOnWhite composites palette, grayscale and alpha inputs onto a
// white background so JPEG encoding never inherits transparency artifacts.
func flattenOnWhite(img image.Image) image.Image {
	bounds := img.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func minSide(img image.Image) int {
	bounds := img.Bounds()
	if bounds.Dx() < bounds.Dy() {
		return bounds.Dx()
	}
	return bounds.Dy()
}
