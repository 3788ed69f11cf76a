package ingest

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"regexp"
	"strings"

	_ "golang.org/x/image/webp" // register webp decoding for scraped images
)

// Validation reasons surfaced to the client as-is.
const (
	ReasonNameTooShort   = "Название слишком короткое"
	ReasonNameTooLong    = "Название слишком длинное (макс 200 символов)"
	ReasonNameBadChars   = "Название содержит недопустимые символы"
	ReasonNameNotClothes = "Название не похоже на предмет одежды"
	ReasonImageEmpty     = "Пустой файл"
	ReasonImageTooLarge  = "Файл слишком большой (макс 5 МБ)"
	ReasonImageUndecoded = "Не удалось распознать изображение"
	ReasonImageTooSmall  = "Изображение слишком маленькое (мин 64×64)"
)

const (
	minNameLen  = 2
	maxNameLen  = 200
	minImageDim = 64
)

var nameCharset = regexp.MustCompile(`^[\p{L}\p{N}_\s\-\.,()"'&]+$`)

// clothingKeywords is a coarse bilingual vocabulary. Matching is
// case-insensitive substring, so Russian entries are stems.
var clothingKeywords = []string{
	// English
	"shirt", "t-shirt", "tshirt", "tee", "polo", "top", "blouse",
	"jeans", "pants", "trousers", "shorts", "skirt", "dress",
	"hoodie", "sweater", "cardigan", "jumper", "sweatshirt",
	"jacket", "coat", "blazer", "suit", "vest",
	"sneakers", "shoes", "boots", "sandals", "heels",
	"hat", "cap", "scarf", "belt", "socks", "gloves", "bag",
	// Russian stems
	"футболк", "рубашк", "куртк", "плать", "джинс", "брюк", "штан",
	"юбк", "свитер", "худи", "толстовк", "кофт", "кроссовк", "ботинк",
	"туфл", "сапог", "пальто", "шорт", "пиджак", "костюм", "жилет",
	"блузк", "майк", "шапк", "шарф", "ремень", "перчатк", "носк", "сумк",
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanName trims and collapses whitespace. Applying it twice yields the
// same string, so validation after cleaning is idempotent.
func CleanName(name string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(name), " ")
}

// ValidateName checks a user-supplied item name. It returns ok and, when
// rejected, a short client-facing reason. The input is never mutated.
func ValidateName(name string) (bool, string) {
	runes := []rune(name)
	if len(runes) < minNameLen {
		return false, ReasonNameTooShort
	}
	if len(runes) > maxNameLen {
		return false, ReasonNameTooLong
	}
	if !nameCharset.MatchString(name) {
		return false, ReasonNameBadChars
	}
	lowered := strings.ToLower(name)
	for _, keyword := range clothingKeywords {
		if strings.Contains(lowered, keyword) {
			return true, ""
		}
	}
	return false, ReasonNameNotClothes
}

// ValidateImage checks raw image bytes: non-empty, within the size cap,
// decodable, and at least 64 px on each side.
func ValidateImage(data []byte, maxBytes int64) (bool, string) {
	if len(data) == 0 {
		return false, ReasonImageEmpty
	}
	if int64(len(data)) > maxBytes {
		return false, ReasonImageTooLarge
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return false, ReasonImageUndecoded
	}
	if cfg.Width < minImageDim || cfg.Height < minImageDim {
		return false, ReasonImageTooSmall
	}
	return true, ""
}

// DecodeImage decodes the raw bytes into an image.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
