package ingest

import (
	"image"
	"time"
)

// SourceKind tells the coordinator where the image bytes come from.
type SourceKind string

const (
	SourceUpload SourceKind = "upload"
	SourceURL    SourceKind = "url"
)

// Source describes the image source for one ingestion.
type Source struct {
	Kind     SourceKind
	Filename string // upload mode
	Data     []byte // upload mode
	ImageURL string // url mode: the pre-selected image to download
	PageURL  string // url mode: the product page it came from, if known
}

// Request is the inbound ingestion job. It lives only for the duration of
// one pipeline run.
type Request struct {
	UserID   int64
	Source   Source
	Name     string // optional user-supplied name
	ItemType string // free string, defaults to "other"
	Deadline time.Duration
}

// Artifact is a decoded image with its canonical-bytes hash. Immutable once
// constructed.
type Artifact struct {
	Image  image.Image
	Width  int
	Height int
	Origin SourceKind
	Hash   string // sha256 hex of the canonical bytes
	Bytes  []byte // canonical bytes the hash was computed over
	Mime   string
}

// Variant names as produced by the variant generator.
const (
	VariantOriginal  = "original"
	VariantSmartCrop = "smart_crop"
	VariantTightCrop = "tight_crop"
	VariantEnhanced  = "enhanced"
)

// VariantSet maps variant name to encoded JPEG bytes at the configured
// square output size. The "original" entry is always present.
type VariantSet map[string][]byte

// Classification is the outcome of the external vision service. A missing
// or failed response is represented by the zero value with Checked=false,
// never by a pipeline panic.
type Classification struct {
	Checked       bool // check-clothing answered
	IsClothing    bool
	BestLabel     string
	Confidence    float64
	Type          string
	Color         string
	Style         string
	GeneratedName string
}

// StoredImage is the persisted artifact reference returned by a storage
// backend.
type StoredImage struct {
	URL     string
	Backend string // "local" or "bucket"
	Key     string
}

// Candidate is one scraped image-URL candidate for the fetch endpoint.
type Candidate struct {
	URL    string `json:"url"`
	Source string `json:"source"` // og | twitter | jsonld | img
}

// PageInfo is the scraper output for one product page.
type PageInfo struct {
	Title      string
	Candidates []Candidate
}

// Record is the fully-formed wardrobe insertion row the pipeline hands to
// the recorder. The recorder owns persistence, the pipeline owns rollback.
type Record struct {
	ID          int64
	UserID      int64
	ItemName    string
	ItemType    string
	PhotoURL    string
	PhotoHash   string
	StorageKey  string
	Colors      string
	Description string
	CreatedAt   time.Time
}

// Result is the client-visible outcome of a successful ingestion.
type Result struct {
	ItemID   int64
	PhotoURL string
	ItemName string
	Deduped  bool
}
