package domain

import "time"

// AssetKind enumerates asset types.
type AssetKind string

const (
	AssetKindImage AssetKind = "image"
	AssetKindVideo AssetKind = "video"
)

// AssetSource records how an asset entered the library.
type AssetSource string

const (
	AssetSourceGenerated AssetSource = "generated"
	AssetSourceEdited    AssetSource = "edited"
	AssetSourceUploaded  AssetSource = "uploaded"
)

// Asset is one library artifact: a stored file plus its metadata. JobID is
// empty for assets saved straight out of an editor session.
type Asset struct {
	ID         string
	JobID      string
	Kind       AssetKind
	Source     AssetSource
	StorageKey string
	URL        string
	Format     string
	Width      int
	Height     int
	Bytes      int64
	CreatedAt  time.Time
}
