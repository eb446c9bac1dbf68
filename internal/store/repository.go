package store

import "github.com/google/uuid"

// InfoRepository indexes ImageInfo records for later lookup and search.
type InfoRepository interface {
	SaveImageInfo(info ImageInfo) error
	GetImageInfo(imageID uuid.UUID) (*ImageInfo, error)
	SearchImageInfo(opts SearchOptions) ([]ImageInfo, error)
}

// BlobRepository stores and retrieves the raw bytes of a captured image,
// addressed by a relative name (e.g. a date-partitioned path).
type BlobRepository interface {
	Store(name string, data []byte) error
	Read(name string) ([]byte, error)
}
