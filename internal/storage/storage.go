// Package storage defines the blob store used for marketplace and learning
// hub media. Object keys are generated server-side; public URLs are parsed
// back to keys on delete so the dashboard can clean up blobs referenced by
// records written under either URL scheme.
package storage

import (
	"context"
	"io"
)

// Upload folders. Every object lives under exactly one of these.
const (
	FolderMarketplace = "marketplace"
	FolderLearningHub = "learninghub"
)

// IsValidFolder reports whether folder is one of the known upload folders.
func IsValidFolder(folder string) bool {
	return folder == FolderMarketplace || folder == FolderLearningHub
}

// ProgressFunc receives upload progress as a percentage from 0 to 100. It is
// advisory only; implementations may skip intermediate values.
type ProgressFunc func(percent int)

// BlobStore defines the interface for blob storage operations.
type BlobStore interface {
	// Upload stores one blob under a generated key and returns the key and
	// its public URL. A cancelled upload leaves no referenced blob.
	Upload(ctx context.Context, input *UploadInput) (*UploadResult, error)

	// Delete removes the blob a public URL points at. Unparseable URLs are
	// skipped without error; delete is best-effort cleanup and never blocks
	// the admin operation that triggered it.
	Delete(ctx context.Context, url string) error

	// Ping verifies the store is reachable, for readiness checks.
	Ping(ctx context.Context) error
}

// UploadInput holds the parameters for uploading a blob.
type UploadInput struct {
	Folder      string
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
	Progress    ProgressFunc
}

// UploadResult holds the result of a successful upload.
type UploadResult struct {
	Key string
	URL string
}

// NewProgressReader wraps r so that fn observes read progress against size.
// A nil fn or unknown size returns r unchanged. Percentages are reported at
// most once each and never exceed 100.
func NewProgressReader(r io.Reader, size int64, fn ProgressFunc) io.Reader {
	if fn == nil || size <= 0 {
		return r
	}
	return &progressReader{r: r, size: size, fn: fn}
}

type progressReader struct {
	r    io.Reader
	size int64
	read int64
	last int
	fn   ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.read += int64(n)
		pct := int(p.read * 100 / p.size)
		if pct > 100 {
			pct = 100
		}
		if pct != p.last {
			p.last = pct
			p.fn(pct)
		}
	}
	return n, err
}
