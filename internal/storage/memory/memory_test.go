package memory

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeanSoulong/admin-bay/internal/storage"
	apperrors "github.com/SeanSoulong/admin-bay/pkg/errors"
)

func newTestStore() *Store {
	return New("http://localhost:9000", "admin-bay-media")
}

func TestStore_Upload_StoresBlobUnderGeneratedKey(t *testing.T) {
	store := newTestStore()

	res, err := store.Upload(context.Background(), &storage.UploadInput{
		Folder:      storage.FolderMarketplace,
		FileName:    "krama.jpg",
		ContentType: "image/jpeg",
		Size:        4,
		Reader:      strings.NewReader("data"),
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^marketplace/\d{13}_[a-z0-9]{13}\.jpg$`), res.Key)
	assert.Equal(t, "http://localhost:9000/admin-bay-media/"+res.Key, res.URL)

	data, ok := store.Object(res.Key)
	require.True(t, ok)
	assert.Equal(t, "data", string(data))
	assert.Equal(t, 1, store.Len())
}

func TestStore_Upload_InvalidFolder(t *testing.T) {
	store := newTestStore()

	_, err := store.Upload(context.Background(), &storage.UploadInput{
		Folder:   "attic",
		FileName: "x.jpg",
		Reader:   strings.NewReader(""),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, 0, store.Len())
}

func TestStore_Upload_ReportsProgressBookends(t *testing.T) {
	store := newTestStore()

	var seen []int
	_, err := store.Upload(context.Background(), &storage.UploadInput{
		Folder:   storage.FolderLearningHub,
		FileName: "cover.png",
		Size:     10,
		Reader:   strings.NewReader("0123456789"),
		Progress: func(pct int) { seen = append(seen, pct) },
	})
	require.NoError(t, err)

	require.NotEmpty(t, seen)
	assert.Equal(t, 0, seen[0])
	assert.Equal(t, 100, seen[len(seen)-1])
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1])
	}
}

func TestStore_Upload_CancelledLeavesNothing(t *testing.T) {
	store := newTestStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Upload(ctx, &storage.UploadInput{
		Folder:   storage.FolderMarketplace,
		FileName: "x.jpg",
		Size:     4,
		Reader:   strings.NewReader("data"),
	})
	require.Error(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestStore_Delete_ByBucketPathURL(t *testing.T) {
	store := newTestStore()

	res, err := store.Upload(context.Background(), &storage.UploadInput{
		Folder:   storage.FolderMarketplace,
		FileName: "x.jpg",
		Size:     1,
		Reader:   strings.NewReader("x"),
	})
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(context.Background(), res.URL))
	assert.Equal(t, 0, store.Len())
}

func TestStore_Delete_ByLegacyURL(t *testing.T) {
	store := newTestStore()

	res, err := store.Upload(context.Background(), &storage.UploadInput{
		Folder:   storage.FolderLearningHub,
		FileName: "cover.png",
		Size:     1,
		Reader:   strings.NewReader("x"),
	})
	require.NoError(t, err)

	legacy := "https://legacy.example.com/o/" + strings.ReplaceAll(res.Key, "/", "%2F") + "?alt=media"
	require.NoError(t, store.Delete(context.Background(), legacy))
	assert.Equal(t, 0, store.Len())
}

func TestStore_Delete_UnparseableURLIsSkipped(t *testing.T) {
	store := newTestStore()

	_, err := store.Upload(context.Background(), &storage.UploadInput{
		Folder:   storage.FolderMarketplace,
		FileName: "x.jpg",
		Size:     1,
		Reader:   strings.NewReader("x"),
	})
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), "https://cdn.example.com/unrelated.jpg"))
	assert.Equal(t, 1, store.Len())
}

func TestStore_Ping(t *testing.T) {
	assert.NoError(t, newTestStore().Ping(context.Background()))
}
