package record

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/SeanSoulong/admin-bay/internal/recordstore"
)

func setupTestStore(t *testing.T) (*recordstore.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return recordstore.New(client, ""), mr
}
