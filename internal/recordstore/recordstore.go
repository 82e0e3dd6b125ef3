// Package recordstore provides typed access to the hierarchical record store
// backing the dashboard: slash-separated paths mapped 1:1 to Redis keys under
// an optional namespace, values stored as JSON documents.
package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/SeanSoulong/admin-bay/pkg/errors"
)

const (
	// maxTxRetries bounds optimistic transaction retries before surfacing a
	// conflict to the caller.
	maxTxRetries = 5

	scanBatchSize = 200
)

// Client is the record store client. All operations treat an absent path as
// an empty result, not an error; connection and command failures surface as
// ErrUnavailable.
type Client struct {
	rdb       *redis.Client
	namespace string
}

// New creates a record store client over the given Redis connection. When
// namespace is non-empty every key is prefixed with "namespace:".
func New(rdb *redis.Client, namespace string) *Client {
	return &Client{rdb: rdb, namespace: namespace}
}

func (c *Client) key(path string) string {
	if c.namespace == "" {
		return path
	}
	return c.namespace + ":" + path
}

func (c *Client) relative(key, prefix string) string {
	return strings.TrimPrefix(key, prefix)
}

// Get loads the JSON document at path into dst. An absent path reports
// (false, nil) with dst untouched.
func (c *Client) Get(ctx context.Context, path string, dst any) (bool, error) {
	data, err := c.rdb.Get(ctx, c.key(path)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, apperrors.Unavailable(fmt.Errorf("get record %s: %w", path, err))
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("unmarshal record %s: %w", path, err)
	}
	return true, nil
}

// Set stores value as the JSON document at path, replacing any existing
// document.
func (c *Client) Set(ctx context.Context, path string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", path, err)
	}

	if err := c.rdb.Set(ctx, c.key(path), data, 0).Err(); err != nil {
		return apperrors.Unavailable(fmt.Errorf("set record %s: %w", path, err))
	}
	return nil
}

// Update shallow-merges fields over the existing JSON object at path without
// clobbering unlisted siblings. The read-merge-write runs inside a WATCH
// transaction on the key and retries on conflict. An absent path is created
// from the fields alone; callers that require existence check it first.
func (c *Client) Update(ctx context.Context, path string, fields map[string]any) error {
	key := c.key(path)

	merge := func(tx *redis.Tx) error {
		doc := make(map[string]any, len(fields))

		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("unmarshal record %s: %w", path, err)
			}
		case errors.Is(err, redis.Nil):
			// No existing document; the merge result is just the fields.
		default:
			return apperrors.Unavailable(fmt.Errorf("get record %s: %w", path, err))
		}

		for k, v := range fields {
			doc[k] = v
		}

		merged, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal record %s: %w", path, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, merged, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := c.rdb.Watch(ctx, merge, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return apperrors.Conflict(fmt.Sprintf("update %s: concurrent writes exhausted retries", path))
}

// Remove deletes the document at path. Removing an absent path is not an
// error.
func (c *Client) Remove(ctx context.Context, path string) error {
	if err := c.rdb.Del(ctx, c.key(path)).Err(); err != nil {
		return apperrors.Unavailable(fmt.Errorf("remove record %s: %w", path, err))
	}
	return nil
}

// RemoveAll deletes every given path in a single MULTI/EXEC batch. This is
// the fan-out primitive used by bookmark cleanup.
func (c *Client) RemoveAll(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, p := range paths {
			pipe.Del(ctx, c.key(p))
		}
		return nil
	})
	if err != nil {
		return apperrors.Unavailable(fmt.Errorf("remove %d records: %w", len(paths), err))
	}
	return nil
}

// ListChildren returns every document stored under path, keyed by the path
// remainder after "path/". Descendants at any depth are included, so listing
// "learning_hub/user_saved_cards" yields "{userId}/{uuid}" keys. An empty
// map means nothing matched.
func (c *Client) ListChildren(ctx context.Context, path string) (map[string]json.RawMessage, error) {
	prefix := c.key(path) + "/"

	var keys []string
	iter := c.rdb.Scan(ctx, 0, prefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, apperrors.Unavailable(fmt.Errorf("scan records %s: %w", path, err))
	}

	children := make(map[string]json.RawMessage, len(keys))
	if len(keys) == 0 {
		return children, nil
	}

	values, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, apperrors.Unavailable(fmt.Errorf("mget records %s: %w", path, err))
	}

	for i, v := range values {
		// A key can expire between SCAN and MGET; skip the hole.
		s, ok := v.(string)
		if !ok {
			continue
		}
		children[c.relative(keys[i], prefix)] = json.RawMessage(s)
	}
	return children, nil
}

// Push allocates a Firebase-style push id under parentPath and returns the
// full child path along with the bare id. Ids are 20 characters (8 encoding
// the current epoch millis, 12 random with same-millisecond increment), so
// they are unique and creation-ordered without a read.
func (c *Client) Push(parentPath string) (string, string) {
	id := defaultPushIDs.next()
	return parentPath + "/" + id, id
}

// Ping verifies store connectivity, for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping record store: %w", err)
	}
	return nil
}

// Tx is the view passed to RunTx callbacks. Reads go through the watched
// connection; Set and Remove are queued and committed atomically when the
// callback returns.
type Tx struct {
	ctx    context.Context
	tx     *redis.Tx
	client *Client
	sets   []queuedWrite
	dels   []string
}

type queuedWrite struct {
	key  string
	data []byte
}

// Get loads the document at path through the watched connection.
func (t *Tx) Get(path string, dst any) (bool, error) {
	data, err := t.tx.Get(t.ctx, t.client.key(path)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, apperrors.Unavailable(fmt.Errorf("get record %s: %w", path, err))
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("unmarshal record %s: %w", path, err)
	}
	return true, nil
}

// Set queues a full-document write for the commit.
func (t *Tx) Set(path string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", path, err)
	}
	t.sets = append(t.sets, queuedWrite{key: t.client.key(path), data: data})
	return nil
}

// Remove queues a delete for the commit.
func (t *Tx) Remove(path string) {
	t.dels = append(t.dels, t.client.key(path))
}

// RunTx runs fn inside an optimistic transaction over the given paths: the
// paths are WATCHed, fn reads current state and queues writes, and the queue
// commits via MULTI/EXEC. A concurrent write to any watched path aborts the
// commit and the whole callback retries, bounded by maxTxRetries; exhaustion
// surfaces ErrConflict with nothing written. Errors returned by fn abort
// without retrying.
func (c *Client) RunTx(ctx context.Context, fn func(tx *Tx) error, paths ...string) error {
	keys := make([]string, len(paths))
	for i, p := range paths {
		keys[i] = c.key(p)
	}

	attempt := func(rtx *redis.Tx) error {
		view := &Tx{ctx: ctx, tx: rtx, client: c}
		if err := fn(view); err != nil {
			return err
		}

		_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, w := range view.sets {
				pipe.Set(ctx, w.key, w.data, 0)
			}
			for _, k := range view.dels {
				pipe.Del(ctx, k)
			}
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := c.rdb.Watch(ctx, attempt, keys...)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return apperrors.Conflict("record transaction: concurrent writes exhausted retries")
}
