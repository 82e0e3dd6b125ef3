package storage

import (
	"crypto/rand"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/SeanSoulong/admin-bay/pkg/errors"
)

const (
	nameAlphabet  = "abcdefghijklmnopqrstuvwxyz0123456789"
	nameRandomLen = 13
)

// NewObjectKey builds the storage key for a fresh upload:
// {folder}/{epoch-ms}_{random-alphanumeric-13}{ext}, where ext is taken from
// the client file name. The original file name never reaches the store, so
// collisions and unsafe characters are impossible by construction.
func NewObjectKey(folder, fileName string) (string, error) {
	if !IsValidFolder(folder) {
		return "", apperrors.InvalidInput(fmt.Sprintf("invalid upload folder: %s", folder))
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	name := fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), randomName(), ext)
	return folder + "/" + name, nil
}

func randomName() string {
	buf := make([]byte, nameRandomLen)
	if _, err := rand.Read(buf); err != nil {
		// Fall back to clock bits; names only need to be unlikely to
		// collide within one millisecond.
		seed := time.Now().UnixNano()
		for i := range buf {
			buf[i] = byte(seed >> (i * 5))
		}
	}
	for i := range buf {
		buf[i] = nameAlphabet[int(buf[i])%len(nameAlphabet)]
	}
	return string(buf)
}

// ParseObjectKey extracts the storage key from a public blob URL. Records
// written by the legacy backend hold URLs with the key URL-encoded after an
// "/o/" segment; newer records hold plain {base}/{bucket}/{key} URLs. The
// legacy form is tried first. Unparseable URLs report ok=false.
func ParseObjectKey(rawURL, bucket string) (string, bool) {
	if i := strings.Index(rawURL, "/o/"); i >= 0 {
		encoded := rawURL[i+len("/o/"):]
		if j := strings.IndexAny(encoded, "?#"); j >= 0 {
			encoded = encoded[:j]
		}
		if key, err := url.PathUnescape(encoded); err == nil && key != "" {
			return key, true
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	path := strings.TrimPrefix(u.Path, "/")
	if rest, ok := strings.CutPrefix(path, bucket+"/"); ok && rest != "" {
		if key, err := url.PathUnescape(rest); err == nil && key != "" {
			return key, true
		}
	}

	return "", false
}
