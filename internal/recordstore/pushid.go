package recordstore

import (
	"crypto/rand"
	"sync"
	"time"
)

// pushAlphabet is ASCII-ordered so generated ids sort lexicographically by
// creation time.
const pushAlphabet = "-0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

const (
	pushTimestampLen = 8
	pushRandomLen    = 12
	// PushIDLength is the total length of a generated push id.
	PushIDLength = pushTimestampLen + pushRandomLen
)

// pushIDGenerator produces push ids: 8 characters encode the epoch millis,
// 12 are random. Calls within the same millisecond increment the previous
// random suffix instead of redrawing it, which keeps ids unique and ordered
// even under bursts.
type pushIDGenerator struct {
	mu       sync.Mutex
	lastMs   int64
	lastRand [pushRandomLen]byte
	now      func() int64
}

var defaultPushIDs = &pushIDGenerator{now: func() int64 { return time.Now().UnixMilli() }}

func (g *pushIDGenerator) next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now()
	if ms != g.lastMs {
		g.lastMs = ms
		var seed [pushRandomLen]byte
		if _, err := rand.Read(seed[:]); err != nil {
			// crypto/rand never fails on supported platforms; fall back to
			// the clock so ids stay unique-ish rather than panicking.
			for i := range seed {
				seed[i] = byte((ms >> (i % 8)) & 0x3f)
			}
		}
		for i, b := range seed {
			g.lastRand[i] = b & 0x3f
		}
	} else {
		g.increment()
	}

	var id [PushIDLength]byte
	x := ms
	for i := pushTimestampLen - 1; i >= 0; i-- {
		id[i] = pushAlphabet[x&0x3f]
		x >>= 6
	}
	for i, v := range g.lastRand {
		id[pushTimestampLen+i] = pushAlphabet[v]
	}
	return string(id[:])
}

// increment adds one to the random suffix with carry, preserving ordering
// within a single millisecond.
func (g *pushIDGenerator) increment() {
	for i := pushRandomLen - 1; i >= 0; i-- {
		if g.lastRand[i] < 63 {
			g.lastRand[i]++
			return
		}
		g.lastRand[i] = 0
	}
}
