// Package idem guards order creation against duplicate submissions. A key
// seen within the window maps to the order created by the first attempt;
// the caller surfaces that order instead of creating another.
package idem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const (
	// DefaultTTL is the duplicate-detection window. It only needs to span
	// client retry storms, not cross-session replay.
	DefaultTTL = 5 * time.Second
	// DefaultSweepInterval is how often expired records are purged.
	DefaultSweepInterval = 10 * time.Second
)

// Guard is the duplicate-submission check. CheckDuplicate returns the
// order id recorded for the key when it is still inside the window.
type Guard interface {
	CheckDuplicate(ctx context.Context, key string) (orderID string, duplicate bool, err error)
	Record(ctx context.Context, key, orderID string) error
}

func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return "idem:" + hex.EncodeToString(sum[:])
}
