package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
	"time"
)

// NewMapID returns map-<suffix> where suffix is 8 chars of base32 (lowercase,
// no padding). 8 chars base32 ~= 40 bits of space, plenty for one workspace.
func (s Store) NewMapID() string {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand should not fail; fall back to a time-derived suffix.
		return "map-" + strings.ToLower(time.Now().UTC().Format("20060102150405"))
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return "map-" + strings.ToLower(enc.EncodeToString(b[:]))
}
