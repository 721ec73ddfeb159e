package cache

import (
	"crypto/md5"
	"encoding/hex"
)

// Key derives the cache key for a source URL: the hex-encoded MD5 digest.
func Key(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}
