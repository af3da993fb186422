package util

import (
	"crypto/sha1"
	"encoding/hex"
)

// FileID is the stable identifier of a file name, used as a counter key and in page markup.
func FileID(name string) string {
	sum := sha1.Sum([]byte(name))

	return hex.EncodeToString(sum[:])
}
