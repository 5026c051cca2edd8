package util

import (
	"fmt"
	"math/rand"
)

// GenerateNickname builds a display nickname from a base name plus a random
// numeric suffix, used at signup to avoid collisions.
func GenerateNickname(base string) string {
	if base == "" {
		base = "buddy"
	}
	return fmt.Sprintf("%s%04d", base, rand.Intn(10000))
}
