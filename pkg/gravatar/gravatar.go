package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

const baseURL = "https://www.gravatar.com/avatar"

// URL returns the Gravatar image URL for the given email at the requested
// pixel size. The email is hashed per the Gravatar spec: trimmed, lowercased,
// MD5.
func URL(email string, size int) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	hash := hex.EncodeToString(sum[:])
	if size <= 0 {
		return fmt.Sprintf("%s/%s", baseURL, hash)
	}
	return fmt.Sprintf("%s/%s?s=%d", baseURL, hash, size)
}
