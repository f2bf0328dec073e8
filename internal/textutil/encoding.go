// Package textutil holds small string helpers shared by the views.
package textutil

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const displayHashLength = 8

// ErrInvalidBase64 indicates that input is neither standard nor URL-safe base64.
var ErrInvalidBase64 = errors.New("textutil: invalid base64")

// EncodeBase64 returns the standard base64 encoding of data.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 accepts standard or URL-safe base64, padded or not.
func DecodeBase64(encoded string) ([]byte, error) {
	trimmed := strings.TrimSpace(encoded)
	for _, encoding := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		if decoded, err := encoding.DecodeString(trimmed); err == nil {
			return decoded, nil
		}
	}
	return nil, ErrInvalidBase64
}

// DataURI renders data as a base64 data URI of the given MIME type.
func DataURI(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, EncodeBase64(data))
}

// DisplayHash returns a short fingerprint of value for on-screen labels. It is
// not a security primitive.
func DisplayHash(value string) string {
	sum := blake2b.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])[:displayHashLength]
}

// AnonymousHandle labels an anonymous author consistently without revealing the id.
func AnonymousHandle(userID string) string {
	return "Anonymous #" + DisplayHash(userID)[:4]
}
