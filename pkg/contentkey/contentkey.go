// Package contentkey derives the storage key of an asset. The key is the only
// deduplication mechanism: identical bytes, or an identical caller-supplied
// identity, always produce the same key.
package contentkey

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"path"
	"strings"
)

// DefaultExtension is used when no extension can be discovered from the file name hint
const DefaultExtension = "mov"

// Key is a derived storage key plus the parts it was built from
type Key struct {
	Prefix    string
	Identity  string
	Extension string
}

// String render the key as <prefix><identity>.<extension>
func (k Key) String() string {
	return k.Prefix + k.Identity + "." + k.Extension
}

// FromBytes digest the full payload (SHA-1, hex) and build the key
func FromBytes(prefix string, data []byte, fileName string) Key {
	sum := sha1.Sum(data)
	return Key{
		Prefix:    prefix,
		Identity:  hex.EncodeToString(sum[:]),
		Extension: Extension(fileName),
	}
}

// FromReader same as FromBytes but streams r through the digest.
// It returns the number of bytes read.
func FromReader(prefix string, r io.Reader, fileName string) (Key, int64, error) {
	h := sha1.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return Key{}, n, err
	}
	return Key{
		Prefix:    prefix,
		Identity:  hex.EncodeToString(h.Sum(nil)),
		Extension: Extension(fileName),
	}, n, nil
}

// FromIdentity build the key from a caller-supplied identity, skipping the digest.
// A file name such as "Ep12.MP4" yields identity "Ep12" and extension "MP4", so the
// key of a pre-stored object is prefix + its file name, case kept as given.
func FromIdentity(prefix, identity string) Key {
	identity = strings.TrimSpace(identity)
	dotExt := path.Ext(identity)
	if dotExt == identity {
		dotExt = ""
	}
	identity = strings.TrimSuffix(identity, dotExt)

	ext := strings.TrimPrefix(dotExt, ".")
	if ext == "" || strings.ContainsAny(ext, "/\\ ") {
		ext = DefaultExtension
	}
	return Key{
		Prefix:    prefix,
		Identity:  identity,
		Extension: ext,
	}
}

// Extension return the lower-case extension of fileName without the dot,
// or DefaultExtension when there is none
func Extension(fileName string) string {
	fileName = strings.TrimSpace(fileName)
	idx := strings.LastIndex(fileName, ".")
	if idx < 0 || idx == len(fileName)-1 {
		return DefaultExtension
	}
	ext := strings.ToLower(fileName[idx+1:])
	if strings.ContainsAny(ext, "/\\ ") {
		return DefaultExtension
	}
	return ext
}
