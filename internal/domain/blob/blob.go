// Package blob holds the storage-adapter vocabulary shared by the services
// and the concrete backends.
package blob

import (
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSignedTTL is how long a signed retrieval URL stays valid.
const DefaultSignedTTL = 300 * time.Second

var (
	ErrNotFound   = errors.New("blob not found")
	ErrInvalidKey = errors.New("invalid storage key")
	ErrURLExpired = errors.New("signed url expired")
)

type (
	URLOptions struct {
		Signed bool
		TTL    time.Duration
	}

	// Object is an open payload. Size is -1 when unknown, empty header
	// values are not forwarded.
	Object struct {
		Body               io.ReadCloser
		Size               int64
		ContentType        string
		ContentDisposition string
		ContentEncoding    string
	}
)

// EffectiveTTL falls back to DefaultSignedTTL.
func (o URLOptions) EffectiveTTL() time.Duration {
	if o.TTL <= 0 {
		return DefaultSignedTTL
	}
	return o.TTL
}

// NewKey returns a collision-resistant key that keeps the lower-cased
// extension of displayName.
func NewKey(displayName string) string {
	return uuid.NewString() + Ext(displayName)
}

// Ext is the lower-cased extension of name, "" when it has none or it is
// not plain ASCII alphanumerics.
func Ext(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) < 2 || len(ext) > 16 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

// ContentDisposition builds an attachment header that keeps non-ASCII
// names through RFC 2231 encoding.
func ContentDisposition(displayName string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = "download"
	}
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}
