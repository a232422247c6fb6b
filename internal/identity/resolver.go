package identity

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"

	"github.com/goliatone/go-docmerge/pkg/interfaces"
)

const (
	identityKeyPrefix = "go-docmerge:file:"
	tokenLength       = 12
)

var (
	// ErrIdentityUnknown signals a token that no resolved file maps to.
	ErrIdentityUnknown = errors.New("identity: no file resolved for token")
	// ErrIdentityAmbiguous signals two distinct files collapsing onto one token.
	ErrIdentityAmbiguous = errors.New("identity: token collision between distinct files")
)

// Resolver maps file paths to stable identity tokens and back. Two paths that
// reach the same underlying file (relative aliasing, symlinks) resolve to the
// same token. Tokens are derived deterministically from the canonical path, so
// repeated runs over the same tree produce the same anchors.
type Resolver struct {
	mu      sync.Mutex
	byPath  map[string]interfaces.FileIdentity
	byToken map[interfaces.FileIdentity]string
}

var _ interfaces.IdentityResolver = (*Resolver)(nil)

// NewResolver constructs an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{
		byPath:  map[string]interfaces.FileIdentity{},
		byToken: map[interfaces.FileIdentity]string{},
	}
}

// Resolve returns the identity token for path. The file must exist: canonical
// identity comes from the resolved filesystem location, not from the spelling
// of the path.
func (r *Resolver) Resolve(path string) (interfaces.FileIdentity, error) {
	canonical, err := Canonicalize(path)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if token, ok := r.byPath[canonical]; ok {
		return token, nil
	}

	token := tokenFor(canonical)
	if existing, ok := r.byToken[token]; ok && existing != canonical {
		return "", fmt.Errorf("%w: %s and %s both map to %s", ErrIdentityAmbiguous, existing, canonical, token)
	}

	r.byPath[canonical] = token
	r.byToken[token] = canonical
	return token, nil
}

// PathOf returns the canonical path behind a previously resolved token.
func (r *Resolver) PathOf(id interfaces.FileIdentity) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	path, ok := r.byToken[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrIdentityUnknown, id)
	}
	return path, nil
}

// Canonicalize produces the absolute, symlink-resolved form of path. It fails
// when the file does not exist, which callers treat as "file unknown".
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("identity: absolute path for %s: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("identity: resolve %s: %w", path, err)
	}
	return resolved, nil
}

// anchorPrefixPattern matches the token-plus-dash prefix carried by every
// anchor the merge pass emits. Tokens are hex, so author-written anchors
// rarely collide with the shape.
var anchorPrefixPattern = regexp.MustCompile(`^[0-9a-f]{12}-`)

// HasTokenPrefix reports whether anchor begins with a file-identity token.
// Anchors without the prefix were written by an author, not by the merger.
func HasTokenPrefix(anchor string) bool {
	return anchorPrefixPattern.MatchString(anchor)
}

// tokenFor derives a short anchor-safe token from a canonical path using
// go-hashid, falling back to a SHA1-based UUID when hashing fails.
func tokenFor(canonical string) interfaces.FileIdentity {
	key := identityKeyPrefix + canonical

	uid, err := hashid.NewUUID(key, hashid.WithHashAlgorithm(hashid.SHA256))
	if err != nil || uid == uuid.Nil {
		uid = uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
	}

	compact := strings.ReplaceAll(uid.String(), "-", "")
	return interfaces.FileIdentity(compact[:tokenLength])
}
