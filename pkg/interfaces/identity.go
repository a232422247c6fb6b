package interfaces

// FileIdentity is an opaque, stable token identifying a specific file. Two
// relative paths that reach the same underlying file must resolve to the same
// identity. The token doubles as the anchor prefix in the merged document, so
// implementations must keep it URL-fragment safe.
type FileIdentity string

// String returns the raw token.
func (id FileIdentity) String() string { return string(id) }

// IdentityResolver maps file paths to stable identities and back. Resolution
// failures that leave a path without exactly one identity are internal errors;
// callers cannot continue without unambiguous file identity.
type IdentityResolver interface {
	// Resolve returns the identity for path, which may be relative to the
	// process working directory or to another file's directory.
	Resolve(path string) (FileIdentity, error)
	// PathOf returns the canonical path previously resolved to id.
	PathOf(id FileIdentity) (string, error)
}
