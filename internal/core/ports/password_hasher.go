package ports

// PasswordHasher produces one-way password digests for storage and compares
// candidates against them. Compare must not leak timing information
// correlated with partial matches.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}
