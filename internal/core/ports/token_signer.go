package ports

import "github.com/userhub/accounts-api/internal/core/domain"

// TokenSigner issues a signed credential binding the user's identity, a
// snapshot of its role set and the network origin of the signing request.
// Expiry policy is owned by the implementation. Verification is the
// transport layer's concern, not part of this contract.
type TokenSigner interface {
	Sign(user *domain.User, origin string) (string, error)
}
