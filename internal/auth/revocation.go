package auth

import "sync"

// RevocationRegistry is the deny-list of tokens that must be rejected even
// while structurally valid and unexpired. Membership is add-only for the
// process lifetime: entries are never evicted and are lost on restart.
// A production deployment would keep this in durable storage; a single
// in-process set is a deliberate simplification here.
//
// The registry is constructed once in main and injected into both the
// session controller (logout) and the authentication gate (checks).
type RevocationRegistry struct {
	mu      sync.RWMutex
	revoked map[string]struct{}
}

// NewRevocationRegistry creates an empty registry.
func NewRevocationRegistry() *RevocationRegistry {
	return &RevocationRegistry{revoked: make(map[string]struct{})}
}

// Add marks a token as no longer honoured. Idempotent; the token need not
// have ever been valid.
func (r *RevocationRegistry) Add(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[token] = struct{}{}
}

// Contains reports whether a token has been revoked. Matching is by exact
// token string, never by user identity, so revoking one of a user's tokens
// leaves their others untouched.
func (r *RevocationRegistry) Contains(token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.revoked[token]
	return ok
}
