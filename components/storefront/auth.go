package storefront

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

const authenticatedKey = "isAuthenticated"

// Gate is the mock authentication gate in front of the admin surface. It
// compares credentials against configured values and persists the
// authenticated flag the same way the collections are persisted. It does not
// implement credential storage or real session semantics.
type Gate struct {
	mu       sync.Mutex
	username string
	password string
	kv       KV
	token    string
}

// NewGate builds a gate for the configured mock credentials. kv may be nil,
// in which case the flag does not survive restarts.
func NewGate(username, password string, kv KV) *Gate {
	g := &Gate{username: username, password: password, kv: kv}
	if kv != nil {
		if v, ok, err := kv.Get(context.Background(), authenticatedKey); err == nil && ok && v == "true" {
			g.token = uuid.NewString()
		}
	}
	return g
}

// Login compares credentials and, on success, mints a session token and
// persists the authenticated flag.
func (g *Gate) Login(ctx context.Context, username, password string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if username != g.username || password != g.password {
		return "", false
	}
	g.token = uuid.NewString()
	if g.kv != nil {
		_ = g.kv.Set(ctx, authenticatedKey, "true")
	}
	return g.token, true
}

// Logout clears the session and the persisted flag.
func (g *Gate) Logout(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token = ""
	if g.kv != nil {
		return g.kv.Delete(ctx, authenticatedKey)
	}
	return nil
}

// Authenticated reports whether a session is active.
func (g *Gate) Authenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token != ""
}

// ValidToken reports whether the presented token matches the active session.
func (g *Gate) ValidToken(token string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token != "" && token == g.token
}
