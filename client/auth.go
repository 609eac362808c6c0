package client

import (
	"sort"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// AuthState holds the bearer token issued by the external credential
// service and republishes authentication-state changes to any number of
// listeners. Listeners must unsubscribe themselves; a forgotten
// subscription keeps receiving updates indefinitely.
type AuthState struct {
	mu     sync.Mutex
	token  string
	nextID int
	subs   map[int]func(bool)
}

func NewAuthState() *AuthState {
	return &AuthState{subs: make(map[int]func(bool))}
}

func (a *AuthState) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}

func (a *AuthState) IsAuthenticated() bool {
	return a.Token() != ""
}

// CurrentPrincipal reports the principal id carried in the token. The
// claim is read without verification: the client only displays it, the
// server re-verifies every request.
func (a *AuthState) CurrentPrincipal() (string, bool) {
	token := a.Token()
	if token == "" {
		return "", false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}

	principal, ok := claims["userId"].(string)
	return principal, ok && principal != ""
}

// SetToken installs a token and publishes the new authentication status.
func (a *AuthState) SetToken(token string) {
	a.publishStatus(token)
}

// ClearToken drops the token and publishes the signed-out status.
func (a *AuthState) ClearToken() {
	a.publishStatus("")
}

// SubscribeStatus registers a listener for authentication-state changes.
func (a *AuthState) SubscribeStatus(fn func(bool)) Subscription {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextID
	a.nextID++
	a.subs[id] = fn

	return Subscription{cancel: func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.subs, id)
	}}
}

func (a *AuthState) publishStatus(token string) {
	a.mu.Lock()
	a.token = token
	status := token != ""
	callbacks := snapshotCallbacks(a.subs)
	a.mu.Unlock()

	for _, fn := range callbacks {
		fn(status)
	}
}

// snapshotCallbacks copies live callbacks in registration order so they
// can be invoked outside the lock.
func snapshotCallbacks[T any](subs map[int]func(T)) []func(T) {
	ids := make([]int, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	callbacks := make([]func(T), 0, len(ids))
	for _, id := range ids {
		callbacks = append(callbacks, subs[id])
	}
	return callbacks
}
