// Package user holds the session of the account the client acts as.
package user

import "sync"

// User is the account a client is logged in as. The zero value is a
// logged-out user and is ready to use. It is safe for concurrent use.
type User struct {
	mu       sync.RWMutex
	username string
	token    string
}

// New returns a logged-out user.
func New() *User {
	return &User{}
}

// SetLoggedIn records a successful login.
func (u *User) SetLoggedIn(username, token string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.username = username
	u.token = token
}

// SetLoggedOut clears the session.
func (u *User) SetLoggedOut() {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.username = ""
	u.token = ""
}

// Username returns the name of the logged in account, or "".
func (u *User) Username() string {
	u.mu.RLock()
	defer u.mu.RUnlock()

	return u.username
}

// Token returns the session token issued at login, or "".
func (u *User) Token() string {
	u.mu.RLock()
	defer u.mu.RUnlock()

	return u.token
}

// LoggedIn reports whether both a username and a token are set.
func (u *User) LoggedIn() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()

	return u.username != "" && u.token != ""
}

// LoggedOut is the negation of LoggedIn.
func (u *User) LoggedOut() bool {
	return !u.LoggedIn()
}
