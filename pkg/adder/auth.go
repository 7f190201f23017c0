package adder

import (
	"context"
	"strings"

	"github.com/mjiggidy/adderlib/pkg/apierr"
)

// CodeLocal is the RequestError code used for session rejections decided
// before a request is sent.
const CodeLocal = "-1"

// Login authenticates as username and stores the issued token on the session
// user. A session that is already logged in is rejected with a RequestError
// and left as it is; log out first to switch accounts.
func (a *API) Login(ctx context.Context, username, password string) error {
	if a.user.LoggedIn() {
		return &apierr.RequestError{
			Method:  "login",
			Code:    CodeLocal,
			Message: "already logged in as " + a.user.Username(),
		}
	}
	if username == "" {
		return &apierr.ValidationError{Field: "username", Reason: "must not be empty"}
	}

	p := a.params("login")
	p.Set("username", username)
	p.Set("password", password)

	env, err := a.do(ctx, p)
	if err != nil {
		a.user.SetLoggedOut()
		return err
	}

	token := strings.TrimSpace(env.Value("token"))
	if token == "" {
		a.user.SetLoggedOut()
		return &apierr.UnknownResponseError{Method: "login", Detail: "success without a token"}
	}

	a.user.SetLoggedIn(username, token)
	a.log.InfoContext(ctx, "logged in", "username", username, "server", a.server.Host)

	return nil
}

// Logout ends the session. On failure the session user is not changed, so
// the caller may retry or treat the token as expired.
func (a *API) Logout(ctx context.Context) error {
	if !a.user.LoggedIn() {
		return &apierr.RequestError{Method: "logout", Code: CodeLocal, Message: "not logged in"}
	}

	if err := a.exec(ctx, a.authParams("logout")); err != nil {
		return err
	}

	a.log.InfoContext(ctx, "logged out", "username", a.user.Username())
	a.user.SetLoggedOut()

	return nil
}
