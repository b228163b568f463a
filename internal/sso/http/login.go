package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/domain"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/service"
	"github.com/aussiebroadwan/bartab-sso/pkg/httpx"
	"github.com/aussiebroadwan/bartab-sso/pkg/slogx"
)

const errWrongUsernameOrPassword = "wrongUsernameOrPassword"

// LoginHandler serves the login page and processes the login form.
type LoginHandler struct {
	Settings     *domain.Settings
	LoginService *service.LoginService
	CookieSecure bool
	TrustProxy   bool
}

// HandlePage renders the login form for an allow-listed callbackUrl. After a
// failed attempt the username is kept and the password field focused.
func (h *LoginHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	callbackURL := query.Get("callbackUrl")

	if !h.LoginService.Policy.CallbackURLAllowed(callbackURL) {
		render(w, r, http.StatusBadRequest, "index.html", loginPage{
			Message: "Not a valid callbackUrl",
		})
		return
	}

	page := loginPage{
		ServiceName: h.Settings.ServiceName,
		ShowForm:    true,
		CallbackURL: callbackURL,
	}
	if query.Get("error") == errWrongUsernameOrPassword {
		page.Message = "Wrong username or password"
		page.Username = query.Get("username")
		page.PasswordAutofocus = true
	} else {
		page.UsernameAutofocus = true
	}

	render(w, r, http.StatusOK, "index.html", page)
}

// HandleLogin checks the submitted credentials. On success it sets the
// session cookie and redirects to the callback URL; on failure it redirects
// back to the login page.
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		httpx.WriteText(w, http.StatusBadRequest, "invalid form body")
		return
	}

	req := service.LoginRequest{
		Username:    r.PostForm.Get("username"),
		Password:    r.PostForm.Get("password"),
		CallbackURL: r.PostForm.Get("callbackUrl"),
		IP:          httpx.ClientIP(r, h.TrustProxy),
	}

	sess, err := h.LoginService.Login(r.Context(), req)
	switch {
	case err == nil:
		setSessionCookie(w, sess.ID, h.Settings.SessionDuration(), h.CookieSecure)
		http.Redirect(w, r, req.CallbackURL, http.StatusFound)

	case errors.Is(err, service.ErrValidationRejected):
		httpx.WriteText(w, http.StatusBadRequest, "callback url not allowed")

	case errors.Is(err, service.ErrAuthenticationFailed):
		http.Redirect(w, r, failedLoginLocation(req.Username, req.CallbackURL), http.StatusFound)

	default:
		l.Error("login failed", slog.Any("error", err))
		httpx.WriteStatus(w, http.StatusInternalServerError)
	}
}

func failedLoginLocation(username, callbackURL string) string {
	return "/?error=" + errWrongUsernameOrPassword +
		"&username=" + url.QueryEscape(username) +
		"&callbackUrl=" + url.QueryEscape(callbackURL)
}
