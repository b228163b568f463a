package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/bartab-sso/pkg/httpx"
	"github.com/aussiebroadwan/bartab-sso/pkg/slogx"
)

//go:embed views/*.html
var viewFiles embed.FS

var views = template.Must(template.ParseFS(viewFiles, "views/*.html"))

// loginPage is the data rendered by views/index.html.
type loginPage struct {
	ServiceName       string
	Message           string
	ShowForm          bool
	CallbackURL       string
	Username          string
	UsernameAutofocus bool
	PasswordAutofocus bool
}

// iframePage is the data rendered by views/iframe.html.
type iframePage struct {
	ServiceName  string
	ValidOrigins []string
}

// render executes the named view into a buffer first so a template error
// never leaves a half-written page behind.
func render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, name, data); err != nil {
		slogx.FromContext(r.Context()).Error("render view", slog.String("view", name), slog.Any("error", err))
		httpx.WriteStatus(w, http.StatusInternalServerError)
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
