package middleware

import (
	"crypto/rand"
	"crypto/sha256"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/hkdf"
)

const (
	// CSRFTokenKey is the gin context key holding the masked token for templates.
	CSRFTokenKey = "csrf_token"

	// CSRFFieldName is the hidden form field the token is read from.
	CSRFFieldName = "gorilla.csrf.Token"

	csrfKeyInfo = "librarian csrf v1"
	csrfKeySize = 32
)

// DeriveCSRFKey stretches the configured secret into a 32-byte key. An
// empty secret yields a random key, which invalidates forms on restart.
func DeriveCSRFKey(secret string) ([]byte, error) {
	key := make([]byte, csrfKeySize)
	if secret == "" {
		log.Warn().Msg("SECRET_KEY is not set, using a random key; open forms will break on restart")
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
		return key, nil
	}

	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(csrfKeyInfo)), key); err != nil {
		return nil, err
	}
	return key, nil
}

// CSRF rejects unsafe requests lacking a valid token and exposes the token
// to templates via CSRFToken.
func CSRF(key []byte, secure bool) gin.HandlerFunc {
	protect := csrf.Protect(
		key,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.Path("/"),
		csrf.FieldName(CSRFFieldName),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)

	return func(c *gin.Context) {
		if !secure {
			c.Request = csrf.PlaintextHTTPRequest(c.Request)
		}

		passed := false
		handler := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Set(CSRFTokenKey, csrf.Token(r))
			c.Request = r
			c.Next()
		}))
		handler.ServeHTTP(c.Writer, c.Request)

		// The failure handler already answered.
		if !passed {
			c.Abort()
		}
	}
}

// CSRFToken returns the token for the current request, or "" when
// protection is off.
func CSRFToken(c *gin.Context) string {
	return c.GetString(CSRFTokenKey)
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	zerolog.Ctx(r.Context()).Warn().Err(csrf.FailureReason(r)).Msg("CSRF check failed")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Form expired</title></head>
<body>
<h1>Form expired</h1>
<p>The form was stale or came from another site. <a href="/">Back to the library</a></p>
</body>
</html>`))
}
