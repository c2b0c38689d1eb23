package http

import "github.com/mrlokans/librarian/internal/session"

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Authors AuthorService
	Books   BookService
	Health  HealthStore

	// Notice queue carried across redirects
	Sessions *session.Manager

	// CSRF protection is enabled when the key is set
	CSRFKey       []byte
	SecureCookies bool

	// UI paths; empty means the embedded assets
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string
}
