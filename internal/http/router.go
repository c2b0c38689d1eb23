package http

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/binder"
	"github.com/mrlokans/librarian/internal/middleware"
	"github.com/mrlokans/librarian/web"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.SecurityHeaders())

	// CSRF must run before the session so that the session context is
	// layered on top of the request CSRF hands back.
	if len(cfg.CSRFKey) > 0 {
		router.Use(middleware.CSRF(cfg.CSRFKey, cfg.SecureCookies))
	}
	router.Use(cfg.Sessions.LoadAndSave())

	router.SetHTMLTemplate(loadTemplates(cfg.TemplatesPath))
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	} else {
		router.StaticFS("/static", http.FS(web.Static()))
	}

	b := binder.New()
	health := NewHealthController(cfg.Health, cfg.Version)
	authors := NewAuthorsController(cfg.Authors, cfg.Sessions, b)
	books := NewBooksController(cfg.Books, cfg.Sessions, b)

	router.GET("/health", health.Status)

	router.GET("/", books.Home)
	router.GET("/recommendations", books.Recommendations)

	router.GET("/add_author", authors.AddAuthorPage)
	router.POST("/add_author", authors.AddAuthor)
	router.GET("/author/:id", authors.AuthorDetail)
	router.POST("/author/:id/delete", authors.DeleteAuthor)

	router.GET("/add_book", books.AddBookPage)
	router.POST("/add_book", books.AddBook)
	router.GET("/book/:id", books.BookDetail)
	router.POST("/book/:id/rate", books.RateBook)
	router.POST("/book/:id/delete", books.DeleteBook)

	return router
}

// loadTemplates parses the templates from disk when a path is configured,
// otherwise from the binary.
func loadTemplates(path string) *template.Template {
	tmpl := template.New("").Funcs(templateFuncs())
	if path != "" {
		return template.Must(tmpl.ParseGlob(path + "/*.html"))
	}
	return template.Must(tmpl.ParseFS(web.Templates(), "*.html"))
}
