package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/binder"
	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/notice"
)

const (
	msgAuthorAdded   = "Author added successfully."
	msgAuthorDeleted = "Author and their books were deleted."
)

// AuthorService covers the author operations the UI needs.
type AuthorService interface {
	AddAuthor(ctx context.Context, in catalog.AuthorInput) (*entities.Author, error)
	ListAuthors(ctx context.Context) ([]entities.Author, error)
	AuthorDetail(ctx context.Context, id uint) (*entities.Author, []entities.Book, error)
	DeleteAuthor(ctx context.Context, id uint) error
}

type AuthorsController struct {
	pages
	service AuthorService
	binder  *binder.Binder
}

func NewAuthorsController(service AuthorService, notices NoticeQueue, b *binder.Binder) *AuthorsController {
	return &AuthorsController{pages: pages{notices: notices}, service: service, binder: b}
}

func (ac *AuthorsController) AddAuthorPage(c *gin.Context) {
	ac.renderAddAuthor(c, notice.FormResult{})
}

// AddAuthor handles the add-author form and re-renders it with the outcome.
func (ac *AuthorsController) AddAuthor(c *gin.Context) {
	var input catalog.AuthorInput
	if err := ac.binder.Form(c, &input); err != nil {
		_ = c.Error(err)
		ac.renderAddAuthor(c, notice.Failure(catalog.MsgNameRequired))
		return
	}

	_, err := ac.service.AddAuthor(c.Request.Context(), input)
	ac.renderAddAuthor(c, resultFor(err, msgAuthorAdded))
}

func (ac *AuthorsController) renderAddAuthor(c *gin.Context, result notice.FormResult) {
	authors, err := ac.service.ListAuthors(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading authors")
		return
	}
	ac.render(c, "add_author", "Add author", gin.H{
		"Result":  result,
		"Authors": authors,
	})
}

func (ac *AuthorsController) AuthorDetail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		ac.redirectHome(c, notice.NewError(catalog.MsgAuthorNotFound))
		return
	}

	author, books, err := ac.service.AuthorDetail(c.Request.Context(), id)
	if err != nil {
		ac.redirectWithError(c, err)
		return
	}

	ac.render(c, "author_detail", author.Name, gin.H{
		"Author": author,
		"Books":  books,
	})
}

// DeleteAuthor removes the author with all of its books.
func (ac *AuthorsController) DeleteAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		ac.redirectHome(c, notice.NewError(catalog.MsgAuthorNotFound))
		return
	}

	if err := ac.service.DeleteAuthor(c.Request.Context(), id); err != nil {
		ac.redirectWithError(c, err)
		return
	}
	ac.redirectHome(c, notice.NewSuccess(msgAuthorDeleted))
}
