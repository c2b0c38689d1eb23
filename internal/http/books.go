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
	msgBookAdded   = "Book added successfully."
	msgRatingSaved = "Rating saved."
	msgBookDeleted = "Book deleted."
)

// BookService covers the book operations the UI needs. Listing authors is
// part of it because the add-book form offers them as choices.
type BookService interface {
	ListAuthors(ctx context.Context) ([]entities.Author, error)
	AddBook(ctx context.Context, in catalog.BookInput) (*entities.Book, error)
	ListBooks(ctx context.Context, q catalog.ListQuery) (*catalog.BookList, error)
	BookDetail(ctx context.Context, id uint) (*entities.Book, error)
	RateBook(ctx context.Context, id uint, raw string) (int, error)
	DeleteBook(ctx context.Context, id uint) error
	Recommendations(ctx context.Context) ([]entities.Book, error)
}

type BooksController struct {
	pages
	service BookService
	binder  *binder.Binder
}

func NewBooksController(service BookService, notices NoticeQueue, b *binder.Binder) *BooksController {
	return &BooksController{pages: pages{notices: notices}, service: service, binder: b}
}

// Home lists books, optionally filtered by q and ordered by sort.
func (bc *BooksController) Home(c *gin.Context) {
	var query catalog.ListQuery
	if err := bc.binder.Query(c, &query); err != nil {
		_ = c.Error(err)
		query = catalog.ListQuery{Sort: catalog.SortTitle}
	}

	list, err := bc.service.ListBooks(c.Request.Context(), query)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books")
		return
	}

	bc.render(c, "home", "Books", gin.H{"List": list})
}

func (bc *BooksController) AddBookPage(c *gin.Context) {
	bc.renderAddBook(c, notice.FormResult{})
}

// AddBook handles the add-book form and re-renders it with the outcome.
func (bc *BooksController) AddBook(c *gin.Context) {
	var input catalog.BookInput
	if err := bc.binder.Form(c, &input); err != nil {
		_ = c.Error(err)
		bc.renderAddBook(c, notice.Failure(catalog.MsgBookFieldsRequired))
		return
	}

	_, err := bc.service.AddBook(c.Request.Context(), input)
	bc.renderAddBook(c, resultFor(err, msgBookAdded))
}

func (bc *BooksController) renderAddBook(c *gin.Context, result notice.FormResult) {
	authors, err := bc.service.ListAuthors(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading authors")
		return
	}
	bc.render(c, "add_book", "Add book", gin.H{
		"Result":  result,
		"Authors": authors,
	})
}

func (bc *BooksController) BookDetail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		bc.redirectHome(c, notice.NewError(catalog.MsgBookNotFound))
		return
	}

	book, err := bc.service.BookDetail(c.Request.Context(), id)
	if err != nil {
		bc.redirectWithError(c, err)
		return
	}

	bc.render(c, "book_detail", book.Title, gin.H{"Book": book})
}

func (bc *BooksController) RateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		bc.redirectHome(c, notice.NewError(catalog.MsgBookNotFound))
		return
	}

	var input catalog.RatingInput
	if err := bc.binder.Form(c, &input); err != nil {
		_ = c.Error(err)
	}

	if _, err := bc.service.RateBook(c.Request.Context(), id, input.Rating); err != nil {
		bc.redirectWithError(c, err)
		return
	}
	bc.redirectHome(c, notice.NewSuccess(msgRatingSaved))
}

func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		bc.redirectHome(c, notice.NewError(catalog.MsgBookNotFound))
		return
	}

	if err := bc.service.DeleteBook(c.Request.Context(), id); err != nil {
		bc.redirectWithError(c, err)
		return
	}
	bc.redirectHome(c, notice.NewSuccess(msgBookDeleted))
}

// Recommendations ranks every book by rating.
func (bc *BooksController) Recommendations(c *gin.Context) {
	books, err := bc.service.Recommendations(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books")
		return
	}

	bc.render(c, "recommendations", "Recommendations", gin.H{"Books": books})
}
