// Package catalog implements the request-level operations on authors and
// books. Handlers talk to Service only; every failure comes back as *Error
// with a user-visible message.
package catalog

import (
	"context"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/entities"
)

// Store is the unit-of-work boundary. *database.Database satisfies it.
type Store interface {
	Work(ctx context.Context) *database.Work
	Transaction(ctx context.Context, fn func(w *database.Work) error) error
}

// BookList is the home page model.
type BookList struct {
	Books []entities.Book
	Sort  string
	Query string

	// NoResults is set only when a search ran and matched nothing.
	NoResults bool
}

type Service struct {
	store    Store
	validate *validator.Validate
}

func NewService(store Store) *Service {
	return &Service{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// AddAuthor validates and persists a new author. Dates that do not parse
// are stored as absent.
func (s *Service) AddAuthor(ctx context.Context, in AuthorInput) (*entities.Author, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return nil, newError(KindValidation, MsgNameRequired, err)
	}

	author := &entities.Author{
		Name:        in.Name,
		BirthDate:   ParseDate(in.BirthDate),
		DateOfDeath: ParseDate(in.DateOfDeath),
	}
	err := s.store.Transaction(ctx, func(w *database.Work) error {
		return w.Authors.Create(author)
	})
	if err != nil {
		return nil, s.storageError(ctx, MsgSaveAuthorFailed, errors.Wrap(err, "create author"))
	}

	zerolog.Ctx(ctx).Info().Uint("author_id", author.ID).Str("name", author.Name).Msg("Author added")
	return author, nil
}

func (s *Service) ListAuthors(ctx context.Context) ([]entities.Author, error) {
	authors, err := s.store.Work(ctx).Authors.List()
	if err != nil {
		return nil, s.storageError(ctx, MsgLoadAuthorsFailed, errors.Wrap(err, "list authors"))
	}
	return authors, nil
}

// AuthorDetail returns the author and its books ordered by title,
// case-insensitively.
func (s *Service) AuthorDetail(ctx context.Context, id uint) (*entities.Author, []entities.Book, error) {
	author, err := s.store.Work(ctx).Authors.GetWithBooks(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, newError(KindNotFound, MsgAuthorNotFound, err)
	}
	if err != nil {
		return nil, nil, s.storageError(ctx, MsgAuthorNotFound, errors.Wrapf(err, "load author %d", id))
	}

	sorted := slices.Clone(author.Books)
	slices.SortStableFunc(sorted, func(a, b entities.Book) int {
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	})
	return author, sorted, nil
}

// DeleteAuthor removes the author and all of its books in one transaction.
func (s *Service) DeleteAuthor(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(w *database.Work) error {
		if _, err := w.Authors.GetByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindNotFound, MsgAuthorNotFound, err)
			}
			return err
		}
		return w.Authors.Delete(id)
	})
	if err != nil {
		return s.classify(ctx, MsgDeleteAuthorFailed, errors.Wrapf(err, "delete author %d", id))
	}

	zerolog.Ctx(ctx).Info().Uint("author_id", id).Msg("Author deleted with books")
	return nil
}

// AddBook checks required fields, then the author, then inserts. A
// malformed publication year or rating is stored as absent.
func (s *Service) AddBook(ctx context.Context, in BookInput) (*entities.Book, error) {
	in.ISBN = strings.TrimSpace(in.ISBN)
	in.Title = strings.TrimSpace(in.Title)
	authorID := ParseOptionalInt(in.AuthorID)

	if err := s.validate.Struct(in); err != nil {
		return nil, newError(KindValidation, MsgBookFieldsRequired, err)
	}
	if authorID == nil || *authorID == 0 {
		return nil, newError(KindValidation, MsgBookFieldsRequired, nil)
	}
	if *authorID < 0 {
		return nil, newError(KindNotFound, MsgSelectedAuthorGone, nil)
	}

	book := &entities.Book{
		ISBN:            in.ISBN,
		Title:           in.Title,
		PublicationYear: ParseOptionalInt(in.PublicationYear),
		Rating:          ParseRating(in.Rating),
	}
	err := s.store.Transaction(ctx, func(w *database.Work) error {
		author, err := w.Authors.GetByID(uint(*authorID))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(KindNotFound, MsgSelectedAuthorGone, err)
		}
		if err != nil {
			return err
		}

		book.AuthorID = author.ID
		if err := w.Books.Create(book); err != nil {
			return err
		}
		book.Author = author
		return nil
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, newError(KindConflict, MsgDuplicateISBN, err)
		}
		return nil, s.classify(ctx, MsgSaveBookFailed, errors.Wrap(err, "create book"))
	}

	zerolog.Ctx(ctx).Info().Uint("book_id", book.ID).Str("isbn", book.ISBN).Msg("Book added")
	return book, nil
}

// ListBooks runs the home page query. Sort keys other than "author" order
// by title.
func (s *Service) ListBooks(ctx context.Context, q ListQuery) (*BookList, error) {
	sortKey := strings.ToLower(strings.TrimSpace(q.Sort))
	if sortKey == "" {
		sortKey = SortTitle
	}
	text := strings.TrimSpace(q.Query)

	found, err := s.store.Work(ctx).Books.Search(books.Query{
		Text:         text,
		SortByAuthor: sortKey == SortAuthor,
	})
	if err != nil {
		return nil, s.storageError(ctx, MsgLoadBooksFailed, errors.Wrap(err, "search books"))
	}

	return &BookList{
		Books:     found,
		Sort:      sortKey,
		Query:     text,
		NoResults: text != "" && len(found) == 0,
	}, nil
}

func (s *Service) BookDetail(ctx context.Context, id uint) (*entities.Book, error) {
	book, err := s.store.Work(ctx).Books.GetWithAuthor(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(KindNotFound, MsgBookNotFound, err)
	}
	if err != nil {
		return nil, s.storageError(ctx, MsgBookNotFound, errors.Wrapf(err, "load book %d", id))
	}
	return book, nil
}

// RateBook looks the book up before validating the rating, so an unknown
// book wins over a bad value.
func (s *Service) RateBook(ctx context.Context, id uint, raw string) (int, error) {
	var rating int
	err := s.store.Transaction(ctx, func(w *database.Work) error {
		if _, err := w.Books.GetByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindNotFound, MsgBookNotFound, err)
			}
			return err
		}

		value := ParseRating(raw)
		if value == nil {
			return newError(KindValidation, MsgInvalidRating, nil)
		}
		rating = *value
		return w.Books.UpdateRating(id, rating)
	})
	if err != nil {
		return 0, s.classify(ctx, MsgSaveRatingFailed, errors.Wrapf(err, "rate book %d", id))
	}

	zerolog.Ctx(ctx).Info().Uint("book_id", id).Int("rating", rating).Msg("Book rated")
	return rating, nil
}

func (s *Service) DeleteBook(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(w *database.Work) error {
		if _, err := w.Books.GetByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindNotFound, MsgBookNotFound, err)
			}
			return err
		}
		return w.Books.Delete(id)
	})
	if err != nil {
		return s.classify(ctx, MsgDeleteBookFailed, errors.Wrapf(err, "delete book %d", id))
	}

	zerolog.Ctx(ctx).Info().Uint("book_id", id).Msg("Book deleted")
	return nil
}

// Recommendations lists every book, best rated first and unrated last.
func (s *Service) Recommendations(ctx context.Context) ([]entities.Book, error) {
	ranked, err := s.store.Work(ctx).Books.ListByRating()
	if err != nil {
		return nil, s.storageError(ctx, MsgLoadBooksFailed, errors.Wrap(err, "list by rating"))
	}
	return ranked, nil
}

// classify passes catalog errors raised inside a transaction through and
// turns anything else into a storage failure.
func (s *Service) classify(ctx context.Context, message string, err error) error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	return s.storageError(ctx, message, err)
}

func (s *Service) storageError(ctx context.Context, message string, err error) error {
	zerolog.Ctx(ctx).Error().Err(err).Msg(message)
	return newError(KindStorage, message, err)
}
