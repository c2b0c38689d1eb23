// Package books provides database operations for books: creation, lookup,
// free-text search with sorting, rating updates and rating-ordered listing.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	found, err := repo.Search(books.Query{Text: "orwell", SortByAuthor: true})
package books

import (
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/entities"
)

// likeEscaper makes LIKE metacharacters in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const searchCondition = `LOWER(books.title) LIKE LOWER(?) ESCAPE '\' ` +
	`OR LOWER(books.isbn) LIKE LOWER(?) ESCAPE '\' ` +
	`OR LOWER(authors.name) LIKE LOWER(?) ESCAPE '\'`

// Query describes a home listing request.
type Query struct {
	// Text is matched as a case-insensitive substring of title, ISBN or
	// author name. Empty means no filter.
	Text string

	// SortByAuthor orders by author name then title; otherwise by title.
	SortByAuthor bool
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(book *entities.Book) error {
	return r.db.Omit("Author").Create(book).Error
}

// GetByID returns gorm.ErrRecordNotFound when the book does not exist.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// GetWithAuthor retrieves a book with its author loaded.
func (r *Repository) GetWithAuthor(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.Preload("Author").First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// Search lists books with their authors attached.
func (r *Repository) Search(q Query) ([]entities.Book, error) {
	tx := r.db.Model(&entities.Book{}).Preload("Author")

	if q.Text != "" {
		pattern := "%" + likeEscaper.Replace(q.Text) + "%"
		tx = tx.Joins("LEFT JOIN authors ON authors.id = books.author_id").
			Where(searchCondition, pattern, pattern, pattern)
	}

	if q.SortByAuthor {
		// Without a search the inner join drops books whose author is gone.
		if q.Text == "" {
			tx = tx.Joins("JOIN authors ON authors.id = books.author_id")
		}
		tx = tx.Order("authors.name ASC").Order("books.title ASC")
	} else {
		tx = tx.Order("books.title ASC")
	}

	var books []entities.Book
	err := tx.Find(&books).Error
	return books, err
}

// ListByRating returns all books, best rated first. Unrated books come last
// and ties are broken by title.
func (r *Repository) ListByRating() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Preload("Author").
		Order("rating IS NULL").
		Order("rating DESC").
		Order("title ASC").
		Find(&books).Error
	return books, err
}

func (r *Repository) UpdateRating(id uint, rating int) error {
	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Update("rating", rating)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}
