// Package authors provides database operations for authors.
package authors

import (
	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/entities"
)

// Repository handles author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(author *entities.Author) error {
	return r.db.Create(author).Error
}

// List returns all authors ordered by name using the store's collation.
func (r *Repository) List() ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.Order("name ASC").Find(&authors).Error
	return authors, err
}

// GetByID returns gorm.ErrRecordNotFound when the author does not exist.
func (r *Repository) GetByID(id uint) (*entities.Author, error) {
	var author entities.Author
	if err := r.db.First(&author, id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

// GetWithBooks retrieves an author with all of its books.
func (r *Repository) GetWithBooks(id uint) (*entities.Author, error) {
	var author entities.Author
	if err := r.db.Preload("Books").First(&author, id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

// Delete removes an author together with its books.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("author_id = ?", id).Delete(&entities.Book{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Author{}, id).Error
	})
}

func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Author{}).Count(&count).Error
	return count, err
}
