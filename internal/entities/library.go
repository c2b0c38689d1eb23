package entities

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the only accepted textual form of calendar dates.
const DateLayout = "2006-01-02"

// Rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 10
)

type Author struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"size:128;not null;index" json:"name"`
	BirthDate   *datatypes.Date `json:"birth_date,omitempty"`
	DateOfDeath *datatypes.Date `json:"date_of_death,omitempty"`

	// Books are owned by the author and removed together with it.
	Books []Book `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"books,omitempty"`
}

type Book struct {
	ID              uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ISBN            string  `gorm:"column:isbn;size:20;not null;uniqueIndex" json:"isbn"`
	Title           string  `gorm:"size:255;not null;index" json:"title"`
	PublicationYear *int    `json:"publication_year,omitempty"`
	Rating          *int    `json:"rating,omitempty"`
	AuthorID        uint    `gorm:"not null;index" json:"author_id"`
	Author          *Author `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (a Author) String() string {
	return fmt.Sprintf("%s (born: %s, died: %s)", a.Name, formatOrNone(a.BirthDate), formatOrNone(a.DateOfDeath))
}

func (b Book) String() string {
	author := "Unknown"
	if b.Author != nil {
		author = b.Author.Name
	}
	year := "None"
	if b.PublicationYear != nil {
		year = fmt.Sprint(*b.PublicationYear)
	}
	return fmt.Sprintf("%s by %s (%s)", b.Title, author, year)
}

// FormatDate renders an optional date as YYYY-MM-DD, or "" when absent.
func FormatDate(d *datatypes.Date) string {
	if d == nil {
		return ""
	}
	return time.Time(*d).Format(DateLayout)
}

func formatOrNone(d *datatypes.Date) string {
	if d == nil {
		return "None"
	}
	return FormatDate(d)
}
