package catalog

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/mrlokans/librarian/internal/entities"
)

// AuthorInput is the add-author form.
type AuthorInput struct {
	Name        string `form:"name" mod:"trim" validate:"required"`
	BirthDate   string `form:"birth_date" mod:"trim"`
	DateOfDeath string `form:"date_of_death" mod:"trim"`
}

// BookInput is the add-book form. Numeric fields stay textual so that
// malformed values degrade to "absent" instead of failing the submission.
type BookInput struct {
	ISBN            string `form:"isbn" mod:"trim" validate:"required"`
	Title           string `form:"title" mod:"trim" validate:"required"`
	PublicationYear string `form:"publication_year" mod:"trim"`
	Rating          string `form:"rating" mod:"trim"`
	AuthorID        string `form:"author_id" mod:"trim" validate:"required"`
}

// RatingInput is the rate-book form.
type RatingInput struct {
	Rating string `form:"rating" mod:"trim"`
}

// ListQuery holds the home page query string.
type ListQuery struct {
	Sort  string `query:"sort" mod:"trim,lcase" default:"title"`
	Query string `query:"q" mod:"trim"`
}

// Sort keys understood by ListBooks. Unknown keys fall back to SortTitle.
const (
	SortTitle  = "title"
	SortAuthor = "author"
)

// ParseDate accepts YYYY-MM-DD only. Anything else, including an empty
// string, yields nil.
func ParseDate(raw string) *datatypes.Date {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(entities.DateLayout, raw)
	if err != nil {
		return nil
	}
	d := datatypes.Date(t)
	return &d
}

// ParseOptionalInt yields nil for empty or non-integer input.
func ParseOptionalInt(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// ParseRating yields nil unless raw is an integer within the rating bounds.
func ParseRating(raw string) *int {
	v := ParseOptionalInt(raw)
	if v == nil || *v < entities.MinRating || *v > entities.MaxRating {
		return nil
	}
	return v
}
