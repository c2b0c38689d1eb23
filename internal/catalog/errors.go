package catalog

import (
	"errors"
)

// Kind classifies a failure so the web layer can pick a presentation
// without inspecting storage errors.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// User-visible messages.
const (
	MsgNameRequired        = "Please provide a name."
	MsgSaveAuthorFailed    = "Failed to save the author."
	MsgLoadAuthorsFailed   = "Failed to load authors."
	MsgAuthorNotFound      = "Author not found."
	MsgDeleteAuthorFailed  = "Failed to delete the author."
	MsgBookFieldsRequired  = "Please provide an ISBN, a title and an author."
	MsgSelectedAuthorGone  = "Selected author not found."
	MsgDuplicateISBN       = "ISBN already exists."
	MsgSaveBookFailed      = "Failed to save the book."
	MsgLoadBooksFailed     = "Failed to load books."
	MsgBookNotFound        = "Book not found."
	MsgInvalidRating       = "Please provide a rating from 1 to 10."
	MsgSaveRatingFailed    = "Failed to save the rating."
	MsgDeleteBookFailed    = "Failed to delete the book."
	msgUnexpectedCondition = "Something went wrong."
)

// Error is returned by every Service operation that fails. Message is safe
// to show to the user; Err keeps the cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same kind and message.
func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.Kind == e.Kind && te.Message == e.Message
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf returns the kind of err, or 0 when err is not a catalog error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}

// MessageOf returns the user-visible message for err. Errors that did not
// come from the catalog never leak their text.
func MessageOf(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	return msgUnexpectedCondition
}
