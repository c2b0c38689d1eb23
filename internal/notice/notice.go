// Package notice defines the two ways a handler reports an outcome to the
// user: a FormResult rendered in place with the form page, and a Notice
// queued for the page shown after a redirect.
package notice

// Status of an in-place form result. Empty means nothing was submitted.
type Status string

const (
	StatusNone    Status = ""
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// FormResult is rendered together with a freshly served form.
type FormResult struct {
	Message string
	Status  Status
}

func Success(message string) FormResult {
	return FormResult{Message: message, Status: StatusSuccess}
}

func Failure(message string) FormResult {
	return FormResult{Message: message, Status: StatusError}
}

// Empty reports whether there is nothing to show.
func (r FormResult) Empty() bool {
	return r.Message == ""
}

// Category of a queued notice.
type Category string

const (
	CategorySuccess Category = "success"
	CategoryError   Category = "error"
)

// Notice is a one-time message shown on the next rendered page.
type Notice struct {
	Message  string
	Category Category
}

func NewSuccess(message string) Notice {
	return Notice{Message: message, Category: CategorySuccess}
}

func NewError(message string) Notice {
	return Notice{Message: message, Category: CategoryError}
}
