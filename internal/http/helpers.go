package http

import (
	"context"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/middleware"
	"github.com/mrlokans/librarian/internal/notice"
)

// NoticeQueue is the outbound notice channel, implemented by
// session.Manager.
type NoticeQueue interface {
	AddNotice(ctx context.Context, n notice.Notice)
	PopNotices(ctx context.Context) []notice.Notice
}

// pages renders templates and performs post-redirect-get with notices.
type pages struct {
	notices NoticeQueue
}

// render shows a page together with any pending notices. Rendering consumes
// the queue.
func (p pages) render(c *gin.Context, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["CSRFToken"] = middleware.CSRFToken(c)
	data["Notices"] = p.notices.PopNotices(c.Request.Context())
	c.HTML(http.StatusOK, name, data)
}

// redirectHome queues n and sends the browser to the home page.
func (p pages) redirectHome(c *gin.Context, n notice.Notice) {
	p.notices.AddNotice(c.Request.Context(), n)
	c.Redirect(http.StatusFound, "/")
}

// redirectWithError queues the user-visible message of err.
func (p pages) redirectWithError(c *gin.Context, err error) {
	p.redirectHome(c, notice.NewError(catalog.MessageOf(err)))
}

// parseIDParam extracts a positive integer ID from URL parameters.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// resultFor turns the outcome of a form submission into a FormResult.
func resultFor(err error, success string) notice.FormResult {
	if err != nil {
		return notice.Failure(catalog.MessageOf(err))
	}
	return notice.Success(success)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": entities.FormatDate,
		"optional": func(v *int) string {
			if v == nil {
				return ""
			}
			return strconv.Itoa(*v)
		},
		"csrfField": func(token string) template.HTML {
			if token == "" {
				return ""
			}
			return template.HTML(`<input type="hidden" name="` + middleware.CSRFFieldName + `" value="` +
				template.HTMLEscapeString(token) + `">`)
		},
	}
}
