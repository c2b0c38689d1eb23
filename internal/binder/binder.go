// Package binder fills request structs from form bodies and query strings.
// Fields are decoded by their `form` or `query` tag, cleaned up with mold
// `mod` modifiers and finally given their `default` values.
package binder

import (
	"github.com/creasty/defaults"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/gorilla/schema"
	"github.com/pkg/errors"
)

type Binder struct {
	queryDecoder *schema.Decoder
	formDecoder  *schema.Decoder
	conform      *mold.Transformer
}

func New() *Binder {
	queryDecoder := schema.NewDecoder()
	queryDecoder.SetAliasTag("query")
	queryDecoder.IgnoreUnknownKeys(true)

	formDecoder := schema.NewDecoder()
	formDecoder.SetAliasTag("form")
	formDecoder.IgnoreUnknownKeys(true)

	return &Binder{
		queryDecoder: queryDecoder,
		formDecoder:  formDecoder,
		conform:      modifiers.New(),
	}
}

// Form binds the url-encoded or multipart body of a request.
func (b *Binder) Form(c *gin.Context, dst any) error {
	if err := c.Request.ParseForm(); err != nil {
		return errors.Wrap(err, "parse form")
	}
	if err := b.formDecoder.Decode(dst, c.Request.PostForm); err != nil {
		return errors.Wrap(err, "decode form")
	}
	return b.finish(c, dst)
}

// Query binds the URL query string.
func (b *Binder) Query(c *gin.Context, dst any) error {
	if err := b.queryDecoder.Decode(dst, c.Request.URL.Query()); err != nil {
		return errors.Wrap(err, "decode query")
	}
	return b.finish(c, dst)
}

func (b *Binder) finish(c *gin.Context, dst any) error {
	if err := b.conform.Struct(c.Request.Context(), dst); err != nil {
		return errors.WithStack(err)
	}
	if err := defaults.Set(dst); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
