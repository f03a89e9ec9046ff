package client

import (
	"context"
	"io"
	"net/url"

	"github.com/dmitrijs2005/eduadmin/internal/client/models"
)

type Client interface {
	Do(ctx context.Context, req Request, out any) error
	Login(ctx context.Context, phone, password string) (models.TokenPair, error)
	RefreshTokens(ctx context.Context, refresh string) (models.TokenPair, error)
}

// TokenStore is where the client reads and rotates the session tokens.
type TokenStore interface {
	Tokens() models.TokenPair
	ReplaceTokens(ctx context.Context, pair models.TokenPair) error
	// Expire drops the session after the refresh token was rejected.
	Expire(ctx context.Context)
}

// Request describes one API call. Path is relative to the base URL and keeps
// the backend's trailing slash, e.g. "/core/students/".
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is encoded as JSON unless it is a *Multipart.
	Body any
	// Anonymous skips the Authorization header and the refresh-on-401 logic.
	Anonymous bool
}

// Multipart is a multipart/form-data body, used whenever a form carries a file.
type Multipart struct {
	Fields []FormField
	Files  []FormFile
}

type FormField struct {
	Name  string
	Value string
}

type FormFile struct {
	Field    string
	FileName string
	Content  io.Reader
}

func (m *Multipart) AddField(name, value string) {
	m.Fields = append(m.Fields, FormField{Name: name, Value: value})
}

func (m *Multipart) AddFile(field, fileName string, content io.Reader) {
	m.Files = append(m.Files, FormFile{Field: field, FileName: fileName, Content: content})
}
