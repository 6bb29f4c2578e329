package appcore

import (
	"context"
	"errors"
	"log/slog"

	"docsearch/internal/config"
	"docsearch/internal/docsapi"
	"docsearch/internal/logging"
)

var errDocumentsAPIUnavailable = errors.New("documents api unavailable")

// DocumentsAPI is the part of the backend client the pages use.
type DocumentsAPI interface {
	ListDocuments(ctx context.Context, page int, perPage int) (*docsapi.DocumentPage, error)
	GetDocument(ctx context.Context, id string) (*docsapi.DocumentResponse, error)
	GetSimilarDocuments(ctx context.Context, id string, topK int) (*docsapi.SimilarResult, error)
	Search(ctx context.Context, query string, topK int) (*docsapi.SearchResult, error)
	Stats(ctx context.Context) (*docsapi.Stats, error)
}

type Settings struct {
	PerPage     int
	SimilarTopK int
	SearchTopK  int
}

func (s Settings) withDefaults() Settings {
	if s.PerPage < 1 {
		s.PerPage = config.DefaultPerPage
	}
	if s.SimilarTopK < 1 {
		s.SimilarTopK = config.DefaultSimilarTopK
	}
	if s.SearchTopK < 1 {
		s.SearchTopK = config.DefaultSearchTopK
	}
	return s
}

type Context struct {
	api      DocumentsAPI
	settings Settings
	logger   *slog.Logger
}

func NewContext(api DocumentsAPI, settings Settings, logger *slog.Logger) *Context {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Context{
		api:      api,
		settings: settings.withDefaults(),
		logger:   logger,
	}
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, docsapi.ErrNotFound)
}

func documentsAPI(appCtx *Context) (DocumentsAPI, error) {
	if appCtx == nil || appCtx.api == nil {
		return nil, errDocumentsAPIUnavailable
	}
	return appCtx.api, nil
}
