package http

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/agent-trust-protocol/atp-core/internal/domain/entities"
	"github.com/agent-trust-protocol/atp-core/internal/infrastructure/logger"
	"github.com/agent-trust-protocol/atp-core/internal/ports"
)

// htmlContentType is sent for every rendered markdown page.
const htmlContentType = "text/html; charset=utf-8"

// DocsHandler intercepts GET requests for markdown documents and serves
// them as rendered HTML pages. Anything else falls through to the next
// handler in the chain (static file serving).
type DocsHandler struct {
	root     string
	index    string
	renderer ports.PageRenderer
	logger   *logger.Logger
	metrics  *DocsMetrics
}

// NewDocsHandler creates a docs handler. root is the serving root
// (made absolute if it is not already); index is the document that a
// request for "/" resolves to.
func NewDocsHandler(root, index string, renderer ports.PageRenderer, appLogger *logger.Logger, metrics *DocsMetrics) *DocsHandler {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	return &DocsHandler{
		root:     root,
		index:    index,
		renderer: renderer,
		logger:   appLogger.WithComponent("docs"),
		metrics:  metrics,
	}
}

// Middleware returns the markdown interception middleware. Every
// failure on the markdown path is non-fatal for the request: it is
// logged and the request falls through to static serving, which
// produces a raw-file response or a 404 on its own terms.
func (h *DocsHandler) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			// URL.Path arrives URL-decoded with the query string
			// already stripped. A percent-encoded '?' survives
			// decoding, so the decoded path is truncated there as
			// well before routing.
			reqPath := c.Request().URL.Path
			if i := strings.IndexByte(reqPath, '?'); i >= 0 {
				reqPath = reqPath[:i]
			}
			if reqPath == "/" {
				reqPath = "/" + h.index
			}
			if !strings.HasSuffix(reqPath, entities.MarkdownExt) {
				return next(c)
			}

			doc, err := h.load(reqPath)
			switch {
			case errors.Is(err, entities.ErrOutsideRoot):
				// Never read outside the serving root.
				h.logger.Warnw("Rejected path escaping serving root", "path", reqPath)
				return echo.NewHTTPError(http.StatusNotFound)
			case errors.Is(err, entities.ErrDocumentNotFound):
				return next(c)
			case err != nil:
				h.logger.LogRenderFailure(strings.TrimPrefix(reqPath, "/"), err)
				h.metrics.RenderFailures.Inc()
				return next(c)
			}

			page, err := h.renderer.RenderPage(doc.Name(), doc.Content)
			if err != nil {
				h.logger.LogRenderFailure(doc.FilePath, err)
				h.metrics.RenderFailures.Inc()
				return next(c)
			}

			h.metrics.Renders.Inc()
			return c.Blob(http.StatusOK, htmlContentType, page)
		}
	}
}

// load resolves a request path against the serving root and reads the
// document. The resolved path is canonicalized and must stay inside
// the root.
func (h *DocsHandler) load(reqPath string) (*entities.Document, error) {
	fsPath, err := h.resolve(reqPath)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(fsPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, entities.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", fsPath, err)
	}
	if !utf8.Valid(content) {
		return nil, entities.ErrNotUTF8
	}

	return &entities.Document{
		RequestPath: reqPath,
		FilePath:    fsPath,
		Content:     content,
	}, nil
}

// resolve maps a request path to a filesystem path under the root.
// filepath.Join cleans the result, so any ".." segments collapse; a
// path that still lands outside the root is rejected.
func (h *DocsHandler) resolve(reqPath string) (string, error) {
	rel := strings.TrimPrefix(reqPath, "/")
	fsPath := filepath.Join(h.root, filepath.FromSlash(rel))

	if fsPath != h.root && !strings.HasPrefix(fsPath, h.root+string(filepath.Separator)) {
		return "", entities.ErrOutsideRoot
	}
	return fsPath, nil
}
