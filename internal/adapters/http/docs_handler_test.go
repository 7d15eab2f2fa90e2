package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agent-trust-protocol/atp-core/internal/application/services"
	"github.com/agent-trust-protocol/atp-core/internal/domain/entities"
	"github.com/agent-trust-protocol/atp-core/internal/infrastructure/logger"
)

// newDocsServer builds the handler chain the real server uses: markdown
// interception in front of static file serving rooted at root.
func newDocsServer(t *testing.T, root string) *echo.Echo {
	t.Helper()

	renderer := services.NewRenderService("ATP™ Documentation", entities.DefaultNav(), logger.NewNop())
	metrics := NewDocsMetrics(prometheus.NewRegistry())
	handler := NewDocsHandler(root, "index.html", renderer, logger.NewNop(), metrics)

	e := echo.New()
	e.Use(handler.Middleware())
	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root:   root,
		Index:  "index.html",
		Browse: true,
	}))
	return e
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestMarkdownRequestRendered(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "doc.md", "# Guide\n\nSome *prose*.\n\n```sh\nmake run\n```")
	e := newDocsServer(t, root)

	rec := get(e, "/doc.md")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get(echo.HeaderContentType))

	body := rec.Body.String()
	assert.Contains(t, body, "<title>ATP™ Documentation - doc.md</title>")
	assert.Contains(t, body, `<div class="nav">`)
	assert.Contains(t, body, "Guide</h1>")
	assert.Contains(t, body, "<em>prose</em>")
	assert.Contains(t, body, "<pre><code class=\"language-sh\">make run\n</code></pre>")
}

func TestRootEquivalentToIndex(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.html", "<html><body>welcome</body></html>")
	e := newDocsServer(t, root)

	slash := get(e, "/")
	index := get(e, "/index.html")

	require.Equal(t, http.StatusOK, slash.Code)
	require.Equal(t, http.StatusOK, index.Code)
	assert.Equal(t, index.Body.String(), slash.Body.String())
}

func TestQueryStringIgnored(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "architecture.md", "# Arch")
	e := newDocsServer(t, root)

	plain := get(e, "/architecture.md")
	query := get(e, "/architecture.md?x=1&y=2")

	require.Equal(t, http.StatusOK, query.Code)
	assert.Equal(t, plain.Body.String(), query.Body.String())
}

func TestMissingMarkdownFallsThroughTo404(t *testing.T) {
	e := newDocsServer(t, t.TempDir())

	rec := get(e, "/nope.md")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticFilesServedRaw(t *testing.T) {
	root := t.TempDir()
	css := "body { color: red; }\n"
	writeFile(t, root, "style.css", css)
	e := newDocsServer(t, root)

	rec := get(e, "/style.css")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, css, rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/css")
}

func TestTraversalOutsideRootRejected(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "docs")
	require.NoError(t, os.Mkdir(root, 0o755))
	writeFile(t, base, "secret.md", "# top secret")
	e := newDocsServer(t, root)

	targets := []string{
		"/../secret.md",
		"/%2e%2e/secret.md",
		"/..%2fsecret.md",
		"/sub/../../secret.md",
	}
	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			rec := get(e, target)

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.NotContains(t, rec.Body.String(), "top secret")
		})
	}
}

func TestEncodedQueryTruncatesMarkdownPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a?b.md", "# Hidden")
	e := newDocsServer(t, root)

	// A percent-encoded '?' cuts the path before routing, so the
	// request resolves to "/a" and is never rendered as markdown.
	rec := get(e, "/a%3Fb.md")

	assert.NotEqual(t, "text/html; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	assert.NotContains(t, rec.Body.String(), "<title>")
}

func TestInvalidUTF8FallsThroughToRawServing(t *testing.T) {
	root := t.TempDir()
	raw := []byte{'#', ' ', 0xff, 0xfe, 0xfd}
	require.NoError(t, os.WriteFile(filepath.Join(root, "binary.md"), raw, 0o644))
	e := newDocsServer(t, root)

	rec := get(e, "/binary.md")

	// Not renderable as markdown; served as a plain file instead.
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, raw, rec.Body.Bytes())
	assert.NotContains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
}

func TestRenderFailureCounted(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "binary.md"), []byte{0xff}, 0o644))

	renderer := services.NewRenderService("ATP™ Documentation", entities.DefaultNav(), logger.NewNop())
	metrics := NewDocsMetrics(prometheus.NewRegistry())
	handler := NewDocsHandler(root, "index.html", renderer, logger.NewNop(), metrics)

	e := echo.New()
	e.Use(handler.Middleware())
	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{Root: root}))

	get(e, "/binary.md")

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.RenderFailures))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.Renders))
}

func TestNonGetNotIntercepted(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "doc.md", "# Guide")
	e := newDocsServer(t, root)

	req := httptest.NewRequest(http.MethodPost, "/doc.md", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.NotEqual(t, "text/html; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
}
