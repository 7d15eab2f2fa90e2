package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/agent-trust-protocol/atp-core/internal/domain/entities"
	"github.com/agent-trust-protocol/atp-core/internal/infrastructure/logger"
)

// Page is the view model handed to the documentation page template.
type Page struct {
	Title string
	Nav   []entities.NavLink
	Body  template.HTML
}

// RenderService converts markdown documents into styled HTML pages.
// It is stateless and safe for concurrent use.
type RenderService struct {
	md       goldmark.Markdown
	tmpl     *template.Template
	nav      []entities.NavLink
	siteName string
	logger   *logger.Logger
}

// NewRenderService creates a render service. siteName prefixes every
// page title; nav is the fixed navigation bar shared by all pages.
func NewRenderService(siteName string, nav []entities.NavLink, appLogger *logger.Logger) *RenderService {
	md := goldmark.New(
		// Tables and fenced code per GitHub-style markdown; auto
		// heading IDs give every heading a stable anchor.
		goldmark.WithExtensions(extension.Table),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	return &RenderService{
		md:       md,
		tmpl:     template.Must(template.New("page").Parse(pageTemplate)),
		nav:      nav,
		siteName: siteName,
		logger:   appLogger.WithComponent("renderer"),
	}
}

// RenderFragment converts markdown source to an HTML fragment.
func (s *RenderService) RenderFragment(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("markdown conversion failed: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPage converts markdown source to a complete HTML document. The
// page title becomes "<siteName> - <name>"; name is escaped by the
// template, so hostile file names cannot inject markup.
func (s *RenderService) RenderPage(name string, src []byte) ([]byte, error) {
	body, err := s.RenderFragment(src)
	if err != nil {
		return nil, err
	}

	page := Page{
		Title: fmt.Sprintf("%s - %s", s.siteName, name),
		Nav:   s.nav,
		Body:  template.HTML(body),
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("page template failed: %w", err)
	}

	s.logger.Debugw("Rendered markdown document", "name", name, "bytes", buf.Len())
	return buf.Bytes(), nil
}
