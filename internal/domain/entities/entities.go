package entities

import (
	"errors"
	"path"
)

// Common errors
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrOutsideRoot      = errors.New("path escapes serving root")
	ErrNotUTF8          = errors.New("document is not valid UTF-8")
)

// MarkdownExt is the file extension that selects markdown rendering.
const MarkdownExt = ".md"

// NavLink is one entry in the fixed navigation bar rendered at the top
// of every documentation page.
type NavLink struct {
	Icon  string
	Label string
	Href  string
}

// Document is a markdown file resolved against the serving root.
type Document struct {
	// RequestPath is the normalized URL path (leading slash, query
	// already stripped).
	RequestPath string
	// FilePath is the canonicalized path on disk.
	FilePath string
	// Content is the raw markdown text.
	Content []byte
}

// Name returns the base name of the document, used in page titles.
func (d *Document) Name() string {
	return path.Base(d.RequestPath)
}

// DefaultNav returns the navigation bar shared by every rendered page.
func DefaultNav() []NavLink {
	return []NavLink{
		{Icon: "\U0001F3E0", Label: "Home", Href: "/"},
		{Icon: "\U0001F680", Label: "Developer Guide", Href: "/DEVELOPER_ONBOARDING.md"},
		{Icon: "\U0001F4E1", Label: "API Reference", Href: "/API_REFERENCE.md"},
		{Icon: "\U0001F3D7️", Label: "Architecture", Href: "/architecture.md"},
		{Icon: "\U0001F510", Label: "Security", Href: "/security.md"},
	}
}
