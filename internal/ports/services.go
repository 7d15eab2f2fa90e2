package ports

// PageRenderer converts markdown source into a complete HTML page.
type PageRenderer interface {
	// RenderPage converts markdown to a complete HTML document wrapped
	// in the documentation page template. name is the base name of the
	// file, used to build the page title.
	RenderPage(name string, src []byte) ([]byte, error)
}
