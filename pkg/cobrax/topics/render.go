package topics

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// Renderer formats a topic's content for display. ext is the topic file's
// extension, including the dot.
type Renderer interface {
	Render(content string, ext string) string
}

// PlainRenderer shows topics as written
type PlainRenderer struct{}

// Render returns the content unchanged
func (r *PlainRenderer) Render(content string, ext string) string {
	return content
}

// GlamourRenderer renders markdown topics for the terminal; other topics
// pass through untouched
type GlamourRenderer struct {
	// Style is a glamour style name or path; empty picks one from the
	// terminal background
	Style string
	// WordWrap is the wrap width; zero keeps glamour's default
	WordWrap int

	once sync.Once
	term *glamour.TermRenderer
	err  error
}

// NewGlamourRenderer creates a markdown renderer with automatic styling
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{}
}

// Render renders markdown, falling back to the raw content on any failure
func (r *GlamourRenderer) Render(content string, ext string) string {
	if ext != ".md" {
		return content
	}

	r.once.Do(func() {
		opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
		if r.Style != "" {
			opts = []glamour.TermRendererOption{glamour.WithStylePath(r.Style)}
		}
		if r.WordWrap > 0 {
			opts = append(opts, glamour.WithWordWrap(r.WordWrap))
		}
		r.term, r.err = glamour.NewTermRenderer(opts...)
	})
	if r.err != nil {
		return content
	}

	out, err := r.term.Render(content)
	if err != nil {
		return content
	}
	return out
}
