// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// componentPalette is cycled through to give each component a stable,
// distinct name color.
var componentPalette = []string{
	"#7C3AED", // violet
	"#3B82F6", // blue
	"#10B981", // green
	"#F59E0B", // amber
	"#9CA3AF", // gray
}

// Printer renders attributed lines to a writer, one line per Line, with
// a timestamp, the padded component name in a per-component color, and
// the text. Stderr text is dimmed. Not safe for concurrent use; drive it
// from a single goroutine.
type Printer struct {
	w        io.Writer
	renderer *lipgloss.Renderer

	timeStyle lipgloss.Style
	sepStyle  lipgloss.Style
	errStyle  lipgloss.Style

	names map[string]lipgloss.Style
	width int
	next  int
}

// NewPrinter creates a Printer writing to w. Passing the component names
// up front fixes the name column width and assigns colors in a stable
// order; names seen later are still accepted.
func NewPrinter(w io.Writer, names ...string) *Printer {
	renderer := lipgloss.NewRenderer(w)
	p := &Printer{
		w:         w,
		renderer:  renderer,
		timeStyle: renderer.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		sepStyle:  renderer.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		errStyle:  renderer.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
		names:     make(map[string]lipgloss.Style),
	}
	for _, name := range names {
		p.styleFor(name)
		if len(name) > p.width {
			p.width = len(name)
		}
	}
	return p
}

// Print renders one line.
func (p *Printer) Print(line Line) {
	style := p.styleFor(line.Component)
	if len(line.Component) > p.width {
		p.width = len(line.Component)
	}

	text := line.Text
	if line.Source == SourceStderr {
		text = p.errStyle.Render(text)
	}

	fmt.Fprintf(p.w, "%s %s %s %s\n",
		p.timeStyle.Render(line.Time.Format("15:04:05")),
		style.Render(fmt.Sprintf("%-*s", p.width, line.Component)),
		p.sepStyle.Render("│"),
		text,
	)
}

// Drain prints every line from lines until the channel is closed.
func (p *Printer) Drain(lines <-chan Line) {
	for line := range lines {
		p.Print(line)
	}
}

func (p *Printer) styleFor(name string) lipgloss.Style {
	s, ok := p.names[name]
	if !ok {
		color := componentPalette[p.next%len(componentPalette)]
		p.next++
		s = p.renderer.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
		p.names[name] = s
	}
	return s
}
