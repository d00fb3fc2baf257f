// Package dump renders resolved classes as text, JSON or YAML.
package dump

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/daimatz/jclass/pkg/config"
	"github.com/daimatz/jclass/pkg/descriptor"
	"github.com/daimatz/jclass/pkg/resolve"
)

// Styles colours the text format. The zero value prints plain text.
type Styles struct {
	Heading lipgloss.Style
	Type    lipgloss.Style
	Name    lipgloss.Style

	enabled bool
}

// NewStyles creates styles bound to r.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Type:    r.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		Name:    r.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		enabled: true,
	}
}

func (s *Styles) render(st lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return st.Render(text)
}

// Text writes c in the plain listing layout. styles may be nil.
func Text(w io.Writer, c *resolve.Class, styles *Styles) error {
	if styles == nil {
		styles = &Styles{}
	}
	p := &printer{w: w, s: styles}

	super := c.SuperClass
	if !c.HasSuperClass() {
		super = "(none)"
	}
	p.heading("class name:", " "+p.s.render(p.s.Name, c.ThisClass))
	p.heading("super class:", " "+p.s.render(p.s.Name, super))

	p.heading("interfaces:", "")
	for _, i := range c.Interfaces {
		p.line("  %s", p.s.render(p.s.Name, i))
	}

	p.heading("fields:", "")
	for _, f := range c.Fields {
		p.line("  %s %s", p.s.render(p.s.Type, f.Type.String()), f.Name)
	}

	p.heading("methods:", "")
	for _, m := range c.Methods {
		args := ""
		for i, a := range m.Type.Args {
			if i > 0 {
				args += ", "
			}
			args += p.s.render(p.s.Type, a.String())
		}
		ret := p.s.render(p.s.Type, descriptor.ReturnString(m.Type.Return))
		p.line("  %s %s(%s)", ret, m.Name, args)
	}

	p.heading("attributes:", "")
	for _, a := range c.Attributes {
		p.line("  %s", a.Name)
	}
	return p.err
}

type printer struct {
	w   io.Writer
	s   *Styles
	err error
}

func (p *printer) heading(label, rest string) {
	p.line("%s%s", p.s.render(p.s.Heading, label), rest)
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

// JSON writes the views of classes as an indented JSON array.
func JSON(w io.Writer, classes []*resolve.Class) error {
	views := make([]View, 0, len(classes))
	for _, c := range classes {
		views = append(views, NewView(c))
	}
	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return fmt.Errorf("dump: encoding json: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// YAML writes the views of classes as a YAML stream, one document each.
func YAML(w io.Writer, classes []*resolve.Class) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, c := range classes {
		if err := enc.Encode(NewView(c)); err != nil {
			return fmt.Errorf("dump: encoding yaml: %w", err)
		}
	}
	return enc.Close()
}

// Write renders classes in format. Text listings are separated by a blank
// line.
func Write(w io.Writer, format string, classes []*resolve.Class, styles *Styles) error {
	switch format {
	case config.FormatText:
		for i, c := range classes {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if err := Text(w, c, styles); err != nil {
				return err
			}
		}
		return nil
	case config.FormatJSON:
		return JSON(w, classes)
	case config.FormatYAML:
		return YAML(w, classes)
	}
	return fmt.Errorf("dump: unknown format %q", format)
}
