// Package templates generates exportable source code from a page builder
// project: a standalone HTML document or a React component module.
package templates

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AtRiskMedia/pagebuilder/internal/domain/entities/builder"
)

// Format selects the generated output
type Format string

const (
	FormatMarkup    Format = "html"
	FormatComponent Format = "react"
)

// ErrUnknownFormat is returned for an output format that is not supported
var ErrUnknownFormat = errors.New("unknown export format")

const documentTitle = "Exported Website"

// ParseFormat resolves a format name and its common aliases
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "html", "markup":
		return FormatMarkup, nil
	case "react", "jsx", "component":
		return FormatComponent, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FileName returns the download file name for the format
func FileName(f Format) string {
	if f == FormatComponent {
		return "ExportedWebsite.jsx"
	}
	return "exported-website.html"
}

// ContentType returns the MIME type for the format
func ContentType(f Format) string {
	if f == FormatComponent {
		return "text/javascript; charset=utf-8"
	}
	return "text/html; charset=utf-8"
}

func dialectFor(f Format) (*dialect, error) {
	switch f {
	case FormatMarkup:
		return &markupDialect, nil
	case FormatComponent:
		return &componentDialect, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Generate renders the ordered elements as one self-contained source file.
// The output depends only on its arguments and elements is never modified.
func Generate(f Format, elements []builder.Element) (string, error) {
	d, err := dialectFor(f)
	if err != nil {
		return "", err
	}

	var body strings.Builder
	for _, el := range elements {
		body.WriteString(d.indent)
		body.WriteString(renderElement(d, el))
		body.WriteByte('\n')
	}

	var out strings.Builder
	if err := d.shell.Execute(&out, shellData{Title: documentTitle, Body: body.String()}); err != nil {
		return "", fmt.Errorf("failed to render %s document: %w", f, err)
	}
	return out.String(), nil
}

// containerStyle lists the rules applied to every element container. Images
// fill their box, so they skip the flex centering rules.
func containerStyle(el builder.Element, centered bool) []declaration {
	decls := []declaration{
		{"position", "position", "absolute"},
		{"left", "left", string(el.PosX)},
		{"top", "top", string(el.PosY)},
		{"width", "width", string(el.Width)},
		{"height", "height", string(el.Height)},
		{"background-color", "backgroundColor", el.BgColor},
		{"color", "color", el.TextColor},
		{"border-radius", "borderRadius", string(el.BorderRadius)},
		{"font-size", "fontSize", string(el.FontSize)},
	}
	if centered {
		decls = append(decls,
			declaration{"display", "display", "flex"},
			declaration{"justify-content", "justifyContent", "center"},
			declaration{"align-items", "alignItems", "center"},
		)
	}
	return decls
}

func imageStyle(el builder.Element) []declaration {
	return []declaration{
		{"width", "width", "100%"},
		{"height", "height", "100%"},
		{"object-fit", "objectFit", "cover"},
		{"border-radius", "borderRadius", string(el.BorderRadius)},
	}
}

// renderElement is the single per-element renderer shared by both formats
func renderElement(d *dialect, raw builder.Element) string {
	el := raw.Resolved()

	switch el.Type {
	case builder.TypeText:
		return tag(d, "div", containerStyle(el, true), d.text(contentOr(el.Content, "Text")))
	case builder.TypeButton:
		return tag(d, "button", containerStyle(el, true), d.text(contentOr(el.Content, "Button")))
	case builder.TypeImage:
		img := "<img " + d.attr("src", el.Content) + " " + d.attr("alt", "Image") + " " + d.styleAttr(imageStyle(el)) + " />"
		return tag(d, "div", containerStyle(el, false), img)
	default:
		return tag(d, "div", containerStyle(el, true), d.text("Unknown element"))
	}
}

func tag(d *dialect, name string, style []declaration, inner string) string {
	return "<" + name + " " + d.styleAttr(style) + ">" + inner + "</" + name + ">"
}

func contentOr(content, fallback string) string {
	if content == "" {
		return fallback
	}
	return content
}
