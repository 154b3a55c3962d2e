package templates

import (
	"html"
	"strings"
	"text/template"
)

// declaration is one inline presentation rule. css is the stylesheet property
// name, js the camelCase name used in component style objects.
type declaration struct {
	css   string
	js    string
	value string
}

// dialect holds everything that differs between the two output formats. The
// per-element renderer in generator.go never branches on the format itself.
type dialect struct {
	shell  *template.Template
	indent string

	// styleAttr renders a complete style attribute from its declarations
	styleAttr func(decls []declaration) string
	// attr renders a plain attribute, e.g. src="..."
	attr func(name, value string) string
	// text escapes element children
	text func(s string) string
}

type shellData struct {
	Title string
	Body  string
}

var markupShell = template.Must(template.New("markup").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>
    body {
      margin: 0;
      padding: 0;
      font-family: Arial, sans-serif;
    }
    .element-container {
      position: absolute;
    }
  </style>
</head>
<body>
{{.Body}}</body>
</html>`))

var componentShell = template.Must(template.New("component").Parse(`import React from 'react';

function ExportedWebsite() {
  return (
    <div className="relative w-full h-screen">
{{.Body}}    </div>
  );
}

export default ExportedWebsite;
`))

var markupDialect = dialect{
	shell:  markupShell,
	indent: "  ",
	styleAttr: func(decls []declaration) string {
		var b strings.Builder
		b.WriteString(`style="`)
		for i, d := range decls {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(d.css)
			b.WriteString(": ")
			b.WriteString(html.EscapeString(d.value))
			b.WriteByte(';')
		}
		b.WriteByte('"')
		return b.String()
	},
	attr: func(name, value string) string {
		return name + `="` + html.EscapeString(value) + `"`
	},
	text: html.EscapeString,
}

var componentDialect = dialect{
	shell:  componentShell,
	indent: "      ",
	styleAttr: func(decls []declaration) string {
		var b strings.Builder
		b.WriteString("style={{ ")
		for i, d := range decls {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(d.js)
			b.WriteString(": ")
			b.WriteString(jsString(d.value))
		}
		b.WriteString(" }}")
		return b.String()
	},
	attr: func(name, value string) string {
		return name + "={" + jsString(value) + "}"
	},
	text: jsxText,
}

// jsString quotes s as a single-quoted JavaScript string literal
func jsString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// jsxText escapes characters that would otherwise open an expression or a tag
// inside JSX children. Entities are written as expressions so that an
// ampersand in the content is reproduced literally.
func jsxText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '{', '}', '<', '>', '&':
			b.WriteString("{'")
			b.WriteRune(r)
			b.WriteString("'}")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
