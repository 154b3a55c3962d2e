package templates

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/AtRiskMedia/pagebuilder/internal/domain/entities/builder"
)

func sampleElements() []builder.Element {
	return []builder.Element{
		{ID: "el-1", Type: builder.TypeText, Content: "Hello", Width: "150px", Height: "100px", BgColor: "#ffffff", TextColor: "#000000", BorderRadius: "0px", FontSize: "16px", PosX: "10px", PosY: "20px"},
		{ID: "el-2", Type: builder.TypeButton, PosX: "100px", PosY: "200px"},
		{ID: "el-3", Type: builder.TypeImage, Content: "https://example.com/cat.png", BorderRadius: "8px"},
		{ID: "el-4", Type: "video"},
	}
}

func TestGenerateMarkupElements(t *testing.T) {
	out, err := Generate(FormatMarkup, sampleElements())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := []string{
		`  <div style="position: absolute; left: 10px; top: 20px; width: 150px; height: 100px; background-color: #ffffff; color: #000000; border-radius: 0px; font-size: 16px; display: flex; justify-content: center; align-items: center;">Hello</div>`,
		`  <button style="position: absolute; left: 100px; top: 200px; width: 150px; height: 40px; background-color: #4A90E2; color: #ffffff; border-radius: 5px; font-size: 16px; display: flex; justify-content: center; align-items: center;">Button</button>`,
		`  <div style="position: absolute; left: 20px; top: 20px; width: 150px; height: 100px; background-color: #ffffff; color: #000000; border-radius: 8px; font-size: 16px;"><img src="https://example.com/cat.png" alt="Image" style="width: 100%; height: 100%; object-fit: cover; border-radius: 8px;" /></div>`,
		`  <div style="position: absolute; left: 20px; top: 20px; width: 150px; height: 50px; background-color: white; color: black; border-radius: 5px; font-size: 16px; display: flex; justify-content: center; align-items: center;">Unknown element</div>`,
	}
	for _, line := range want {
		if !strings.Contains(out, line+"\n") {
			t.Errorf("output missing line:\n%s\n--- got ---\n%s", line, out)
		}
	}

	for _, part := range []string{
		"<!DOCTYPE html>",
		`<meta charset="UTF-8">`,
		`<meta name="viewport" content="width=device-width, initial-scale=1.0">`,
		"<body>\n",
	} {
		if !strings.Contains(out, part) {
			t.Errorf("document shell missing %q", part)
		}
	}
	if !strings.HasSuffix(out, "</body>\n</html>") {
		t.Errorf("unexpected document end: %q", out[len(out)-30:])
	}
}

// An empty text element still renders a visible label
func TestGenerateMarkupTextFallback(t *testing.T) {
	out, err := Generate(FormatMarkup, []builder.Element{{ID: "el-1", Type: builder.TypeText, Content: ""}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, ">Text</div>") {
		t.Errorf("expected fallback literal, got:\n%s", out)
	}
	if strings.Contains(out, "></div>") {
		t.Errorf("text element rendered with an empty body")
	}
}

func TestGenerateMarkupEscapesContent(t *testing.T) {
	out, err := Generate(FormatMarkup, []builder.Element{
		{ID: "el-1", Type: builder.TypeText, Content: `<script>alert("x")</script>`},
		{ID: "el-2", Type: builder.TypeImage, Content: `x" onerror="boom`},
		{ID: "el-3", Type: builder.TypeButton, BgColor: `red" onclick="boom`},
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "<script>") || strings.Contains(out, `" onerror="`) || strings.Contains(out, `" onclick="`) {
		t.Errorf("content not escaped:\n%s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("expected escaped text:\n%s", out)
	}
}

func TestGenerateComponent(t *testing.T) {
	out, err := Generate(FormatComponent, sampleElements())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !strings.HasPrefix(out, "import React from 'react';\n\nfunction ExportedWebsite() {\n  return (\n    <div className=\"relative w-full h-screen\">\n") {
		t.Errorf("unexpected component header:\n%s", out)
	}
	if !strings.HasSuffix(out, "    </div>\n  );\n}\n\nexport default ExportedWebsite;\n") {
		t.Errorf("unexpected component footer:\n%s", out)
	}

	want := []string{
		`      <div style={{ position: 'absolute', left: '10px', top: '20px', width: '150px', height: '100px', backgroundColor: '#ffffff', color: '#000000', borderRadius: '0px', fontSize: '16px', display: 'flex', justifyContent: 'center', alignItems: 'center' }}>Hello</div>`,
		`      <button style={{ position: 'absolute', left: '100px', top: '200px', width: '150px', height: '40px', backgroundColor: '#4A90E2', color: '#ffffff', borderRadius: '5px', fontSize: '16px', display: 'flex', justifyContent: 'center', alignItems: 'center' }}>Button</button>`,
		`      <div style={{ position: 'absolute', left: '20px', top: '20px', width: '150px', height: '100px', backgroundColor: '#ffffff', color: '#000000', borderRadius: '8px', fontSize: '16px' }}><img src={'https://example.com/cat.png'} alt={'Image'} style={{ width: '100%', height: '100%', objectFit: 'cover', borderRadius: '8px' }} /></div>`,
		`>Unknown element</div>`,
	}
	for _, line := range want {
		if !strings.Contains(out, line) {
			t.Errorf("output missing:\n%s\n--- got ---\n%s", line, out)
		}
	}
}

func TestGenerateComponentEscapesJSX(t *testing.T) {
	out, err := Generate(FormatComponent, []builder.Element{
		{ID: "el-1", Type: builder.TypeText, Content: "a {b} <c> & d"},
		{ID: "el-2", Type: builder.TypeImage, Content: `it's \ here`},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `>a {'{'}b{'}'} {'<'}c{'>'} {'&'} d</div>`) {
		t.Errorf("children not escaped:\n%s", out)
	}
	if !strings.Contains(out, `src={'it\'s \\ here'}`) {
		t.Errorf("attribute not escaped:\n%s", out)
	}
}

func TestGenerateIsDeterministicAndPure(t *testing.T) {
	els := sampleElements()
	snapshot := make([]builder.Element, len(els))
	copy(snapshot, els)

	for _, f := range []Format{FormatMarkup, FormatComponent} {
		a, err := Generate(f, els)
		if err != nil {
			t.Fatal(err)
		}
		b, _ := Generate(f, els)
		if a != b {
			t.Errorf("%s output differs between calls", f)
		}
	}
	if !reflect.DeepEqual(els, snapshot) {
		t.Errorf("Generate mutated its input")
	}
}

func TestGenerateEmptyProject(t *testing.T) {
	out, err := Generate(FormatMarkup, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<body>\n</body>") {
		t.Errorf("unexpected empty document:\n%s", out)
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"html": FormatMarkup, "Markup": FormatMarkup,
		"react": FormatComponent, "jsx": FormatComponent, " component ": FormatComponent,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("vue"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := Generate("vue", nil); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat from Generate, got %v", err)
	}
}

func TestFileNames(t *testing.T) {
	if FileName(FormatMarkup) != "exported-website.html" || FileName(FormatComponent) != "ExportedWebsite.jsx" {
		t.Error("unexpected export file names")
	}
}
