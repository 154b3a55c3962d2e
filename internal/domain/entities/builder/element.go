// Package builder defines the page builder domain entities: elements placed on
// the canvas, the ordered project that holds them, and the editing state.
package builder

import (
	"errors"
	"strconv"
	"strings"
)

// ElementType identifies the kind of element placed on the canvas
type ElementType string

const (
	TypeText   ElementType = "text"
	TypeImage  ElementType = "image"
	TypeButton ElementType = "button"
)

// ErrInvalidElementType is returned when inserting a type outside the palette
var ErrInvalidElementType = errors.New("invalid element type")

// Palette returns the insertable element types in display order
func Palette() []ElementType {
	return []ElementType{TypeText, TypeImage, TypeButton}
}

// Valid reports whether t belongs to the closed set of element types
func (t ElementType) Valid() bool {
	switch t {
	case TypeText, TypeImage, TypeButton:
		return true
	}
	return false
}

// Length is a numeric value with a unit suffix, e.g. "150px"
type Length string

// Px formats a pixel length. Whole numbers carry no decimal point.
func Px(v float64) Length {
	return Length(strconv.FormatFloat(v, 'f', -1, 64) + "px")
}

// Pixels returns the leading numeric value of the length.
// An empty or unparseable length counts as zero.
func (l Length) Pixels() float64 {
	s := strings.TrimSpace(string(l))
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || ((c == '-' || c == '+') && end == 0) {
			end++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

// IsSet reports whether the length holds a value
func (l Length) IsSet() bool {
	return strings.TrimSpace(string(l)) != ""
}

// Element is one visual unit placed on the canvas. Empty fields are unset and
// resolve to the type defaults at render and export time.
type Element struct {
	ID           string      `json:"id"`
	Type         ElementType `json:"type"`
	Content      string      `json:"content,omitempty"`
	Width        Length      `json:"width,omitempty"`
	Height       Length      `json:"height,omitempty"`
	BgColor      string      `json:"bgColor,omitempty"`
	TextColor    string      `json:"textColor,omitempty"`
	BorderRadius Length      `json:"borderRadius,omitempty"`
	FontSize     Length      `json:"fontSize,omitempty"`
	PosX         Length      `json:"posX,omitempty"`
	PosY         Length      `json:"posY,omitempty"`
}

// Defaults holds the style and geometry a new element starts with
type Defaults struct {
	Content      string `json:"content"`
	Width        Length `json:"width"`
	Height       Length `json:"height"`
	BgColor      string `json:"bgColor"`
	TextColor    string `json:"textColor"`
	BorderRadius Length `json:"borderRadius"`
	FontSize     Length `json:"fontSize"`
}

var typeDefaults = map[ElementType]Defaults{
	TypeText: {
		Content:      "Text Element",
		Width:        "150px",
		Height:       "100px",
		BgColor:      "#ffffff",
		TextColor:    "#000000",
		BorderRadius: "0px",
		FontSize:     "16px",
	},
	TypeImage: {
		Content:      "",
		Width:        "150px",
		Height:       "100px",
		BgColor:      "#ffffff",
		TextColor:    "#000000",
		BorderRadius: "0px",
		FontSize:     "16px",
	},
	TypeButton: {
		Content:      "Button",
		Width:        "150px",
		Height:       "40px",
		BgColor:      "#4A90E2",
		TextColor:    "#ffffff",
		BorderRadius: "5px",
		FontSize:     "16px",
	},
}

// unknownDefaults matches the canvas fallbacks used for unrecognised types
var unknownDefaults = Defaults{
	Width:        "150px",
	Height:       "50px",
	BgColor:      "white",
	TextColor:    "black",
	BorderRadius: "5px",
	FontSize:     "16px",
}

// DefaultPosition is used when an element carries no position
const DefaultPosition Length = "20px"

// DefaultsFor returns the default property set for a type.
// Unknown types get the generic canvas fallbacks.
func DefaultsFor(t ElementType) Defaults {
	if d, ok := typeDefaults[t]; ok {
		return d
	}
	return unknownDefaults
}

// NewElement builds an element of type t at (x, y) with the type defaults
func NewElement(id string, t ElementType, x, y float64) (Element, error) {
	if !t.Valid() {
		return Element{}, ErrInvalidElementType
	}
	d := DefaultsFor(t)
	return Element{
		ID:           id,
		Type:         t,
		Content:      d.Content,
		Width:        d.Width,
		Height:       d.Height,
		BgColor:      d.BgColor,
		TextColor:    d.TextColor,
		BorderRadius: d.BorderRadius,
		FontSize:     d.FontSize,
		PosX:         Px(x),
		PosY:         Px(y),
	}, nil
}

// Resolved returns a copy with every unset geometry and style field filled from
// the type defaults. Content is left as is; each output format owns its own
// content fallback.
func (e Element) Resolved() Element {
	d := DefaultsFor(e.Type)
	r := e
	if !r.Width.IsSet() {
		r.Width = d.Width
	}
	if !r.Height.IsSet() {
		r.Height = d.Height
	}
	if r.BgColor == "" {
		r.BgColor = d.BgColor
	}
	if r.TextColor == "" {
		r.TextColor = d.TextColor
	}
	if !r.BorderRadius.IsSet() {
		r.BorderRadius = d.BorderRadius
	}
	if !r.FontSize.IsSet() {
		r.FontSize = d.FontSize
	}
	if !r.PosX.IsSet() {
		r.PosX = DefaultPosition
	}
	if !r.PosY.IsSet() {
		r.PosY = DefaultPosition
	}
	return r
}
