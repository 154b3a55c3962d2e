package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/AtRiskMedia/pagebuilder/internal/domain/entities/builder"
)

var (
	// ErrUnknownField is returned for a property name the editor does not expose
	ErrUnknownField = errors.New("unknown property field")
	// ErrInvalidPropertyValue is returned when a length field is not numeric
	ErrInvalidPropertyValue = errors.New("invalid property value")
)

// Field names a settable element property
type Field string

const (
	FieldContent      Field = "content"
	FieldWidth        Field = "width"
	FieldHeight       Field = "height"
	FieldPosX         Field = "posX"
	FieldPosY         Field = "posY"
	FieldBgColor      Field = "bgColor"
	FieldTextColor    Field = "textColor"
	FieldBorderRadius Field = "borderRadius"
	FieldFontSize     Field = "fontSize"
)

// Fields lists every settable property in editor order
func Fields() []Field {
	return []Field{
		FieldContent, FieldWidth, FieldHeight, FieldPosX, FieldPosY,
		FieldBgColor, FieldTextColor, FieldBorderRadius, FieldFontSize,
	}
}

// IsLength reports whether the field holds a pixel length
func (f Field) IsLength() bool {
	switch f {
	case FieldWidth, FieldHeight, FieldPosX, FieldPosY, FieldBorderRadius, FieldFontSize:
		return true
	}
	return false
}

func (f Field) known() bool {
	for _, k := range Fields() {
		if k == f {
			return true
		}
	}
	return false
}

// Select makes the element with the given id the selection. Selection changes
// are rejected while preview is on. An unknown or empty id clears it.
func Select(st builder.State, id string) (builder.State, bool) {
	if st.Preview {
		return st, false
	}
	next := st.Clone()
	el, ok := next.Project.Find(id)
	if !ok {
		next.Selection = nil
		return next, true
	}
	next.Selection = &el
	return next, true
}

// SetPreview switches preview mode. The selection is always cleared.
func SetPreview(st builder.State, on bool) builder.State {
	next := st.Clone()
	next.Preview = on
	next.Selection = nil
	return next
}

// ClearSelection drops the selection, as when entering the export view
func ClearSelection(st builder.State) builder.State {
	next := st.Clone()
	next.Selection = nil
	return next
}

// NormalizeValue converts a raw editor value into its stored form. Length
// fields take bare numbers (stored with a px suffix), numbers already in px,
// or an empty string which unsets the field.
func NormalizeValue(field Field, raw string) (string, error) {
	if !field.known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if !field.IsLength() {
		return raw, nil
	}

	v := strings.TrimSpace(raw)
	if v == "" {
		return "", nil
	}
	num := strings.TrimSuffix(v, "px")
	f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %s=%q", ErrInvalidPropertyValue, field, raw)
	}
	return string(builder.Px(f)), nil
}

// UpdateProperty writes one property of the element with the given id. An
// unknown id is a no-op. The cached selection is refreshed when it points at
// the updated element.
func UpdateProperty(st builder.State, id string, field Field, raw string) (builder.State, error) {
	return UpdateProperties(st, id, map[Field]string{field: raw})
}

// UpdateProperties applies several property edits at once. All values are
// validated before any is written.
func UpdateProperties(st builder.State, id string, values map[Field]string) (builder.State, error) {
	normalized := make(map[Field]string, len(values))
	for field, raw := range values {
		v, err := NormalizeValue(field, raw)
		if err != nil {
			return st, err
		}
		normalized[field] = v
	}

	i := st.Project.IndexOf(id)
	if i < 0 {
		return st, nil
	}

	next := st.Clone()
	el := &next.Project[i]
	for field, v := range normalized {
		setField(el, field, v)
	}
	refreshSelection(&next, *el)
	return next, nil
}

func setField(el *builder.Element, field Field, v string) {
	switch field {
	case FieldContent:
		el.Content = v
	case FieldWidth:
		el.Width = builder.Length(v)
	case FieldHeight:
		el.Height = builder.Length(v)
	case FieldPosX:
		el.PosX = builder.Length(v)
	case FieldPosY:
		el.PosY = builder.Length(v)
	case FieldBgColor:
		el.BgColor = v
	case FieldTextColor:
		el.TextColor = v
	case FieldBorderRadius:
		el.BorderRadius = builder.Length(v)
	case FieldFontSize:
		el.FontSize = builder.Length(v)
	}
}
