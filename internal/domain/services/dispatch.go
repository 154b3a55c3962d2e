package services

import (
	"github.com/AtRiskMedia/pagebuilder/internal/domain/entities/builder"
)

// CanvasID is the drop target identifier of the canvas surface
const CanvasID = "canvas"

// DragEndEvent is what the pointer layer reports when a drag gesture ends.
// An empty TargetID means the pointer was not over any drop target.
type DragEndEvent struct {
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
	Delta    Delta  `json:"screenDelta"`
	Pointer  Point  `json:"pointerScreenPosition"`
}

// DropKind classifies how a drag-end event was applied
type DropKind string

const (
	DropDiscarded  DropKind = "discarded"
	DropInserted   DropKind = "inserted"
	DropReordered  DropKind = "reordered"
	DropTranslated DropKind = "translated"
)

// DropOutcome reports the classification and the element it touched
type DropOutcome struct {
	Kind      DropKind         `json:"kind"`
	ElementID string           `json:"elementId,omitempty"`
	Element   *builder.Element `json:"element,omitempty"`
}

// paletteType maps a palette drag source to its element type
func paletteType(sourceID string) (builder.ElementType, bool) {
	t := builder.ElementType(sourceID)
	return t, t.Valid()
}

// ApplyDragEnd dispatches a drag-end event, in order of precedence:
//
//  1. palette item over the canvas surface: insert and select it
//  2. canvas element over a different canvas element: reorder
//  3. canvas element anywhere else: translate by the screen delta
//
// Anything else, and every drag while preview is on, is discarded.
func ApplyDragEnd(st builder.State, ev DragEndEvent, canvas Rect, newID IDGenerator) (builder.State, DropOutcome) {
	discarded := DropOutcome{Kind: DropDiscarded}
	if st.Preview {
		return st, discarded
	}

	if t, ok := paletteType(ev.SourceID); ok {
		if ev.TargetID != CanvasID {
			return st, discarded
		}
		x, y := CanvasDrop(canvas, ev.Pointer)
		next, el, err := Insert(st, t, x, y, newID)
		if err != nil {
			return st, discarded
		}
		sel := el
		next.Selection = &sel
		return next, DropOutcome{Kind: DropInserted, ElementID: el.ID, Element: &el}
	}

	if st.Project.IndexOf(ev.SourceID) < 0 {
		return st, discarded
	}

	// A drop onto itself falls through to translate
	if ev.TargetID != "" && ev.TargetID != ev.SourceID && st.Project.IndexOf(ev.TargetID) >= 0 {
		next, _ := Reorder(st, ev.SourceID, ev.TargetID)
		return next, DropOutcome{Kind: DropReordered, ElementID: ev.SourceID}
	}

	next, _ := Translate(st, ev.SourceID, ev.Delta.DX, ev.Delta.DY)
	el, _ := next.Project.Find(ev.SourceID)
	return next, DropOutcome{Kind: DropTranslated, ElementID: el.ID, Element: &el}
}
