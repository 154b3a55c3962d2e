package services

import (
	"github.com/AtRiskMedia/pagebuilder/internal/domain/entities/builder"
)

// IDGenerator produces new element ids
type IDGenerator func() string

// Insert appends a new element of type t at the drop coordinates. New
// elements paint on top. The caller decides whether to select it.
func Insert(st builder.State, t builder.ElementType, dropX, dropY float64, newID IDGenerator) (builder.State, builder.Element, error) {
	if !t.Valid() {
		return st, builder.Element{}, builder.ErrInvalidElementType
	}
	el, err := builder.NewElement(newID(), t, dropX, dropY)
	if err != nil {
		return st, builder.Element{}, err
	}
	next := st.Clone()
	next.Project = append(next.Project, el)
	return next, el, nil
}

// Reorder moves the source element to the target element's index, shifting
// the elements in between. Unknown ids and identical indexes are no-ops.
func Reorder(st builder.State, sourceID, targetID string) (builder.State, bool) {
	from := st.Project.IndexOf(sourceID)
	to := st.Project.IndexOf(targetID)
	if from < 0 || to < 0 || from == to {
		return st, false
	}
	next := st.Clone()
	next.Project = moveElement(next.Project, from, to)
	return next, true
}

// moveElement removes the element at from and reinserts it at to
func moveElement(p builder.Project, from, to int) builder.Project {
	el := p[from]
	out := make(builder.Project, 0, len(p))
	out = append(out, p[:from]...)
	out = append(out, p[from+1:]...)
	out = append(out, builder.Element{})
	copy(out[to+1:], out[to:])
	out[to] = el
	return out
}

// Translate adds (dx, dy) to the element position
func Translate(st builder.State, id string, dx, dy float64) (builder.State, bool) {
	i := st.Project.IndexOf(id)
	if i < 0 {
		return st, false
	}
	next := st.Clone()
	el := &next.Project[i]
	el.PosX, el.PosY = Offset(*el, Delta{DX: dx, DY: dy})
	refreshSelection(&next, *el)
	return next, true
}

// Delete removes the element with the given id and clears the selection in
// the same step when it pointed at that element.
func Delete(st builder.State, id string) (builder.State, bool) {
	i := st.Project.IndexOf(id)
	if i < 0 {
		return st, false
	}
	next := st.Clone()
	next.Project = append(next.Project[:i], next.Project[i+1:]...)
	if next.SelectedID() == id {
		next.Selection = nil
	}
	return next, true
}

// Clear empties the project and the selection
func Clear(st builder.State) builder.State {
	return builder.State{Project: builder.Project{}, Preview: st.Preview}
}

// refreshSelection keeps the cached selection in sync with an edited element
func refreshSelection(st *builder.State, el builder.Element) {
	if st.Selection != nil && st.Selection.ID == el.ID {
		sel := el
		st.Selection = &sel
	}
}
