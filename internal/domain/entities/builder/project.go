package builder

// Project is the ordered element sequence of one page. Order is paint and tab
// order; positions are independent of it.
type Project []Element

// Clone returns a copy that shares no backing array with p
func (p Project) Clone() Project {
	if p == nil {
		return Project{}
	}
	out := make(Project, len(p))
	copy(out, p)
	return out
}

// IndexOf returns the position of the element with the given id, or -1
func (p Project) IndexOf(id string) int {
	for i := range p {
		if p[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns a copy of the element with the given id
func (p Project) Find(id string) (Element, bool) {
	if i := p.IndexOf(id); i >= 0 {
		return p[i], true
	}
	return Element{}, false
}

// IDs lists element ids in project order
func (p Project) IDs() []string {
	ids := make([]string, len(p))
	for i, el := range p {
		ids[i] = el.ID
	}
	return ids
}

// State is the editing state of one workspace: the project, the cached copy of
// the selected element, and whether preview mode is on. Core operations take a
// State and return the updated State.
type State struct {
	Project   Project  `json:"elements"`
	Selection *Element `json:"selectedElement"`
	Preview   bool     `json:"previewMode"`
}

// NewState returns an empty editing state
func NewState() State {
	return State{Project: Project{}}
}

// Clone returns a deep copy of the state
func (s State) Clone() State {
	out := State{Project: s.Project.Clone(), Preview: s.Preview}
	if s.Selection != nil {
		sel := *s.Selection
		out.Selection = &sel
	}
	return out
}

// SelectedID returns the id of the selected element, or "" when none
func (s State) SelectedID() string {
	if s.Selection == nil {
		return ""
	}
	return s.Selection.ID
}
