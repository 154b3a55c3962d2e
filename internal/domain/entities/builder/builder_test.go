package builder

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNewElementDefaults(t *testing.T) {
	tests := []struct {
		typ  ElementType
		want Element
	}{
		{TypeText, Element{ID: "el-1", Type: TypeText, Content: "Text Element", Width: "150px", Height: "100px", BgColor: "#ffffff", TextColor: "#000000", BorderRadius: "0px", FontSize: "16px", PosX: "10px", PosY: "20px"}},
		{TypeImage, Element{ID: "el-1", Type: TypeImage, Content: "", Width: "150px", Height: "100px", BgColor: "#ffffff", TextColor: "#000000", BorderRadius: "0px", FontSize: "16px", PosX: "10px", PosY: "20px"}},
		{TypeButton, Element{ID: "el-1", Type: TypeButton, Content: "Button", Width: "150px", Height: "40px", BgColor: "#4A90E2", TextColor: "#ffffff", BorderRadius: "5px", FontSize: "16px", PosX: "10px", PosY: "20px"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			got, err := NewElement("el-1", tt.typ, 10, 20)
			if err != nil {
				t.Fatalf("NewElement: %v", err)
			}
			if got != tt.want {
				t.Errorf("NewElement(%s) = %+v, want %+v", tt.typ, got, tt.want)
			}
		})
	}
}

func TestNewElementRejectsUnknownType(t *testing.T) {
	if _, err := NewElement("el-1", "video", 0, 0); !errors.Is(err, ErrInvalidElementType) {
		t.Fatalf("expected ErrInvalidElementType, got %v", err)
	}
}

func TestLengthPixels(t *testing.T) {
	tests := []struct {
		in   Length
		want float64
	}{
		{"", 0},
		{"100px", 100},
		{"-35px", -35},
		{"12.5px", 12.5},
		{" 7 px", 7},
		{"abc", 0},
		{"42", 42},
	}
	for _, tt := range tests {
		if got := tt.in.Pixels(); got != tt.want {
			t.Errorf("Length(%q).Pixels() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPx(t *testing.T) {
	if got := Px(100); got != "100px" {
		t.Errorf("Px(100) = %q", got)
	}
	if got := Px(-3.5); got != "-3.5px" {
		t.Errorf("Px(-3.5) = %q", got)
	}
}

func TestResolvedDoesNotTouchOriginal(t *testing.T) {
	el := Element{ID: "el-1", Type: TypeButton}
	r := el.Resolved()
	if r.BgColor != "#4A90E2" || r.Height != "40px" || r.PosX != DefaultPosition {
		t.Errorf("unexpected resolved element %+v", r)
	}
	if el.BgColor != "" || el.Height != "" {
		t.Errorf("Resolved mutated the receiver: %+v", el)
	}

	unknown := Element{ID: "el-2", Type: "video"}.Resolved()
	if unknown.Height != "50px" || unknown.BgColor != "white" {
		t.Errorf("unexpected fallback for unknown type: %+v", unknown)
	}
}

func TestProjectRoundTrip(t *testing.T) {
	p := Project{
		{ID: "el-1", Type: TypeText, Content: "Hello", Width: "150px", PosX: "1px", PosY: "2px"},
		{ID: "el-2", Type: TypeImage},
		{ID: "el-3", Type: "legacy", Content: "x"},
	}
	data, err := MarshalProject(p)
	if err != nil {
		t.Fatalf("MarshalProject: %v", err)
	}
	if strings.Contains(string(data), `"bgColor"`) {
		t.Errorf("unset fields must not be materialized: %s", data)
	}
	got, err := UnmarshalProject(data)
	if err != nil {
		t.Fatalf("UnmarshalProject: %v", err)
	}
	if !reflect.DeepEqual(got, p) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, p)
	}
}

func TestUnmarshalProjectWireFields(t *testing.T) {
	payload := `[{"id":"el-1","type":"button","content":"Go","width":"150px","height":"40px","bgColor":"#4A90E2","textColor":"#ffffff","borderRadius":"5px","fontSize":"16px","posX":"100px","posY":"200px"}]`
	got, err := UnmarshalProject([]byte(payload))
	if err != nil {
		t.Fatalf("UnmarshalProject: %v", err)
	}
	want := Element{ID: "el-1", Type: TypeButton, Content: "Go", Width: "150px", Height: "40px", BgColor: "#4A90E2", TextColor: "#ffffff", BorderRadius: "5px", FontSize: "16px", PosX: "100px", PosY: "200px"}
	if len(got) != 1 || got[0] != want {
		t.Errorf("got %+v", got)
	}
}

func TestUnmarshalProjectMalformed(t *testing.T) {
	for _, payload := range []string{
		``,
		`{}`,
		`null`,
		`[{"id":"a"},`,
		`[{"type":"text"}]`,
		`[{"id":"a"},{"id":"a"}]`,
		`[{"id":"a","posX":12}]`,
	} {
		if _, err := UnmarshalProject([]byte(payload)); !errors.Is(err, ErrMalformedProject) {
			t.Errorf("payload %q: expected ErrMalformedProject, got %v", payload, err)
		}
	}
}

func TestEmptyProjectRoundTrip(t *testing.T) {
	data, err := MarshalProject(nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("got %s", data)
	}
	p, err := UnmarshalProject(data)
	if err != nil || p == nil || len(p) != 0 {
		t.Errorf("got %v, %v", p, err)
	}
}

func TestStateCloneIsDeep(t *testing.T) {
	st := NewState()
	st.Project = append(st.Project, Element{ID: "el-1", Type: TypeText})
	sel := st.Project[0]
	st.Selection = &sel

	c := st.Clone()
	c.Project[0].Content = "changed"
	c.Selection.Content = "changed"
	if st.Project[0].Content != "" || st.Selection.Content != "" {
		t.Fatalf("clone shares memory with the original")
	}
}
