package concept

import (
	"reflect"
	"testing"
)

func TestAdd_New(t *testing.T) {
	g := NewGraph()
	g.Add(Node{Name: "Photosynthesis", Definition: "Light to sugar", Relations: []string{"Chlorophyll"}, Difficulty: 2})

	n, ok := g.Get("Photosynthesis")
	if !ok {
		t.Fatal("expected node to exist")
	}
	if n.Definition != "Light to sugar" {
		t.Errorf("got definition %q", n.Definition)
	}
	if g.Len() != 1 {
		t.Errorf("got %d nodes, want 1", g.Len())
	}
}

func TestAdd_MergesByName(t *testing.T) {
	g := NewGraph()
	g.Add(Node{Name: "Osmosis", Definition: "Water movement", Relations: []string{"Diffusion"}, Difficulty: 2})
	g.Add(Node{Name: "Osmosis", Definition: "Passive water movement across a membrane", Relations: []string{"Membrane", "Diffusion"}, Difficulty: 3})

	if g.Len() != 1 {
		t.Fatalf("got %d nodes, want 1", g.Len())
	}
	n, _ := g.Get("Osmosis")
	if n.Definition != "Passive water movement across a membrane" {
		t.Errorf("expected longer definition to win, got %q", n.Definition)
	}
	if n.Difficulty != 3 {
		t.Errorf("got difficulty %d, want 3", n.Difficulty)
	}
	if !reflect.DeepEqual(n.Relations, []string{"Diffusion", "Membrane"}) {
		t.Errorf("got relations %v", n.Relations)
	}
}

func TestAdd_IgnoresBlankAndSelfRelations(t *testing.T) {
	g := NewGraph()
	g.Add(Node{Name: "Entropy", Relations: []string{"Entropy", "", "  ", "Enthalpy"}})

	n, _ := g.Get("Entropy")
	if !reflect.DeepEqual(n.Relations, []string{"Enthalpy"}) {
		t.Errorf("got relations %v, want [Enthalpy]", n.Relations)
	}
}

func TestAdd_BlankNameIgnored(t *testing.T) {
	g := NewGraph()
	g.Add(Node{Name: "   "})
	if !g.Empty() {
		t.Error("blank name should not create a node")
	}
}

func TestNames_Sorted(t *testing.T) {
	g := NewGraph()
	g.Merge([]Node{{Name: "Zeta"}, {Name: "Alpha"}, {Name: "Mu"}})

	want := []string{"Alpha", "Mu", "Zeta"}
	if got := g.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolve(t *testing.T) {
	g := NewGraph()
	g.Merge([]Node{
		{Name: "Mitosis"},
		{Name: "Meiosis"},
		{Name: "Cell Cycle"},
	})

	tests := []struct {
		message string
		want    []string
	}{
		{"I don't understand mitosis at all", []string{"Mitosis"}},
		{"how does the cell cycle relate to mitosis?", []string{"Cell Cycle", "Mitosis"}},
		{"mitos", []string{"Mitosis"}}, // partially typed name
		{"what is gravity?", nil},
		{"", nil},
		// Short replies must not ride the fragment match into
		// unrelated concepts.
		{"no", nil},
		{"ok", nil},
		{"sis", nil},
	}
	for _, tt := range tests {
		got := g.Resolve(tt.message)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Resolve(%q): got %v, want %v", tt.message, got, tt.want)
		}
	}
}

func TestRelated_OnlyExistingNodes(t *testing.T) {
	g := NewGraph()
	g.Add(Node{Name: "Mitosis", Relations: []string{"Cell Cycle", "Cytokinesis"}})
	g.Add(Node{Name: "Cell Cycle"})

	got := g.Related("Mitosis")
	if !reflect.DeepEqual(got, []string{"Cell Cycle"}) {
		t.Errorf("got %v, want [Cell Cycle]", got)
	}
}
