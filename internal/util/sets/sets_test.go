package sets

import "testing"

func TestSetBasics(t *testing.T) {
	s := New("uasset", "umap")
	if !s.Has("uasset") || !s.Has("umap") {
		t.Fatal("prepopulated members missing")
	}
	if s.Has("uexp") {
		t.Fatal("unexpected member")
	}

	s.Add("uexp")
	if !s.Has("uexp") {
		t.Fatal("Add did not insert")
	}
	if s.Len() != 3 {
		t.Fatalf("Len: got %d", s.Len())
	}

	s.Delete("uexp")
	if s.Has("uexp") {
		t.Fatal("Delete did not remove")
	}
}

func TestClone(t *testing.T) {
	s := New(1, 2)
	c := s.Clone()
	c.Add(3)
	if s.Has(3) {
		t.Fatal("Clone must not share storage")
	}
	if !c.Has(1) || !c.Has(2) {
		t.Fatal("Clone lost members")
	}
}
