package site

import (
	"testing"

	"git.home.luguber.info/inful/assetindex/internal/asset"
	ierrors "git.home.luguber.info/inful/assetindex/internal/errors"
)

func testGraph() *asset.ObjectGraph {
	return &asset.ObjectGraph{
		Name: "foo",
		Exports: []asset.Export{
			{ObjectName: "First"},
			{ObjectName: "Second"},
			{ObjectName: "Third"},
		},
		Imports: []asset.Import{
			{ObjectName: "CoreUObject"},
			{ObjectName: "Engine"},
		},
	}
}

func TestResolvePositiveSelectsExports(t *testing.T) {
	g := testGraph()
	for i, wantName := range []string{"First", "Second", "Third"} {
		ref, err := Resolve(g, i+1)
		if err != nil {
			t.Fatalf("Resolve(%d): %v", i+1, err)
		}
		if ref.Table != TableExports || ref.Position != i+1 || ref.Name != wantName {
			t.Fatalf("Resolve(%d) = %+v", i+1, ref)
		}
	}
}

func TestResolveNegativeSelectsImports(t *testing.T) {
	g := testGraph()
	ref, err := Resolve(g, -2)
	if err != nil {
		t.Fatalf("Resolve(-2): %v", err)
	}
	if ref.Table != TableImports || ref.Position != 2 || ref.Name != "Engine" {
		t.Fatalf("Resolve(-2) = %+v", ref)
	}
}

func TestResolveZeroIsContractViolation(t *testing.T) {
	_, err := Resolve(testGraph(), 0)
	if err == nil {
		t.Fatal("Resolve(0) must fail")
	}
	if !ierrors.IsCategory(err, ierrors.CategoryContract) {
		t.Fatalf("Resolve(0) error category: %s", ierrors.GetCategory(err))
	}
}

func TestResolveOutOfRangeIsContractViolation(t *testing.T) {
	g := testGraph()
	for _, i := range []int{4, 100, -3, -50} {
		_, err := Resolve(g, i)
		if err == nil {
			t.Fatalf("Resolve(%d) must fail", i)
		}
		if !ierrors.IsCategory(err, ierrors.CategoryContract) {
			t.Fatalf("Resolve(%d) error category: %s", i, ierrors.GetCategory(err))
		}
	}
}
