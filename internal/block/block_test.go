// internal/block/block_test.go
package block

import (
	"testing"

	"github.com/tamzrod/heatshi/internal/field"
)

func part(index, count int) Part {
	d := &field.Definition{
		Index: index,
		Count: count,
		Names: []string{"p"},
		Kind:  field.Raw,
	}
	return Part{Def: d, Field: d.New()}
}

func shape(t *testing.T, blocks []*Block, want [][2]int) {
	t.Helper()
	if len(blocks) != len(want) {
		t.Fatalf("got %d blocks, want %d", len(blocks), len(want))
	}
	for i, b := range blocks {
		if b.Start() != want[i][0] || b.Count() != want[i][1] {
			t.Fatalf("block %d = [%d +%d], want [%d +%d]",
				i, b.Start(), b.Count(), want[i][0], want[i][1])
		}
	}
}

func TestBuildBundlesAdjacent(t *testing.T) {
	blocks := Build([]Part{part(100, 1), part(101, 1), part(102, 2)}, 0)
	shape(t, blocks, [][2]int{{100, 4}})
	if len(blocks[0].Parts) != 3 {
		t.Fatalf("parts = %d", len(blocks[0].Parts))
	}
}

func TestBuildSplitsOnGap(t *testing.T) {
	blocks := Build([]Part{part(0, 1), part(2, 1), part(3, 1), part(100, 1)}, 0)
	shape(t, blocks, [][2]int{{0, 1}, {2, 2}, {100, 1}})
}

func TestBuildSortsInput(t *testing.T) {
	blocks := Build([]Part{part(101, 1), part(100, 1)}, 0)
	shape(t, blocks, [][2]int{{100, 2}})
}

func TestBuildRespectsCeiling(t *testing.T) {
	var parts []Part
	for i := 0; i < 10; i++ {
		parts = append(parts, part(i, 1))
	}
	blocks := Build(parts, 4)
	shape(t, blocks, [][2]int{{0, 4}, {4, 4}, {8, 2}})

	// A multi-register part never splits; it starts a new block.
	blocks = Build([]Part{part(0, 3), part(3, 3)}, 4)
	shape(t, blocks, [][2]int{{0, 3}, {3, 3}})
}

func TestBuildOverlapStaysInOneBlock(t *testing.T) {
	blocks := Build([]Part{part(0, 1), part(0, 1), part(1, 1)}, 0)
	shape(t, blocks, [][2]int{{0, 2}})
	if len(blocks[0].Parts) != 3 {
		t.Fatalf("parts = %d", len(blocks[0].Parts))
	}
}

func TestBuildIdempotent(t *testing.T) {
	parts := []Part{part(5, 1), part(3, 2), part(3, 2), part(9, 1)}
	a := Build(parts, 0)
	b := Build(parts, 0)
	if len(a) != len(b) {
		t.Fatalf("len %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Start() != b[i].Start() || a[i].Count() != b[i].Count() ||
			len(a[i].Parts) != len(b[i].Parts) {
			t.Fatalf("block %d differs between builds", i)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	if blocks := Build(nil, 0); blocks != nil {
		t.Fatalf("got %v", blocks)
	}
}

func TestAssemble(t *testing.T) {
	a := part(10, 1)
	b := part(11, 2)
	if err := a.Field.SetRawPending([]uint16{1}); err != nil {
		t.Fatal(err)
	}
	if err := b.Field.SetRawPending([]uint16{2, 3}); err != nil {
		t.Fatal(err)
	}

	blocks := Build([]Part{a, b}, 0)
	words, err := blocks[0].Assemble()
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(words) != 3 || words[0] != 1 || words[1] != 2 || words[2] != 3 {
		t.Fatalf("words = %v", words)
	}
}

func TestAssembleLaterPartWins(t *testing.T) {
	first := part(10, 1)
	second := part(10, 1)
	first.Field.SetRawPending([]uint16{111})
	second.Field.SetRawPending([]uint16{222})

	blocks := Build([]Part{first, second}, 0)
	words, err := blocks[0].Assemble()
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if words[0] != 222 {
		t.Fatalf("words = %v, later part must win", words)
	}
}

func TestAssembleMissingPending(t *testing.T) {
	p := part(10, 1)
	blocks := Build([]Part{p}, 0)
	if _, err := blocks[0].Assemble(); err == nil {
		t.Fatal("assembled block without pending payload")
	}
}

func TestDistribute(t *testing.T) {
	a := part(10, 1)
	b := part(11, 2)
	dup := part(10, 1)

	blocks := Build([]Part{a, b, dup}, 0)
	if err := blocks[0].Distribute([]uint16{7, 0, 5}); err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if got := a.Field.Raw(); len(got) != 1 || got[0] != 7 {
		t.Fatalf("a = %v", got)
	}
	if got := dup.Field.Raw(); len(got) != 1 || got[0] != 7 {
		t.Fatalf("duplicate instance not populated: %v", got)
	}
	if got := b.Field.Raw(); len(got) != 2 || got[0] != 0 || got[1] != 5 {
		t.Fatalf("b = %v", got)
	}

	if err := blocks[0].Distribute([]uint16{1}); err == nil {
		t.Fatal("short word slice accepted")
	}
}
