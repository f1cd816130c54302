// internal/block/block.go

// Package block bundles register-adjacent fields into contiguous
// Modbus transfers. One block becomes exactly one read or write
// telegram; building blocks up front keeps transaction counts minimal.
package block

import (
	"fmt"
	"sort"

	"github.com/tamzrod/heatshi/internal/field"
)

// DefaultCeiling is the largest register count a single block may
// span. Modbus limits one read to 125 registers; writes allow 123 but
// every known write field sits far below either bound.
const DefaultCeiling = 125

// Part ties one live field to its slot in a block.
type Part struct {
	Def   *field.Definition
	Field *field.Field
}

// Block is one contiguous register window and the parts it carries.
// Parts keep the order they were handed to Build in, so on overlap
// the later part's payload wins assembly.
type Block struct {
	start int // first register index
	end   int // exclusive
	Parts []Part
}

// Addr returns the wire address of the block's first register.
func (b *Block) Addr() uint16 {
	return uint16(field.AddrOffset + b.start)
}

// Start returns the first register index.
func (b *Block) Start() int {
	return b.start
}

// Count returns the number of registers the block spans.
func (b *Block) Count() int {
	return b.end - b.start
}

func (b *Block) String() string {
	return fmt.Sprintf("block[%d..%d) parts=%d", b.start, b.end, len(b.Parts))
}

// Build bundles parts into the minimal set of contiguous blocks. A
// new block starts at every register gap and whenever extending the
// current block past ceiling registers. Input order is preserved for
// parts sharing a start index, which is what makes repeated builds
// over the same parts deterministic.
func Build(parts []Part, ceiling int) []*Block {
	if len(parts) == 0 {
		return nil
	}
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}

	sorted := make([]Part, len(parts))
	copy(sorted, parts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Def.Index < sorted[j].Def.Index
	})

	var blocks []*Block
	cur := &Block{start: sorted[0].Def.Index, end: sorted[0].Def.Index}
	for _, p := range sorted {
		end := p.Def.End()
		if end < cur.end {
			end = cur.end
		}
		if p.Def.Index > cur.end || end-cur.start > ceiling {
			blocks = append(blocks, cur)
			cur = &Block{start: p.Def.Index, end: p.Def.End()}
		} else {
			cur.end = end
		}
		cur.Parts = append(cur.Parts, p)
	}
	return append(blocks, cur)
}

// Assemble produces the block's write payload from the pending words
// of its parts. Overlapping parts resolve in part order, later wins.
// Every register of the window must be covered by some part; a part
// without a pending payload or an uncovered slot means the block was
// built from the wrong parts.
func (b *Block) Assemble() ([]uint16, error) {
	words := make([]uint16, b.Count())
	covered := make([]bool, b.Count())
	for _, p := range b.Parts {
		pend, ok := p.Field.Pending()
		if !ok {
			return nil, fmt.Errorf("block: %s has no pending payload", p.Def.Name())
		}
		at := p.Def.Index - b.start
		copy(words[at:], pend)
		for i := range pend {
			covered[at+i] = true
		}
	}
	for i, c := range covered {
		if !c {
			return nil, fmt.Errorf("block: register %d uncovered in %s", b.start+i, b)
		}
	}
	return words, nil
}

// Distribute pushes the words read for this block into every part's
// field. Overlapping parts each decode their own slice independently.
func (b *Block) Distribute(words []uint16) error {
	if len(words) != b.Count() {
		return fmt.Errorf("block: got %d words for %s", len(words), b)
	}
	for _, p := range b.Parts {
		at := p.Def.Index - b.start
		p.Field.SetRaw(words[at : at+p.Def.Count])
	}
	return nil
}
