package ir

// Block is a maximal straight-line sequence of instructions terminated by
// exactly one of Jump, CondJump, Rethrow, RetVoid (spec.md §3).
type Block struct {
	ID           BlockID
	Instructions []Instruction
}

// Terminator returns the block's terminating instruction, or nil if the
// block is still under construction (the Builder never exposes such a
// block to later passes).
func (b *Block) Terminator() Terminator {
	if len(b.Instructions) == 0 {
		return nil
	}
	t, _ := b.Instructions[len(b.Instructions)-1].(Terminator)
	return t
}

// IsTerminated reports whether the block already ends in a terminator.
func (b *Block) IsTerminated() bool {
	return b.Terminator() != nil
}
