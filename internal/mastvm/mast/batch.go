package mast

import "github.com/kernelmast/mast-vm/internal/mastvm/field"

// GroupSize is the maximum number of operations packed into a single
// operation group. A group that carries an immediate (Push) occupies the
// group by itself.
const GroupSize = 9

// BatchSize is the number of operation groups hashed together as one RPO
// rate-sized block when computing a basic block's digest.
const BatchSize = 8

// opGroup encodes up to GroupSize non-immediate operations into a single
// field element, packing 7 bits of opcode per slot. An operation that
// carries an immediate value consumes the entire group; its element is the
// immediate value itself, tagged so it cannot collide with a packed group.
type opGroup struct {
	packed    field.Felt
	immediate bool
}

// packGroup folds each operation's Kind (and, for an immediate-carrying op,
// its Value) into the hashed commitment. ErrCode and ErrMsg never enter the
// digest: Assert's error payload is diagnostic only and two basic blocks
// that differ solely in an assertion's message or code are intentionally
// indistinguishable by digest.
func packGroup(ops []Operation) opGroup {
	if len(ops) == 1 && carriesImmediate(ops[0].Kind) {
		return opGroup{packed: ops[0].Value, immediate: true}
	}
	acc := uint64(0)
	for i, op := range ops {
		acc |= uint64(op.Kind) << uint(7*i)
	}
	return opGroup{packed: field.New(acc)}
}

func carriesImmediate(k OpKind) bool {
	return k == OpPush || k == OpLogPrecompile
}

// splitIntoGroups partitions a basic block's operations into groups,
// closing the current group early whenever an immediate-carrying operation
// is encountered so that it gets a group to itself.
func splitIntoGroups(ops []Operation) [][]Operation {
	var groups [][]Operation
	var current []Operation
	flush := func() {
		if len(current) > 0 {
			groups = append(groups, current)
			current = nil
		}
	}
	for _, op := range ops {
		if carriesImmediate(op.Kind) {
			flush()
			groups = append(groups, []Operation{op})
			continue
		}
		current = append(current, op)
		if len(current) == GroupSize {
			flush()
		}
	}
	flush()
	return groups
}

// splitIntoBatches partitions a sequence of operation groups into batches
// of at most BatchSize groups each.
func splitIntoBatches(groups [][]Operation) [][][]Operation {
	var batches [][][]Operation
	for i := 0; i < len(groups); i += BatchSize {
		end := i + BatchSize
		if end > len(groups) {
			end = len(groups)
		}
		batches = append(batches, groups[i:end])
	}
	if len(batches) == 0 {
		batches = [][][]Operation{{}}
	}
	return batches
}
