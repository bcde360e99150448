package mast

import "github.com/kernelmast/mast-vm/internal/mastvm/field"

// OpKind identifies one operation in a basic block's instruction sequence.
// The grouping mirrors the operation classes from the operation-set design:
// stack manipulation, field arithmetic, U32, memory, crypto, control,
// advice/host, and precompile.
type OpKind uint8

const (
	OpNoop OpKind = iota

	// Stack manipulation.
	OpDrop
	OpSwap
	OpDup    // Dup{n}: duplicate stack[n] to top; n in Index.
	OpSwapW  // SwapW{n}: swap word n with word 0; n in Index.
	OpMovUp  // MovUp{n}: move stack[n] to top; n in Index.
	OpMovDn  // MovDn{n}: move top to stack[n]; n in Index.
	OpPadW
	OpReverseW
	OpReverseDW

	// Field arithmetic.
	OpAdd
	OpNeg
	OpMul
	OpInv
	OpIncr
	OpAnd
	OpOr
	OpNot
	OpEq
	OpEqz
	OpExpacc

	// U32 operations.
	OpU32Split
	OpU32Add
	OpU32Sub
	OpU32Mul
	OpU32Madd
	OpU32Div
	OpU32And
	OpU32Xor
	OpU32Assert2

	// Memory.
	OpMLoad
	OpMLoadW
	OpMStore
	OpMStoreW
	OpMStream

	// Hashing / crypto.
	OpHPerm
	OpMpVerify
	OpMrUpdate
	OpFriE2F4
	OpHornerBase
	OpHornerExt

	// Control.
	OpPush
	OpAssert
	OpAssertEq
	OpHalt

	// Advice & host.
	OpAdvPop
	OpAdvPopW
	OpEmit

	// Precompile.
	OpLogPrecompile
)

// Operation is a single decoded instruction inside a basic block. Only the
// fields relevant to Kind are meaningful; the rest are zero.
type Operation struct {
	Kind OpKind

	// Value carries the immediate operand for Push and the tag for
	// LogPrecompile.
	Value field.Felt

	// Index carries the small index parameter for Dup{n}, SwapW{n},
	// MovUp{n}, and MovDn{n}.
	Index uint8

	// ErrCode and ErrMsg carry the diagnostic payload for Assert/AssertEq.
	ErrCode uint32
	ErrMsg  string
}

// Push returns a Push operation with the given immediate value.
func Push(v field.Felt) Operation { return Operation{Kind: OpPush, Value: v} }

// Dup returns a Dup{n} operation.
func Dup(n uint8) Operation { return Operation{Kind: OpDup, Index: n} }

// SwapW returns a SwapW{n} operation.
func SwapW(n uint8) Operation { return Operation{Kind: OpSwapW, Index: n} }

// MovUp returns a MovUp{n} operation.
func MovUp(n uint8) Operation { return Operation{Kind: OpMovUp, Index: n} }

// MovDn returns a MovDn{n} operation.
func MovDn(n uint8) Operation { return Operation{Kind: OpMovDn, Index: n} }

// Assert returns an Assert operation carrying an error code and optional
// message.
func Assert(code uint32, msg string) Operation {
	return Operation{Kind: OpAssert, ErrCode: code, ErrMsg: msg}
}

// LogPrecompile returns a LogPrecompile operation for the given tag; the
// commitment itself is supplied by the host at execution time.
func LogPrecompile(tag field.Felt) Operation {
	return Operation{Kind: OpLogPrecompile, Value: tag}
}

// simple is a convenience constructor for zero-argument operations.
func simple(kind OpKind) Operation { return Operation{Kind: kind} }

var (
	OpDropOperation        = simple(OpDrop)
	OpSwapOperation        = simple(OpSwap)
	OpPadWOperation        = simple(OpPadW)
	OpReverseWOperation    = simple(OpReverseW)
	OpReverseDWOperation   = simple(OpReverseDW)
	OpAddOperation         = simple(OpAdd)
	OpNegOperation         = simple(OpNeg)
	OpMulOperation         = simple(OpMul)
	OpInvOperation         = simple(OpInv)
	OpIncrOperation        = simple(OpIncr)
	OpAndOperation         = simple(OpAnd)
	OpOrOperation          = simple(OpOr)
	OpNotOperation         = simple(OpNot)
	OpEqOperation          = simple(OpEq)
	OpEqzOperation         = simple(OpEqz)
	OpExpaccOperation      = simple(OpExpacc)
	OpU32SplitOperation    = simple(OpU32Split)
	OpU32AddOperation      = simple(OpU32Add)
	OpU32SubOperation      = simple(OpU32Sub)
	OpU32MulOperation      = simple(OpU32Mul)
	OpU32MaddOperation     = simple(OpU32Madd)
	OpU32DivOperation      = simple(OpU32Div)
	OpU32AndOperation      = simple(OpU32And)
	OpU32XorOperation      = simple(OpU32Xor)
	OpU32Assert2Operation  = simple(OpU32Assert2)
	OpMLoadOperation       = simple(OpMLoad)
	OpMLoadWOperation      = simple(OpMLoadW)
	OpMStoreOperation      = simple(OpMStore)
	OpMStoreWOperation     = simple(OpMStoreW)
	OpMStreamOperation     = simple(OpMStream)
	OpHPermOperation       = simple(OpHPerm)
	OpMpVerifyOperation    = simple(OpMpVerify)
	OpMrUpdateOperation    = simple(OpMrUpdate)
	OpFriE2F4Operation     = simple(OpFriE2F4)
	OpHornerBaseOperation  = simple(OpHornerBase)
	OpHornerExtOperation   = simple(OpHornerExt)
	OpAssertEqOperation    = simple(OpAssertEq)
	OpHaltOperation        = simple(OpHalt)
	OpNoopOperation        = simple(OpNoop)
	OpAdvPopOperation      = simple(OpAdvPop)
	OpAdvPopWOperation     = simple(OpAdvPopW)
	OpEmitOperation        = simple(OpEmit)
)

// Name returns a human-readable mnemonic for the operation's kind, used by
// error messages and debug output.
func (k OpKind) Name() string {
	switch k {
	case OpNoop:
		return "noop"
	case OpDrop:
		return "drop"
	case OpSwap:
		return "swap"
	case OpDup:
		return "dup"
	case OpSwapW:
		return "swapw"
	case OpMovUp:
		return "movup"
	case OpMovDn:
		return "movdn"
	case OpPadW:
		return "padw"
	case OpReverseW:
		return "reversew"
	case OpReverseDW:
		return "reversedw"
	case OpAdd:
		return "add"
	case OpNeg:
		return "neg"
	case OpMul:
		return "mul"
	case OpInv:
		return "inv"
	case OpIncr:
		return "incr"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpNot:
		return "not"
	case OpEq:
		return "eq"
	case OpEqz:
		return "eqz"
	case OpExpacc:
		return "expacc"
	case OpU32Split:
		return "u32split"
	case OpU32Add:
		return "u32add"
	case OpU32Sub:
		return "u32sub"
	case OpU32Mul:
		return "u32mul"
	case OpU32Madd:
		return "u32madd"
	case OpU32Div:
		return "u32div"
	case OpU32And:
		return "u32and"
	case OpU32Xor:
		return "u32xor"
	case OpU32Assert2:
		return "u32assert2"
	case OpMLoad:
		return "mload"
	case OpMLoadW:
		return "mloadw"
	case OpMStore:
		return "mstore"
	case OpMStoreW:
		return "mstorew"
	case OpMStream:
		return "mstream"
	case OpHPerm:
		return "hperm"
	case OpMpVerify:
		return "mpverify"
	case OpMrUpdate:
		return "mrupdate"
	case OpFriE2F4:
		return "frie2f4"
	case OpHornerBase:
		return "horner_base"
	case OpHornerExt:
		return "horner_ext"
	case OpPush:
		return "push"
	case OpAssert:
		return "assert"
	case OpAssertEq:
		return "assert_eq"
	case OpHalt:
		return "halt"
	case OpAdvPop:
		return "adv_pop"
	case OpAdvPopW:
		return "adv_popw"
	case OpEmit:
		return "emit"
	case OpLogPrecompile:
		return "log_precompile"
	default:
		return "unknown"
	}
}
