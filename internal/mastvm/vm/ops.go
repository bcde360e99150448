package vm

import (
	"github.com/kernelmast/mast-vm/internal/mastvm/field"
	"github.com/kernelmast/mast-vm/internal/mastvm/hash"
	"github.com/kernelmast/mast-vm/internal/mastvm/mast"
)

// execOp dispatches a single decoded operation against the driver's
// stack, memory, advice provider, and host, returning a context-free
// OperationError on failure.
func (d *Driver) execOp(op mast.Operation) *OperationError {
	switch op.Kind {
	// Stack manipulation.
	case mast.OpNoop:
	case mast.OpDrop:
		d.stack.Pop()
	case mast.OpSwap:
		d.stack.Swap()
	case mast.OpDup:
		d.stack.Dup(d.clk, int(op.Index))
	case mast.OpSwapW:
		d.stack.SwapW(int(op.Index))
	case mast.OpMovUp:
		d.stack.MovUp(int(op.Index))
	case mast.OpMovDn:
		d.stack.MovDn(int(op.Index))
	case mast.OpPadW:
		d.stack.PadW(d.clk)
	case mast.OpReverseW:
		d.stack.ReverseW()
	case mast.OpReverseDW:
		d.stack.ReverseDW()

	// Field arithmetic.
	case mast.OpAdd:
		b, a := d.stack.Pop(), d.stack.Pop()
		d.stack.Push(d.clk, a.Add(b))
	case mast.OpNeg:
		a := d.stack.Pop()
		d.stack.Push(d.clk, a.Neg())
	case mast.OpMul:
		b, a := d.stack.Pop(), d.stack.Pop()
		d.stack.Push(d.clk, a.Mul(b))
	case mast.OpInv:
		a := d.stack.Pop()
		inv, err := a.Inv()
		if err != nil {
			return &OperationError{Kind: ErrDivideByZero}
		}
		d.stack.Push(d.clk, inv)
	case mast.OpIncr:
		a := d.stack.Pop()
		d.stack.Push(d.clk, a.Add(field.One))
	case mast.OpAnd:
		b, a := d.stack.Pop(), d.stack.Pop()
		if err := requireBinary(a); err != nil {
			return err
		}
		if err := requireBinary(b); err != nil {
			return err
		}
		d.stack.Push(d.clk, boolFelt(a == field.One && b == field.One))
	case mast.OpOr:
		b, a := d.stack.Pop(), d.stack.Pop()
		if err := requireBinary(a); err != nil {
			return err
		}
		if err := requireBinary(b); err != nil {
			return err
		}
		d.stack.Push(d.clk, boolFelt(a == field.One || b == field.One))
	case mast.OpNot:
		a := d.stack.Pop()
		if err := requireBinary(a); err != nil {
			return err
		}
		d.stack.Push(d.clk, boolFelt(a == field.Zero))
	case mast.OpEq:
		b, a := d.stack.Pop(), d.stack.Pop()
		d.stack.Push(d.clk, boolFelt(a == b))
	case mast.OpEqz:
		a := d.stack.Pop()
		d.stack.Push(d.clk, boolFelt(a.IsZero()))
	case mast.OpExpacc:
		d.stack.Pop()        // stale bit slot from the previous step, unused here
		exp := d.stack.Pop() // current power of the base
		acc := d.stack.Pop() // running accumulator
		b := d.stack.Pop()   // remaining exponent bits
		bBits := b.Uint64()
		bit := bBits & 1
		val := field.One
		if bit == 1 {
			val = exp
		}
		d.stack.Push(d.clk, field.New(bBits>>1)) // exponent bits, shifted right
		d.stack.Push(d.clk, acc.Mul(val))        // accumulator, multiplied in iff bit is set
		d.stack.Push(d.clk, exp.Mul(exp))        // base power, squared
		d.stack.Push(d.clk, field.New(bit))      // the bit just consumed

	// U32 operations.
	case mast.OpU32Split:
		v := d.stack.Pop()
		u := v.Uint64()
		d.stack.Push(d.clk, field.New(u>>32))
		d.stack.Push(d.clk, field.New(u&0xFFFFFFFF))
	case mast.OpU32Add:
		if err := d.u32Binary(op.ErrCode, func(a, b uint64) uint64 { return a + b }); err != nil {
			return err
		}
	case mast.OpU32Sub:
		if err := d.u32Binary(op.ErrCode, func(a, b uint64) uint64 { return a - b }); err != nil {
			return err
		}
	case mast.OpU32Mul:
		if err := d.u32Binary(op.ErrCode, func(a, b uint64) uint64 { return a * b }); err != nil {
			return err
		}
	case mast.OpU32Madd:
		c := d.stack.Pop()
		if !c.FitsU32() {
			return &OperationError{Kind: ErrNotU32Values, Values: []field.Felt{c}, ErrCode: op.ErrCode}
		}
		if err := d.u32Binary(op.ErrCode, func(a, b uint64) uint64 { return a*b + c.Uint64() }); err != nil {
			return err
		}
	case mast.OpU32Div:
		b, a := d.stack.Pop(), d.stack.Pop()
		if !a.FitsU32() || !b.FitsU32() {
			return notU32(op.ErrCode, a, b)
		}
		if b.IsZero() {
			return &OperationError{Kind: ErrDivideByZero}
		}
		d.stack.Push(d.clk, field.New(a.Uint64()/b.Uint64()))
		d.stack.Push(d.clk, field.New(a.Uint64()%b.Uint64()))
	case mast.OpU32And:
		if err := d.u32Binary(op.ErrCode, func(a, b uint64) uint64 { return a & b }); err != nil {
			return err
		}
	case mast.OpU32Xor:
		if err := d.u32Binary(op.ErrCode, func(a, b uint64) uint64 { return a ^ b }); err != nil {
			return err
		}
	case mast.OpU32Assert2:
		b, a := d.stack.Pop(), d.stack.Pop()
		if !a.FitsU32() || !b.FitsU32() {
			return notU32(op.ErrCode, a, b)
		}
		d.stack.Push(d.clk, a)
		d.stack.Push(d.clk, b)

	// Memory.
	case mast.OpMLoad:
		addr := d.stack.Pop()
		v, err := d.mem.ReadElement(d.ctxs.Current(), addr.Uint64())
		if err != nil {
			return &OperationError{Kind: ErrMemoryError, Inner: err}
		}
		d.stack.Push(d.clk, v)
	case mast.OpMLoadW:
		addr := d.stack.Pop()
		w, err := d.mem.ReadWord(d.ctxs.Current(), addr.Uint64())
		if err != nil {
			return &OperationError{Kind: ErrMemoryError, Inner: err}
		}
		d.stack.PushWord(d.clk, w)
	case mast.OpMStore:
		addr := d.stack.Pop()
		v := d.stack.Pop()
		if err := d.mem.WriteElement(d.ctxs.Current(), addr.Uint64(), v); err != nil {
			return &OperationError{Kind: ErrMemoryError, Inner: err}
		}
	case mast.OpMStoreW:
		addr := d.stack.Pop()
		w := d.stack.PopWord()
		if err := d.mem.WriteWord(d.ctxs.Current(), addr.Uint64(), w); err != nil {
			return &OperationError{Kind: ErrMemoryError, Inner: err}
		}
	case mast.OpMStream:
		addr := d.stack.Pop()
		a, b, err := d.mem.ReadDoubleWord(d.ctxs.Current(), addr.Uint64())
		if err != nil {
			return &OperationError{Kind: ErrMemoryError, Inner: err}
		}
		sponge := hash.NewSponge()
		sponge.AbsorbWords(a, b)
		d.stack.PushWord(d.clk, sponge.Digest())

	// Hashing / crypto.
	case mast.OpHPerm:
		b := d.stack.PopWord()
		a := d.stack.PopWord()
		sponge := hash.NewSponge()
		sponge.AbsorbWords(a, b)
		d.stack.PushWord(d.clk, sponge.Digest())
	case mast.OpMpVerify:
		if err := d.execMpVerify(op); err != nil {
			return err
		}
	case mast.OpMrUpdate:
		if err := d.execMrUpdate(); err != nil {
			return err
		}
	case mast.OpFriE2F4:
		if err := d.execFriE2F4(); err != nil {
			return err
		}
	case mast.OpHornerBase:
		if err := d.execHornerBase(); err != nil {
			return err
		}
	case mast.OpHornerExt:
		if err := d.execHornerExt(); err != nil {
			return err
		}

	// Control.
	case mast.OpPush:
		d.stack.Push(d.clk, op.Value)
	case mast.OpAssert:
		top := d.stack.Pop()
		if top != field.One {
			return &OperationError{Kind: ErrFailedAssertion, ErrCode: op.ErrCode, ErrMsg: op.ErrMsg}
		}
	case mast.OpAssertEq:
		b, a := d.stack.Pop(), d.stack.Pop()
		if a != b {
			return &OperationError{Kind: ErrFailedAssertion, ErrCode: op.ErrCode, ErrMsg: op.ErrMsg}
		}
	case mast.OpHalt:

	// Advice & host.
	case mast.OpAdvPop:
		v, err := d.adv.Stack.Pop()
		if err != nil {
			return &OperationError{Kind: ErrAdviceError, Inner: err}
		}
		d.stack.Push(d.clk, v)
	case mast.OpAdvPopW:
		w, err := d.adv.Stack.PopWord()
		if err != nil {
			return &OperationError{Kind: ErrAdviceError, Inner: err}
		}
		d.stack.PushWord(d.clk, w)
	case mast.OpEmit:
		eventID := d.stack.Pop()
		muts, err := d.host.OnEvent(eventID, ProcessState{Clk: d.clk, ContextID: uint32(d.ctxs.Current()), InSyscall: d.ctxs.InSyscall()})
		if err != nil {
			return &OperationError{Kind: ErrEventError, EventID: eventID, Inner: err}
		}
		if err := d.applyMutations(muts); err != nil {
			return &OperationError{Kind: ErrAdviceError, Inner: err}
		}

	// Precompile.
	case mast.OpLogPrecompile:
		tag := op.Value
		capPrevBytes := d.pct.Digest().BytesLE()
		_, commitment := d.host.GetPrecompileCommitment(tag, capPrevBytes[:])
		d.pct.Absorb(tag, capPrevBytes[:], commitment)
		d.log.PrecompileAbsorbed(tag.Uint64(), d.clk)
	}
	return nil
}

func requireBinary(v field.Felt) *OperationError {
	if v != field.Zero && v != field.One {
		return &OperationError{Kind: ErrNotBinaryValue, Value: v}
	}
	return nil
}

func boolFelt(b bool) field.Felt {
	if b {
		return field.One
	}
	return field.Zero
}

func notU32(errCode uint32, vals ...field.Felt) *OperationError {
	var offending []field.Felt
	for _, v := range vals {
		if !v.FitsU32() {
			offending = append(offending, v)
		}
	}
	return &OperationError{Kind: ErrNotU32Values, Values: offending, ErrCode: errCode}
}

// u32Binary checks both operands fit u32 before computing, per the
// check-then-allocate design note: the offending-values slice is only
// built on the error path.
func (d *Driver) u32Binary(errCode uint32, f func(a, b uint64) uint64) *OperationError {
	b, a := d.stack.Pop(), d.stack.Pop()
	if !a.FitsU32() || !b.FitsU32() {
		return notU32(errCode, a, b)
	}
	d.stack.Push(d.clk, field.New(f(a.Uint64(), b.Uint64())&0xFFFFFFFF))
	return nil
}

func (d *Driver) execMpVerify(op mast.Operation) *OperationError {
	root := d.stack.PopWord()
	index := d.stack.Pop()
	leaf := d.stack.PopWord()
	depth := d.stack.Pop()

	path, found, err := d.adv.Merkle.Path(root, depth.Uint64(), index.Uint64())
	if err != nil || found != leaf {
		return &OperationError{
			Kind: ErrMerklePathVerificationFailed,
			MerkleFail: &MerkleVerificationFailure{
				Value: leaf, Index: index.Uint64(), Root: root, ErrCode: op.ErrCode, ErrMsg: op.ErrMsg,
			},
		}
	}
	_ = path
	return nil
}

func (d *Driver) execMrUpdate() *OperationError {
	newValue := d.stack.PopWord()
	root := d.stack.PopWord()
	index := d.stack.Pop()
	depth := d.stack.Pop()

	newRoot, oldRoot, err := d.adv.Merkle.Update(root, depth.Uint64(), index.Uint64(), newValue)
	if err != nil {
		return &OperationError{Kind: ErrAdviceError, Inner: err}
	}
	d.stack.PushWord(d.clk, oldRoot)
	d.stack.PushWord(d.clk, newRoot)
	return nil
}

// execFriE2F4 performs one FRI folding-by-4 step in place over the full
// 16-slot visible stack, following the source domain's layout: query
// values in slots 0-7, folded_pos/domain_segment/poe/prev_value/alpha/
// layer_ptr in slots 8-15. Slot 15 (the consumed layer pointer) is left
// zeroed afterward rather than shrinking the stack by one, since this
// operand stack is fixed-depth.
func (d *Driver) execFriE2F4() *OperationError {
	values := [4]field.Quad{
		field.NewQuad(d.stack.Get(4), d.stack.Get(5)),
		field.NewQuad(d.stack.Get(6), d.stack.Get(7)),
		field.NewQuad(d.stack.Get(0), d.stack.Get(1)),
		field.NewQuad(d.stack.Get(2), d.stack.Get(3)),
	}
	foldedPos := d.stack.Get(8)
	domainSegment := d.stack.Get(9).Uint64()
	poe := d.stack.Get(10)
	prevValue := field.NewQuad(d.stack.Get(12), d.stack.Get(11))
	alpha := field.NewQuad(d.stack.Get(14), d.stack.Get(13))
	layerPtr := d.stack.Get(15)

	if domainSegment > 3 {
		return &OperationError{Kind: ErrInvalidFriDomainSegment, Value: field.New(domainSegment)}
	}
	if !values[domainSegment].Equal(prevValue) {
		return &OperationError{Kind: ErrInvalidFriLayerFolding, Value: field.New(domainSegment)}
	}

	fTau := friTauFactor(domainSegment)
	x := poe.Mul(fTau).Mul(friGenerator)
	xInv, err := x.Inv()
	if err != nil {
		return &OperationError{Kind: ErrDivideByZero}
	}
	ev := alpha.MulBase(xInv)
	es := ev.Mul(ev)
	foldedValue, tmp0, tmp1 := fold4(values, ev, es)

	poe2 := poe.Mul(poe)
	poe4 := poe2.Mul(poe2)
	segFlags := friSegmentFlags(domainSegment)

	d.stack.Set(0, tmp0.A1)
	d.stack.Set(1, tmp0.A0)
	d.stack.Set(2, tmp1.A1)
	d.stack.Set(3, tmp1.A0)
	d.stack.Set(4, segFlags[0])
	d.stack.Set(5, segFlags[1])
	d.stack.Set(6, segFlags[2])
	d.stack.Set(7, segFlags[3])
	d.stack.Set(8, poe2)
	d.stack.Set(9, fTau)
	d.stack.Set(10, layerPtr.Add(field.New(8)))
	d.stack.Set(11, poe4)
	d.stack.Set(12, foldedPos)
	d.stack.Set(13, foldedValue.A1)
	d.stack.Set(14, foldedValue.A0)
	d.stack.Set(15, field.Zero)
	return nil
}

// execHornerBase folds 8 base-field coefficients (slots 0-7, slot i holding
// the coefficient of degree i) and a running extension-field accumulator (slots 14-15) through
// an evaluation point alpha read from memory at the address in slot 13.
func (d *Driver) execHornerBase() *OperationError {
	const alphaAddrIdx, accHighIdx, accLowIdx = 13, 14, 15

	addr := d.stack.Get(alphaAddrIdx).Uint64()
	alpha0, err := d.mem.ReadElement(d.ctxs.Current(), addr)
	if err != nil {
		return &OperationError{Kind: ErrMemoryError, Inner: err}
	}
	alpha1, err := d.mem.ReadElement(d.ctxs.Current(), addr+1)
	if err != nil {
		return &OperationError{Kind: ErrMemoryError, Inner: err}
	}
	alpha := field.NewQuad(alpha0, alpha1)

	var c [8]field.Quad
	for i := range c {
		c[i] = field.FromBase(d.stack.Get(i))
	}
	acc := field.NewQuad(d.stack.Get(accLowIdx), d.stack.Get(accHighIdx))

	tmp0 := acc.Mul(alpha).Add(c[7]).Mul(alpha).Add(c[6])
	tmp1 := tmp0.Mul(alpha).Add(c[5]).Mul(alpha).Add(c[4]).Mul(alpha).Add(c[3])
	accNew := tmp1.Mul(alpha).Add(c[2]).Mul(alpha).Add(c[1]).Mul(alpha).Add(c[0])

	d.stack.Set(accHighIdx, accNew.A1)
	d.stack.Set(accLowIdx, accNew.A0)
	return nil
}

// execHornerExt folds 4 extension-field coefficients (slots 0-7, two Felts
// each, slots 0-1 holding the constant term) and a running accumulator (slots 14-15)
// through an evaluation point alpha read from a memory word at the address
// in slot 13; the word's remaining two elements are domain constants the
// caller supplied for its own bookkeeping and play no part in the fold.
func (d *Driver) execHornerExt() *OperationError {
	const alphaAddrIdx, accHighIdx, accLowIdx = 13, 14, 15

	c := [4]field.Quad{
		field.NewQuad(d.stack.Get(1), d.stack.Get(0)),
		field.NewQuad(d.stack.Get(3), d.stack.Get(2)),
		field.NewQuad(d.stack.Get(5), d.stack.Get(4)),
		field.NewQuad(d.stack.Get(7), d.stack.Get(6)),
	}

	addr := d.stack.Get(alphaAddrIdx).Uint64()
	w, err := d.mem.ReadWord(d.ctxs.Current(), addr)
	if err != nil {
		return &OperationError{Kind: ErrMemoryError, Inner: err}
	}
	alpha := field.NewQuad(w[0], w[1])

	accOld := field.NewQuad(d.stack.Get(accLowIdx), d.stack.Get(accHighIdx))
	accTmp := c[3].Add(alpha.Mul(accOld))
	accTmp = c[2].Add(alpha.Mul(accTmp))
	accNew := c[1].Add(alpha.Mul(accTmp))
	accNew = c[0].Add(alpha.Mul(accNew))

	d.stack.Set(accHighIdx, accNew.A1)
	d.stack.Set(accLowIdx, accNew.A0)
	return nil
}

func (d *Driver) applyMutations(muts []AdviceMutation) error {
	for _, m := range muts {
		switch m.Kind {
		case MutationPushStack:
			d.adv.Stack.Push(m.PushStackValue)
		case MutationPushStackWord:
			d.adv.Stack.PushWord(m.PushStackWord)
		case MutationExtendStack:
			d.adv.Stack.Extend(m.ExtendValues)
		case MutationInsertIntoMap:
			if err := d.adv.Map.Insert(m.MapKey, m.MapValues); err != nil {
				return err
			}
		case MutationMerkleUpdate:
			if _, _, err := d.adv.Merkle.Update(m.MerkleRoot, m.MerkleDepth, m.MerkleIndex, m.MerkleValue); err != nil {
				return err
			}
		case MutationMergeRoots:
			d.adv.Merkle.MergeRoots(m.MergeLeft, m.MergeRight)
		}
	}
	return nil
}
