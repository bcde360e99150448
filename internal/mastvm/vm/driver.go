package vm

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kernelmast/mast-vm/internal/mastvm/advice"
	"github.com/kernelmast/mast-vm/internal/mastvm/field"
	"github.com/kernelmast/mast-vm/internal/mastvm/mast"
	"github.com/kernelmast/mast-vm/internal/mastvm/memory"
	"github.com/kernelmast/mast-vm/internal/mastvm/telemetry"
)

// resolvedTarget caches where a digest was last found, so repeated
// External/DynCall dispatch against the same procedure doesn't re-walk the
// host or re-scan a forest on every call.
type resolvedTarget struct {
	forest *mast.Forest
	nodeID mast.NodeId
}

// Driver walks a MAST forest node by node, maintaining the clock, the
// context stack, the operand stack, memory, advice, and the precompile
// transcript. It is the only component that produces ExecutionError.
type Driver struct {
	forest *mast.Forest
	host   Host

	clk       uint32
	maxCycles uint32

	stack *OperandStack
	mem   *memory.Memory
	adv   *advice.Provider
	ctxs  *ContextStack
	pct   *PrecompileTranscript

	resolveCache *lru.Cache[field.Digest, resolvedTarget]
	log          *telemetry.Logger
}

// Options configures a Driver's resource limits and diagnostics.
type Options struct {
	MaxCycles     uint32
	EnableTracing bool
	DebugMode     bool
	Logger        *telemetry.Logger
}

// New constructs a Driver ready to execute from forest's declared roots.
func New(forest *mast.Forest, host Host, stackInputs []field.Felt, adviceInputs advice.Inputs, opts Options) (*Driver, error) {
	adv, err := advice.NewProvider(adviceInputs)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[field.Digest, resolvedTarget](4096)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = telemetry.Discard()
	}
	return &Driver{
		forest:       forest,
		host:         host,
		maxCycles:    opts.MaxCycles,
		stack:        NewOperandStack(stackInputs),
		mem:          memory.New(),
		adv:          adv,
		ctxs:         NewContextStack(),
		pct:          NewPrecompileTranscript(),
		resolveCache: cache,
		log:          log,
	}, nil
}

// Run executes the program starting at root until it halts or faults.
func (d *Driver) Run(root mast.NodeId) *ExecutionError {
	err := d.execNode(d.forest, root)
	if err != nil {
		d.log.ExecutionFailed(d.clk, err)
		return err
	}
	d.log.ExecutionFinished(d.clk, d.clk)
	return nil
}

func (d *Driver) tick() *ExecutionError {
	if d.clk >= d.maxCycles && d.maxCycles != 0 {
		return &ExecutionError{Clk: d.clk, Fatal: FatalCycleLimitExceeded}
	}
	if d.maxCycles != 0 && d.clk+d.maxCycles/20 >= d.maxCycles {
		d.log.CycleLimitWarning(d.clk, d.maxCycles)
	}
	d.clk++
	return nil
}

// execNode dispatches a single node within forest, recursing into children
// per the node's kind.
func (d *Driver) execNode(forest *mast.Forest, id mast.NodeId) *ExecutionError {
	node, ok := forest.GetNodeByID(id)
	if !ok {
		site := NodeSite(forest, id, d.clk)
		return site.IntoExecErr(d.host, &OperationError{Kind: ErrMastNodeNotFoundInForest, NodeID: id})
	}

	switch node.Kind {
	case mast.KindBasicBlock:
		return d.execBasicBlock(forest, id, node)
	case mast.KindJoin:
		if err := d.execNode(forest, node.Left); err != nil {
			return err
		}
		return d.execNode(forest, node.Right)
	case mast.KindSplit:
		cond := d.stack.Pop()
		if err := d.tick(); err != nil {
			return err
		}
		switch {
		case cond == field.One:
			return d.execNode(forest, node.Left)
		case cond == field.Zero:
			return d.execNode(forest, node.Right)
		default:
			site := NodeSite(forest, id, d.clk)
			return site.IntoExecErr(d.host, &OperationError{Kind: ErrNotBinaryValue, Value: cond})
		}
	case mast.KindLoop:
		cond := d.stack.Pop()
		if err := d.tick(); err != nil {
			return err
		}
		for {
			if cond == field.Zero {
				return nil
			}
			if cond != field.One {
				site := NodeSite(forest, id, d.clk)
				return site.IntoExecErr(d.host, &OperationError{Kind: ErrNotBinaryValue, Value: cond})
			}
			if err := d.execNode(forest, node.Child); err != nil {
				return err
			}
			cond = d.stack.Pop()
			if err := d.tick(); err != nil {
				return err
			}
		}
	case mast.KindCall:
		return d.execCall(forest, id, node.Child, false)
	case mast.KindSysCall:
		return d.execCall(forest, id, node.Child, true)
	case mast.KindDyn:
		return d.execDyn(forest, id, node.MemAddr, false)
	case mast.KindDynCall:
		return d.execDyn(forest, id, node.MemAddr, true)
	case mast.KindExternal:
		return d.execExternal(forest, id, node.ExternalDigest)
	default:
		site := NodeSite(forest, id, d.clk)
		return site.IntoExecErr(d.host, &OperationError{Kind: ErrMastNodeNotFoundInForest, NodeID: id})
	}
}

func (d *Driver) execBasicBlock(forest *mast.Forest, id mast.NodeId, node *mast.Node) *ExecutionError {
	for i, op := range node.Ops {
		// Tick before executing so a fault reports the 1-indexed cycle
		// count of the operation that faulted, not the count of cycles
		// completed before it.
		if err := d.tick(); err != nil {
			return err
		}
		if opErr := d.execOp(op); opErr != nil {
			site := OperationSite(forest, id, i, d.clk)
			return site.IntoExecErr(d.host, opErr)
		}
	}
	return nil
}

func (d *Driver) execCall(forest *mast.Forest, id, calleeID mast.NodeId, isSysCall bool) *ExecutionError {
	return d.execCallInForest(forest, id, forest, calleeID, isSysCall)
}

// execCallInForest is execCall generalized over a callee that may live in a
// different forest than the call site itself (DynCall resolved through the
// host). siteForest/id locate the call-issuing node for error reporting;
// calleeForest/calleeID locate the node to actually push a context for and
// execute — they must be looked up and run against the same forest, since
// NodeId is only a valid index within the forest it was resolved from.
func (d *Driver) execCallInForest(siteForest *mast.Forest, id mast.NodeId, calleeForest *mast.Forest, calleeID mast.NodeId, isSysCall bool) *ExecutionError {
	if isSysCall && d.ctxs.InSyscall() {
		site := NodeSite(siteForest, id, d.clk)
		return site.IntoExecErr(d.host, &OperationError{Kind: ErrMastNodeNotFoundInForest, NodeID: calleeID})
	}
	callee, ok := calleeForest.GetNodeByID(calleeID)
	if !ok {
		site := NodeSite(siteForest, id, d.clk)
		return site.IntoExecErr(d.host, &OperationError{Kind: ErrMastNodeNotFoundInForest, NodeID: calleeID})
	}
	if isSysCall && !calleeForest.IsKernelProcedure(callee.Digest()) {
		site := NodeSite(siteForest, id, d.clk)
		return site.IntoExecErr(d.host, &OperationError{Kind: ErrMastNodeNotFoundInForest, NodeID: calleeID})
	}

	frame := d.ctxs.Push(d.stack, callee.Digest(), isSysCall)
	d.log.ContextPushed(uint32(frame.ID), d.clk, isSysCall)
	err := d.execNode(calleeForest, calleeID)
	overflowLeft := d.stack.overflowLen()
	d.ctxs.Pop(d.stack)
	d.log.ContextPopped(uint32(frame.ID), d.clk)
	d.mem.DropContext(frame.ID)
	if err != nil {
		return err
	}
	if overflowLeft != 0 {
		site := NodeSite(siteForest, id, d.clk)
		return site.IntoExecErr(d.host, &OperationError{
			Kind: ErrInvalidStackDepthOnReturn, Expected: VisibleDepth, Actual: VisibleDepth + overflowLeft,
		})
	}
	return nil
}

func (d *Driver) execDyn(forest *mast.Forest, id mast.NodeId, memAddr field.Felt, isCall bool) *ExecutionError {
	ctx := d.ctxs.Current()
	w, err := d.mem.ReadWord(ctx, memAddr.Uint64())
	if err != nil {
		site := NodeSite(forest, id, d.clk)
		return site.IntoExecErr(d.host, &OperationError{Kind: ErrMemoryError, Inner: err})
	}
	target := resolvedTarget{}
	if cached, ok := d.resolveCache.Get(w); ok {
		target = cached
	} else {
		if node, nid, ok2 := findInForest(forest, w); ok2 {
			target = resolvedTarget{forest: forest, nodeID: nid}
			_ = node
		} else if hf, ok2 := d.host.GetMastForest(w); ok2 {
			if _, nid, ok3 := findInForest(hf, w); ok3 {
				target = resolvedTarget{forest: hf, nodeID: nid}
			} else {
				site := NodeSite(forest, id, d.clk)
				return site.IntoExecErr(d.host, &OperationError{Kind: ErrMastNodeNotFoundInForest})
			}
		} else {
			return &ExecutionError{Clk: d.clk, Fatal: FatalMastForestNotFound}
		}
		d.resolveCache.Add(w, target)
	}

	if !isCall {
		return d.execNode(target.forest, target.nodeID)
	}
	return d.execCallInForest(forest, id, target.forest, target.nodeID, false)
}

func (d *Driver) execExternal(forest *mast.Forest, id mast.NodeId, digest field.Digest) *ExecutionError {
	if cached, ok := d.resolveCache.Get(digest); ok {
		return d.execNode(cached.forest, cached.nodeID)
	}
	if _, nid, ok := findInForest(forest, digest); ok {
		d.resolveCache.Add(digest, resolvedTarget{forest: forest, nodeID: nid})
		return d.execNode(forest, nid)
	}
	hf, ok := d.host.GetMastForest(digest)
	if !ok {
		return &ExecutionError{Clk: d.clk, Fatal: FatalMastForestNotFound}
	}
	_, nid, ok := findInForest(hf, digest)
	if !ok {
		site := NodeSite(forest, id, d.clk)
		return site.IntoExecErr(d.host, &OperationError{Kind: ErrMastNodeNotFoundInForest})
	}
	d.resolveCache.Add(digest, resolvedTarget{forest: hf, nodeID: nid})
	return d.execNode(hf, nid)
}

// StackOutputs returns all 16 visible stack slots, top-first. Zero padding
// is not trimmed, and overflow entries are not included.
func (d *Driver) StackOutputs() []field.Felt {
	out := make([]field.Felt, VisibleDepth)
	for i := 0; i < VisibleDepth; i++ {
		out[i] = d.stack.Get(i)
	}
	return out
}

// AdviceSnapshot returns a snapshot of the advice provider's stack and map.
func (d *Driver) AdviceSnapshot() advice.Snapshot { return d.adv.Snapshot() }

// MemorySnapshot returns every word written in the root context, including
// words written as zero.
func (d *Driver) MemorySnapshot() map[uint32]field.Word { return d.mem.Snapshot(0) }

// PrecompileRequests returns every recorded precompile request in order.
func (d *Driver) PrecompileRequests() []PrecompileRequest { return d.pct.Requests() }

// FinalizePrecompileTranscript absorbs the finalization padding and
// returns the resulting capacity.
func (d *Driver) FinalizePrecompileTranscript() field.Word { return d.pct.Finalize() }

// Clk returns the number of operation cycles executed so far.
func (d *Driver) Clk() uint32 { return d.clk }

// findInForest locates a root node by digest within a forest.
func findInForest(forest *mast.Forest, digest field.Digest) (*mast.Node, mast.NodeId, bool) {
	id, ok := forest.FindRoot(digest)
	if !ok {
		return nil, 0, false
	}
	node, ok := forest.GetNodeByID(id)
	return node, id, ok
}
