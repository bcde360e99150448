package mastvm

import (
	"github.com/kernelmast/mast-vm/internal/mastvm/field"
	"github.com/kernelmast/mast-vm/internal/mastvm/vm"
)

// Execute runs program against the given inputs and options, using host as
// the external collaborator for External/DynCall resolution, source
// diagnostics, events, and precompile commitments. It returns
// ExecutionOutputs on success or an *ExecutionError on failure.
func Execute(program Program, stackIn StackInputs, adviceIn AdviceInputs, opts ExecutionOptions, host Host) (*ExecutionOutputs, *ExecutionError) {
	driver, err := vm.New(program.Forest, host, []field.Felt(stackIn), adviceIn.toInternal(), vm.Options{
		MaxCycles:     opts.MaxCycles,
		EnableTracing: opts.EnableTracing,
		DebugMode:     opts.DebugMode,
		Logger:        opts.Logger,
	})
	if err != nil {
		return nil, &ExecutionError{message: err.Error()}
	}

	if execErr := driver.Run(program.Root); execErr != nil {
		return nil, fromInternalError(execErr)
	}

	outputs := &ExecutionOutputs{
		Stack:                StackOutputs(driver.StackOutputs()),
		PrecompileTranscript: driver.FinalizePrecompileTranscript(),
	}
	for _, r := range driver.PrecompileRequests() {
		outputs.PrecompileRequests = append(outputs.PrecompileRequests, PrecompileRequest{
			Tag: r.Tag, Calldata: r.Calldata, Commitment: r.Commitment,
		})
	}
	outputs.CyclesExecuted = driver.Clk()

	if opts.WithAdvice {
		snap := driver.AdviceSnapshot()
		outputs.Advice = &AdviceProviderSnapshot{Stack: snap.Stack, MapEntries: snap.MapEntries}
	}
	if opts.WithMemory {
		mem := MemorySnapshot(driver.MemorySnapshot())
		outputs.Memory = &mem
	}

	return outputs, nil
}
