package mastvm

import "github.com/kernelmast/mast-vm/internal/mastvm/vm"

// Host is the external collaborator an embedder supplies to Execute. See
// internal/mastvm/vm.Host for the full contract: forest resolution for
// External/DynCall, source-span resolution for diagnostics, Emit event
// handling via declarative AdviceMutations, and precompile commitments.
type Host = vm.Host

// AdviceMutation is the declarative state change a Host's OnEvent may
// request.
type AdviceMutation = vm.AdviceMutation

// ProcessState is the read-only VM view passed to a Host's OnEvent.
type ProcessState = vm.ProcessState

// SourceSpan and SourceFile describe a resolved diagnostic location.
type SourceSpan = vm.SourceSpan
type SourceFile = vm.SourceFile
