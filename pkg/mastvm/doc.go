// Package mastvm is the public entrypoint to the MAST execution core: it
// exposes Program, input/output types, and Execute, wrapping the
// internal field, hash, mast, advice, memory, and vm packages behind a
// stable API.
package mastvm
