// Command mastvm-run executes a MAST forest against stack and advice
// inputs read from stdin, writing the resulting ExecutionOutputs (or a
// fatal error) as a single JSON line on stdout. It follows the teacher's
// own cmd/vybium-vm-prover shape: newline-delimited JSON over stdin/stdout
// via bufio and encoding/json, with no flag-parsing library.
package main

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/kernelmast/mast-vm/internal/mastvm/config"
	"github.com/kernelmast/mast-vm/internal/mastvm/field"
	"github.com/kernelmast/mast-vm/internal/mastvm/mast"
	"github.com/kernelmast/mast-vm/internal/mastvm/telemetry"
	"github.com/kernelmast/mast-vm/pkg/mastvm"
)

// runRequest is the single JSON object read from stdin's first line.
type runRequest struct {
	ForestB64   string           `json:"forest_b64"`
	Root        uint32           `json:"root"`
	StackInputs []uint64         `json:"stack_inputs"`
	AdviceStack []uint64         `json:"advice_stack"`
	AdviceMap   []adviceMapEntry `json:"advice_map,omitempty"`
	MaxCycles   uint32           `json:"max_cycles"`
	WithMemory  bool             `json:"with_memory"`
	WithAdvice  bool             `json:"with_advice"`
	LogLevel    string           `json:"log_level,omitempty"`
}

type adviceMapEntry struct {
	Key    [4]uint64 `json:"key"`
	Values []uint64  `json:"values"`
}

type runResponse struct {
	Stack                []uint64          `json:"stack"`
	CyclesExecuted       uint32            `json:"cycles_executed"`
	PrecompileTranscript [4]uint64         `json:"precompile_transcript"`
	PrecompileCount      int               `json:"precompile_count"`
	Memory               map[string]uint64 `json:"memory,omitempty"`
	AdviceStack          []uint64          `json:"advice_stack,omitempty"`
}

type runError struct {
	Error string `json:"error"`
	Fatal bool   `json:"fatal"`
	Clk   uint32 `json:"clk"`
}

func main() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1<<20), 1<<26)

	if !scanner.Scan() {
		fatal("failed to read run request")
	}
	var req runRequest
	if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
		fatal(fmt.Sprintf("failed to parse run request: %v", err))
	}

	forestBytes, err := base64.StdEncoding.DecodeString(req.ForestB64)
	if err != nil {
		fatal(fmt.Sprintf("failed to decode forest_b64: %v", err))
	}
	forest, err := mast.Decode(forestBytes)
	if err != nil {
		fatal(fmt.Sprintf("failed to decode forest: %v", err))
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fatal(fmt.Sprintf("failed to load config: %v", err))
	}
	if req.MaxCycles != 0 {
		cfg.WithMaxCycles(req.MaxCycles)
	}
	if req.LogLevel != "" {
		cfg.LogLevel = req.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		fatal(fmt.Sprintf("invalid config: %v", err))
	}

	log := telemetry.New(os.Stderr, telemetry.ParseLevel(cfg.LogLevel))

	stackIn := make(mastvm.StackInputs, len(req.StackInputs))
	for i, v := range req.StackInputs {
		stackIn[i] = field.New(v)
	}
	adviceIn := mastvm.AdviceInputs{
		Stack: make([]field.Felt, len(req.AdviceStack)),
		Map:   make(map[field.Digest][]field.Felt, len(req.AdviceMap)),
	}
	for i, v := range req.AdviceStack {
		adviceIn.Stack[i] = field.New(v)
	}
	for _, entry := range req.AdviceMap {
		key := field.Digest{field.New(entry.Key[0]), field.New(entry.Key[1]), field.New(entry.Key[2]), field.New(entry.Key[3])}
		vals := make([]field.Felt, len(entry.Values))
		for i, v := range entry.Values {
			vals[i] = field.New(v)
		}
		adviceIn.Map[key] = vals
	}

	program := mastvm.Program{Forest: forest, Root: mast.NodeId(req.Root)}
	opts := mastvm.ExecutionOptions{
		MaxCycles:     cfg.MaxCycles,
		EnableTracing: cfg.EnableTracing,
		DebugMode:     cfg.DebugMode,
		WithMemory:    req.WithMemory,
		WithAdvice:    req.WithAdvice,
		Logger:        log,
	}

	outputs, execErr := mastvm.Execute(program, stackIn, adviceIn, opts, mastvm.NoopHost{})
	if execErr != nil {
		emit(runError{Error: execErr.Error(), Fatal: execErr.Fatal, Clk: execErr.Clk})
		os.Exit(1)
	}

	resp := runResponse{
		CyclesExecuted:       outputs.CyclesExecuted,
		PrecompileCount:      len(outputs.PrecompileRequests),
		PrecompileTranscript: wordToArray(outputs.PrecompileTranscript),
	}
	for _, f := range outputs.Stack {
		resp.Stack = append(resp.Stack, f.Uint64())
	}
	if outputs.Memory != nil {
		resp.Memory = make(map[string]uint64, len(*outputs.Memory))
		for addr, w := range *outputs.Memory {
			resp.Memory[fmt.Sprintf("%d:0", addr)] = w[0].Uint64()
			resp.Memory[fmt.Sprintf("%d:1", addr)] = w[1].Uint64()
			resp.Memory[fmt.Sprintf("%d:2", addr)] = w[2].Uint64()
			resp.Memory[fmt.Sprintf("%d:3", addr)] = w[3].Uint64()
		}
	}
	if outputs.Advice != nil {
		for _, f := range outputs.Advice.Stack {
			resp.AdviceStack = append(resp.AdviceStack, f.Uint64())
		}
	}

	emit(resp)
}

func wordToArray(w field.Word) [4]uint64 {
	return [4]uint64{w[0].Uint64(), w[1].Uint64(), w[2].Uint64(), w[3].Uint64()}
}

func emit(v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		fatal(fmt.Sprintf("failed to serialize response: %v", err))
	}
	os.Stdout.Write(b)
	os.Stdout.Write([]byte("\n"))
}

func fatal(msg string) {
	slog.New(slog.NewTextHandler(os.Stderr, nil)).Error(msg)
	os.Exit(1)
}
