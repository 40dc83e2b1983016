// Package agent describes the LLM roles forge invokes and the interface
// a backend must satisfy to run them.
package agent

import "context"

type Role string

// RoleExtractor reads one source file and reports its public surface.
const RoleExtractor Role = "extractor"

type Agent struct {
	Role         Role
	SystemPrompt string
	Model        string
}

type InvocationResult struct {
	ResultText string
	CostUSD    float64
	DurationMs int64
	SessionID  string
}

type Invoker interface {
	Invoke(ctx context.Context, agent Agent, prompt string, workDir string) (InvocationResult, error)
	Validate() error
}

// Extractor returns the agent definition used for per-file API extraction.
func Extractor(model string) Agent {
	return Agent{
		Role:         RoleExtractor,
		SystemPrompt: ExtractorSystemPrompt,
		Model:        model,
	}
}
