// Package claude runs agents through the claude CLI in print mode.
package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ZhiHanZ/forge/internal/agent"
)

type Invoker struct {
	ClaudePath string
	Verbose    bool
}

// buildEnv strips CLAUDECODE so the CLI can run nested inside an agent
// session, and disables MCP popups for headless runs.
func buildEnv(base []string) []string {
	env := make([]string, 0, len(base)+1)
	for _, e := range base {
		if !strings.HasPrefix(e, "CLAUDECODE=") {
			env = append(env, e)
		}
	}
	env = append(env, "CLAUDE_CODE_DISABLE_MCP_POPUPS=1")
	return env
}

func buildArgs(a agent.Agent, prompt string) []string {
	args := []string{
		"-p", prompt,
		"--output-format", "json",
	}
	if a.SystemPrompt != "" {
		args = append(args, "--system-prompt", a.SystemPrompt)
	}
	if a.Model != "" {
		args = append(args, "--model", a.Model)
	}
	return args
}

func parseResponse(raw []byte) (agent.InvocationResult, error) {
	var resp CLIResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return agent.InvocationResult{}, fmt.Errorf("failed to parse claude JSON output: %w\nraw output: %s", err, raw)
	}
	if resp.IsError {
		return agent.InvocationResult{}, fmt.Errorf("claude returned error: %s", resp.Result)
	}
	return agent.InvocationResult{
		ResultText: resp.Result,
		CostUSD:    resp.TotalCostUSD,
		DurationMs: resp.DurationMs,
		SessionID:  resp.SessionID,
	}, nil
}

func (inv *Invoker) Invoke(ctx context.Context, a agent.Agent, prompt string, workDir string) (agent.InvocationResult, error) {
	args := buildArgs(a, prompt)

	cmd := exec.CommandContext(ctx, inv.ClaudePath, args...)
	cmd.Dir = workDir
	cmd.SysProcAttr = sessionAttr()
	cmd.Env = buildEnv(os.Environ())

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if inv.Verbose {
		fmt.Fprintf(os.Stderr, "[claude] %s: %s --model %s (%d byte prompt)\n", a.Role, inv.ClaudePath, a.Model, len(prompt))
	}

	if err := cmd.Run(); err != nil {
		return agent.InvocationResult{}, fmt.Errorf("claude invocation failed: %w\nstderr: %s", err, stderr.String())
	}
	return parseResponse(stdout.Bytes())
}

func (inv *Invoker) Validate() error {
	cmd := exec.Command(inv.ClaudePath, "--version")
	cmd.Env = buildEnv(os.Environ())

	out, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("claude CLI not found at %q: %w", inv.ClaudePath, err)
	}
	if inv.Verbose {
		fmt.Fprintf(os.Stderr, "[claude] version: %s", string(out))
	}
	return nil
}

// CLIResponse is the JSON document printed by `claude -p --output-format json`.
type CLIResponse struct {
	Type         string  `json:"type"`
	IsError      bool    `json:"is_error"`
	DurationMs   int64   `json:"duration_ms"`
	Result       string  `json:"result"`
	SessionID    string  `json:"session_id"`
	TotalCostUSD float64 `json:"total_cost_usd"`
}
