package claude

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ZhiHanZ/forge/internal/agent"
)

func TestBuildArgs_BaseFlags(t *testing.T) {
	t.Parallel()
	args := buildArgs(agent.Agent{}, "hello world")
	want := []string{"-p", "hello world", "--output-format", "json"}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Errorf("buildArgs mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildArgs_OptionalFlags(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		agent    agent.Agent
		wantFlag string
		present  bool
	}{
		{"system prompt present", agent.Agent{SystemPrompt: "be terse"}, "--system-prompt", true},
		{"system prompt absent", agent.Agent{}, "--system-prompt", false},
		{"model present", agent.Agent{Model: "haiku"}, "--model", true},
		{"model absent", agent.Agent{}, "--model", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			args := buildArgs(tt.agent, "test prompt")
			if found := slices.Contains(args, tt.wantFlag); found != tt.present {
				t.Errorf("flag %q: found=%v, want present=%v (args: %v)", tt.wantFlag, found, tt.present, args)
			}
		})
	}
}

func TestBuildEnv(t *testing.T) {
	t.Parallel()
	got := buildEnv([]string{"PATH=/bin", "CLAUDECODE=1", "HOME=/root"})
	want := []string{"PATH=/bin", "HOME=/root", "CLAUDE_CODE_DISABLE_MCP_POPUPS=1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("buildEnv mismatch (-want +got):\n%s", diff)
	}
}

func TestParseResponse(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		raw := `{"type":"result","is_error":false,"result":"{\"summary\":\"x\"}","session_id":"s1","total_cost_usd":0.002,"duration_ms":900}`
		got, err := parseResponse([]byte(raw))
		if err != nil {
			t.Fatalf("parseResponse: %v", err)
		}
		want := agent.InvocationResult{ResultText: `{"summary":"x"}`, CostUSD: 0.002, DurationMs: 900, SessionID: "s1"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("parseResponse mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("error flag", func(t *testing.T) {
		t.Parallel()
		_, err := parseResponse([]byte(`{"is_error":true,"result":"rate limited"}`))
		if err == nil || !strings.Contains(err.Error(), "rate limited") {
			t.Errorf("expected claude error, got %v", err)
		}
	})

	t.Run("not json", func(t *testing.T) {
		t.Parallel()
		_, err := parseResponse([]byte("oops"))
		if err == nil || !strings.Contains(err.Error(), "parse claude JSON") {
			t.Errorf("expected parse error, got %v", err)
		}
	})
}
