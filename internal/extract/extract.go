// Package extract turns source files into filemap.Info summaries using an
// LLM, and caches the results by content hash.
package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ZhiHanZ/forge/internal/agent"
	"github.com/ZhiHanZ/forge/internal/filemap"
)

// Extractor produces the public surface of one source file.
type Extractor interface {
	Extract(ctx context.Context, content, path string) (*filemap.Info, error)
	// Enabled reports whether Extract can do useful work. A disabled
	// extractor lets the driver skip the whole extraction pass.
	Enabled() bool
}

// Noop is the extractor used when no credential is configured.
type Noop struct{}

func (Noop) Extract(context.Context, string, string) (*filemap.Info, error) {
	return nil, ErrExtractorDisabled
}

func (Noop) Enabled() bool { return false }

// Claude extracts file info by running the extractor agent through an
// agent.Invoker.
type Claude struct {
	Invoker agent.Invoker
	Agent   agent.Agent
	WorkDir string
}

// NewClaude builds a claude-backed extractor for model.
func NewClaude(inv agent.Invoker, model, workDir string) *Claude {
	return &Claude{
		Invoker: inv,
		Agent:   agent.Extractor(model),
		WorkDir: workDir,
	}
}

func (c *Claude) Enabled() bool { return c != nil && c.Invoker != nil }

func (c *Claude) Extract(ctx context.Context, content, path string) (*filemap.Info, error) {
	if !c.Enabled() {
		return nil, ErrExtractorDisabled
	}
	res, err := c.Invoker.Invoke(ctx, c.Agent, agent.BuildExtractionPrompt(path, content), c.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	info, err := ParseInfo(res.ResultText)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	info.Name = path
	info.Lines = CountLines(content)
	return info, nil
}

// New picks the extractor once at startup: claude-backed when a credential
// is present, otherwise Noop.
func New(hasCredential bool, inv agent.Invoker, model, workDir string) Extractor {
	if !hasCredential || inv == nil {
		return Noop{}
	}
	return NewClaude(inv, model, workDir)
}

// ParseInfo decodes a model reply into file info. Markdown fences and any
// prose around the outermost JSON object are ignored.
func ParseInfo(text string) (*filemap.Info, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, ErrEmptyResponse
	}

	var info filemap.Info
	if err := json.Unmarshal([]byte(text[start:end+1]), &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &info, nil
}

// CountLines counts lines the way an editor shows them: a trailing newline
// does not start a new line.
func CountLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}

// Hash returns the hex sha256 of content, used as the cache key.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
