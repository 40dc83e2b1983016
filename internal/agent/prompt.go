package agent

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxSourceBytes caps how much of a file is sent to the extractor.
const MaxSourceBytes = 60_000

const ExtractorSystemPrompt = `You analyze a single source file and describe its public surface for other engineers.
Reply with one JSON object and nothing else. No prose, no markdown fences.`

const extractionSchema = `{
  "summary": "one sentence describing what the file is for",
  "public_functions": [
    {"name": "...", "signature": "...", "is_entry_point": false, "summary": "..."}
  ],
  "public_types": [
    {"name": "...", "kind": "struct|interface|enum|class|alias", "summary": "..."}
  ],
  "key_imports": ["..."]
}`

// BuildExtractionPrompt renders the user prompt for one file. Content past
// MaxSourceBytes is cut on a rune boundary and the cut is announced to the
// model.
func BuildExtractionPrompt(path, content string) string {
	truncated := false
	if len(content) > MaxSourceBytes {
		n := MaxSourceBytes
		for n > 0 && !utf8.RuneStart(content[n]) {
			n--
		}
		content = content[:n]
		truncated = true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n\n", path)
	b.WriteString("Return JSON matching this shape:\n")
	b.WriteString(extractionSchema)
	b.WriteString("\n\nOnly list exported or otherwise public items. Mark functions that start the program or serve requests as entry points. ")
	b.WriteString("key_imports holds at most five imports that matter for understanding the file.\n\n")
	if truncated {
		fmt.Fprintf(&b, "(file truncated to the first %d bytes)\n\n", MaxSourceBytes)
	}
	b.WriteString("```\n")
	b.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n")
	return b.String()
}
