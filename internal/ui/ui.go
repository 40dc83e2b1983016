// Package ui prints human-facing progress for forge commands to stderr.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type Printer struct {
	w       io.Writer
	verbose bool
}

// New returns a Printer writing to stderr.
func New(verbose bool) *Printer {
	return &Printer{w: os.Stderr, verbose: verbose}
}

// NewWithWriter returns a Printer writing to w.
func NewWithWriter(w io.Writer, verbose bool) *Printer {
	return &Printer{w: w, verbose: verbose}
}

func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.w, styleMuted.Render(msg))
}

// Debug prints only in verbose mode.
func (p *Printer) Debug(msg string) {
	if !p.verbose {
		return
	}
	fmt.Fprintln(p.w, styleMuted.Render("[forge] "+msg))
}

func (p *Printer) Warn(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", styleWarn.Render(iconWarn+" warning:"), msg)
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", styleError.Render("error:"), msg)
}

// FileFailed reports a source file whose extraction failed.
func (p *Printer) FileFailed(path string, err error) {
	fmt.Fprintf(p.w, "  %s %s: %v\n", styleWarn.Render("Skipping"), path, err)
}

// Wrote reports one written context package.
func (p *Printer) Wrote(rel string, size int, completed bool) {
	detail := humanize.Bytes(uint64(size))
	if completed {
		detail = "completed, " + detail
	}
	fmt.Fprintf(p.w, "  %s Wrote %s %s\n", styleSuccess.Render(iconWrote), rel, styleMuted.Render("("+detail+")"))
}

// Summary is the end-of-run tally shown after a compile.
type Summary struct {
	Completed int
	Pending   int
	Extracted int
	Cached    int
	Failed    int
	Written   int
	Elapsed   time.Duration
}

func (p *Printer) Summary(s Summary) {
	mark := styleSuccess.Render(iconDone + " context compiled")
	if s.Failed > 0 {
		mark = styleWarn.Render(iconWarn + " context compiled with failures")
	}
	fmt.Fprintf(p.w, "%s %s\n", mark, styleMuted.Render("("+s.Elapsed.Round(time.Millisecond).String()+")"))
	fmt.Fprintf(p.w, "  %s %d completed, %d pending\n", styleLabel.Render("packages:"), s.Completed, s.Pending)
	fmt.Fprintf(p.w, "  %s %s\n", styleLabel.Render("written: "), humanize.Comma(int64(s.Written)))
	fmt.Fprintf(p.w, "  %s %d extracted (%d cached), %d failed\n", styleLabel.Render("files:   "), s.Extracted, s.Cached, s.Failed)
}

// IndexWritten reports the knowledge index file.
func (p *Printer) IndexWritten(rel string, size int) {
	if size == 0 {
		p.Info("No knowledge entries to index.")
		return
	}
	fmt.Fprintf(p.w, "%s %s %s\n", styleSuccess.Render(iconDone+" wrote"), rel, styleMuted.Render("("+humanize.Bytes(uint64(size))+")"))
}

// Watching announces the paths watch mode reacts to.
func (p *Printer) Watching(paths []string) {
	fmt.Fprintf(p.w, "%s %s\n", styleTitle.Render(iconWatch+" watching"), strings.Join(paths, ", "))
}

// Changed reports the file that triggered a recompile.
func (p *Printer) Changed(path string) {
	fmt.Fprintf(p.w, "\n%s %s\n", styleTitle.Render("changed:"), path)
}

// Failed reports a fatal command error.
func (p *Printer) Failed(err error) {
	fmt.Fprintf(p.w, "%s %v\n", styleError.Render(iconFailed+" failed:"), err)
}
