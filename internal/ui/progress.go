// Package ui renders terminal progress for a scan run.
package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/joseph-ayodele/cardscan/constants"
)

// Reporter shows a page progress bar, a spinner while waiting on capacity
// exhaustion, and a colored summary line.
type Reporter struct {
	mu      sync.Mutex
	out     io.Writer
	enabled bool

	bar     *progressbar.ProgressBar
	spin    *spinner.Spinner
	current int
}

// NewReporter writes to out. With enabled false only the final summary is printed.
func NewReporter(out io.Writer, enabled bool) *Reporter {
	return &Reporter{out: out, enabled: enabled}
}

// RunStarted sizes the bar to the number of rendered pages.
func (r *Reporter) RunStarted(pages int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.enabled {
		return
	}
	r.bar = progressbar.NewOptions(pages,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription("cards"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionOnCompletion(func() { fmt.Fprint(r.out, "\n") }),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func (r *Reporter) PageStage(index int, stage constants.PageStage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopSpinner()
	r.current = index
	if r.bar == nil {
		return
	}
	switch stage {
	case constants.PageStageRendered:
		r.bar.Describe(fmt.Sprintf("page %d: orienting", index))
	case constants.PageStageOriented:
		r.bar.Describe(fmt.Sprintf("page %d: extracting", index))
	case constants.PageStageExtracted:
		r.bar.Describe(fmt.Sprintf("page %d: writing", index))
	case constants.PageStageWritten:
		_ = r.bar.Add(1)
	}
}

// RetryWaiting has the shape of llm.WaitObserver.
func (r *Reporter) RetryWaiting(attempt, maxAttempts int, wait time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.enabled {
		return
	}
	msg := fmt.Sprintf("Resource exhausted on page %d (attempt %d/%d), waiting %s before retrying",
		r.current, attempt, maxAttempts, wait)
	if r.spin == nil {
		r.spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		r.spin.Writer = r.out
	}
	r.spin.Suffix = " " + msg
	if r.bar != nil {
		_ = r.bar.Clear()
	}
	r.spin.Start()
}

func (r *Reporter) RunFinished(written int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopSpinner()
	if r.bar != nil && err == nil {
		_ = r.bar.Finish()
	}
	if err != nil {
		if r.bar != nil {
			_ = r.bar.Exit()
			fmt.Fprintln(r.out)
		}
		color.New(color.FgYellow).Fprintf(r.out, "⚠ %d contact(s) written before the run stopped\n", written)
		return
	}
	color.New(color.FgGreen).Fprintf(r.out, "✓ %d contact(s) written\n", written)
}

func (r *Reporter) stopSpinner() {
	if r.spin != nil && r.spin.Active() {
		r.spin.Stop()
	}
}

// Error prints a red failure line.
func Error(w io.Writer, format string, args ...any) error {
	_, err := color.New(color.FgRed).Fprintf(w, "✗ %s\n", fmt.Sprintf(format, args...))
	return err
}

// Success prints a green confirmation line.
func Success(w io.Writer, format string, args ...any) {
	color.New(color.FgGreen).Fprintf(w, "✓ %s\n", fmt.Sprintf(format, args...))
}

// DisableColor turns off ANSI colors for every writer.
func DisableColor() {
	color.NoColor = true
}
