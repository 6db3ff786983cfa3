// Package progress provides transfer progress reporting for the CLI.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Reporter receives transfer progress events.
type Reporter interface {
	Start(total int64, description string)
	Add(n int64)
	Finish()
}

// Bar renders a byte-count progress bar on stderr.
type Bar struct {
	bar *progressbar.ProgressBar
}

// NewBar creates a progress bar reporter.
func NewBar() *Bar {
	return &Bar{}
}

// Start initializes the bar with total size and description. A total of -1
// renders a spinner (unknown length).
func (p *Bar) Start(total int64, description string) {
	p.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Add advances the bar by n bytes.
func (p *Bar) Add(n int64) {
	if p.bar != nil {
		_ = p.bar.Add64(n)
	}
}

// Finish completes the bar.
func (p *Bar) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// Discard is a no-op Reporter for non-interactive runs.
type Discard struct{}

func (Discard) Start(total int64, description string) {}
func (Discard) Add(n int64)                           {}
func (Discard) Finish()                               {}

// NewAuto returns a Bar when stderr is a terminal and Discard otherwise,
// so CI logs are not flooded with carriage-return frames.
func NewAuto() Reporter {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return NewBar()
	}
	return Discard{}
}

// reader counts bytes as they pass through to a Reporter.
type reader struct {
	r   io.Reader
	rep Reporter
}

// NewReader wraps r so every read advances rep.
func NewReader(r io.Reader, rep Reporter) io.Reader {
	return &reader{r: r, rep: rep}
}

func (pr *reader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.rep.Add(int64(n))
	}
	return n, err
}
