package progress

import (
	"io"
	"os"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// TransferUI renders one progress bar per concurrent transfer using mpb.
// On a non-TTY stderr the bars are suppressed entirely so CI logs stay
// clean.
type TransferUI struct {
	progress   *mpb.Progress
	isTerminal bool
}

// NewTransferUI creates a multi-bar transfer UI writing to stderr.
func NewTransferUI() *TransferUI {
	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))

	var p *mpb.Progress
	if isTerminal {
		p = mpb.New(
			mpb.WithOutput(os.Stderr),
			mpb.WithRefreshRate(300*time.Millisecond),
			mpb.WithWidth(80),
		)
	} else {
		p = mpb.New(mpb.WithOutput(io.Discard))
	}

	return &TransferUI{progress: p, isTerminal: isTerminal}
}

// TransferBar tracks one transfer. The zero value is a no-op.
type TransferBar struct {
	bar  *mpb.Bar
	size int64
}

// AddBar registers a bar for one transfer of the given size.
func (u *TransferUI) AddBar(name string, size int64) *TransferBar {
	if !u.isTerminal {
		return &TransferBar{}
	}

	bar := u.progress.New(size,
		mpb.BarStyle().
			Lbound("[").
			Filler("█").
			Tip("█").
			Padding("░").
			Rbound("]"),
		mpb.PrependDecorators(
			decor.Name(name, decor.WCSyncSpaceR),
		),
		mpb.AppendDecorators(
			decor.CountersKibiByte("% .1f / % .1f"),
		),
	)
	return &TransferBar{bar: bar, size: size}
}

// Reader wraps r so reads advance the bar.
func (b *TransferBar) Reader(r io.Reader) io.Reader {
	if b.bar == nil {
		return r
	}
	return b.bar.ProxyReader(r)
}

// Done finalizes the bar. Success snaps it to 100% so rounding never
// leaves a bar at 99%; failure aborts it but leaves it visible.
func (b *TransferBar) Done(err error) {
	if b.bar == nil {
		return
	}
	if err == nil {
		b.bar.SetCurrent(b.size)
		b.bar.SetTotal(b.size, true)
	} else {
		b.bar.Abort(false)
	}
}

// Wait blocks until every registered bar has completed or aborted.
func (u *TransferUI) Wait() {
	if u.progress != nil {
		u.progress.Wait()
	}
}
