package renderer

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Progress reports remaining scanlines. On a terminal the count is rewritten
// in place; otherwise a log line is emitted every tenth of the image.
type Progress struct {
	out         io.Writer
	logger      core.Logger
	interactive bool
	total       int
	nextLog     int
}

// NewProgress creates a progress reporter for total scanlines.
// out may be nil, in which case only the logger is used.
func NewProgress(out io.Writer, total int, logger core.Logger) *Progress {
	return newProgress(out, total, logger, isTerminal(out))
}

func newProgress(out io.Writer, total int, logger core.Logger, interactive bool) *Progress {
	return &Progress{
		out:         out,
		logger:      logger,
		interactive: interactive && out != nil,
		total:       total,
		nextLog:     total,
	}
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Remaining reports that remaining scanlines are still to be rendered
func (p *Progress) Remaining(remaining int) {
	if p.interactive {
		fmt.Fprintf(p.out, "\rScanlines remaining: %d ", remaining)
		return
	}

	if p.logger == nil || remaining > p.nextLog {
		return
	}
	p.logger.Printf("Scanlines remaining: %d of %d\n", remaining, p.total)

	step := max(1, p.total/10)
	p.nextLog = remaining - step
}

// Done reports completion
func (p *Progress) Done() {
	if p.interactive {
		fmt.Fprint(p.out, "\rDone.                 \n")
		return
	}
	if p.logger != nil {
		p.logger.Printf("Done.\n")
	}
}
