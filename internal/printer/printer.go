// Package printer writes human readable command output.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/colonyops/pomobot/internal/core/styles"
)

// Printer writes styled lines to a writer.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the Printer stored in ctx, or one writing to stdout.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

func (p *Printer) line(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.w, s)
}

// Printf prints an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	p.line(fmt.Sprintf(format, args...))
}

// Successf prints a line prefixed with a check mark.
func (p *Printer) Successf(format string, args ...any) {
	p.line(styles.TextSuccess.Render("✔ ") + fmt.Sprintf(format, args...))
}

// Infof prints a line prefixed with an info marker.
func (p *Printer) Infof(format string, args ...any) {
	p.line(styles.TextInfo.Render("• ") + fmt.Sprintf(format, args...))
}

// Warnf prints a line prefixed with a warning marker.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(styles.TextWarning.Render("! ") + fmt.Sprintf(format, args...))
}

// Errorf prints a line prefixed with a cross.
func (p *Printer) Errorf(format string, args ...any) {
	p.line(styles.TextError.Render("✘ ") + fmt.Sprintf(format, args...))
}
