package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// htmlWriter keeps the first write error so components read top to bottom.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newHTMLWriter(ctx context.Context, w io.Writer) *htmlWriter {
	return &htmlWriter{ctx: ctx, w: w}
}

func (hw *htmlWriter) raw(values ...string) {
	for _, value := range values {
		if hw.err != nil {
			return
		}
		_, hw.err = io.WriteString(hw.w, value)
	}
}

func (hw *htmlWriter) text(value string) {
	hw.raw(templ.EscapeString(value))
}

func (hw *htmlWriter) attr(name string, value string) {
	hw.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

func (hw *htmlWriter) number(value int) {
	hw.raw(strconv.Itoa(value))
}

func (hw *htmlWriter) component(c templ.Component) {
	if hw.err != nil || c == nil {
		return
	}
	hw.err = c.Render(hw.ctx, hw.w)
}

func component(render func(hw *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(ctx, w)
		render(hw)
		return hw.err
	})
}
