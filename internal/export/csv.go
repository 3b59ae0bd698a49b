package export

import (
	"bufio"
	"io"
	"strings"
)

// Writer emits comma-separated lines. A field is quoted only when it holds
// a comma, a quote, CR or LF; quotes inside are doubled.
type Writer struct {
	w   *bufio.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Escape returns field as it appears in a line.
func Escape(field string) string {
	if !strings.ContainsAny(field, ",\"\r\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// Row writes one line. Errors are sticky and reported by Flush.
func (cw *Writer) Row(fields ...string) {
	if cw.err != nil {
		return
	}
	for i, f := range fields {
		if i > 0 {
			if cw.err = cw.w.WriteByte(','); cw.err != nil {
				return
			}
		}
		if _, cw.err = cw.w.WriteString(Escape(f)); cw.err != nil {
			return
		}
	}
	cw.err = cw.w.WriteByte('\n')
}

// Section starts a trailing summary block: a blank line then "# title".
func (cw *Writer) Section(title string) {
	if cw.err != nil {
		return
	}
	_, cw.err = cw.w.WriteString("\n# " + title + "\n")
}

func (cw *Writer) Flush() error {
	if cw.err != nil {
		return cw.err
	}
	return cw.w.Flush()
}
