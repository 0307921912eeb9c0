package csvtransfer

import (
	"bufio"
	"io"
	"strings"
)

// quoteAllWriter writes every field quoted, with doubled inner quotes and
// "\n" record terminators. encoding/csv only quotes fields that need it.
type quoteAllWriter struct {
	w *bufio.Writer
}

func newQuoteAllWriter(w io.Writer) *quoteAllWriter {
	return &quoteAllWriter{w: bufio.NewWriter(w)}
}

func (q *quoteAllWriter) Write(record []string) error {
	for i, field := range record {
		if i > 0 {
			if err := q.w.WriteByte(','); err != nil {
				return err
			}
		}
		if err := q.w.WriteByte('"'); err != nil {
			return err
		}
		if _, err := q.w.WriteString(strings.ReplaceAll(field, `"`, `""`)); err != nil {
			return err
		}
		if err := q.w.WriteByte('"'); err != nil {
			return err
		}
	}
	return q.w.WriteByte('\n')
}

func (q *quoteAllWriter) Flush() error {
	return q.w.Flush()
}
