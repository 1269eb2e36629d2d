package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter writes the same bytes to all the writers,
// used to send logs to both STDOUT and the rotated log file
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	cw := &CombinedWriter{}
	for _, w := range writers {
		if w == nil {
			continue
		}
		cw.Writers = append(cw.Writers, w)
	}
	return cw
}

// Write returns the sum of bytes written by all writers; a failing writer
// does not stop the others, its error is combined into the returned one
func (cw CombinedWriter) Write(p []byte) (n int, err error) {
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		n += written
	}
	return n, err
}
