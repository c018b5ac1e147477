package renderer

import (
	"fmt"
	"io"
	"os"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to a stream, stdout unless set
type DefaultLogger struct {
	out io.Writer
}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	out := dl.out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// NewLogger creates a logger writing to w
func NewLogger(w io.Writer) core.Logger {
	return &DefaultLogger{out: w}
}
