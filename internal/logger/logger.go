package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/heaths/go-console"
	"github.com/heaths/go-console/pkg/colorscheme"
)

const timeLayout = "2006-01-02 15:04:05"

// Logger writes timestamped progress lines to stderr and, optionally, appends them to a file.
// Writing to the file is best effort: failures never reach the caller.
type Logger struct {
	w     io.Writer
	color func(string) string
	path  string
	now   func() time.Time

	dirReady bool
}

func New(con console.Console, style, path string) *Logger {
	cs := con.ColorScheme().Clone(
		colorscheme.WithTTY(con.IsStderrTTY),
	)
	return &Logger{
		w:     con.Stderr(),
		color: cs.ColorFunc(style),
		path:  path,
		now:   time.Now,
	}
}

func (l *Logger) Printf(format string, args ...interface{}) {
	l.println(fmt.Sprintf(format, args...))
}

// Write logs each line of buf.
func (l *Logger) Write(buf []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(buf), "\n"), "\n") {
		l.println(line)
	}
	return len(buf), nil
}

func (l *Logger) println(msg string) {
	line := l.now().Format(timeLayout) + " " + msg + "\n"
	fmt.Fprint(l.w, l.color(line))
	l.appendFile(line)
}

func (l *Logger) appendFile(line string) {
	if l.path == "" {
		return
	}

	defer func() {
		_ = recover()
	}()

	if !l.dirReady {
		if dir := filepath.Dir(l.path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return
			}
		}
		l.dirReady = true
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = f.WriteString(line)
}
