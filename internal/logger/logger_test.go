package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/heaths/go-console"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)
}

func TestLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nested", "compare.log")

	fake := console.Fake()
	log := New(fake, "black+h", path)
	log.now = fixedClock

	log.Printf("page %d: %d projects", 1, 100)
	log.Printf("done")

	want := "2024-03-05 14:07:09 page 1: 100 projects\n2024-03-05 14:07:09 done\n"

	_, stderr, _ := fake.Buffers()
	assert.Equal(t, want, stderr.String())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))
}

func TestLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compare.log")
	require.NoError(t, os.WriteFile(path, []byte("earlier run\n"), 0o644))

	log := New(console.Fake(), "black+h", path)
	log.now = fixedClock
	log.Printf("again")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "earlier run\n2024-03-05 14:07:09 again\n", string(got))
}

func TestLoggerWithoutFile(t *testing.T) {
	fake := console.Fake()
	log := New(fake, "black+h", "")
	log.now = fixedClock

	n, err := log.Write([]byte("first\nsecond\n"))
	assert.NoError(t, err)
	assert.Equal(t, 13, n)

	_, stderr, _ := fake.Buffers()
	assert.Equal(t, "2024-03-05 14:07:09 first\n2024-03-05 14:07:09 second\n", stderr.String())
}

func TestLoggerUnwritableFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	tests := []struct {
		name string
		path string
	}{
		{
			name: "path is a directory",
			path: dir,
		},
		{
			name: "parent is a file",
			path: filepath.Join(blocker, "compare.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := console.Fake()
			log := New(fake, "black+h", tt.path)
			log.now = fixedClock

			assert.NotPanics(t, func() {
				log.Printf("still logged")
			})

			_, stderr, _ := fake.Buffers()
			assert.Equal(t, "2024-03-05 14:07:09 still logged\n", stderr.String())
		})
	}
}
