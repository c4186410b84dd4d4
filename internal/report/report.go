package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/heaths/gitlab-compare/internal/models"
)

// Report holds both project lists and the projects they share.
type Report struct {
	List1   []models.ProjectRecord
	List2   []models.ProjectRecord
	Commons []models.MatchedPair
}

type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
)

// WriteCombined writes the whole report to a single file.
func (r *Report) WriteCombined(path string, format Format) error {
	switch format {
	case JSON:
		return writeFile(path, r.writeCombinedJSON)
	case CSV:
		return writeFile(path, r.writeCombinedCSV)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// WriteSplit writes <prefix>_gitlab1, <prefix>_gitlab2, and <prefix>_common files.
func (r *Report) WriteSplit(prefix string, format Format) error {
	var writers [3]func(io.Writer) error
	switch format {
	case JSON:
		writers = [3]func(io.Writer) error{
			func(w io.Writer) error { return writeJSON(w, records(r.List1)) },
			func(w io.Writer) error { return writeJSON(w, records(r.List2)) },
			func(w io.Writer) error { return writeJSON(w, commonsJSON(r.Commons)) },
		}
	case CSV:
		writers = [3]func(io.Writer) error{
			func(w io.Writer) error { return writeRecordsCSV(w, r.List1) },
			func(w io.Writer) error { return writeRecordsCSV(w, r.List2) },
			func(w io.Writer) error { return writeCommonsCSV(w, r.Commons) },
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}

	for i, path := range SplitPaths(prefix, format) {
		if err := writeFile(path, writers[i]); err != nil {
			return err
		}
	}

	return nil
}

// SplitPaths returns the files WriteSplit creates for prefix.
func SplitPaths(prefix string, format Format) []string {
	return []string{
		fmt.Sprintf("%s_gitlab1.%s", prefix, format),
		fmt.Sprintf("%s_gitlab2.%s", prefix, format),
		fmt.Sprintf("%s_common.%s", prefix, format),
	}
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", path, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("closing %s: %w", path, closeErr)
		}
	}()

	if err = write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

func records(list []models.ProjectRecord) []models.ProjectRecord {
	if list == nil {
		return []models.ProjectRecord{}
	}
	return list
}
