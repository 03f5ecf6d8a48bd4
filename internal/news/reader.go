// Package news reads the dated, append-only text artifacts produced by the
// external crawler. The crawler's layout is {base}/{date}/txt/*.txt where the
// date directory is normally named with CJK date markers (2006年01月02日) and
// occasionally plain ISO (2006-01-02).
package news

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	apperrors "answerme/internal/errors"
)

// Directory name layouts tried in order for a given date.
var dateLayouts = []string{"2006年01月02日", "2006-01-02"}

// Reader locates and loads crawler artifacts by date.
type Reader struct {
	basePath string
}

// NewReader creates a reader rooted at the crawler output directory.
func NewReader(basePath string) *Reader {
	return &Reader{basePath: basePath}
}

// Load returns the content of the most recent artifact for the date. The
// crawler appends files throughout the day; the lexically last *.txt in the
// date folder is the newest. Returns ErrNoNewsData when no folder or no file
// exists for the date under either directory layout.
func (r *Reader) Load(date time.Time) (string, error) {
	for _, layout := range dateLayouts {
		content, err := r.loadDir(date.Format(layout))
		if err == nil {
			return content, nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %s", apperrors.ErrNoNewsData, date.Format("2006-01-02"))
}

func (r *Reader) loadDir(dateStr string) (string, error) {
	dir := filepath.Join(r.basePath, dateStr, "txt")
	matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return "", fmt.Errorf("glob artifacts: %w", err)
	}
	if len(matches) == 0 {
		return "", os.ErrNotExist
	}
	sort.Strings(matches)
	latest := matches[len(matches)-1]

	data, err := os.ReadFile(latest)
	if err != nil {
		return "", fmt.Errorf("read artifact %s: %w", latest, err)
	}
	return string(data), nil
}
