package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UniquePath returns dir/stem+suffix, or the first dir/stem_N+suffix
// (N = 1, 2, ...) that does not exist yet.
//
// suffix is appended verbatim, so it may carry more than an extension
// ("_info.json").
func UniquePath(dir, stem, suffix string) (string, error) {
	candidate := filepath.Join(dir, stem+suffix)
	for n := 1; ; n++ {
		_, err := os.Stat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check %s: %w", candidate, err)
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, suffix))
	}
}

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
