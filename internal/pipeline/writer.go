package pipeline

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
)

// WritePNG encodes img as PNG at path. The image is written to a temporary
// sibling first and renamed into place, so path either does not exist or
// holds a complete file.
func WritePNG(path string, img image.Image) error {
	tmp, err := tempSibling(path)
	if err != nil {
		return err
	}

	if err := imgio.Save(tmp, img, imgio.PNGEncoder()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	return commit(tmp, path)
}

// WriteFile writes data to path through a temporary sibling.
func WriteFile(path string, data []byte) error {
	tmp, err := tempSibling(path)
	if err != nil {
		return err
	}

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return commit(tmp, path)
}

// tempSibling reserves an empty temporary file next to path.
func tempSibling(path string) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	return name, nil
}

func commit(tmp, path string) error {
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move %s into place: %w", filepath.Base(path), err)
	}
	return nil
}
