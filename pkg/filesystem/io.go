package filesystem

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// SaveFile saves or removes a file with the given content.
// Empty content removes the file; this is what makes restoring a created
// file back to "absent" exact.
func SaveFile(filename, content string) error {
	if content == "" {
		if _, err := os.Stat(filename); err == nil {
			return os.Remove(filename)
		} else if os.IsNotExist(err) {
			return nil
		} else {
			return fmt.Errorf("error checking file %s: %w", filename, err)
		}
	}

	dir := filepath.Dir(filename)
	if dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("could not create directory %s: %w", dir, err)
		}
	}

	// Match the existing file's EOL style so a round-trip through the
	// pipeline does not churn line endings.
	out := []byte(content)
	if existing, err := os.ReadFile(filename); err == nil {
		if bytes.Contains(existing, []byte("\r\n")) && !bytes.Contains(out, []byte("\r\n")) {
			out = bytes.ReplaceAll(out, []byte("\n"), []byte("\r\n"))
		}
	}

	return os.WriteFile(filename, out, 0644)
}

// ReadFile reads the content of a file.
func ReadFile(filename string) (string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("could not read file %s: %w", filename, err)
	}
	return string(content), nil
}

// ReadFileIfExists reads a file, returning empty content when it is absent.
func ReadFileIfExists(filename string) (string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("could not read file %s: %w", filename, err)
	}
	return string(content), nil
}
