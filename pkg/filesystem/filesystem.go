package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileExists checks if a file exists at the given path.
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// SafeResolvePath validates and resolves a target path against a project root,
// rejecting traversal outside the root while allowing symlinks that stay
// within it. The target may not exist yet; resolution walks up to the nearest
// existing parent before evaluating symlinks.
func SafeResolvePath(root, target string) (string, error) {
	if target == "" {
		return "", fmt.Errorf("empty target path provided")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project root: %w", err)
	}
	resolvedRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project root symlink: %w", err)
	}

	cleanTarget := filepath.Clean(target)
	absTarget := cleanTarget
	if !filepath.IsAbs(absTarget) {
		absTarget = filepath.Join(absRoot, cleanTarget)
	}

	// The target may not exist yet; find the nearest existing ancestor so
	// symlinks along the path still get evaluated.
	existing := absTarget
	var suffix []string
	for depth := 0; depth < 50; depth++ {
		if _, statErr := os.Stat(existing); statErr == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return "", fmt.Errorf("no existing parent directory found for path: %s", cleanTarget)
		}
		suffix = append([]string{filepath.Base(existing)}, suffix...)
		existing = parent
	}

	resolvedExisting, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	resolved := filepath.Join(append([]string{resolvedExisting}, suffix...)...)

	relPath, err := filepath.Rel(resolvedRoot, resolved)
	if err != nil {
		return "", fmt.Errorf("failed to determine relative path: %w", err)
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("security violation: attempt to access file outside project root: %s (resolves to: %s)", cleanTarget, resolved)
	}

	return resolved, nil
}

// EnsureDir creates directory if it doesn't exist.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// WriteFileWithDir creates the directory and writes the file.
func WriteFileWithDir(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return os.WriteFile(path, data, perm)
}
