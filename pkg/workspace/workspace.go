package workspace

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// ScopeID derives a stable project identifier from the project root path.
// Ledger history is keyed by this, so it survives restarts and renamed
// working copies keep separate histories.
func ScopeID(projectRoot string) string {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = filepath.Clean(projectRoot)
	}
	hash := sha256.Sum256([]byte(abs))
	return hex.EncodeToString(hash[:])[:16]
}

// GetIgnoreRules reads ignore files (.gitignore, .flux/.ignore) and returns
// a gitignore matcher, or nil when there are no rules.
func GetIgnoreRules(rootDir string) *ignore.GitIgnore {
	var allRules []string

	gitignorePath := filepath.Join(rootDir, ".gitignore")
	if rules, err := readIgnoreFile(gitignorePath); err == nil {
		allRules = append(allRules, rules...)
	}

	fluxIgnorePath := filepath.Join(rootDir, ".flux", ".ignore")
	if rules, err := readIgnoreFile(fluxIgnorePath); err == nil {
		allRules = append(allRules, rules...)
	}

	if len(allRules) == 0 {
		return nil
	}

	return ignore.CompileIgnoreLines(allRules...)
}

// ListProjectFiles walks the project root and returns relative paths of
// tracked files, honoring ignore rules and skipping .git and .flux state.
func ListProjectFiles(rootDir string) ([]string, error) {
	rules := GetIgnoreRules(rootDir)

	var files []string
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		base := d.Name()
		if d.IsDir() {
			if base == ".git" || base == ".flux" {
				return filepath.SkipDir
			}
			if rules != nil && rules.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(base, ".") && base != ".gitignore" {
			return nil
		}
		if rules != nil && rules.MatchesPath(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func readIgnoreFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
