package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/text/encoding/charmap"
)

// ErrTargetDirNotFound is returned when a mandatory object directory is
// missing. Missing screen directories are a warning, not an error.
var ErrTargetDirNotFound = errors.New("target directory not found")

// Target is one object-definition file to be checked for references.
// Rel is its identifier: the path relative to the cabinet's object root,
// with forward-slash separators. This exact string is what other files
// embed when they reference the object.
type Target struct {
	Rel  string
	Path string
}

// CorpusFile is one file scanned for occurrences of target identifiers.
type CorpusFile struct {
	// Path is the absolute location on disk.
	Path string
	// Display is the path shown in reports, relative to the project root
	// when possible.
	Display string
	// TargetRel is the file's own identifier when it lies inside the
	// target root, empty otherwise. Used for self-reference exclusion.
	TargetRel string
	// Lines is the decoded line content. Decoding happens once at load;
	// scans are read-only against this slice.
	Lines []string
}

// Corpus is the full de-duplicated set of files to scan, plus non-fatal
// warnings collected while building it.
type Corpus struct {
	Files    []CorpusFile
	Warnings []string
}

// ListTargets enumerates every file with the given extension under root,
// recursively, in lexical order. The root is mandatory: a missing or
// unreadable root returns ErrTargetDirNotFound.
func ListTargets(root, ext string) ([]Target, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrTargetDirNotFound, root)
	}

	var targets []Target
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !matchesExt(path, ext) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		targets = append(targets, Target{
			Rel:  filepath.ToSlash(rel),
			Path: path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate targets: %w", err)
	}

	sort.Slice(targets, func(i, j int) bool { return targets[i].Rel < targets[j].Rel })
	return targets, nil
}

// LoadCorpus collects every file with the given extension under the target
// root and each extra directory, de-duplicated by absolute path, and decodes
// their lines. Extra directories that do not exist are skipped with a
// warning. Files that cannot be decoded are skipped with a warning and
// excluded from every target's counts.
func LoadCorpus(targetRoot string, extraDirs []string, ext, displayRoot string, ign *ignore.GitIgnore) *Corpus {
	corpus := &Corpus{}
	seen := make(map[string]bool)

	load := func(dir string, inTargetRoot bool) {
		_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if info.IsDir() || !matchesExt(path, ext) {
				return nil
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			if seen[abs] {
				return nil
			}
			seen[abs] = true

			display := displayPath(displayRoot, path)
			if ign != nil && ign.MatchesPath(display) {
				return nil
			}

			lines, err := readLines(path)
			if err != nil {
				corpus.Warnings = append(corpus.Warnings,
					fmt.Sprintf("unreadable file skipped: %s (%v)", display, err))
				return nil
			}

			cf := CorpusFile{Path: abs, Display: display, Lines: lines}
			if inTargetRoot {
				if rel, err := filepath.Rel(targetRoot, path); err == nil {
					cf.TargetRel = filepath.ToSlash(rel)
				}
			}
			corpus.Files = append(corpus.Files, cf)
			return nil
		})
	}

	load(targetRoot, true)
	for _, dir := range extraDirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			corpus.Warnings = append(corpus.Warnings,
				fmt.Sprintf("search directory not found, skipped: %s", dir))
			continue
		}
		load(dir, false)
	}

	return corpus
}

// LoadIgnoreFile compiles the optional .refignore file at the project root.
// Returns nil when the file is absent or malformed.
func LoadIgnoreFile(projectDir string) *ignore.GitIgnore {
	path := filepath.Join(projectDir, ".refignore")
	ign, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return ign
}

func matchesExt(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}

func displayPath(root, path string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// readLines reads a text file, trying UTF-8 first and Windows-1251 as a
// fallback. The project mixes both encodings. A file that decodes under
// neither, or that looks binary, is reported as unreadable.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines, nil
}

func decodeText(data []byte) (string, error) {
	if bytes.IndexByte(data, 0) >= 0 {
		return "", errors.New("binary content")
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.Windows1251.NewDecoder().Bytes(data)
	if err != nil || bytes.ContainsRune(decoded, utf8.RuneError) {
		return "", errors.New("not valid utf-8 or cp1251")
	}
	return string(decoded), nil
}
