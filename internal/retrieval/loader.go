package retrieval

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Chunking parameters for long documents.
const (
	chunkSize    = 800
	chunkOverlap = 200
)

// LoadPassages reads every .txt and .md file under dir, splitting long files
// into overlapping chunks. A file's category is its first-level subdirectory
// under dir ("" for files directly in dir). Files are loaded concurrently;
// the returned order is deterministic (sorted by path, then chunk order).
func LoadPassages(dir string) ([]Passage, error) {
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		// Missing knowledge dir means an empty index, not a failure.
		return nil, nil
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".md":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan knowledge dir %s: %w", dir, err)
	}
	sort.Strings(paths)

	perFile := make([][]Passage, len(paths))
	var g errgroup.Group
	var mu sync.Mutex

	for i, path := range paths {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			rel, err := filepath.Rel(dir, path)
			if err != nil {
				rel = filepath.Base(path)
			}
			category := ""
			if parts := strings.Split(filepath.ToSlash(rel), "/"); len(parts) > 1 {
				category = parts[0]
			}

			var passages []Passage
			for _, chunk := range SplitText(string(data), chunkSize, chunkOverlap) {
				passages = append(passages, Passage{
					Text:     chunk,
					Source:   rel,
					Category: category,
				})
			}

			mu.Lock()
			perFile[i] = passages
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Passage
	for _, passages := range perFile {
		all = append(all, passages...)
	}
	return all, nil
}

// SplitText splits text into chunks of at most size runes, with adjacent
// chunks overlapping by overlap runes. Blank chunks are dropped.
func SplitText(text string, size, overlap int) []string {
	if size <= 0 || overlap >= size {
		return nil
	}

	runes := []rune(text)
	step := size - overlap

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}
