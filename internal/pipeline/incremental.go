package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/envcast/internal/source"
	"github.com/theirongolddev/envcast/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
}

// LoadWithCache discovers, diffs against cache, parses only changed files,
// and returns the combined result set. Cache entries for files that have
// disappeared are removed.
func LoadWithCache(path string, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	files, err := source.ScanDir(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	result := &CachedLoadResult{LoadResult: LoadResult{TotalFiles: len(files)}}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	// Diff: partition into changed and unchanged
	var toReparse []source.DiscoveredFile
	unchanged := make(map[string]struct{})
	present := make(map[string]struct{}, len(files))

	for _, f := range files {
		present[f.Path] = struct{}{}
		cached, ok := tracked[f.Path]
		if ok && cached.MtimeNs == f.ModTime && cached.SizeBytes == f.Size {
			unchanged[f.Path] = struct{}{}
		} else {
			toReparse = append(toReparse, f)
		}
	}

	// Only prune entries under the scanned root; a cache can serve several roots.
	root, _ := filepath.Abs(path)
	for p := range tracked {
		if _, ok := present[p]; ok || !within(root, p) {
			continue
		}
		_ = cache.DeleteBudget(p)
		_ = cache.DeleteFileTracker(p)
	}

	result.CacheHits = len(unchanged)
	result.Reparsed = len(toReparse)

	if len(unchanged) > 0 {
		cached, err := cache.LoadAllBudgets()
		if err != nil {
			return nil, fmt.Errorf("loading cached budgets: %w", err)
		}
		for _, b := range cached {
			if _, ok := unchanged[b.FilePath]; ok {
				result.Budgets = append(result.Budgets, b)
				result.ParsedFiles++
			}
		}
	}

	if len(toReparse) > 0 {
		results := parseAll(toReparse, func(n int) {
			if progressFn != nil {
				progressFn(n+result.CacheHits, result.TotalFiles)
			}
		})

		for i, pr := range results {
			if !result.collect(toReparse[i], pr) {
				continue
			}
			if err := cache.SaveBudget(pr.Budget, toReparse[i].ModTime, toReparse[i].Size); err != nil {
				return nil, fmt.Errorf("caching %s: %w", toReparse[i].Path, err)
			}
		}
	}

	return result, nil
}

func within(root, path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if abs == root {
		return true
	}
	rel, err := filepath.Rel(root, abs)
	return err == nil && rel != ".." && !filepath.IsAbs(rel) && !startsWithParent(rel)
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "envcast")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "envcast")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "envcast.db")
}
