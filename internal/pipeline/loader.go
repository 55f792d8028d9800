package pipeline

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/envcast/internal/model"
	"github.com/theirongolddev/envcast/internal/source"
)

// LoadResult holds the output of the budget loading pipeline.
type LoadResult struct {
	Budgets     []*model.Budget
	TotalFiles  int
	ParsedFiles int
	ParseErrors int
	FileErrors  int
	// Errors maps a file path to the reason it could not be loaded.
	Errors map[string]error
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses every budget export under path.
// It uses a bounded worker pool for parallel parsing.
func Load(path string, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	result := &LoadResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	results := parseAll(files, func(n int) {
		if progressFn != nil {
			progressFn(n, len(files))
		}
	})
	for i, pr := range results {
		result.collect(files[i], pr)
	}
	return result, nil
}

func (r *LoadResult) collect(df source.DiscoveredFile, pr source.ParseResult) bool {
	if pr.Err != nil {
		r.FileErrors++
		if r.Errors == nil {
			r.Errors = make(map[string]error)
		}
		r.Errors[df.Path] = pr.Err
		return false
	}
	r.ParsedFiles++
	r.ParseErrors += pr.ParseErrors
	r.Budgets = append(r.Budgets, pr.Budget)
	return true
}

// parseAll parses files with a bounded worker pool. Results keep the order
// of files. tick receives the running count of finished files.
func parseAll(files []source.DiscoveredFile, tick func(int)) []source.ParseResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx])
				tick(int(processed.Add(1)))
			}
		}()
	}

	wg.Wait()
	return results
}

// SelectBudget picks one budget by case-insensitive name or id substring.
// An empty name selects the first budget, and is an error only when there
// is none.
func SelectBudget(budgets []*model.Budget, name string) (*model.Budget, error) {
	if len(budgets) == 0 {
		return nil, errors.New("no budgets found")
	}
	if name == "" {
		return budgets[0], nil
	}
	needle := strings.ToLower(name)
	var matches []*model.Budget
	for _, b := range budgets {
		if b.ID == name || strings.Contains(strings.ToLower(b.Name), needle) {
			matches = append(matches, b)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no budget matches %q", name)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, b := range matches {
			names[i] = b.Name
		}
		return nil, fmt.Errorf("%q matches %d budgets: %s", name, len(matches), strings.Join(names, ", "))
	}
}
