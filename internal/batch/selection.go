package batch

import "github.com/RepentanceHeaven/CornerBrand/internal/engine"

// SelectCurrent picks the result to display after a merge. The previously
// selected path wins when it still has a result; otherwise the first
// successful result, then the first result of any kind, then none.
func SelectCurrent(results []engine.FileResult, previous string) (engine.FileResult, bool) {
	if previous != "" {
		for _, r := range results {
			if r.InputPath == previous {
				return r, true
			}
		}
	}

	for _, r := range results {
		if r.OK {
			return r, true
		}
	}

	if len(results) > 0 {
		return results[0], true
	}

	return engine.FileResult{}, false
}
