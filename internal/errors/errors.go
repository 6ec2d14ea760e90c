package errors

import "errors"

// Sentinel errors for the import pipeline. Conditions that abort a run are
// returned as errors; single-record conditions are logged as warnings and
// counted (see WarningCounter).
var (
	// ErrCategoryNotFound is returned when a category block's own main
	// name cannot be resolved while linking parents. This means the
	// category pass did not run before the edge pass.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrBadProductCode is returned for a product code that cannot be
	// parsed as an integer.
	ErrBadProductCode = errors.New("malformed product code")

	// ErrNoMainName is returned for a category block without any name
	// entry; the normalizer guarantees this never happens for parser
	// output, so hitting it indicates a caller bug.
	ErrNoMainName = errors.New("category block has no name")
)

// WarningCounter counts recoverable, logged-and-skipped conditions so that
// import summaries and tests can observe exact warning counts. The pipeline
// is single-threaded, so no synchronization is needed.
type WarningCounter struct {
	count int
}

// Add records n warnings.
func (w *WarningCounter) Add(n int) {
	w.count += n
}

// Count returns the number of warnings recorded so far.
func (w *WarningCounter) Count() int {
	if w == nil {
		return 0
	}
	return w.count
}

// Reset clears the counter.
func (w *WarningCounter) Reset() {
	w.count = 0
}
