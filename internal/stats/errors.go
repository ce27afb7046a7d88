package stats

import "fmt"

// AggregationIOError reports a repository read failure during aggregation.
// No partial report accompanies it.
type AggregationIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *AggregationIOError) Error() string {
	return fmt.Sprintf("aggregation failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *AggregationIOError) Unwrap() error {
	return e.Err
}
