package downloader

import "fmt"

// Batch assigns group ids to the URLs of one download run, starting at 1
type Batch struct {
	format string
	next   int
}

func NewBatch(format string) *Batch {
	return &Batch{format: format, next: 1}
}

// Next returns the next group id and advances the counter
func (b *Batch) Next() string {
	id := fmt.Sprintf(b.format, b.next)
	b.next++
	return id
}
