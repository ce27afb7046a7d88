package git

const (
	// Buffer sizes for counting lines in blobs
	ScannerInitialBufferSize = 64 * 1024   // 64KB initial buffer
	ScannerMaxBufferSize     = 1024 * 1024 // 1MB max buffer for long lines

	// DefaultRemote is the remote whose URL is reported for a repository
	DefaultRemote = "origin"
)
