package git

import "errors"

var (
	ErrNotARepository = errors.New("not a git repository")
	ErrClosed         = errors.New("repository handle is closed")
	ErrFileNotFound   = errors.New("file not found")
	ErrCloneFailed    = errors.New("failed to clone repository")
	ErrPullFailed     = errors.New("failed to pull repository")
)
