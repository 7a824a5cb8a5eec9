package domain

import "errors"

var (
	ErrExtraction      = errors.New("extraction failed")
	ErrRebuild         = errors.New("rebuild failed")
	ErrFetch           = errors.New("fetch failed")
	ErrInvalidShareURL = errors.New("invalid share link")
	ErrArchive         = errors.New("archive build failed")
	ErrStorage         = errors.New("storage failed")
	ErrChatNotFound    = errors.New("chat not found")
)
