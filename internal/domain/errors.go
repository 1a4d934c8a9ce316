package domain

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrQueueEmpty = errors.New("no queued jobs")
)
