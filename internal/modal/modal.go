// Package modal implements the interaction modals as small state machines:
// check-in, rating, share and the trail celebration. Each submission runs
// under a timeout and a failure keeps the entered data for a retry.
package modal

import (
	"context"
	"errors"
	"time"
)

const DefaultTimeout = 15 * time.Second

var (
	ErrBusy     = errors.New("modal: submission already in flight")
	ErrClosed   = errors.New("modal: closed")
	ErrNotReady = errors.New("modal: required input missing")
	ErrFinished = errors.New("modal: already submitted")
	ErrNotTrail = errors.New("modal: only trail challenge pins can be checked in")
)

// Photo is a captured or selected image, referenced by file name once
// read from the device.
type Photo struct {
	FileName string
	Size     int64
}

// PhotoSource reads a photo from the camera or the gallery. Read must stop
// when ctx is cancelled.
type PhotoSource interface {
	Read(ctx context.Context) (Photo, error)
}

func orDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}
