package event

import "errors"

var (
	// ErrBufferFull is returned when the channel buffer is full.
	ErrBufferFull = errors.New("event buffer is full")

	// ErrTransportClosed is returned when publishing to a closed transport.
	ErrTransportClosed = errors.New("event transport is closed")

	// ErrNilPayload is returned when publishing a nil payload.
	ErrNilPayload = errors.New("event payload is nil")
)
