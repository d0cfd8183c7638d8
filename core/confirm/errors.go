package confirm

import "errors"

var (
	// ErrAborted is returned by Run when a party aborted the navigation.
	ErrAborted = errors.New("routing aborted by confirmation party")

	// ErrPartyPanicked is joined with ErrAborted when a party panics while being asked.
	ErrPartyPanicked = errors.New("confirmation party panicked")
)
