package rankings

import "errors"

var (
	// ErrNoDataYet is returned when a universe has never completed a
	// refresh and no snapshot exists to serve.
	ErrNoDataYet = errors.New("rankings: no data computed yet")

	// ErrNotFound is returned when a symbol does not appear in any
	// current snapshot.
	ErrNotFound = errors.New("rankings: asset not found")

	// ErrRefreshFailed is returned when a refresh produced no usable
	// result. The previously published snapshot, if any, is retained.
	ErrRefreshFailed = errors.New("rankings: refresh failed")
)
