package myerrors

import "errors"

var (
	// ErrStoreNotFound is returned when the requested dark store does not exist.
	ErrStoreNotFound = errors.New("store not found")

	// ErrGeocodeFailed is returned when a delivery address cannot be
	// resolved to coordinates. Propagated to the caller, never retried here.
	ErrGeocodeFailed = errors.New("address could not be geocoded")

	// ErrCourierNotFound is returned by directory lookups that matched no courier.
	ErrCourierNotFound = errors.New("courier not found")

	// ErrCourierClaimed signals a lost claim race: another request assigned
	// the courier between candidate selection and the conditional update.
	ErrCourierClaimed = errors.New("courier already claimed")
)
