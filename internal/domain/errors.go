package domain

import "errors"

var (
	// ErrSourceUnavailable is returned when a site could not be queried after retries
	ErrSourceUnavailable = errors.New("candidate source unavailable")

	// ErrDecodeFailure is returned when an image could not be fetched or decoded
	ErrDecodeFailure = errors.New("image fetch or decode failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnknownSite is returned when a site identifier has no configuration entry
	ErrUnknownSite = errors.New("site not configured")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrExtractorFailure is returned when the extractor service request fails
	ErrExtractorFailure = errors.New("extractor service request failed")
)
