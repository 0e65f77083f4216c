package face

import "errors"

var (
	ErrDimensionMismatch  = errors.New("face descriptor has the wrong dimension")
	ErrMalformedEmbedding = errors.New("face descriptor must be a list of numbers")
	ErrNoMatch            = errors.New("face not recognized")
	ErrRosterUnavailable  = errors.New("face roster has not been loaded")
)
