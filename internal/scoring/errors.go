package scoring

import "errors"

var (
	ErrDegenerateRange = errors.New("score range is degenerate")
	ErrScoreOutOfRange = errors.New("score out of range")
	ErrNoScores        = errors.New("no scores to aggregate")
	ErrUnknownVariant  = errors.New("unknown score variant")
	ErrUnknownMethod   = errors.New("unknown normalization method")
)
