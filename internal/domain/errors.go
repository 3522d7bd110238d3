package domain

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoSnapshots      = errors.New("no snapshot files found")
	ErrDataFlagPair     = errors.New("need both --old-data and --new-data, or neither")
)
