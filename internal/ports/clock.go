package ports

import "time"

type Clock interface {
	Now() time.Time
}

// SystemClock reports the current wall time in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
