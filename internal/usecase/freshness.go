package usecase

import "time"

// IsFresh reports whether a video published at publishedAt is still inside
// the notification window at time now. The boundary is inclusive: a video
// exactly window old is fresh. Both timestamps carry their own offsets, so
// the comparison is timezone-correct.
func IsFresh(publishedAt, now time.Time, window time.Duration) bool {
	return now.Sub(publishedAt) <= window
}
