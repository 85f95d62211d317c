package history

import "time"

// SetClock overrides the timestamp source for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}
