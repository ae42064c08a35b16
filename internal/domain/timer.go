package domain

import "time"

// measure runs fn and reports how long it took. The deferred stop records
// the elapsed time even when fn panics.
func measure(fn func() error) (elapsed time.Duration, err error) {
	start := time.Now()
	defer func() {
		elapsed = time.Since(start)
	}()

	err = fn()
	return elapsed, err
}

func durationToMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
