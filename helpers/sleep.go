package helpers

import (
	"math/rand"
	"time"
)

// Jitter pauses for a random duration within a range. The pipeline calls it
// between every browser action so requests never land on a fixed cadence.
type Jitter struct {
	Min   time.Duration
	Max   time.Duration
	sleep func(time.Duration)
}

// NewJitter creates a jitter with the given bounds.
func NewJitter(min, max time.Duration) *Jitter {
	return &Jitter{Min: min, Max: max, sleep: time.Sleep}
}

// NewFakeJitter creates a jitter that records pauses instead of sleeping.
func NewFakeJitter(record func(time.Duration)) *Jitter {
	return &Jitter{sleep: record}
}

// Pause sleeps for a uniformly random duration in [Min, Max].
func (j *Jitter) Pause() {
	d := j.Min
	if span := j.Max - j.Min; span > 0 {
		d += time.Duration(rand.Int63n(int64(span) + 1))
	}
	j.sleep(d)
}
