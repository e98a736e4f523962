// Package mediainspect reads playing time from ISO base media files (mp4, mov, m4v).
package mediainspect

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"time"

	gomp4 "github.com/abema/go-mp4"
)

var (
	ErrNoMovieHeader = errors.New("mediainspect: moov/mvhd box not found")
	ErrMalformed     = errors.New("mediainspect: malformed box")
)

// maxSeconds is the longest whole-second span a time.Duration can hold.
const maxSeconds = uint64(math.MaxInt64 / int64(time.Second))

// MP4 reads the movie header (moov/mvhd) duration.
type MP4 struct{}

func (MP4) Duration(data []byte) (time.Duration, error) {
	info, err := gomp4.Probe(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if info.Timescale == 0 {
		return 0, ErrNoMovieHeader
	}
	return toDuration(info.Duration, uint64(info.Timescale))
}

func toDuration(units, timescale uint64) (time.Duration, error) {
	secs := units / timescale
	if secs >= maxSeconds {
		return 0, ErrMalformed
	}
	rem := units % timescale
	frac := time.Duration(float64(rem) / float64(timescale) * float64(time.Second))
	return time.Duration(secs)*time.Second + frac, nil
}
