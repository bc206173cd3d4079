package metrics

import (
	"math"

	"github.com/san-kum/motion/internal/motion"
)

// SettleTime is the time of the last sample where key was farther than band
// from its target. After that time the value stays within the band.
type SettleTime struct {
	name        string
	key         string
	to          float64
	band        float64
	lastOutside float64
	samples     int
}

func NewSettleTime(key string, to, band float64) *SettleTime {
	return &SettleTime{
		name: "settle_time_" + key,
		key:  key,
		to:   to,
		band: band,
	}
}

func (s *SettleTime) Name() string {
	return s.name
}

func (s *SettleTime) Observe(st motion.State, t float64) {
	s.samples++
	if math.Abs(st.CurrentStyle[s.key]-s.to) > s.band {
		s.lastOutside = t
	}
}

// Value returns NaN before any sample has been observed.
func (s *SettleTime) Value() float64 {
	if s.samples == 0 {
		return math.NaN()
	}
	return s.lastOutside
}

func (s *SettleTime) Reset() {
	s.lastOutside = 0
	s.samples = 0
}
