package canvss

import "time"

// SimSource generates the test signals used when no CAN interface is
// configured: a vehicle speed ramp and a slowly draining battery.
type SimSource struct {
	interval time.Duration
	lastPoll time.Time
	speed    float64
	soc      float64
}

func NewSimSource(interval time.Duration) *SimSource {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &SimSource{interval: interval, soc: 80.0}
}

// Poll returns the next batch of simulated updates, or nil when called
// before the interval elapsed.
func (s *SimSource) Poll(now time.Time) []Update {
	if !s.lastPoll.IsZero() && now.Sub(s.lastPoll) < s.interval {
		return nil
	}
	s.lastPoll = now

	s.speed += 0.5
	if s.speed > 120.0 {
		s.speed = 0.0
	}
	s.soc -= 0.01
	if s.soc < 10.0 {
		s.soc = 100.0
	}

	return []Update{
		{Signal: "CAN.VehicleSpeed", Value: s.speed, Quality: QualityValid, At: now},
		{Signal: "CAN.BatterySOC", Value: s.soc, Quality: QualityValid, At: now},
	}
}
