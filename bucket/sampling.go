package bucket

import "math/rand/v2"

// sampler drops instances at random according to their sampling rate.
type sampler struct {
	enabled bool
	field   string
	rng     *rand.Rand
	logger  Logger
}

// filter returns the retained instances in their original order. The input
// slice is reused.
func (s *sampler) filter(window []Instance) (kept []Instance, dropped int) {
	if !s.enabled {
		return window, 0
	}

	kept = window[:0]
	for _, inst := range window {
		if s.keep(inst) {
			kept = append(kept, inst)
		} else {
			dropped++
		}
	}
	// Clear the tail so dropped instances can be collected.
	for i := len(kept); i < len(window); i++ {
		window[i] = nil
	}
	return kept, dropped
}

func (s *sampler) keep(inst Instance) bool {
	raw, ok := inst.Field(s.field)
	if !ok {
		return true
	}
	rate, ok := numeric(raw)
	if !ok {
		s.logger.Debug("Ignoring non-numeric %s of type %T", s.field, raw)
		return true
	}
	return s.rng.Float64() < rate
}

// numeric converts the built-in numeric types to float64.
func numeric(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
