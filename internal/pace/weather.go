package pace

// Conditions describes race-day weather.
type Conditions struct {
	TemperatureC float64
	HumidityPct  float64
	WindKmh      float64
}

// Factor returns the multiplicative slowdown for the conditions.
func (c Conditions) Factor() float64 {
	factor := 1.0
	if c.TemperatureC > 20 {
		factor += (c.TemperatureC - 20) * 0.0038
	}
	if c.TemperatureC < 10 {
		factor += (10 - c.TemperatureC) * 0.002
	}
	if c.HumidityPct > 60 {
		factor += (c.HumidityPct - 60) * 0.001
	}
	if c.WindKmh > 0 {
		factor += c.WindKmh * 0.002
	}
	return factor
}
