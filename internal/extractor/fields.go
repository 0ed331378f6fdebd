package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ironsheep/zwift-ocr/internal/regions"
	"github.com/ironsheep/zwift-ocr/internal/telemetry"
)

// Preprocessing defaults for numeric fields.
const (
	DefaultThreshold uint8 = 200
	DefaultScale           = 3
)

const digits = "0123456789"

// fieldSpec describes how one numeric HUD field is read.
type fieldSpec struct {
	name      string
	whitelist string
	threshold uint8
	scale     int

	// assign parses cleaned text into td and reports whether it succeeded.
	assign func(td *telemetry.TelemetryData, text string) bool
}

// numericFields lists the nine numeric fields in output order.
var numericFields = []fieldSpec{
	{name: regions.Speed, whitelist: digits, assign: func(td *telemetry.TelemetryData, s string) bool {
		td.Speed = parseUint(s)
		return td.Speed != nil
	}},
	{name: regions.Distance, whitelist: digits + ".", assign: func(td *telemetry.TelemetryData, s string) bool {
		td.Distance = parseFloat(s)
		return td.Distance != nil
	}},
	{name: regions.Altitude, whitelist: digits + "-", assign: func(td *telemetry.TelemetryData, s string) bool {
		td.Altitude = parseInt(s)
		return td.Altitude != nil
	}},
	{name: regions.RaceTime, whitelist: digits + ":", assign: func(td *telemetry.TelemetryData, s string) bool {
		td.RaceTime = ParseRaceTime(s)
		return td.RaceTime != nil
	}},
	{name: regions.Power, whitelist: digits, assign: func(td *telemetry.TelemetryData, s string) bool {
		td.Power = parseUint(s)
		return td.Power != nil
	}},
	{name: regions.Cadence, whitelist: digits, assign: func(td *telemetry.TelemetryData, s string) bool {
		td.Cadence = parseUint(s)
		return td.Cadence != nil
	}},
	{name: regions.HeartRate, whitelist: digits, assign: func(td *telemetry.TelemetryData, s string) bool {
		td.HeartRate = parseUint(s)
		return td.HeartRate != nil
	}},
	{name: regions.Gradient, whitelist: digits + "-.%", threshold: 150, scale: 4, assign: func(td *telemetry.TelemetryData, s string) bool {
		td.Gradient = parseFloat(strings.TrimSuffix(s, "%"))
		return td.Gradient != nil
	}},
	{name: regions.DistanceToFinish, whitelist: digits + ".", threshold: 150, assign: func(td *telemetry.TelemetryData, s string) bool {
		td.DistanceToFinish = parseFloat(s)
		return td.DistanceToFinish != nil
	}},
}

func (f fieldSpec) params() (uint8, int) {
	threshold, scale := f.threshold, f.scale
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if scale == 0 {
		scale = DefaultScale
	}
	return threshold, scale
}

// clean keeps only whitelisted characters. Race time is trimmed instead so
// that ParseRaceTime sees the recognizer's colon placement.
func (f fieldSpec) clean(raw string) string {
	if f.name == regions.RaceTime {
		return strings.TrimSpace(raw)
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(f.whitelist, r) {
			return r
		}
		return -1
	}, raw)
}

func parseUint(s string) *uint32 {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil
	}
	return telemetry.Ptr(uint32(v))
}

func parseInt(s string) *int32 {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return nil
	}
	return telemetry.Ptr(int32(v))
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return telemetry.Ptr(v)
}

var raceTimePattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// ParseRaceTime normalizes recognized race-clock text. "MM:SS" and "M:SS"
// pass through unchanged. Otherwise the digits are regrouped by position:
// four digits become "12:34" and three become "5:23". Anything else is nil.
func ParseRaceTime(text string) *string {
	t := strings.TrimSpace(text)
	if raceTimePattern.MatchString(t) {
		return &t
	}

	d := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, t)
	switch len(d) {
	case 4:
		return telemetry.Ptr(d[:2] + ":" + d[2:])
	case 3:
		return telemetry.Ptr(d[:1] + ":" + d[1:])
	}
	return nil
}
