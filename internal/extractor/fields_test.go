package extractor

import (
	"strings"
	"testing"

	"github.com/ironsheep/zwift-ocr/internal/regions"
	"github.com/ironsheep/zwift-ocr/internal/telemetry"
)

func TestParseRaceTime(t *testing.T) {
	tests := []struct {
		in   string
		want string // empty means nil
	}{
		{"12:34", "12:34"},
		{"5:23", "5:23"},
		{" 59:59\n", "59:59"},
		{"1234", "12:34"},
		{"523", "5:23"},
		{"12.34", "12:34"},
		{"1:2:3", "1:23"},
		{"12", ""},
		{"12345", ""},
		{"", ""},
		{"ab:cd", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseRaceTime(tt.in)
			switch {
			case tt.want == "" && got != nil:
				t.Errorf("ParseRaceTime(%q) = %q, want nil", tt.in, *got)
			case tt.want != "" && got == nil:
				t.Errorf("ParseRaceTime(%q) = nil, want %q", tt.in, tt.want)
			case tt.want != "" && *got != tt.want:
				t.Errorf("ParseRaceTime(%q) = %q, want %q", tt.in, *got, tt.want)
			}
		})
	}
}

func TestParseRaceTime_Identity(t *testing.T) {
	for m := 0; m < 60; m += 7 {
		for s := 0; s < 60; s += 11 {
			in := strings.Join([]string{itoa2(m), itoa2(s)}, ":")
			if got := ParseRaceTime(in); got == nil || *got != in {
				t.Fatalf("ParseRaceTime(%q) should return its input", in)
			}
		}
	}
}

func itoa2(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}

func TestFieldSpecs(t *testing.T) {
	if len(numericFields) != 9 {
		t.Fatalf("expected 9 numeric fields, got %d", len(numericFields))
	}

	params := map[string][2]int{}
	whitelists := map[string]string{}
	for _, spec := range numericFields {
		th, sc := spec.params()
		params[spec.name] = [2]int{int(th), sc}
		whitelists[spec.name] = spec.whitelist
	}

	if got := params[regions.Speed]; got != [2]int{200, 3} {
		t.Errorf("speed params = %v, want [200 3]", got)
	}
	if got := params[regions.DistanceToFinish]; got != [2]int{150, 3} {
		t.Errorf("distance_to_finish params = %v, want [150 3]", got)
	}
	if got := params[regions.Gradient]; got != [2]int{150, 4} {
		t.Errorf("gradient params = %v, want [150 4]", got)
	}
	if got := whitelists[regions.Gradient]; got != "0123456789-.%" {
		t.Errorf("gradient whitelist = %q", got)
	}
}

func TestFieldClean(t *testing.T) {
	byName := map[string]fieldSpec{}
	for _, spec := range numericFields {
		byName[spec.name] = spec
	}

	tests := []struct {
		field, raw, want string
	}{
		{regions.Speed, "3 5km/h", "35"},
		{regions.Gradient, " -4%\n", "-4%"},
		{regions.Distance, "12,5.0", "125.0"},
		{regions.RaceTime, " 12:34 \n", "12:34"},
	}
	for _, tt := range tests {
		if got := byName[tt.field].clean(tt.raw); got != tt.want {
			t.Errorf("%s clean(%q) = %q, want %q", tt.field, tt.raw, got, tt.want)
		}
	}
}

func TestFieldAssign(t *testing.T) {
	byName := map[string]fieldSpec{}
	for _, spec := range numericFields {
		byName[spec.name] = spec
	}

	var td telemetry.TelemetryData
	if !byName[regions.Altitude].assign(&td, "-12") || *td.Altitude != -12 {
		t.Error("altitude should accept negative values")
	}
	if byName[regions.Power].assign(&td, "-12") {
		t.Error("power should reject negative values")
	}
	if byName[regions.HeartRate].assign(&td, "99999999999") {
		t.Error("heart rate should reject values beyond uint32")
	}
	if !byName[regions.Gradient].assign(&td, "7%") || *td.Gradient != 7 {
		t.Error("gradient should strip the percent sign")
	}
	if byName[regions.Distance].assign(&td, "") {
		t.Error("empty distance should be absent")
	}
}
