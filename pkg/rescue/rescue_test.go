package rescue

import (
	"encoding/json"
	"testing"
)

func TestValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		jsonData  string
		expectErr bool
		number    float64
		clock     bool
	}{
		{name: "plain number", jsonData: `42.5`, number: 42.5},
		{name: "numeric string", jsonData: `"17"`, number: 17},
		{name: "clock string", jsonData: `"01:30:00"`, number: 90, clock: true},
		{name: "clock with seconds", jsonData: `"00:00:30"`, number: 0.5, clock: true},
		{name: "garbage string", jsonData: `"abc"`, expectErr: true},
		{name: "object", jsonData: `{}`, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			err := json.Unmarshal([]byte(tt.jsonData), &v)
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Float() != tt.number {
				t.Errorf("expected %v, got %v", tt.number, v.Float())
			}
			if v.IsClock() != tt.clock {
				t.Errorf("expected IsClock=%v, got %v", tt.clock, v.IsClock())
			}
		})
	}
}

func TestValue_MarshalRoundTrip(t *testing.T) {
	v := ClockValue("02:15:00")
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"02:15:00"` {
		t.Errorf("expected clock string preserved, got %s", data)
	}

	n := NumberValue(80)
	data, err = json.Marshal(n)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != "80" {
		t.Errorf("expected 80, got %s", data)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		clock     string
		minutes   float64
		expectErr bool
	}{
		{clock: "00:00:00", minutes: 0},
		{clock: "01:00:00", minutes: 60},
		{clock: "00:45:30", minutes: 45.5},
		{clock: "10:05:00", minutes: 605},
		{clock: "00:75:00", expectErr: true},
		{clock: "nonsense", expectErr: true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.clock)
		if tt.expectErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error", tt.clock)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): %v", tt.clock, err)
			continue
		}
		if got != tt.minutes {
			t.Errorf("ParseClock(%q) = %v, want %v", tt.clock, got, tt.minutes)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(90); got != "01:30:00" {
		t.Errorf("FormatClock(90) = %q", got)
	}
	if got := FormatClock(45.5); got != "00:45:30" {
		t.Errorf("FormatClock(45.5) = %q", got)
	}
	if got := FormatClock(-3); got != "00:00:00" {
		t.Errorf("negative minutes should clamp to zero, got %q", got)
	}
}

func TestTimerDiscriminator_Validate(t *testing.T) {
	tests := []struct {
		name      string
		disc      TimerDiscriminator
		expectErr bool
	}{
		{name: "constant", disc: TimerDiscriminator{Kind: KindValue, Min: 5, Max: 5}},
		{name: "constant mismatch", disc: TimerDiscriminator{Kind: KindValue, Min: 5, Max: 7}, expectErr: true},
		{name: "range", disc: TimerDiscriminator{Kind: KindRange, Min: -2, Max: 3}},
		{name: "range inverted", disc: TimerDiscriminator{Kind: KindRange, Min: 3, Max: -2}, expectErr: true},
		{name: "unknown kind", disc: TimerDiscriminator{Kind: "exp"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.disc.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected error, got none")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
