package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2025-07-01", New(2025, time.July, 1), false},
		{"2025-7-1", New(2025, time.July, 1), false},
		{"01/07/2025", New(2025, time.July, 1), false},
		{"1/7/2025", New(2025, time.July, 1), false},
		{"July 1st", Date{}, true},
		{"", Date{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNewNormalizes(t *testing.T) {
	if got, want := New(2025, time.January, 32), New(2025, time.February, 1); got != want {
		t.Errorf("New(2025, 1, 32) = %v, want %v", got, want)
	}
	if got, want := New(2025, time.March, 31).AddMonth(-1), New(2025, time.March, 3); got != want {
		t.Errorf("AddMonth(-1) = %v, want %v", got, want)
	}
}

func TestJSON(t *testing.T) {
	var d struct {
		On  Date `json:"on"`
		Off Date `json:"off"`
	}
	if err := json.Unmarshal([]byte(`{"on":"2025-09-08","off":""}`), &d); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if d.On != New(2025, time.September, 8) {
		t.Errorf("On = %v, want 2025-09-08", d.On)
	}
	if !d.Off.IsZero() {
		t.Errorf("Off = %v, want zero date", d.Off)
	}
	got, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if want := `{"on":"2025-09-08","off":""}`; string(got) != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}
