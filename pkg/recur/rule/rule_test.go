package rule

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseFrequency(t *testing.T) {
	cases := map[string]Frequency{
		"daily":    Daily,
		"weekly":   Weekly,
		"monthly":  Monthly,
		"yearly":   Yearly,
		"annually": Yearly,
		" Weekly ": Weekly,
	}
	for in, want := range cases {
		got, ok := ParseFrequency(in)
		if !ok || got != want {
			t.Errorf("ParseFrequency(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParseFrequency("hourly"); ok {
		t.Error("ParseFrequency(hourly) should fail")
	}
}

func TestParseWeekday(t *testing.T) {
	got, ok := ParseWeekday("friday")
	if !ok || got != Friday {
		t.Errorf("ParseWeekday(friday) = %v, %v", got, ok)
	}
	if _, ok := ParseWeekday("someday"); ok {
		t.Error("ParseWeekday(someday) should fail")
	}
}

func TestFrequencyJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Monthly)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"monthly"` {
		t.Errorf("Marshal = %s", data)
	}

	var f Frequency
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatal(err)
	}
	if f != Monthly {
		t.Errorf("Unmarshal = %v", f)
	}
}

func TestWeekdayJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal([]Weekday{Monday, Friday})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["monday","friday"]` {
		t.Errorf("Marshal = %s", data)
	}

	var days []Weekday
	if err := json.Unmarshal(data, &days); err != nil {
		t.Fatal(err)
	}
	if len(days) != 2 || days[0] != Monday || days[1] != Friday {
		t.Errorf("Unmarshal = %v", days)
	}
}

func TestAddWeekdaysDeduplicatesAndSorts(t *testing.T) {
	var r Rule
	r.AddWeekdays(Friday, Monday)
	r.AddWeekdays(Monday, Wednesday)

	want := []Weekday{Monday, Wednesday, Friday}
	if len(r.ByWeekday) != len(want) {
		t.Fatalf("ByWeekday = %v", r.ByWeekday)
	}
	for i := range want {
		if r.ByWeekday[i] != want[i] {
			t.Errorf("ByWeekday = %v, want %v", r.ByWeekday, want)
			break
		}
	}
}

func TestAddMonthDaysDeduplicatesAndSorts(t *testing.T) {
	var r Rule
	r.AddMonthDays(15, 1)
	r.AddMonthDays(15, -1)

	want := []int{-1, 1, 15}
	if len(r.ByMonthDay) != len(want) {
		t.Fatalf("ByMonthDay = %v", r.ByMonthDay)
	}
	for i := range want {
		if r.ByMonthDay[i] != want[i] {
			t.Errorf("ByMonthDay = %v, want %v", r.ByMonthDay, want)
			break
		}
	}
}

func TestValidMonthDay(t *testing.T) {
	for _, d := range []int{1, 15, 31, -1, -31} {
		if !ValidMonthDay(d) {
			t.Errorf("ValidMonthDay(%d) = false", d)
		}
	}
	for _, d := range []int{0, 32, -32, 100} {
		if ValidMonthDay(d) {
			t.Errorf("ValidMonthDay(%d) = true", d)
		}
	}
}

func TestRecognized(t *testing.T) {
	if (Rule{}).Recognized() {
		t.Error("Zero rule should not report recognized")
	}
	if !(Rule{MatchedPatterns: []string{"frequency"}}).Recognized() {
		t.Error("Rule with matches should report recognized")
	}
}

func TestCloneIsDeep(t *testing.T) {
	until := time.Date(2022, time.December, 31, 0, 0, 0, 0, time.UTC)
	orig := Rule{
		Freq:            Weekly,
		Interval:        2,
		ByWeekday:       []Weekday{Monday},
		ByMonthDay:      []int{15},
		BySetPos:        []int{1},
		Until:           &until,
		Confidence:      1,
		MatchedPatterns: []string{"day-of-week"},
		Warnings:        []string{"w"},
	}

	clone := orig.Clone()
	clone.AddWeekdays(Friday)
	clone.ByMonthDay[0] = 99
	*clone.Until = until.AddDate(1, 0, 0)
	clone.Warnings[0] = "changed"

	if len(orig.ByWeekday) != 1 {
		t.Errorf("Original weekdays mutated: %v", orig.ByWeekday)
	}
	if orig.ByMonthDay[0] != 15 {
		t.Errorf("Original month days mutated: %v", orig.ByMonthDay)
	}
	if !orig.Until.Equal(until) {
		t.Errorf("Original until mutated: %v", orig.Until)
	}
	if orig.Warnings[0] != "w" {
		t.Errorf("Original warnings mutated: %v", orig.Warnings)
	}
}
