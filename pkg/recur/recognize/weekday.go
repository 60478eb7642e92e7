package recognize

import (
	"strings"

	"github.com/chronotext/recur/pkg/recur/rule"
	"github.com/chronotext/recur/pkg/recur/tag"
)

// DayOfWeekHandler recognizes explicit day names ("every monday"),
// abbreviations, pluralized recurring days ("mondays", rewritten upstream
// by NormalizeDayNames) and day groups ("weekday", "weekend"). All days
// found in the clause contribute to one weekday set; the base frequency
// defaults to weekly.
func DayOfWeekHandler() Handler {
	return Handler{
		Name:        "day-of-week",
		Category:    rule.CategoryDayOfWeek,
		Description: "day names, abbreviations and weekday/weekend groups",
		Priority:    60,
		Recognize:   recognizeDayOfWeek,
	}
}

func recognizeDayOfWeek(doc *tag.Document, _ Env) (*Match, error) {
	var days []rule.Weekday
	var sources []string

	for _, t := range doc.Terms {
		switch {
		case t.HasTag(tag.WeekDay), t.HasTag(tag.WeekDayAbbr), t.HasTag(tag.PluralWeekDay):
			day, ok := rule.ParseWeekday(t.Canonical)
			if !ok {
				continue
			}
			days = append(days, day)
			sources = append(sources, t.Text)
		case t.HasTag(tag.DayGroup):
			days = append(days, expandDayGroup(t.Canonical)...)
			sources = append(sources, t.Text)
		}
	}

	if len(days) == 0 {
		return nil, nil
	}
	return &Match{
		Category:   rule.CategoryDayOfWeek,
		Source:     strings.Join(sources, " "),
		Confidence: 1.0,
		Facts: Facts{
			Weekdays:    days,
			Freq:        rule.Weekly,
			FreqImplied: true,
		},
	}, nil
}

func expandDayGroup(canonical string) []rule.Weekday {
	switch canonical {
	case "weekday":
		return []rule.Weekday{rule.Monday, rule.Tuesday, rule.Wednesday, rule.Thursday, rule.Friday}
	case "weekend":
		return []rule.Weekday{rule.Saturday, rule.Sunday}
	}
	return nil
}
