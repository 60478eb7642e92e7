package recognize

import (
	"strconv"
	"strings"

	"github.com/chronotext/recur/pkg/recur/rule"
	"github.com/chronotext/recur/pkg/recur/tag"
)

// DayOfMonthHandler recognizes day-of-month forms: "15th of the month",
// "day 10 of the month", "last day of month" (-1), "2nd to last day of
// month" (-2), "first monday of the month" (weekday plus set position)
// and bare ordinal clauses ("1st", produced upstream by conjunction
// splitting). Out-of-range day values reject the whole match; nothing is
// clamped. The base frequency defaults to monthly.
func DayOfMonthHandler() Handler {
	return Handler{
		Name:        "day-of-month",
		Category:    rule.CategoryDayOfMonth,
		Description: "ordinal/cardinal month days, last-day and Nth-weekday forms",
		Priority:    70,
		Recognize:   recognizeDayOfMonth,
	}
}

func recognizeDayOfMonth(doc *tag.Document, _ Env) (*Match, error) {
	if m := matchMonthContext(doc); m != nil {
		return m, nil
	}
	return matchBareOrdinals(doc), nil
}

// matchMonthContext handles clauses that mention "month" explicitly. One
// left-to-right scan collects every day fact in the clause, so compound
// idioms like "first and last day of the month" contribute all their
// values to a single match.
func matchMonthContext(doc *tag.Document) *Match {
	if !doc.HasLiteral("month") {
		return nil
	}

	var (
		monthDays []int
		setPos    []int
		weekdays  []rule.Weekday
		sources   []string
	)

	i := 0
	for i < len(doc.Terms) {
		t := doc.Terms[i]

		// "N to last day ..." counts from the month end.
		if n, ok := ordinalValue(t); ok && n > 0 &&
			doc.LiteralAt(i+1, "to") && canonicalAt(doc, i+2) == "-1" && doc.LiteralAt(i+3, "day") {
			monthDays = append(monthDays, -n)
			sources = append(sources, t.Text+" to last day")
			i += 4
			continue
		}

		// "last day ..." is the final day of the month.
		if t.Canonical == "-1" && doc.LiteralAt(i+1, "day") {
			monthDays = append(monthDays, -1)
			sources = append(sources, t.Text+" day")
			i += 2
			continue
		}

		// "first <weekday>" / "last <weekday>" yields a set position.
		if n, ok := ordinalValue(t); ok {
			if next, exists := doc.At(i + 1); exists &&
				(next.HasTag(tag.WeekDay) || next.HasTag(tag.WeekDayAbbr)) {
				day, parsed := rule.ParseWeekday(next.Canonical)
				if !parsed || !validSetPos(n) {
					return nil
				}
				setPos = append(setPos, n)
				weekdays = append(weekdays, day)
				sources = append(sources, t.Text+" "+next.Text)
				i += 2
				continue
			}
			// A plain ordinal is a month day, unless it belongs to an
			// interval form ("every 3rd month").
			if canonicalAt(doc, i-1) != "every" && n > 0 {
				monthDays = append(monthDays, n)
				sources = append(sources, t.Text)
			}
			i++
			continue
		}

		// "day <N>" names a month day with a cardinal.
		if doc.LiteralAt(i, "day") {
			if next, exists := doc.At(i + 1); exists && next.HasTag(tag.CardinalNumber) &&
				canonicalAt(doc, i-1) != "every" {
				n, err := strconv.Atoi(next.Canonical)
				if err != nil {
					return nil
				}
				monthDays = append(monthDays, n)
				sources = append(sources, t.Text+" "+next.Text)
				i += 2
				continue
			}
		}

		i++
	}

	if len(monthDays) == 0 && len(setPos) == 0 {
		return nil
	}
	for _, d := range monthDays {
		if !rule.ValidMonthDay(d) {
			return nil // fail closed, never clamp
		}
	}

	return &Match{
		Category:   rule.CategoryDayOfMonth,
		Source:     strings.Join(sources, " "),
		Confidence: 1.0,
		Facts: Facts{
			MonthDays:   monthDays,
			SetPos:      setPos,
			Weekdays:    weekdays,
			Freq:        rule.Monthly,
			FreqImplied: true,
		},
	}
}

// matchBareOrdinals handles clauses that are nothing but ordinals and
// filler ("1st", "on the 15th") — typically produced when the splitter
// separated "1st and 15th of every month". The interpretation is assumed,
// so confidence drops and a warning records the assumption.
func matchBareOrdinals(doc *tag.Document) *Match {
	var days []int
	var sources []string

	for _, t := range doc.Terms {
		if n, ok := ordinalValue(t); ok {
			if n <= 0 {
				return nil
			}
			days = append(days, n)
			sources = append(sources, t.Text)
			continue
		}
		switch t.Canonical {
		case "on", "the", "day", "of":
		default:
			return nil
		}
	}

	if len(days) == 0 {
		return nil
	}
	for _, d := range days {
		if !rule.ValidMonthDay(d) {
			return nil
		}
	}

	return &Match{
		Category:   rule.CategoryDayOfMonth,
		Source:     strings.Join(sources, " "),
		Confidence: 0.85,
		Warnings:   []string{"interpreted bare ordinal as day of month"},
		Facts: Facts{
			MonthDays:   days,
			Freq:        rule.Monthly,
			FreqImplied: true,
		},
	}
}

func ordinalValue(t tag.Term) (int, bool) {
	if !t.HasTag(tag.OrdinalNumber) {
		return 0, false
	}
	n, err := strconv.Atoi(t.Canonical)
	if err != nil {
		return 0, false
	}
	return n, true
}

func canonicalAt(doc *tag.Document, i int) string {
	t, ok := doc.At(i)
	if !ok {
		return ""
	}
	return t.Canonical
}

// validSetPos accepts first..fifth occurrence or last (-1).
func validSetPos(n int) bool {
	return n == -1 || (n >= 1 && n <= 5)
}
