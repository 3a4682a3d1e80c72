// Package reltime formats timestamps as relative phrases ("5 минут
// назад", "2 hours ago") with correct pluralization per language.
package reltime

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// supported lists the languages we ship phrases for. The matcher falls
// back to the first entry for anything unrecognized.
var supported = []language.Tag{
	language.Russian, // Default
	language.English,
}

var matcher = language.NewMatcher(supported)

// Formatter renders relative time phrases for one language.
type Formatter struct {
	russian bool
}

// New creates a formatter for the given BCP 47 language tag.
// Unknown or malformed tags fall back to Russian.
func New(lang string) *Formatter {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Russian
	}
	_, index, _ := matcher.Match(tag)
	return &Formatter{russian: supported[index] == language.Russian}
}

// unit holds the three Russian plural forms (one, few, many) and the
// English singular for one time bucket.
type unit struct {
	ru [3]string
	en string
}

var units = struct {
	minute, hour, day, week, month, year unit
}{
	minute: unit{ru: [3]string{"минуту", "минуты", "минут"}, en: "minute"},
	hour:   unit{ru: [3]string{"час", "часа", "часов"}, en: "hour"},
	day:    unit{ru: [3]string{"день", "дня", "дней"}, en: "day"},
	week:   unit{ru: [3]string{"неделю", "недели", "недель"}, en: "week"},
	month:  unit{ru: [3]string{"месяц", "месяца", "месяцев"}, en: "month"},
	year:   unit{ru: [3]string{"год", "года", "лет"}, en: "year"},
}

// pluralIndex picks the Russian plural form: 0 for one, 1 for few
// (2-4), 2 for many. 11-14 are always many regardless of last digit.
func pluralIndex(n int) int {
	if n%100 >= 11 && n%100 <= 14 {
		return 2
	}
	switch {
	case n%10 == 1:
		return 0
	case n%10 >= 2 && n%10 <= 4:
		return 1
	default:
		return 2
	}
}

// phrase renders "n <unit> ago" in the formatter's language.
func (f *Formatter) phrase(n int, u unit) string {
	if f.russian {
		return fmt.Sprintf("%d %s назад", n, u.ru[pluralIndex(n)])
	}
	if n == 1 {
		return fmt.Sprintf("1 %s ago", u.en)
	}
	return fmt.Sprintf("%d %ss ago", n, u.en)
}

// justNow is the phrase for elapsed time under a minute.
func (f *Formatter) justNow() string {
	if f.russian {
		return "только что"
	}
	return "just now"
}

// Ago formats the elapsed time between t and now as a relative phrase.
// Future timestamps render as "just now".
func (f *Formatter) Ago(t, now time.Time) string {
	elapsed := now.Sub(t)
	if elapsed < 0 {
		elapsed = 0
	}

	const (
		day  = 24 * time.Hour
		week = 7 * day
	)

	switch {
	case elapsed < time.Minute:
		return f.justNow()
	case elapsed < time.Hour:
		return f.phrase(int(elapsed/time.Minute), units.minute)
	case elapsed < day:
		return f.phrase(int(elapsed/time.Hour), units.hour)
	case elapsed < week:
		return f.phrase(int(elapsed/day), units.day)
	case elapsed < 30*day:
		return f.phrase(int(elapsed/week), units.week)
	case elapsed < 365*day:
		return f.phrase(int(elapsed/(30*day)), units.month)
	default:
		return f.phrase(int(elapsed/(365*day)), units.year)
	}
}
