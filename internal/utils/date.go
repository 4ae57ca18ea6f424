package utils

import (
	"time"

	"github.com/suchimauz/hospital-booking-engine/internal/core/json_types"
)

func StartCurrentDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateHorizon возвращает ближайшие days дат начиная с сегодняшней.
// Лента дат на лендинге - 30 дней, в поиске по врачу - 7.
func DateHorizon(from time.Time, days int) []json_types.Date {
	dates := make([]json_types.Date, 0, days)
	start := StartCurrentDay(from)

	for i := 0; i < days; i++ {
		dates = append(dates, json_types.NewDate(start.AddDate(0, 0, i)))
	}

	return dates
}

// WithinHorizon - попадает ли дата в горизонт от from
func WithinHorizon(date json_types.Date, from time.Time, days int) bool {
	start := StartCurrentDay(from)
	end := start.AddDate(0, 0, days)

	d := date.Date
	return !d.Before(start) && d.Before(end)
}
