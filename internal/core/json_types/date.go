package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04"
	dateTimeLayout = "2006-01-02 15:04:05"
)

func parseDate(str string) (time.Time, error) {
	// Сервис бронирования отдает даты без таймзоны
	parsedDate, err := time.Parse(dateLayout, str)
	if err != nil {
		// Если не удалось, пробуем дату со временем
		parsedDate, err = time.Parse(dateTimeLayout, str)
		if err != nil {
			parsedDate, err = time.Parse(time.RFC3339, str)
			if err != nil {
				return time.Time{}, fmt.Errorf("failed to parse date: %v", err)
			}
		}
	}

	return parsedDate, nil
}

// Date - календарная дата вида "2024-02-10"
type Date struct {
	Date time.Time
}

// ParseDate разбирает строку даты из внешнего запроса
func ParseDate(str string) (Date, error) {
	parsedDate, err := parseDate(str)
	if err != nil {
		return Date{}, err
	}
	return NewDate(parsedDate), nil
}

func NewDate(t time.Time) Date {
	return Date{Date: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (t *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	// Убираем кавычки вокруг строки
	str := string(data[1 : len(data)-1])

	parsedDate, err := parseDate(str)
	if err != nil {
		return err
	}

	// Каноническое представление - полночь UTC, чтобы даты
	// сравнивались напрямую независимо от источника
	*t = NewDate(parsedDate)
	return nil
}

func (t Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Date.Format(dateLayout))
}

func (t Date) String() string {
	return t.Date.Format(dateLayout)
}

func (t Date) IsZero() bool {
	return t.Date.IsZero()
}

func (t Date) Equal(other Date) bool {
	return t.String() == other.String()
}

// TimeOfDay - время слота вида "09:00"
type TimeOfDay struct {
	Time time.Time
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	str := string(data[1 : len(data)-1])

	parsedTime, err := time.Parse(timeLayout, str)
	if err != nil {
		// Бэкенд иногда отдает секунды
		parsedTime, err = time.Parse("15:04:05", str)
		if err != nil {
			return fmt.Errorf("failed to parse time of day: %v", err)
		}
	}

	*t = TimeOfDay{Time: parsedTime}
	return nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(timeLayout))
}

func (t TimeOfDay) String() string {
	return t.Time.Format(timeLayout)
}

// DateTime - метка времени вида "2024-02-04 15:30:00"
type DateTime struct {
	Date time.Time
}

func (t *DateTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	str := string(data[1 : len(data)-1])

	parsedDate, err := parseDate(str)
	if err != nil {
		return err
	}

	*t = DateTime{Date: parsedDate}
	return nil
}

func (t DateTime) MarshalJSON() ([]byte, error) {
	if t.Date.IsZero() {
		return json.Marshal(nil)
	}

	return json.Marshal(t.Date.Format(dateTimeLayout))
}
