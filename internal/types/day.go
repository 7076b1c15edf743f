// Package types implements calendar types for the ledger.
package types

import (
	"database/sql"
	"database/sql/driver"
	"regexp"
	"strings"
	"time"
)

var fullDate = regexp.MustCompile("^[0-9]{4}-[0-9]{2}-[0-9]{2}$")

// Day is a calendar day. It is always midnight UTC.
type Day time.Time

// NewDay returns a new Day.
func NewDay(year int, month time.Month, day int) Day {
	return Day(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DayOf returns the UTC calendar day that t falls on. The time of day is discarded.
func DayOf(t time.Time) Day {
	year, month, day := t.UTC().Date()
	return NewDay(year, month, day)
}

// ParseDay parses a "2006-01-02" or RFC3339 string and returns the UTC Day it falls on.
func ParseDay(s string) (Day, error) {
	pattern := time.RFC3339Nano
	if fullDate.MatchString(s) {
		pattern = "2006-01-02"
	}

	t, err := time.Parse(pattern, s)
	if err != nil {
		return Day{}, err
	}

	return DayOf(t), nil
}

// DaysIn returns the number of days in the month of the year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Time returns the Day as midnight UTC.
func (d Day) Time() time.Time {
	return time.Time(d)
}

// Year returns the year of the day.
func (d Day) Year() int {
	return time.Time(d).Year()
}

// MonthIndex returns the month of the day as a zero-based index, January is 0.
func (d Day) MonthIndex() int {
	return int(time.Time(d).Month()) - 1
}

// DayOfMonth returns the day of the month, starting at 1.
func (d Day) DayOfMonth() int {
	return time.Time(d).Day()
}

// IsZero reports if the day is the zero value.
func (d Day) IsZero() bool {
	return time.Time(d).IsZero()
}

// Before reports whether d is before e.
func (d Day) Before(e Day) bool {
	return time.Time(d).Before(time.Time(e))
}

// Equal reports whether d and e are the same day.
func (d Day) Equal(e Day) bool {
	return time.Time(d).Equal(time.Time(e))
}

// String returns the day formatted as YYYY-MM-DD.
func (d Day) String() string {
	return time.Time(d).Format("2006-01-02")
}

// MarshalJSON implements the json.Marshaler interface.
func (d Day) MarshalJSON() ([]byte, error) {
	return time.Time(d).MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Everything but the UTC calendar day of the parsed value is ignored.
func (d *Day) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	return d.UnmarshalParam(value)
}

// UnmarshalParam binds query string and URI parameters.
func (d *Day) UnmarshalParam(p string) error {
	if p == "" {
		*d = Day{}
		return nil
	}

	day, err := ParseDay(p)
	if err != nil {
		return err
	}

	*d = day
	return nil
}

// Scan writes the value from the database.
func (d *Day) Scan(value interface{}) (err error) {
	nullTime := &sql.NullTime{}
	err = nullTime.Scan(value)
	*d = DayOf(nullTime.Time)
	return err
}

// Value returns the value for the SQL driver to write to the database.
func (d Day) Value() (driver.Value, error) {
	return time.Time(DayOf(time.Time(d))), nil
}

// GormDataType defines the data type used by gorm for the type.
func (Day) GormDataType() string {
	return "date"
}
