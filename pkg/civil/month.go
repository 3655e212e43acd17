package civil

import (
	"fmt"
	"time"
)

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func MonthOf(d Date) Month { return Month{Year: d.Year, Month: d.Month} }

func (m Month) String() string { return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)) }

func (m Month) First() Date { return Date{Year: m.Year, Month: m.Month, Day: 1} }

// Last is the day before the first day of the next month, so month
// lengths and leap years come from the calendar itself.
func (m Month) Last() Date { return m.Next().First().AddDays(-1) }

func (m Month) Next() Month {
	d := Date{Year: m.Year, Month: m.Month + 1, Day: 1}.AddDays(0)
	return MonthOf(d)
}

func (m Month) Contains(d Date) bool {
	return !d.Before(m.First()) && !d.After(m.Last())
}

func (m Month) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Month) UnmarshalText(b []byte) error {
	v, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
