package schedule

import (
	"strconv"
	"time"
)

// Day is a school day, Monday through Saturday.
type Day time.Weekday

var dayNames = map[time.Weekday]string{
	time.Monday:    "Понедельник",
	time.Tuesday:   "Вторник",
	time.Wednesday: "Среда",
	time.Thursday:  "Четверг",
	time.Friday:    "Пятница",
	time.Saturday:  "Суббота",
	time.Sunday:    "Воскресенье",
}

// Days lists the school week in order.
func Days() []Day {
	return []Day{
		Day(time.Monday), Day(time.Tuesday), Day(time.Wednesday),
		Day(time.Thursday), Day(time.Friday), Day(time.Saturday),
	}
}

// Name is the Russian day name, also used as the storage key.
func (d Day) Name() string {
	return dayNames[time.Weekday(d)]
}

// Key is the compact form used in button payloads.
func (d Day) Key() string {
	return strconv.Itoa(int(d))
}

// ParseDay accepts a payload produced by Key.
func ParseDay(key string) (Day, bool) {
	n, err := strconv.Atoi(key)
	if err != nil || n < int(time.Monday) || n > int(time.Saturday) {
		return 0, false
	}
	return Day(n), true
}

// DayOf maps a date to its school day. Sunday has none.
func DayOf(date time.Time) (Day, bool) {
	wd := date.Weekday()
	if wd == time.Sunday {
		return 0, false
	}
	return Day(wd), true
}

// WeekdayName names any weekday, Sunday included, for display.
func WeekdayName(date time.Time) string {
	return dayNames[date.Weekday()]
}

// NextSchoolDays returns n consecutive dates starting at from's day, skipping Sundays.
func NextSchoolDays(from time.Time, n int) []time.Time {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	dates := make([]time.Time, 0, n)
	for len(dates) < n {
		if day.Weekday() != time.Sunday {
			dates = append(dates, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return dates
}
