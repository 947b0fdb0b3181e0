package driver

import "time"

//Date is the in buffer layout of a DATE cell, it mirrors the native client ABI,
//fields must stay in declaration order.
type Date struct {
	Year  int16
	Month uint16
	Day   uint16
}

//Clock is the in buffer layout of a TIME cell
type Clock struct {
	Hour   uint16
	Minute uint16
	Second uint16
}

//Timestamp is the in buffer layout of a TIMESTAMP cell, Fraction holds nanoseconds
type Timestamp struct {
	Year     int16
	Month    uint16
	Day      uint16
	Hour     uint16
	Minute   uint16
	Second   uint16
	Fraction uint32
}

//AsTime returns the date at midnight UTC
func (d Date) AsTime() time.Time {
	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day), 0, 0, 0, 0, time.UTC)
}

//AsTime returns the time of day on the zero date
func (c Clock) AsTime() time.Time {
	return time.Date(1, time.January, 1, int(c.Hour), int(c.Minute), int(c.Second), 0, time.UTC)
}

//AsTime returns the timestamp in UTC
func (t Timestamp) AsTime() time.Time {
	return time.Date(int(t.Year), time.Month(t.Month), int(t.Day), int(t.Hour), int(t.Minute), int(t.Second), int(t.Fraction), time.UTC)
}

//NewDate returns a Date for the supplied time
func NewDate(t time.Time) Date {
	return Date{Year: int16(t.Year()), Month: uint16(t.Month()), Day: uint16(t.Day())}
}

//NewClock returns a Clock for the supplied time
func NewClock(t time.Time) Clock {
	return Clock{Hour: uint16(t.Hour()), Minute: uint16(t.Minute()), Second: uint16(t.Second())}
}

//NewTimestamp returns a Timestamp for the supplied time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{
		Year:     int16(t.Year()),
		Month:    uint16(t.Month()),
		Day:      uint16(t.Day()),
		Hour:     uint16(t.Hour()),
		Minute:   uint16(t.Minute()),
		Second:   uint16(t.Second()),
		Fraction: uint32(t.Nanosecond()),
	}
}
