package wire

import "github.com/fudgemsg/fudge-go/errs"

// Accuracy is the granularity carried alongside a TIME or DATETIME payload.
type Accuracy uint8

// Accuracy levels, narrowest bit pattern first (coarsest first).
const (
	AccuracyYear Accuracy = iota
	AccuracyMonth
	AccuracyDay
	AccuracyHour
	AccuracyMinute
	AccuracySecond
	AccuracyMillisecond
	AccuracyMicrosecond
	AccuracyNanosecond
)

func (a Accuracy) valid() bool { return a <= AccuracyNanosecond }

// CoarserThanDay reports whether a is YEAR, MONTH or DAY granularity — i.e.
// too coarse to carry a meaningful time-of-day component.
func (a Accuracy) CoarserThanDay() bool { return a <= AccuracyDay }

// Date is the in-memory representation of the 4-byte DATE wire payload:
// a packed (year, month, day) triple. Month 0 means "no month"; day 0 means
// "no day"; the sentinel pair (month=15, day=31) marks the min/max dates.
type Date struct {
	Year  int32 // signed, [-2^22, 2^22-1]
	Month uint8 // 0 ("no month") or 1..12, 15 used only in the MIN/MAX sentinel
	Day   uint8 // 0 ("no day") or 1..31
}

// MonthSentinel and DaySentinel together encode the MIN/MAX date sentinel
// described in §4.11.
const (
	MonthSentinel uint8 = 15
	DaySentinel   uint8 = 31

	minYear = -(1 << 22)
	maxYear = (1 << 22) - 1
)

// NewDate validates and constructs a Date using the stricter of the two
// historical constructors (per the Open Question resolution in
// SPEC_FULL.md §F): year must be non-zero and in range, month must be
// 0..12, day must be 0..31. Use ParseDate to read a Date directly off the
// wire without this validation, since the wire format is read leniently.
func NewDate(year int32, month, day uint8) (Date, error) {
	if year == 0 {
		return Date{}, errs.ErrInvalidDateYear
	}
	if year < minYear || year > maxYear {
		return Date{}, errs.ErrInvalidDateYear
	}
	if month > 12 {
		return Date{}, errs.ErrInvalidDateMonth
	}
	if day > 31 {
		return Date{}, errs.ErrInvalidDateDay
	}

	return Date{Year: year, Month: month, Day: day}, nil
}

// MinDate and MaxDate are the sentinel dates described in §4.11: the widest
// representable year combined with the month/day sentinel pair.
func MinDate() Date { return Date{Year: minYear, Month: MonthSentinel, Day: DaySentinel} }
func MaxDate() Date { return Date{Year: maxYear, Month: MonthSentinel, Day: DaySentinel} }

// Pack encodes d into its 4-byte wire representation:
// (year<<9) | ((month&0x0F)<<5) | (day&0x1F).
func (d Date) Pack() int32 {
	return (d.Year << 9) | (int32(d.Month&0x0F) << 5) | int32(d.Day&0x1F)
}

// ParseDate decodes a packed 4-byte DATE payload leniently: no validation
// is applied, since a value already on the wire is accepted as-is (the
// Open Question resolution: strict on construction, lenient on read).
func ParseDate(packed int32) Date {
	day := uint8(packed & 0x1F)
	month := uint8((packed >> 5) & 0x0F)
	year := packed >> 9 // arithmetic shift sign-extends

	return Date{Year: year, Month: month, Day: day}
}

// Time is the in-memory representation of the 8-byte TIME wire payload.
type Time struct {
	Accuracy  Accuracy
	Seconds   int32 // seconds since midnight, 0..86399
	Nanos     int32 // sub-second component; see §4.11 and DESIGN.md for its 24-bit wire range
	HasOffset bool
	// OffsetQuarterHours is the UTC offset in multiples of 15 minutes.
	// Meaningless when HasOffset is false (wire sentinel -128).
	OffsetQuarterHours int8
}

const (
	noOffsetSentinel = -128
	maxNanos24       = 1<<24 - 1
)

// NewTime validates and constructs a Time. Seconds and Nanos must be
// non-negative; Nanos must fit in the wire format's 24-bit field.
func NewTime(accuracy Accuracy, seconds, nanos int32, offsetQuarterHours int8, hasOffset bool) (Time, error) {
	if !accuracy.valid() {
		return Time{}, errs.ErrInvalidAccuracy
	}
	if seconds < 0 {
		return Time{}, errs.ErrNegativeSeconds
	}
	if nanos < 0 {
		return Time{}, errs.ErrNegativeNanos
	}
	if nanos > maxNanos24 {
		return Time{}, errs.ErrNegativeNanos
	}

	return Time{
		Accuracy:           accuracy,
		Seconds:            seconds,
		Nanos:              nanos,
		HasOffset:          hasOffset,
		OffsetQuarterHours: offsetQuarterHours,
	}, nil
}

// Pack encodes t into its 8-byte big-endian wire representation.
func (t Time) Pack() [8]byte {
	var b [8]byte

	secs := uint32(t.Seconds)
	b[0] = (byte(t.Accuracy) << 4) | byte((secs>>24)&0x0F)
	b[1] = byte(secs >> 16)
	b[2] = byte(secs >> 8)
	b[3] = byte(secs)

	nanos := uint32(t.Nanos) & maxNanos24
	b[4] = byte(nanos >> 16)
	b[5] = byte(nanos >> 8)
	b[6] = byte(nanos)

	if t.HasOffset {
		b[7] = byte(t.OffsetQuarterHours)
	} else {
		b[7] = noOffsetSentinel
	}

	return b
}

// ParseTime decodes an 8-byte TIME payload leniently.
func ParseTime(b [8]byte) Time {
	accuracy := Accuracy(b[0] >> 4)
	secs := (uint32(b[0]&0x0F) << 24) | (uint32(b[1]) << 16) | (uint32(b[2]) << 8) | uint32(b[3])
	nanos := (uint32(b[4]) << 16) | (uint32(b[5]) << 8) | uint32(b[6])

	off := int8(b[7])
	hasOffset := off != noOffsetSentinel
	if !hasOffset {
		off = 0
	}

	return Time{
		Accuracy:           accuracy,
		Seconds:            int32(secs),
		Nanos:              int32(nanos),
		HasOffset:          hasOffset,
		OffsetQuarterHours: off,
	}
}

// DateTime combines a Date and a Time into the 12-byte DATETIME payload.
type DateTime struct {
	Date Date
	Time Time
}

// Validate checks the accuracy-consistency invariant from §4.11: if the
// time accuracy is coarser than DAY, seconds and nanos must both be zero;
// if the date carries no month/day (year-only), the time accuracy must
// itself be coarser than DAY.
func (dt DateTime) Validate() error {
	if dt.Time.Accuracy.CoarserThanDay() {
		if dt.Time.Seconds != 0 || dt.Time.Nanos != 0 {
			return errs.ErrInvalidAccuracy
		}
	}
	if dt.Date.Month == 0 && !dt.Time.Accuracy.CoarserThanDay() {
		return errs.ErrInvalidAccuracy
	}

	return nil
}

// Pack encodes dt into its 12-byte wire representation: the DATE payload
// followed immediately by the TIME payload.
func (dt DateTime) Pack() [12]byte {
	var out [12]byte
	d := dt.Date.Pack()
	out[0] = byte(d >> 24)
	out[1] = byte(d >> 16)
	out[2] = byte(d >> 8)
	out[3] = byte(d)

	tb := dt.Time.Pack()
	copy(out[4:], tb[:])

	return out
}

// ParseDateTime decodes a 12-byte DATETIME payload leniently.
func ParseDateTime(b [12]byte) DateTime {
	d := int32(b[0])<<24 | int32(b[1])<<16 | int32(b[2])<<8 | int32(b[3])

	var tb [8]byte
	copy(tb[:], b[4:])

	return DateTime{Date: ParseDate(d), Time: ParseTime(tb)}
}
