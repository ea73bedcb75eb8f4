// Package datatype decodes raw text tokens from schedule exports into typed values.
//
// Every parser reports an absent value with ok == false and a nil error. The
// documented sentinels ("-1 -1", and "0" for the basic date schemes) are the
// only tokens decoded as absent; anything else that fails to parse is an error.
package datatype

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EpochDay is the day number of ReferenceDate in the day-offset date scheme.
const EpochDay = 2440588

// ReferenceDate anchors time-of-day values and the day-offset date scheme.
var ReferenceDate = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	nullSentinel = "-1 -1"

	dateLayout      = "20060102"
	timeLayout      = "150405"
	timestampLayout = "20060102 150405"
)

// ParseString strips one layer of angle brackets, then one layer of double quotes.
func ParseString(value string) string {
	if len(value) >= 2 && value[0] == '<' && value[len(value)-1] == '>' {
		value = value[1 : len(value)-1]
	}
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	return value
}

// ParseDouble decodes a plain or scientific decimal.
func ParseDouble(value string) (float64, bool, error) {
	value = ParseString(value)
	if value == "" || value == nullSentinel {
		return 0, false, nil
	}
	value = strings.Replace(value, "E+", "E", 1)
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false, fmt.Errorf("datatype: invalid double %q: %w", value, err)
	}
	return f, true, nil
}

// ParseInteger decodes an integer. Tokens containing a decimal point are
// truncated; tokens containing a space are not integers and decode as absent.
func ParseInteger(value string) (int, bool, error) {
	if value == "" || strings.IndexByte(value, ' ') != -1 {
		return 0, false, nil
	}
	if strings.IndexByte(value, '.') != -1 {
		f, ok, err := ParseDouble(value)
		if err != nil || !ok {
			return 0, ok, err
		}
		return int(f), true, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("datatype: invalid integer %q: %w", value, err)
	}
	return i, true, nil
}

// ParseBoolean decodes an integer flag; any non-zero value is true.
func ParseBoolean(value string) (bool, bool, error) {
	i, ok, err := ParseInteger(value)
	if err != nil || !ok {
		return false, ok, err
	}
	return i != 0, true, nil
}

// ParseEpochTimestamp decodes the day-offset date scheme. A token without a
// space is a time of day (HHMMSS) on ReferenceDate; otherwise the token is
// "<day> <seconds>" where day counts from EpochDay.
func ParseEpochTimestamp(value string) (time.Time, bool, error) {
	if value == "" || value == nullSentinel {
		return time.Time{}, false, nil
	}

	index := strings.IndexByte(value, ' ')
	if index == -1 {
		t, err := clockTime(value)
		if err != nil {
			return time.Time{}, false, err
		}
		return t, true, nil
	}

	days, err := strconv.ParseInt(value[:index], 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("datatype: invalid day offset in %q: %w", value, err)
	}
	seconds, err := strconv.ParseInt(value[index+1:], 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("datatype: invalid second offset in %q: %w", value, err)
	}

	t := ReferenceDate.AddDate(0, 0, int(days-EpochDay)).Add(time.Duration(seconds) * time.Second)
	return t, true, nil
}

// FormatEpochTimestamp encodes t in the day-offset date scheme understood by
// ParseEpochTimestamp. Sub-second precision is dropped.
func FormatEpochTimestamp(t time.Time) string {
	t = t.UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := int64(midnight.Sub(ReferenceDate)/(24*time.Hour)) + EpochDay
	seconds := int64(t.Sub(midnight) / time.Second)
	return fmt.Sprintf("%d %d", days, seconds)
}

// ParseBasicTimestamp decodes the literal date scheme: "yyyyMMdd" or
// "yyyyMMdd HHmmss", where a time of " 0" means midnight.
func ParseBasicTimestamp(value string) (time.Time, bool, error) {
	if value == "" || value == nullSentinel || value == "0" {
		return time.Time{}, false, nil
	}

	var (
		layout string
		text   string
	)
	switch {
	case strings.HasSuffix(value, " 0"):
		layout, text = dateLayout, strings.TrimSuffix(value, " 0")
	case strings.IndexByte(value, ' ') == -1:
		layout, text = dateLayout, value
	default:
		index := strings.IndexByte(value, ' ')
		layout, text = timestampLayout, value[:index+1]+leftPad(value[index+1:])
	}

	t, err := time.ParseInLocation(layout, text, time.UTC)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("datatype: invalid timestamp %q: %w", value, err)
	}
	return t, true, nil
}

// ParseBasicTime decodes an HHmmss time of day onto ReferenceDate.
func ParseBasicTime(value string) (time.Time, bool, error) {
	if value == "" || value == "0" {
		return time.Time{}, false, nil
	}
	t, err := clockTime(value)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

func clockTime(value string) (time.Time, error) {
	parsed, err := time.Parse(timeLayout, leftPad(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("datatype: invalid time %q: %w", value, err)
	}
	offset := time.Duration(parsed.Hour())*time.Hour +
		time.Duration(parsed.Minute())*time.Minute +
		time.Duration(parsed.Second())*time.Second
	return ReferenceDate.Add(offset), nil
}

func leftPad(value string) string {
	if len(value) >= 6 {
		return value
	}
	return strings.Repeat("0", 6-len(value)) + value
}
