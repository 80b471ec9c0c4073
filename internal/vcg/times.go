package vcg

import (
	"regexp"
	"strconv"
	"time"
)

// dateTimeLayout is the end-time format accepted by /create_game.
const dateTimeLayout = "02-01-06 15:04"

// displayLayout is how timestamps are rendered back to the channel.
const displayLayout = "15:04 01/02/2006"

var offsetRegexp = regexp.MustCompile(`(?i)^utc([+-][0-9]{1,2}|0)?$`)

// LocalToUTC converts a local unix timestamp to UTC given the team's
// hour offset.
func LocalToUTC(timestamp int64, offsetHours int) int64 {
	return timestamp - int64(offsetHours)*3600
}

// UTCToLocal converts a UTC unix timestamp to the team's local time.
func UTCToLocal(timestamp int64, offsetHours int) int64 {
	return timestamp + int64(offsetHours)*3600
}

// ParseLocalDateTime parses "DD-MM-YY HH:MM" into a local unix timestamp.
func ParseLocalDateTime(s string) (int64, error) {
	t, err := time.Parse(dateTimeLayout, s)
	if err != nil {
		return 0, &FormatError{Reason: "expected date-time like 31-12-25 18:30"}
	}
	return t.Unix(), nil
}

// ParseOffset parses a timezone literal such as utc, utc0, utc+3 or utc-10.
// The bare "utc" form means offset 0.
func ParseOffset(s string) (int, error) {
	m := offsetRegexp.FindStringSubmatch(s)
	if m == nil {
		return 0, &FormatError{Reason: "expected timezone like utc+3 or utc-6 or utc+0"}
	}
	if m[1] == "" {
		return 0, nil
	}
	offset, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, &FormatError{Reason: "expected timezone like utc+3 or utc-6 or utc+0"}
	}
	return offset, nil
}

// FormatLocalTime renders a local unix timestamp for display.
func FormatLocalTime(timestamp int64) string {
	return time.Unix(timestamp, 0).UTC().Format(displayLayout)
}
