package ocr

import (
	"regexp"
	"strconv"
)

var reOrientation = regexp.MustCompile(`Orientation in degrees:\s*(\d+)`)

// ParseOrientation extracts the angle from an OSD report.
func ParseOrientation(report string) (int, bool) {
	m := reOrientation.FindStringSubmatch(report)
	if m == nil {
		return 0, false
	}
	deg, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return deg, true
}
