package normalizer

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// dayFirstLayouts are tried in order. Ambiguous numeric dates such as
// 03/04/2024 read as 3 April.
var dayFirstLayouts = []string{
	"2-Jan-06 3:04:05 PM",
	"2-Jan-06 3:04 PM",
	"2-Jan-06 15:04:05",
	"2-Jan-06 15:04",
	"2-Jan-06",
	"2-Jan-2006 3:04:05 PM",
	"2-Jan-2006 3:04 PM",
	"2-Jan-2006 15:04:05",
	"2-Jan-2006 15:04",
	"2-Jan-2006",
	"2 Jan 2006 15:04:05",
	"2 Jan 2006 15:04",
	"2 Jan 2006",
	"2 January 2006",
	"2/1/2006 3:04:05 PM",
	"2/1/2006 3:04 PM",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2/1/06 3:04:05 PM",
	"2/1/06 3:04 PM",
	"2/1/06 15:04:05",
	"2/1/06 15:04",
	"2/1/06",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2-1-2006",
	"2-1-06 15:04:05",
	"2-1-06 15:04",
	"2-1-06",
	"2.1.2006 15:04",
	"2.1.2006",
	"2.1.06 15:04",
	"2.1.06",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// Excel serial day numbers accepted as dates: 1900-01-01 through 9999-12-31.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958466
)

// parseDate reads a spreadsheet date value day-first. Timestamps without a
// zone are taken as UTC and zoned ones are converted to it.
func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < minExcelSerial || serial >= maxExcelSerial {
			return time.Time{}, false
		}
		ts, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return ts.UTC(), true
	}

	// Meridiem markers only match in upper case.
	upper := strings.ToUpper(s)
	for _, layout := range dayFirstLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), true
		}
		if upper != s {
			if ts, err := time.Parse(layout, upper); err == nil {
				return ts.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// formatDate renders a timestamp in a layout parseDate reads back unchanged.
func formatDate(ts time.Time) string {
	return ts.UTC().Format("2006-01-02 15:04:05.999999999")
}
