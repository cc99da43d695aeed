package core

import (
	"strings"

	"github.com/signalsfoundry/leo-catalog/model"
)

// FormatCatalog serialises records back into the three-line textual form:
// name, line 1, line 2, each terminated by a single newline, with no blank
// separators and nothing after the final newline. Feeding the output back
// through ParseCatalog reproduces an equivalent record sequence.
func FormatCatalog(records []model.ElementRecord) string {
	var b strings.Builder
	for _, rec := range records {
		b.WriteString(rec.Name)
		b.WriteByte('\n')
		b.WriteString(rec.Line1)
		b.WriteByte('\n')
		b.WriteString(rec.Line2)
		b.WriteByte('\n')
	}
	return b.String()
}
