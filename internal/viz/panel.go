package viz

import (
	"strings"
)

// Row is one labelled value in a Panel.
type Row struct {
	Label string
	Value string
}

// Panel renders rows as an aligned label/value table inside a bordered box.
func Panel(title string, rows []Row) string {
	var s strings.Builder
	s.WriteString(headerStyle().Render(title) + "\n")
	label, value := labelStyle(), valueStyle()
	for _, r := range rows {
		s.WriteString(label.Render(r.Label) + value.Render(r.Value) + "\n")
	}
	return GlassPanel.Render(strings.TrimRight(s.String(), "\n"))
}
