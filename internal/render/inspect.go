package render

import (
	"strconv"
	"strings"

	"metricchart/internal/scene"
)

// InspectHeader names the columns returned by Inspect
var InspectHeader = []string{"#", "Tag", "Class", "Datum", "Visible", "Attributes"}

// Inspect flattens the surface into one row per element, in document order
func Inspect(s *scene.Surface) [][]string {
	elements := s.Elements()
	rows := make([][]string, 0, len(elements))
	for i, el := range elements {
		var attrs []string
		for _, name := range el.AttrNames() {
			if name == "class" {
				continue
			}
			v, _ := el.Attr(name)
			attrs = append(attrs, name+"="+v)
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			el.Tag,
			strings.Join(el.Classes(), " "),
			strconv.Itoa(el.Index()),
			strconv.FormatBool(!el.Hidden()),
			strings.Join(attrs, " "),
		})
	}
	return rows
}

// Summary counts elements per tag.class key
func Summary(s *scene.Surface) map[string]int {
	out := map[string]int{}
	for _, el := range s.Elements() {
		key := el.Tag
		if classes := el.Classes(); len(classes) > 0 {
			key += "." + strings.Join(classes, ".")
		}
		out[key]++
	}
	return out
}
