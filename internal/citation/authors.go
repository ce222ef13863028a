package citation

import (
	"strings"
)

// Authors holds an author list formatted for each supported citation style.
type Authors struct {
	APA     string `json:"apa,omitempty"`
	Chicago string `json:"chicago,omitempty"`
	MLA     string `json:"mla,omitempty"`
}

type name struct {
	given   string
	surname string
}

func parseName(full string) name {
	fields := strings.Fields(full)
	switch len(fields) {
	case 0:
		return name{}
	case 1:
		return name{surname: fields[0]}
	}
	last := len(fields) - 1
	return name{given: strings.Join(fields[:last], " "), surname: fields[last]}
}

func (n name) inverted() string {
	if n.given == "" {
		return n.surname
	}
	return n.surname + ", " + n.given
}

func (n name) natural() string {
	return strings.TrimSpace(n.given + " " + n.surname)
}

func (n name) initials() string {
	var parts []string
	for _, g := range strings.Fields(n.given) {
		r := []rune(g)
		parts = append(parts, string(r[0])+".")
	}
	return strings.Join(parts, " ")
}

func FormatAuthors(authors []string) Authors {
	var names []name
	for _, a := range authors {
		if n := parseName(a); n.surname != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return Authors{}
	}
	return Authors{
		APA:     formatAPA(names),
		Chicago: formatChicago(names),
		MLA:     formatMLA(names),
	}
}

// formatAPA: "Niiya, B., & Hirabayashi, L."
func formatAPA(names []name) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n.surname
		if in := n.initials(); in != "" {
			parts[i] += ", " + in
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + ", & " + parts[len(parts)-1]
}

// formatChicago: "Niiya, Brian, and Lane Hirabayashi"
func formatChicago(names []name) string {
	parts := make([]string, len(names))
	parts[0] = names[0].inverted()
	for i := 1; i < len(names); i++ {
		parts[i] = names[i].natural()
	}
	switch len(parts) {
	case 1:
		return parts[0]
	case 2:
		return parts[0] + ", and " + parts[1]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
}

// formatMLA: one author inverted, two joined with "and", three or more "et al."
func formatMLA(names []name) string {
	switch len(names) {
	case 1:
		return names[0].inverted()
	case 2:
		return names[0].inverted() + ", and " + names[1].natural()
	}
	return names[0].inverted() + ", et al."
}
