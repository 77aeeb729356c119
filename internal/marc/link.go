// Package marc reads the few MARC display fields the resolver needs.
package marc

import (
	"strings"

	"bibresolver/internal/entity"
)

// Subfields splits a display field ("856 40 $u http://x $z note") into
// subfield code → value. Repeated codes keep the first value.
func Subfields(field string) map[byte]string {
	out := make(map[byte]string)
	parts := strings.Split(field, "$")
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		code := p[0]
		if _, seen := out[code]; seen {
			continue
		}
		out[code] = strings.TrimSpace(p[1:])
	}
	return out
}

// ParseLink extracts an electronic link from an 856 display field. It
// reports false when the field has no $u.
func ParseLink(field string) (entity.ElectronicLink, bool) {
	sf := Subfields(field)
	url := sf['u']
	if url == "" {
		return entity.ElectronicLink{}, false
	}
	return entity.ElectronicLink{
		URL:       url,
		Note:      sf['z'],
		Materials: sf['3'],
	}, true
}
