package z3950

import (
	"regexp"
	"strings"

	"bibresolver/internal/entity"
	"bibresolver/internal/marc"
)

// Line markers in an OPAC record dump.
const (
	markerLocation     = "localLocation"
	markerCallNumber   = "callNumber"
	markerPublicNote   = "publicNote"
	markerAvailableNow = "availableNow"
	markerLink         = "856 40$"
	markerHolding      = "852"
)

var urlPattern = regexp.MustCompile(`https?://[^\s'"<>]+`)

// Status is one availability reading inside a block.
type Status struct {
	Code        int
	Description string
}

// Block is the accumulated state of one holding in a record dump.
type Block struct {
	Location   string
	CallNumber string
	Note       string
	Statuses   []Status
	Links      []entity.ElectronicLink
	Internet   bool
}

func (b *Block) empty() bool {
	return b.Location == "" && b.CallNumber == "" && b.Note == "" && len(b.Statuses) == 0 && len(b.Links) == 0
}

type parseState int

const (
	stateIdle parseState = iota
	stateBlock
)

type parser struct {
	state  parseState
	cur    *Block
	blocks []Block
}

// Parse scans a text record line by line. A block starts at an 852 line,
// or at a localLocation line once the current block already has a
// location; every other marker applies to the current block.
func Parse(text string) []Block {
	p := &parser{}
	for _, line := range strings.Split(text, "\n") {
		p.line(strings.TrimSpace(line))
	}
	p.flush()
	return p.blocks
}

func (p *parser) open() {
	p.flush()
	p.cur = &Block{}
	p.state = stateBlock
}

func (p *parser) ensure() {
	if p.state == stateIdle {
		p.open()
	}
}

func (p *parser) flush() {
	if p.cur != nil && !p.cur.empty() {
		p.blocks = append(p.blocks, *p.cur)
	}
	p.cur = nil
	p.state = stateIdle
}

func (p *parser) line(line string) {
	if line == "" {
		return
	}
	switch marker(line) {
	case markerLocation:
		if p.state == stateBlock && p.cur.Location != "" {
			p.open()
		}
		p.ensure()
		loc := value(line, markerLocation)
		p.cur.Location = loc
		if strings.Contains(loc, "INTERNET") || strings.Contains(loc, "Online") {
			p.cur.Internet = true
		}

	case markerCallNumber:
		p.ensure()
		p.cur.CallNumber = value(line, markerCallNumber)

	case markerPublicNote:
		p.ensure()
		note := value(line, markerPublicNote)
		if u := urlPattern.FindString(note); u != "" {
			text := strings.TrimSpace(strings.Replace(note, u, "", 1))
			p.cur.Links = append(p.cur.Links, entity.ElectronicLink{URL: u, Note: text})
			return
		}
		if p.cur.Note != "" {
			p.cur.Note += " "
		}
		p.cur.Note += note

	case markerAvailableNow:
		p.ensure()
		if st, ok := status(value(line, markerAvailableNow)); ok {
			p.cur.Statuses = append(p.cur.Statuses, st)
		}

	case markerLink:
		p.ensure()
		field := line[strings.Index(line, markerLink):]
		if link, ok := marc.ParseLink(field); ok {
			p.cur.Links = append(p.cur.Links, link)
		}

	case markerHolding:
		p.open()
	}
}

var fieldMarkers = []string{markerLocation, markerCallNumber, markerPublicNote, markerAvailableNow, markerLink}

// marker returns the marker that opens line: the field marker found
// earliest, so a value quoting another marker name stays with its own
// field. Lines without one are holding starts when they begin with 852.
func marker(line string) string {
	found, at := "", -1
	for _, m := range fieldMarkers {
		if i := strings.Index(line, m); i >= 0 && (at < 0 || i < at) {
			found, at = m, i
		}
	}
	if found == "" && strings.HasPrefix(line, markerHolding) {
		return markerHolding
	}
	return found
}

// value returns what follows marker's ':' or '=' with quotes and trailing
// separators removed.
func value(line, marker string) string {
	rest := line[strings.Index(line, marker)+len(marker):]
	rest = strings.TrimLeft(rest, " \t'\"")
	if rest != "" && (rest[0] == ':' || rest[0] == '=') {
		rest = rest[1:]
	}
	rest = strings.TrimRight(strings.TrimSpace(rest), ",;}")
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(rest), `'"`))
}

func status(v string) (Status, bool) {
	u := strings.ToUpper(strings.TrimSpace(v))
	switch {
	case u == "TRUE" || u == "AVAILABLE":
		return Status{Code: entity.StatusNotCharged, Description: entity.StatusDescNotCharged}, true
	case u == "FALSE" || strings.HasPrefix(u, "DUE"):
		return Status{Code: entity.StatusCharged, Description: entity.StatusDescCharged}, true
	}
	return Status{}, false
}
