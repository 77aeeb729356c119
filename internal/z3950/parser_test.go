package z3950

import (
	"testing"

	"bibresolver/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AvailableThenCallNumber(t *testing.T) {
	blocks := Parse("availableNow: True\ncallNumber: 'ABC 123'\n")

	require.Len(t, blocks, 1)
	r := toResult(blocks[0], "42", "GM", 1)
	require.Len(t, r.Items, 1)
	assert.Equal(t, "Not Charged", r.Items[0].StatusDescription)
	assert.Equal(t, 1, r.Items[0].StatusCode)
	assert.Equal(t, "ABC 123", r.Items[0].CallNumber)
}

func TestParse_NoteMentioningOtherMarker(t *testing.T) {
	blocks := Parse("localLocation: 'GT: Lauinger Stacks'\n" +
		"callNumber: 'PS3566 .E6912'\n" +
		"publicNote: 'Ask at desk; callNumber label missing'\n" +
		"availableNow: True")

	require.Len(t, blocks, 1)
	assert.Equal(t, "GT: Lauinger Stacks", blocks[0].Location)
	assert.Equal(t, "PS3566 .E6912", blocks[0].CallNumber)
	assert.Equal(t, "Ask at desk; callNumber label missing", blocks[0].Note)
	require.Len(t, blocks[0].Statuses, 1)
}

func TestMarker(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"{'localLocation': 'GW: Stacks',", markerLocation},
		{"callNumber: 'availableNow shelf'", markerCallNumber},
		{"publicNote: 'see localLocation'", markerPublicNote},
		{"852 0  $b fen", markerHolding},
		{"availabilityDate: 'DUE 12-01-2024'", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, marker(tt.line), tt.line)
	}
}

const opacDump = `
852 0  $b fen
  localLocation: 'GM: Fenwick Stacks'
  callNumber: 'PS3566.E6912 M6 1961'
  availableNow: False
  availabilityDate: 'DUE 12-01-2024'
  localLocation: 'GM: Fenwick Reserve'
  callNumber = "PS3566 .E6912"
  availableNow = 'AVAILABLE'
  publicNote: 'Two-hour loan'
852 0  $b onl
  localLocation: 'GM: INTERNET'
  publicNote: 'Access online http://proxy.example.edu/login?url=http://ebook.example.com/123'
  856 40$u http://ebook.example.com/456 $z Publisher site $3 v.2
  availableNow: maybe
`

func TestParse_Blocks(t *testing.T) {
	blocks := Parse(opacDump)
	require.Len(t, blocks, 3)

	stacks := blocks[0]
	assert.Equal(t, "GM: Fenwick Stacks", stacks.Location)
	assert.Equal(t, "PS3566.E6912 M6 1961", stacks.CallNumber)
	assert.Equal(t, []Status{{Code: entity.StatusCharged, Description: "Charged"}}, stacks.Statuses)
	assert.False(t, stacks.Internet)

	reserve := blocks[1]
	assert.Equal(t, "GM: Fenwick Reserve", reserve.Location)
	assert.Equal(t, "PS3566 .E6912", reserve.CallNumber)
	assert.Equal(t, "Two-hour loan", reserve.Note)
	assert.Equal(t, []Status{{Code: entity.StatusNotCharged, Description: "Not Charged"}}, reserve.Statuses)

	online := blocks[2]
	assert.True(t, online.Internet)
	assert.Empty(t, online.Statuses)
	assert.Empty(t, online.Note)
	assert.Equal(t, []entity.ElectronicLink{
		{URL: "http://proxy.example.edu/login?url=http://ebook.example.com/123", Note: "Access online"},
		{URL: "http://ebook.example.com/456", Note: "Publisher site", Materials: "v.2"},
	}, online.Links)
}

func TestParse_DueStatus(t *testing.T) {
	blocks := Parse("localLocation: 'GT: Lauinger'\navailableNow: 'DUE 05-06-2014'")
	require.Len(t, blocks, 1)
	assert.Equal(t, []Status{{Code: 0, Description: "Charged"}}, blocks[0].Statuses)
}

func TestParse_Garbage(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("<html><body>Service Unavailable</body></html>"))
	assert.Empty(t, Parse("852 0 $b x\n852 0 $b y"))
}

func TestValue(t *testing.T) {
	tests := []struct {
		line, marker, want string
	}{
		{"callNumber: 'ABC 123'", "callNumber", "ABC 123"},
		{`  callNumber = "QA76 .A1",`, "callNumber", "QA76 .A1"},
		{"{'localLocation': 'GM: Law Library'}", "localLocation", "GM: Law Library"},
		{"availableNow:True", "availableNow", "True"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, value(tt.line, tt.marker))
		})
	}
}
