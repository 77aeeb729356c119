package z3950

import (
	"testing"

	"bibresolver/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestQuery_PQF(t *testing.T) {
	assert.Equal(t, "@attr 1=12 12345", Query{Attribute: AttrBibID, Term: "12345"}.PQF())
	assert.Equal(t, `@attr 1=8 "0028 0836"`, Query{Attribute: AttrISSN, Term: " 0028 0836 "}.PQF())
}

func TestAttributeFor(t *testing.T) {
	attr, ok := AttributeFor(entity.KindOCLC)
	assert.True(t, ok)
	assert.Equal(t, AttrOCLC, attr)

	attr, _ = AttributeFor(entity.KindISBN)
	assert.Equal(t, AttrISBN, attr)

	_, ok = AttributeFor(entity.Kind("lccn"))
	assert.False(t, ok)
}
