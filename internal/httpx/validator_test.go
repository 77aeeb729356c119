package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type numberParams struct {
	Type string `validate:"required,numtype"`
	Num  string `validate:"required,max=16"`
}

func TestValidateStruct(t *testing.T) {
	assert.Nil(t, ValidateStruct(numberParams{Type: "ISBN", Num: "0395080311"}))

	details := ValidateStruct(numberParams{Type: "lccn"})
	assert.Equal(t, []ErrorDetail{
		{Field: "type", Message: "type must be isbn, issn or oclc"},
		{Field: "num", Message: "num is required"},
	}, details)

	details = ValidateStruct(numberParams{Type: "oclc", Num: "12345678901234567890"})
	assert.Equal(t, []ErrorDetail{{Field: "num", Message: "num must be at most 16 characters"}}, details)
}
