package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCPF(t *testing.T) {
	cases := map[string]bool{
		"52998224725":    true,
		"529.982.247-25": true,
		"111.444.777-35": true,
		"529.982.247-26": false,
		"111.111.111-11": false,
		"00000000000":    false,
		"1234567890":     false,
		"":               false,
	}
	for cpf, want := range cases {
		assert.Equal(t, want, ValidateCPF(cpf), cpf)
	}
}

func TestOnlyDigitsAndEmail(t *testing.T) {
	assert.Equal(t, "11987654321", OnlyDigits("(11) 98765-4321"))
	assert.Empty(t, OnlyDigits("abc"))

	assert.True(t, ValidateEmail("ana.silva@clinica.com.br"))
	assert.False(t, ValidateEmail("ana@clinica"))
}

func TestNormalizePhone(t *testing.T) {
	ok := map[string]string{
		"(11) 98765-4321":   "5511987654321",
		"21 3333-4444":      "552133334444",
		"011 98765-4321":    "5511987654321",
		"+55 11 98765-4321": "5511987654321",
		"+351 912 345 678":  "351912345678",
	}
	for raw, want := range ok {
		got, err := NormalizePhone(raw)
		if assert.NoError(t, err, raw) {
			assert.Equal(t, want, got, raw)
		}
	}

	for _, raw := range []string{"", "   ", "12345", "1234567890123456"} {
		_, err := NormalizePhone(raw)
		assert.Error(t, err, raw)
	}
}
