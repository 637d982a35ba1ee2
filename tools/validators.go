package tools

import (
	"regexp"
	"strings"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

// OnlyDigits remove tudo que não for dígito.
func OnlyDigits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCPF confere tamanho e dígitos verificadores. Aceita com ou sem máscara.
func ValidateCPF(raw string) bool {
	cpf := OnlyDigits(raw)
	if len(cpf) != 11 {
		return false
	}
	// 000.000.000-00, 111.111.111-11 ... passam no cálculo mas não existem
	if strings.Count(cpf, cpf[:1]) == 11 {
		return false
	}

	digit := func(n int) byte {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(cpf[i]-'0') * (n + 1 - i)
		}
		rest := (sum * 10) % 11
		if rest == 10 {
			rest = 0
		}
		return byte('0' + rest)
	}
	return cpf[9] == digit(9) && cpf[10] == digit(10)
}
