package tools

import (
	"fmt"
	"strings"
)

// NormalizePhone normaliza um telefone para o formato internacional sem '+'
// (o mesmo aceito pelo WhatsApp Cloud API).
//
// Heurística (Brasil):
// - remove tudo que não é dígito e zeros à esquerda
// - com 10/11 dígitos, assume BR e prefixa 55
// - com DDI (>= 12 dígitos), mantém
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty phone")
	}

	phone := strings.TrimLeft(OnlyDigits(raw), "0")

	if len(phone) == 10 || len(phone) == 11 {
		phone = "55" + phone
	}

	if len(phone) < 12 || len(phone) > 15 {
		return "", fmt.Errorf("invalid phone length: %d", len(phone))
	}
	return phone, nil
}
