// Package taxid validates and formats Brazilian taxpayer identifiers:
// the personal CPF (11 digits) and the entity CNPJ (14 digits).
//
// Every function is total: malformed input yields false or a partially formatted string.
package taxid

import "strings"

const (
	PersonalIDLen = 11
	EntityIDLen   = 14
)

// Kind is the kind of a tax identifier.
type Kind string

const (
	KindPersonal Kind = "cpf"
	KindEntity   Kind = "cnpj"
)

// ParseKind returns the Kind named by s (case-insensitive).
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindPersonal, KindEntity:
		return k, true
	}
	return "", false
}

// Validate reports whether raw is a valid identifier of kind k.
func (k Kind) Validate(raw string) bool {
	switch k {
	case KindPersonal:
		return IsValidPersonalID(raw)
	case KindEntity:
		return IsValidEntityID(raw)
	}
	return false
}

// Format returns the display form of raw for kind k.
func (k Kind) Format(raw string) string {
	switch k {
	case KindPersonal:
		return FormatPersonalID(raw)
	case KindEntity:
		return FormatEntityID(raw)
	}
	return Normalize(raw)
}

// Normalize strips every character that is not an ASCII decimal digit.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// IsValidPersonalID reports whether raw holds a valid CPF.
func IsValidPersonalID(raw string) bool {
	digits := toDigits(Normalize(raw))
	if len(digits) != PersonalIDLen || allSame(digits) {
		return false
	}
	return personalCheckDigit(digits[:9]) == digits[9] &&
		personalCheckDigit(digits[:10]) == digits[10]
}

// IsValidEntityID reports whether raw holds a valid CNPJ.
func IsValidEntityID(raw string) bool {
	digits := toDigits(Normalize(raw))
	if len(digits) != EntityIDLen || allSame(digits) {
		return false
	}
	return entityCheckDigit(digits[:12]) == digits[12] &&
		entityCheckDigit(digits[:13]) == digits[13]
}

// personalCheckDigit weighs the n leading digits from n+1 down to 2.
func personalCheckDigit(digits []int) int {
	n := len(digits)
	sum := 0
	for i, d := range digits {
		sum += d * (n + 1 - i)
	}
	if r := sum * 10 % 11; r < 10 {
		return r
	}
	return 0
}

// entityCheckDigit weighs the digits with the cycle 2..9, starting from the rightmost one.
func entityCheckDigit(digits []int) int {
	sum := 0
	for i := len(digits) - 1; i >= 0; i-- {
		pos := len(digits) - 1 - i
		sum += digits[i] * (2 + pos%8)
	}
	if r := sum % 11; r >= 2 {
		return 11 - r
	}
	return 0
}

// FormatPersonalID renders up to 11 digits of raw as XXX.XXX.XXX-XX,
// adding separators only once the digit following them is present.
func FormatPersonalID(raw string) string {
	return format(Normalize(raw), PersonalIDLen, map[int]byte{3: '.', 6: '.', 9: '-'})
}

// FormatEntityID renders up to 14 digits of raw as XX.XXX.XXX/XXXX-XX,
// adding separators only once the digit following them is present.
func FormatEntityID(raw string) string {
	return format(Normalize(raw), EntityIDLen, map[int]byte{2: '.', 5: '.', 8: '/', 12: '-'})
}

func format(digits string, maxLen int, seps map[int]byte) string {
	if len(digits) > maxLen {
		digits = digits[:maxLen]
	}
	var b strings.Builder
	b.Grow(maxLen + len(seps))
	for i := 0; i < len(digits); i++ {
		if sep, ok := seps[i]; ok {
			b.WriteByte(sep)
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}

func toDigits(s string) []int {
	digits := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		digits[i] = int(s[i] - '0')
	}
	return digits
}

func allSame(digits []int) bool {
	for _, d := range digits[1:] {
		if d != digits[0] {
			return false
		}
	}
	return true
}
