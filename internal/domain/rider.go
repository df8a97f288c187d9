package domain

// Rider represents a field worker reachable over SMS and email.
// Owned by the external rider directory; read-only here.
type Rider struct {
	Name  string
	Phone string
	Email string
}

// NormalizePhone reduces a raw phone number to the canonical ten-digit
// form: non-digits stripped, one leading country-code digit dropped from
// eleven-digit numbers. ok is false when the result is not exactly ten
// digits; such numbers must be rejected before any network call.
func NormalizePhone(raw string) (string, bool) {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	if len(digits) == 11 {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return "", false
	}
	return string(digits), true
}
