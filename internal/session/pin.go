package session

import "strconv"

// HashPIN — слабый rolling-хэш PIN-кода (32-битная арифметика,
// десятичная строка). Это не криптография и не граница безопасности:
// хэш легко обратим, задача только отличить "свой" профиль от чужого.
func HashPIN(pin string) string {
	var h int32
	for _, r := range pin {
		h = (h<<5 - h) + int32(r)
	}
	return strconv.FormatInt(int64(h), 10)
}

// VerifyPIN compares a candidate PIN against a stored hash.
func VerifyPIN(pin, storedHash string) bool {
	return HashPIN(pin) == storedHash
}
