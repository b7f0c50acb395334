package utils

import "strings"

// MaskCardNumber hides all but the last four digits of a card number.
// Numbers shorter than four characters are fully masked.
func MaskCardNumber(number string) string {
	if len(number) <= 4 {
		return strings.Repeat("*", len(number))
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}
