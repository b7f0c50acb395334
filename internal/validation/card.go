package validation

// CardNumber validates a primary account number: digits only, plausible
// length and a passing Luhn checksum.
func (v *Validator) CardNumber(field, number string) {
	if len(number) < MinCardNumberLength || len(number) > MaxCardNumberLength {
		v.AddError(field, "must be between 12 and 19 digits")
		return
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			v.AddError(field, "must contain only digits")
			return
		}
	}
	v.Check(luhnValid(number), field, "must be a valid card number")
}

func luhnValid(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
