package pricefeed

import "strings"

// ResolveTicker converts user input ("7203", "7203.T", "MSFT") into the
// feed's full security identifier. All-numeric codes and ".T"-suffixed codes
// are assumed to be Tokyo listings; anything else is assumed to be a US
// listing. A dotted code with an unknown market suffix keeps only the bare
// EQUITY qualifier.
func ResolveTicker(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if isNumeric(input) {
		return input + " JT EQUITY"
	}
	if strings.Contains(input, ".") {
		parts := strings.SplitN(input, ".", 2)
		code := parts[0]
		suffix := strings.ToUpper(parts[1])
		if suffix == "T" {
			return code + " JT EQUITY"
		}
		return code + " EQUITY"
	}
	return strings.ToUpper(input) + " US EQUITY"
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
