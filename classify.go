package insider

// sicDivisions maps the first digit of a 4-digit SIC code to its major
// industry division. See https://www.osha.gov/data/sic-manual for the full
// code list.
var sicDivisions = map[byte]string{
	'0': "Agriculture, Forestry, & Fishing",
	'1': "Mining & Construction",
	'2': "Manufacturing",
	'3': "Manufacturing",
	'4': "Transportation, Communications, & Utilities",
	'5': "Wholesale & Retail Trade",
	'6': "Finance, Insurance, & Real Estate",
	'7': "Services",
	'8': "Services",
	'9': "Public Administration",
}

// ClassifySIC converts a 4-digit SIC code to its division description.
// Codes shorter than 4 characters or containing non-digits are returned
// unchanged rather than treated as errors.
func ClassifySIC(code string) string {
	if len(code) < 4 {
		return code
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return code
		}
	}
	if division, ok := sicDivisions[code[0]]; ok {
		return division
	}
	return code
}
