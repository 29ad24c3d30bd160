package infrastructure

import "strings"

const loggingUserDataMaxLength = 100

func sanitizeUserLogInput(input string) string {
	var res = input
	res = strings.ReplaceAll(res, "\n", " ")
	res = strings.ReplaceAll(res, "\r", " ")
	if len(res) > loggingUserDataMaxLength {
		res = res[:loggingUserDataMaxLength]
	}
	return res
}

// normalizeWhitespace collapses runs of whitespace into single spaces
// and trims the ends
func normalizeWhitespace(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
