// Package naming converts table names into model type names.
package naming

import (
	"regexp"
	"strings"
)

var (
	separators = regexp.MustCompile(`[-_]+`)
	nonWord    = regexp.MustCompile(`[^\w\s]`)
	wordStart  = regexp.MustCompile(`\s+(.)(\w*)`)
	canonical  = regexp.MustCompile(`^[A-Z0-9][A-Za-z0-9]*$`)
)

// Pascal converts s into its canonical upper-camel form:
//
//	user-profile, user_profile, "User Profile" -> UserProfile
//
// The conversion lower-cases s, treats runs of '-' and '_' as spaces, drops
// everything that is not a word character or whitespace, then joins the
// words capitalizing each one. Names already in canonical form are returned
// as they are, so Pascal(Pascal(s)) == Pascal(s).
//
// The result therefore depends on the case of the input: "USER" and "FooBar"
// are kept, while "user" becomes "User" and "fooBar" becomes "Foobar".
func Pascal(s string) string {
	if canonical.MatchString(s) {
		return s
	}

	s = strings.ToLower(s)
	s = separators.ReplaceAllString(s, " ")
	s = nonWord.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = wordStart.ReplaceAllStringFunc(s, func(m string) string {
		return upperFirst(strings.TrimLeft(m, " \t\n\f\r\v"))
	})

	return upperFirst(s)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
