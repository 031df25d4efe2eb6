package gen

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules  = ruleset()
	titler = cases.Title(language.Und)

	// acronyms keeps conventional initialisms fully capitalized in
	// generated identifiers: user_id becomes UserID, not UserId.
	acronyms = map[string]string{
		"api":  "API",
		"db":   "DB",
		"html": "HTML",
		"http": "HTTP",
		"id":   "ID",
		"ip":   "IP",
		"json": "JSON",
		"sql":  "SQL",
		"uri":  "URI",
		"url":  "URL",
		"uuid": "UUID",
	}
)

func ruleset() *inflect.Ruleset {
	r := inflect.NewDefaultRuleset()
	for _, a := range acronyms {
		r.AddAcronym(a)
	}
	return r
}

// pascal converts a database identifier to an exported Go name.
func pascal(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	var b strings.Builder
	for _, w := range words {
		if a, ok := acronyms[strings.ToLower(w)]; ok {
			b.WriteString(a)
			continue
		}
		b.WriteString(titler.String(strings.ToLower(w)))
	}
	out := b.String()
	if out == "" {
		return "X"
	}
	// Identifiers cannot start with a digit.
	if unicode.IsDigit(rune(out[0])) {
		out = "T" + out
	}
	return out
}

// typeName derives the model type name from a table name by convention:
// singularized and converted to PascalCase (user_profiles -> UserProfile).
func typeName(table string) string {
	return pascal(rules.Singularize(table))
}

// snake converts an exported Go name back to its snake_case file stem.
func snake(name string) string {
	return rules.Underscore(name)
}

// label derives a human-readable form label from a column name. The rails
// humanize convention drops a trailing _id and capitalizes the first word.
func label(column string) string {
	return rules.Humanize(column)
}

// plural returns the pluralized, lowercased resource name used in form
// actions (User -> users).
func plural(name string) string {
	return strings.ToLower(rules.Underscore(rules.Pluralize(name)))
}
