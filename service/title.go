package service

import (
	"strings"
	"unicode"

	"github.com/annazecevic/catalog-service/domain"
)

// StripFeaturing removes every "(feat. ...)" group from title. Groups are
// matched with balanced parentheses, so an artist name such as
// "Sean (Puffy) Combs" is removed whole. An unclosed group runs to the end
// of the title.
func StripFeaturing(title string) string {
	var b strings.Builder
	for i := 0; i < len(title); {
		if title[i] == '(' && opensFeaturing(title[i+1:]) {
			kept := strings.TrimRightFunc(b.String(), unicode.IsSpace)
			b.Reset()
			b.WriteString(kept)
			i = closingParen(title, i) + 1
			continue
		}
		b.WriteByte(title[i])
		i++
	}
	return strings.TrimSpace(b.String())
}

// opensFeaturing reports whether rest, the text after a '(', starts with
// "feat." or "feat " in any case.
func opensFeaturing(rest string) bool {
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	if len(rest) < 5 || !strings.EqualFold(rest[:4], "feat") {
		return false
	}
	return rest[4] == '.' || unicode.IsSpace(rune(rest[4]))
}

// closingParen returns the index of the ')' matching the '(' at open, or the
// last index of s when the group is never closed.
func closingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(s) - 1
}

// ComposeTitle strips any caller-supplied featuring group and appends one
// built from names, in the order given.
func ComposeTitle(title string, names []string) string {
	base := StripFeaturing(title)
	if len(names) == 0 {
		return base
	}
	return base + " (feat. " + strings.Join(names, ", ") + ")"
}

func artistNames(artists []*domain.Artist) []string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return names
}

func artistIDs(artists []*domain.Artist) []string {
	ids := make([]string, 0, len(artists))
	for _, a := range artists {
		ids = append(ids, a.ID)
	}
	return ids
}
