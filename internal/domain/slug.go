package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Und)

// Slugify derives the URL identifier of a title: lower case, accents stripped,
// letters and digits kept, every other run collapsed into a single '-'.
// Slugify 由标题生成 URL 标识：转小写、去除重音，保留字母与数字，其余字符折叠为单个 '-'
func Slugify(title string) string {
	lowered := lower.String(title)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, lowered)
	if err != nil {
		stripped = lowered
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pendingDash := false
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
