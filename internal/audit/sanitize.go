package audit

import "regexp"

// MaxContentChars is the hard character budget applied after tag stripping.
// Truncation is blunt and may cut mid-tag; the budget guards token spend, it
// is not HTML parsing.
const MaxContentChars = 120000

var (
	scriptPattern = regexp.MustCompile(`(?is)<script[\s\S]*?</script>`)
	stylePattern  = regexp.MustCompile(`(?is)<style[\s\S]*?</style>`)
)

// Sanitize strips script and style blocks from the HTML, then truncates the
// remainder to MaxContentChars characters.
func Sanitize(html string) string {
	cleaned := scriptPattern.ReplaceAllString(html, "")
	cleaned = stylePattern.ReplaceAllString(cleaned, "")

	runes := []rune(cleaned)
	if len(runes) > MaxContentChars {
		return string(runes[:MaxContentChars])
	}
	return cleaned
}
