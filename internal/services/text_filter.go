package services

import "regexp"

var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
	"scam", "scammer", "phishing", "malware",
}

var rejectionMessages = map[string]string{
	"inappropriate_language":   "Your text contains inappropriate language.",
	"url_not_allowed":          "URLs and web links are not allowed.",
	"contact_info_not_allowed": "Contact information is not allowed.",
	"spam_detected":            "Your text appears to be spam.",
}

// TextFilter screens user-written review and comment text. A nil filter
// accepts everything.
type TextFilter struct {
	bannedWordRegexps []*regexp.Regexp
	urlPattern        *regexp.Regexp
	emailPattern      *regexp.Regexp
	phonePattern      *regexp.Regexp
}

func NewTextFilter() *TextFilter {
	f := &TextFilter{
		bannedWordRegexps: make([]*regexp.Regexp, 0, len(BannedWords)),
	}
	for _, word := range BannedWords {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
		if err == nil {
			f.bannedWordRegexps = append(f.bannedWordRegexps, re)
		}
	}
	f.urlPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`)
	f.emailPattern = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	f.phonePattern = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`)
	return f
}

// Classify returns "" for acceptable text or the rejection reason.
func (f *TextFilter) Classify(text string) string {
	if f == nil || text == "" {
		return ""
	}
	for _, re := range f.bannedWordRegexps {
		if re.MatchString(text) {
			return "inappropriate_language"
		}
	}
	if f.urlPattern.MatchString(text) {
		return "url_not_allowed"
	}
	if f.emailPattern.MatchString(text) || f.phonePattern.MatchString(text) {
		return "contact_info_not_allowed"
	}
	if hasLongRun(text, 8) {
		return "spam_detected"
	}
	return ""
}

// Check returns a validation error carrying the user-facing rejection message.
func (f *TextFilter) Check(text string) error {
	reason := f.Classify(text)
	if reason == "" {
		return nil
	}
	return Rejected(rejectionMessages[reason])
}

// hasLongRun reports whether text repeats one rune n or more times in a row.
func hasLongRun(text string, n int) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run >= n {
			return true
		}
	}
	return false
}
