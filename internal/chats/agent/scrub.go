package agent

import "regexp"

var (
	emailPattern = regexp.MustCompile(`\b[\w.%+-]+@[\w.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\b\+?\d[\d\s().-]{7,}\b`)
	linkPattern  = regexp.MustCompile(`https?://\S+`)
)

// ScrubPII strips emails, phone numbers and links from text before it is
// sent to the completion service.
func ScrubPII(s string) string {
	if s == "" {
		return s
	}
	s = emailPattern.ReplaceAllString(s, "[email]")
	s = phonePattern.ReplaceAllString(s, "[phone]")
	s = linkPattern.ReplaceAllString(s, "[link]")
	return s
}
