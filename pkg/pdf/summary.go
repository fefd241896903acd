package pdf

// TextSummary shortens extracted text for previews, cutting at the last
// sentence end inside the limit when one lands past the halfway mark.
func TextSummary(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}

	lastSentenceEnd := -1
	for i, r := range runes[:maxLength] {
		switch r {
		case '.', '!', '?':
			lastSentenceEnd = i
		}
	}

	if lastSentenceEnd > maxLength/2 {
		return string(runes[:lastSentenceEnd+1]) + "..."
	}
	return string(runes[:maxLength]) + "..."
}
