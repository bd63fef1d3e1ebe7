package document

import (
	"regexp"
	"strings"
)

// sentencePattern matches a run of text up to and including its terminal
// punctuation, with any closing quotes or brackets that follow it.
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+["')\]]*`)

// taggedSentence pairs a sentence with the page it came from
type taggedSentence struct {
	text string
	page int
}

// splitSentences splits a paragraph into sentences. Text after the last
// terminal punctuation mark (or a paragraph with none at all) is kept as a
// final sentence, so no text is ever dropped.
func splitSentences(paragraph string) []string {
	var sentences []string

	consumed := 0
	for _, loc := range sentencePattern.FindAllStringIndex(paragraph, -1) {
		if s := strings.TrimSpace(paragraph[loc[0]:loc[1]]); s != "" {
			sentences = append(sentences, s)
		}
		consumed = loc[1]
	}

	if rest := strings.TrimSpace(paragraph[consumed:]); rest != "" {
		sentences = append(sentences, rest)
	}

	return sentences
}

// collectSentences flattens pages into page-tagged sentences, in page
// order. Pages whose trimmed text is below the minimum length contribute
// nothing. Each page is split on blank-line paragraph breaks first, then
// into sentences.
func collectSentences(pages []Page) []taggedSentence {
	var tagged []taggedSentence

	for _, page := range pages {
		if len(strings.TrimSpace(page.Text)) < minPageChars {
			continue
		}

		for _, para := range strings.Split(page.Text, "\n\n") {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}
			for _, sent := range splitSentences(para) {
				tagged = append(tagged, taggedSentence{text: sent, page: page.Number})
			}
		}
	}

	return tagged
}
