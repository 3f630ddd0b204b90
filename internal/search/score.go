// internal/search/score.go
package search

import "strings"

// Term scoring weights.
const (
	titleWeight   = 5
	summaryWeight = 3
	topicWeight   = 2
	maxFreqBonus  = 3
	minTermLen    = 3
)

// Terms lowercases a query and splits it into scoring terms.
// Terms shorter than three characters carry no signal and are dropped.
func Terms(query string) []string {
	var terms []string
	for _, t := range strings.Fields(strings.ToLower(query)) {
		if len(t) < minTermLen {
			continue
		}
		terms = append(terms, t)
	}
	return terms
}

// Score computes the relevance of an article for a query. It is a pure
// function; a zero score means the article should not appear in results.
//
// Per term: +5 for a title substring match, +3 for summary, +2 if any topic
// contains the term, plus the term's occurrence count across title, summary
// and body capped at 3.
func Score(query string, a Article) int {
	title := strings.ToLower(a.Title)
	summary := strings.ToLower(a.Summary)
	body := strings.ToLower(a.Body)
	haystack := title + " " + summary + " " + body

	score := 0
	for _, term := range Terms(query) {
		if strings.Contains(title, term) {
			score += titleWeight
		}
		if strings.Contains(summary, term) {
			score += summaryWeight
		}
		for _, topic := range a.Topics {
			if strings.Contains(topic, term) {
				score += topicWeight
				break
			}
		}
		if n := strings.Count(haystack, term); n > 0 {
			if n > maxFreqBonus {
				n = maxFreqBonus
			}
			score += n
		}
	}
	return score
}
