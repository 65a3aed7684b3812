package service

import (
	"sort"
	"strings"

	"github.com/auradesk/service-desk/internal/domain"
)

// minSharedTokens is the relatedness floor: ticket pairs sharing fewer
// than this many words are considered unrelated regardless of ratio.
const minSharedTokens = 3

const defaultResolutionApproach = "Standard troubleshooting"

// RankSimilarTickets scores candidates against the target ticket by
// lexical token overlap and returns the top matches, best first. It is
// pure and deterministic: identical input yields identical output.
// The target itself is never included.
func RankSimilarTickets(target *domain.Ticket, candidates []domain.Ticket, topK int) []domain.SimilarTicket {
	if target == nil || topK <= 0 {
		return []domain.SimilarTicket{}
	}

	targetTokens := tokenize(target.Text())

	type scored struct {
		ticket *domain.Ticket
		score  float64
	}
	matches := []scored{}
	for i := range candidates {
		candidate := &candidates[i]
		if candidate.ID != "" && candidate.ID == target.ID {
			continue
		}
		candidateTokens := tokenize(candidate.Text())
		shared := intersectionSize(targetTokens, candidateTokens)
		if shared < minSharedTokens {
			continue
		}
		denominator := len(targetTokens)
		if len(candidateTokens) > denominator {
			denominator = len(candidateTokens)
		}
		if denominator == 0 {
			continue
		}
		matches = append(matches, scored{
			ticket: candidate,
			score:  float64(shared) / float64(denominator),
		})
	}

	// Ties break toward the more recent candidate; stable sort keeps
	// input order when timestamps are absent or equal.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].ticket.CreatedAt.After(matches[j].ticket.CreatedAt)
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}

	result := make([]domain.SimilarTicket, 0, len(matches))
	for _, m := range matches {
		approach := defaultResolutionApproach
		if m.ticket.Resolution != nil && strings.TrimSpace(*m.ticket.Resolution) != "" {
			approach = *m.ticket.Resolution
		}
		result = append(result, domain.SimilarTicket{
			Title:              m.ticket.Title,
			SimilarityScore:    m.score,
			ResolutionApproach: approach,
		})
	}
	return result
}

// tokenize lower-cases and splits text on whitespace into a token set.
func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, field := range strings.Fields(strings.ToLower(text)) {
		tokens[field] = struct{}{}
	}
	return tokens
}

func intersectionSize(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	count := 0
	for token := range a {
		if _, ok := b[token]; ok {
			count++
		}
	}
	return count
}
