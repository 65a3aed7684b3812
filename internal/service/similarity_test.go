package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auradesk/service-desk/internal/domain"
)

func ticketWithText(id, title, description string) domain.Ticket {
	return domain.Ticket{ID: id, Title: title, Description: description}
}

func TestRankSimilarTicketsExcludesTarget(t *testing.T) {
	target := ticketWithText("t1", "printer offline after update", "printer went offline after the driver update")
	candidates := []domain.Ticket{
		target,
		ticketWithText("t2", "printer offline after restart", "printer went offline after a restart"),
	}

	matches := RankSimilarTickets(&target, candidates, 3)
	require.Len(t, matches, 1)
	assert.Equal(t, "printer offline after restart", matches[0].Title)
}

func TestRankSimilarTicketsRequiresThreeSharedTokens(t *testing.T) {
	target := ticketWithText("t1", "VPN connection fails", "VPN tunnel drops immediately")
	candidates := []domain.Ticket{
		// Two shared tokens only: "vpn", "connection".
		ticketWithText("t2", "VPN connection", "unrelated words entirely here"),
	}

	matches := RankSimilarTickets(&target, candidates, 3)
	assert.Empty(t, matches)
}

func TestRankSimilarTicketsScoreAndOrder(t *testing.T) {
	target := ticketWithText("t1", "cannot print documents", "office printer rejects every print job")
	strong := ticketWithText("t2", "cannot print documents", "office printer rejects every print job")
	weak := ticketWithText("t3", "cannot print anything today", "printer shows an unknown error")

	matches := RankSimilarTickets(&target, []domain.Ticket{weak, strong}, 3)
	require.Len(t, matches, 2)
	assert.Equal(t, "cannot print documents", matches[0].Title)
	assert.InDelta(t, 1.0, matches[0].SimilarityScore, 1e-6)
	assert.Greater(t, matches[0].SimilarityScore, matches[1].SimilarityScore)
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.SimilarityScore, 0.0)
		assert.LessOrEqual(t, m.SimilarityScore, 1.0)
	}
}

func TestRankSimilarTicketsTruncatesToTopK(t *testing.T) {
	target := ticketWithText("t0", "laptop will not boot", "laptop will not boot after windows update")
	candidates := make([]domain.Ticket, 0, 6)
	for i := 0; i < 6; i++ {
		candidates = append(candidates, ticketWithText(
			string(rune('a'+i)), "laptop will not boot", "laptop will not boot since yesterday"))
	}

	matches := RankSimilarTickets(&target, candidates, 3)
	assert.Len(t, matches, 3)
}

func TestRankSimilarTicketsUsesResolutionAsApproach(t *testing.T) {
	target := ticketWithText("t1", "outlook keeps crashing", "outlook keeps crashing on startup")

	resolution := "Reinstalled the mail profile"
	resolved := ticketWithText("t2", "outlook keeps crashing", "outlook keeps crashing when opening")
	resolved.Resolution = &resolution
	unresolved := ticketWithText("t3", "outlook keeps crashing randomly", "outlook keeps crashing a lot")

	matches := RankSimilarTickets(&target, []domain.Ticket{resolved, unresolved}, 3)
	require.Len(t, matches, 2)
	assert.Equal(t, "Reinstalled the mail profile", matches[0].ResolutionApproach)
	assert.Equal(t, "Standard troubleshooting", matches[1].ResolutionApproach)
}

func TestRankSimilarTicketsRecencyBreaksTies(t *testing.T) {
	target := ticketWithText("t1", "screen flickers constantly", "screen flickers constantly during meetings")

	older := ticketWithText("t2", "screen flickers constantly", "screen flickers constantly during meetings")
	older.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := ticketWithText("t3", "screen flickers constantly", "screen flickers constantly during meetings")
	newer.CreatedAt = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	matches := RankSimilarTickets(&target, []domain.Ticket{older, newer}, 3)
	require.Len(t, matches, 2)
	assert.Equal(t, "screen flickers constantly", matches[0].Title)
	// Same title; distinguish by position of the newer candidate.
	assert.Equal(t, matches[0].SimilarityScore, matches[1].SimilarityScore)
}

func TestRankSimilarTicketsDeterministic(t *testing.T) {
	target := ticketWithText("t1", "database connection pool exhausted", "database connection pool exhausted under load")
	candidates := []domain.Ticket{
		ticketWithText("t2", "database connection pool exhausted", "seen in production"),
		ticketWithText("t3", "database connection timeout", "connection pool seems fine"),
		ticketWithText("t4", "connection pool tuning question", "database pool sizing"),
	}

	first := RankSimilarTickets(&target, candidates, 3)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, RankSimilarTickets(&target, candidates, 3))
	}
}

func TestRankSimilarTicketsDropsWeaklyRelatedEvenWithRoom(t *testing.T) {
	target := ticketWithText("t1", "wifi signal weak upstairs", "wifi signal weak in upstairs offices")
	related := ticketWithText("t2", "wifi signal weak downstairs", "same wifi complaints on another floor")
	unrelated := ticketWithText("t3", "wifi password", "completely different topic otherwise")

	matches := RankSimilarTickets(&target, []domain.Ticket{related, unrelated}, 5)
	require.Len(t, matches, 1)
	assert.Equal(t, "wifi signal weak downstairs", matches[0].Title)
}

func TestRankSimilarTicketsNilTarget(t *testing.T) {
	assert.Empty(t, RankSimilarTickets(nil, []domain.Ticket{ticketWithText("t1", "a b c", "d")}, 3))
}
