package game

import "sort"

// Outcome classifies the resolution of a completed vote.
type Outcome string

const (
	OutcomeTie                Outcome = "TIE"
	OutcomeInnocentEliminated Outcome = "INNOCENT_ELIMINATED"
	OutcomeImpostorCaught     Outcome = "IMPOSTOR_CAUGHT"
	OutcomeImpostorWins       Outcome = "IMPOSTOR_WINS"
)

// VoteResult is the decision produced by evaluating a completed vote.
type VoteResult struct {
	Outcome      Outcome        `json:"outcome"`
	EliminatedID string         `json:"eliminated_id,omitempty"`
	Votes        int            `json:"votes"`
	Counts       map[string]int `json:"counts"`
}

// EvaluateVotes resolves a completed vote over the alive, non-spectator
// players. A tie (two or more candidates sharing the top count, or no votes
// at all) eliminates nobody. Otherwise the single highest-voted player is
// eliminated: the impostor ends the game in the innocents' favor; an
// innocent ends it in the impostor's favor when the impostor is no longer
// among the remaining players or at most two players would remain, and
// merely continues the round otherwise.
func EvaluateVotes(alive []*Player, impostorID string) VoteResult {
	counts := VoteCounts(alive)
	if len(counts) == 0 {
		return VoteResult{Outcome: OutcomeTie, Counts: counts}
	}

	type entry struct {
		id    string
		votes int
	}
	ranked := make([]entry, 0, len(counts))
	for id, n := range counts {
		ranked = append(ranked, entry{id: id, votes: n})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].votes > ranked[j].votes })

	if len(ranked) > 1 && ranked[0].votes == ranked[1].votes {
		return VoteResult{Outcome: OutcomeTie, Votes: ranked[0].votes, Counts: counts}
	}

	eliminated := ranked[0]
	result := VoteResult{
		EliminatedID: eliminated.id,
		Votes:        eliminated.votes,
		Counts:       counts,
	}

	if eliminated.id == impostorID {
		result.Outcome = OutcomeImpostorCaught
		return result
	}

	remaining := 0
	impostorAlive := false
	for _, p := range alive {
		if p.ID == eliminated.id {
			continue
		}
		remaining++
		if p.ID == impostorID {
			impostorAlive = true
		}
	}

	// With only the impostor and one innocent left, deduction is settled in
	// the impostor's favor regardless of further votes.
	if !impostorAlive || remaining <= 2 {
		result.Outcome = OutcomeImpostorWins
		return result
	}

	result.Outcome = OutcomeInnocentEliminated
	return result
}
