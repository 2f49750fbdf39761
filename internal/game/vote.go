package game

// VoteCounts tallies VotedFor occurrences across the given players.
// Spectators contribute nothing because their VotedFor is never set.
func VoteCounts(players []*Player) map[string]int {
	counts := make(map[string]int)
	for _, p := range players {
		if p.VotedFor != nil {
			counts[*p.VotedFor]++
		}
	}
	return counts
}

// VotersOf returns the names of the players who voted for targetID.
func VotersOf(players []*Player, targetID string) []string {
	var names []string
	for _, p := range players {
		if p.VotedFor != nil && *p.VotedFor == targetID {
			names = append(names, p.Name)
		}
	}
	return names
}

// VotingComplete reports whether every alive non-spectator player has cast a
// vote. With zero eligible players it is vacuously true.
func VotingComplete(players []*Player) bool {
	for _, p := range players {
		if p.IsSpectator || !p.IsAlive {
			continue
		}
		if p.VotedFor == nil {
			return false
		}
	}
	return true
}
