package game

import (
	"testing"
	"time"
)

func testPlayer(name string, alive, spectator bool, votedFor string) *Player {
	p := &Player{
		ID:          "id-" + name,
		RoomCode:    "ABC123",
		Name:        name,
		IsAlive:     alive,
		IsSpectator: spectator,
		CreatedAt:   time.Now(),
	}
	if votedFor != "" {
		p.VotedFor = &votedFor
	}
	return p
}

func TestVoteCounts(t *testing.T) {
	t.Run("sums to the number of non-nil votes", func(t *testing.T) {
		players := []*Player{
			testPlayer("ana", true, false, "id-beto"),
			testPlayer("beto", true, false, "id-ana"),
			testPlayer("caro", true, false, "id-beto"),
			testPlayer("dani", true, false, ""),
		}

		counts := VoteCounts(players)

		total := 0
		for _, n := range counts {
			total += n
		}
		if total != 3 {
			t.Errorf("expected 3 votes counted, got %d", total)
		}
		if counts["id-beto"] != 2 {
			t.Errorf("expected 2 votes for beto, got %d", counts["id-beto"])
		}
		if counts["id-ana"] != 1 {
			t.Errorf("expected 1 vote for ana, got %d", counts["id-ana"])
		}
	})

	t.Run("is independent of roster order", func(t *testing.T) {
		forward := []*Player{
			testPlayer("ana", true, false, "id-caro"),
			testPlayer("beto", true, false, "id-caro"),
			testPlayer("caro", true, false, "id-ana"),
		}
		reversed := []*Player{forward[2], forward[1], forward[0]}

		a := VoteCounts(forward)
		b := VoteCounts(reversed)

		if len(a) != len(b) {
			t.Fatalf("count maps differ in size: %d vs %d", len(a), len(b))
		}
		for id, n := range a {
			if b[id] != n {
				t.Errorf("count for %s differs: %d vs %d", id, n, b[id])
			}
		}
	})

	t.Run("ignores spectators by convention", func(t *testing.T) {
		players := []*Player{
			testPlayer("ana", true, false, "id-beto"),
			testPlayer("watcher", true, true, ""),
		}

		counts := VoteCounts(players)
		if counts["id-beto"] != 1 || len(counts) != 1 {
			t.Errorf("unexpected counts: %v", counts)
		}
	})
}

func TestVotersOf(t *testing.T) {
	players := []*Player{
		testPlayer("ana", true, false, "id-caro"),
		testPlayer("beto", true, false, "id-caro"),
		testPlayer("caro", true, false, "id-ana"),
	}

	voters := VotersOf(players, "id-caro")
	if len(voters) != 2 {
		t.Fatalf("expected 2 voters, got %d", len(voters))
	}
	seen := map[string]bool{}
	for _, name := range voters {
		seen[name] = true
	}
	if !seen["ana"] || !seen["beto"] {
		t.Errorf("unexpected voters: %v", voters)
	}

	if got := VotersOf(players, "id-nobody"); len(got) != 0 {
		t.Errorf("expected no voters, got %v", got)
	}
}

func TestVotingComplete(t *testing.T) {
	t.Run("true when every alive non-spectator voted", func(t *testing.T) {
		players := []*Player{
			testPlayer("ana", true, false, "id-beto"),
			testPlayer("beto", true, false, "id-ana"),
		}
		if !VotingComplete(players) {
			t.Error("expected voting to be complete")
		}
	})

	t.Run("false when any eligible player abstains", func(t *testing.T) {
		players := []*Player{
			testPlayer("ana", true, false, "id-beto"),
			testPlayer("beto", true, false, ""),
		}
		if VotingComplete(players) {
			t.Error("expected voting to be incomplete")
		}
	})

	t.Run("eliminated players do not block completion", func(t *testing.T) {
		players := []*Player{
			testPlayer("ana", true, false, "id-beto"),
			testPlayer("beto", false, false, ""),
		}
		if !VotingComplete(players) {
			t.Error("expected voting to be complete")
		}
	})

	t.Run("spectators do not block completion", func(t *testing.T) {
		players := []*Player{
			testPlayer("ana", true, false, "id-ana"),
			testPlayer("watcher", true, true, ""),
		}
		if !VotingComplete(players) {
			t.Error("expected voting to be complete")
		}
	})

	t.Run("vacuously true with no eligible players", func(t *testing.T) {
		if !VotingComplete(nil) {
			t.Error("expected vacuous completion for empty roster")
		}
		if !VotingComplete([]*Player{testPlayer("watcher", true, true, "")}) {
			t.Error("expected vacuous completion for spectator-only roster")
		}
	})
}
