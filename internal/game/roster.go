package game

import "strings"

// Host returns the non-spectator player with the earliest CreatedAt, or nil
// for an empty roster. The host is always derived, never stored, so it stays
// correct when the original host leaves.
func Host(players []*Player) *Player {
	var host *Player
	for _, p := range players {
		if p.IsSpectator {
			continue
		}
		if host == nil || p.CreatedAt.Before(host.CreatedAt) {
			host = p
		}
	}
	return host
}

// Active returns the non-spectator players, preserving roster order.
func Active(players []*Player) []*Player {
	active := make([]*Player, 0, len(players))
	for _, p := range players {
		if !p.IsSpectator {
			active = append(active, p)
		}
	}
	return active
}

// Alive returns the alive, non-spectator players.
func Alive(players []*Player) []*Player {
	alive := make([]*Player, 0, len(players))
	for _, p := range players {
		if !p.IsSpectator && p.IsAlive {
			alive = append(alive, p)
		}
	}
	return alive
}

// FindByID returns the player with the given ID, or nil.
func FindByID(players []*Player, id string) *Player {
	for _, p := range players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FindByName returns the first player whose name matches case-insensitively,
// or nil. Used to reattach a reconnecting client to its existing record.
func FindByName(players []*Player, name string) *Player {
	for _, p := range players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}
