// Package session implements the authoritative room state machine. Every
// transition acquires a per-room lock, re-reads state, validates its guard
// and only then mutates, so concurrent actors collapse into one effective
// transition. In particular, vote finalization happens exactly once per
// completed vote regardless of how many clients observe completion.
package session

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"impostor/internal/game"
	"impostor/internal/notify"
	"impostor/internal/store"
)

// MinPlayers is the fewest non-spectator players needed to start a round.
const MinPlayers = 3

// Manager owns all room and roster mutations. Reads go straight to the
// store; writes are serialized per room code.
type Manager struct {
	store store.Store
	bus   *notify.Bus
	words *game.WordService

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a manager on top of the given store, bus and catalog.
func NewManager(st store.Store, bus *notify.Bus, words *game.WordService) *Manager {
	return &Manager{
		store: st,
		bus:   bus,
		words: words,
		locks: make(map[string]*sync.Mutex),
	}
}

// roomLock returns the mutex serializing transitions for a room code.
func (m *Manager) roomLock(code string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.locks[code]
	if !ok {
		l = &sync.Mutex{}
		m.locks[code] = l
	}
	return l
}

func (m *Manager) dropLock(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, code)
}

// CreateRoom creates a room in LOBBY with its first (host) player.
func (m *Manager) CreateRoom(ctx context.Context, hostName string) (*game.Room, *game.Player, error) {
	hostName, err := validateName(hostName)
	if err != nil {
		return nil, nil, err
	}

	room, err := m.store.CreateRoom(ctx)
	if err != nil {
		return nil, nil, err
	}

	player := game.NewPlayer(room.Code, hostName, false)
	if err := m.store.InsertPlayer(ctx, player); err != nil {
		return nil, nil, err
	}

	zap.L().Info("room created",
		zap.String("room", room.Code),
		zap.String("host", player.Name),
	)
	return room, player, nil
}

// Join adds a player to a room, or reattaches a reconnecting client to its
// existing record when a name matches case-insensitively. Non-spectators may
// only join while the room is in the lobby; spectators may join at any time.
func (m *Manager) Join(ctx context.Context, code, name string, spectator bool) (*game.Room, *game.Player, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, nil, err
	}

	lock := m.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	room, err := m.store.GetRoom(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	players, err := m.store.ListPlayers(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	if existing := game.FindByName(players, name); existing != nil {
		return room, existing, nil
	}

	if !spectator && room.Status != game.StatusLobby {
		return nil, nil, game.ErrRoomAlreadyStarted
	}

	player := game.NewPlayer(code, name, spectator)
	if err := m.store.InsertPlayer(ctx, player); err != nil {
		return nil, nil, err
	}

	m.publishPlayers(ctx, code)
	zap.L().Info("player joined",
		zap.String("room", code),
		zap.String("player", player.Name),
		zap.Bool("spectator", spectator),
	)
	return room, player, nil
}

// Leave removes a player unconditionally, in any room status.
func (m *Manager) Leave(ctx context.Context, playerID string) error {
	player, err := m.store.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}

	lock := m.roomLock(player.RoomCode)
	lock.Lock()
	defer lock.Unlock()

	if err := m.store.DeletePlayer(ctx, playerID); err != nil {
		return err
	}
	if err := m.reconcileDeparture(ctx, player.RoomCode, playerID); err != nil {
		return err
	}

	m.publishPlayers(ctx, player.RoomCode)
	zap.L().Info("player left",
		zap.String("room", player.RoomCode),
		zap.String("player", player.Name),
	)
	return nil
}

// Kick removes a player on behalf of the host. Same effect as Leave, but
// only the current derived host may invoke it.
func (m *Manager) Kick(ctx context.Context, actorID, targetID string) error {
	target, err := m.store.GetPlayer(ctx, targetID)
	if err != nil {
		return err
	}

	lock := m.roomLock(target.RoomCode)
	lock.Lock()
	defer lock.Unlock()

	players, err := m.store.ListPlayers(ctx, target.RoomCode)
	if err != nil {
		return err
	}
	if err := requireHost(players, actorID); err != nil {
		return err
	}

	if err := m.store.DeletePlayer(ctx, targetID); err != nil {
		return err
	}
	if err := m.reconcileDeparture(ctx, target.RoomCode, targetID); err != nil {
		return err
	}

	m.publishPlayers(ctx, target.RoomCode)
	zap.L().Info("player kicked",
		zap.String("room", target.RoomCode),
		zap.String("player", target.Name),
	)
	return nil
}

// Room returns a room together with its roster ordered by CreatedAt.
func (m *Manager) Room(ctx context.Context, code string) (*game.Room, []*game.Player, error) {
	room, err := m.store.GetRoom(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	players, err := m.store.ListPlayers(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	return room, players, nil
}

// StartGame begins a round: picks category and word, assigns the impostor
// uniformly among non-spectator players and moves the room to PLAYING. The
// guard (LOBBY status, at least MinPlayers eligible players, host actor) is
// checked under the room lock, atomically with the mutation.
func (m *Manager) StartGame(ctx context.Context, actorID, code, requestedCategory string) (*game.Room, error) {
	lock := m.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	room, err := m.store.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.Status != game.StatusLobby {
		return nil, game.ErrInvalidPhase
	}

	players, err := m.store.ListPlayers(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := requireHost(players, actorID); err != nil {
		return nil, err
	}

	active := game.Active(players)
	if len(active) < MinPlayers {
		return nil, game.ErrNotEnoughPlayers
	}

	var category, word string
	if requestedCategory != "" && m.words.HasCategory(requestedCategory) {
		category = requestedCategory
		word, err = m.words.RandomWord(category)
		if err != nil {
			return nil, err
		}
	} else {
		category, word = m.words.RandomPick()
	}

	impostor := active[rand.Intn(len(active))]

	room.Status = game.StatusPlaying
	room.Category = &category
	room.SecretWord = &word
	room.ImpostorID = &impostor.ID
	if err := m.store.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	m.bus.PublishRoom(room)
	zap.L().Info("round started",
		zap.String("room", code),
		zap.String("category", category),
		zap.Int("players", len(active)),
	)
	return room, nil
}

// StartVoting moves a PLAYING room to VOTING. Host only.
func (m *Manager) StartVoting(ctx context.Context, actorID, code string) error {
	lock := m.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	room, err := m.store.GetRoom(ctx, code)
	if err != nil {
		return err
	}
	if room.Status != game.StatusPlaying {
		return game.ErrInvalidPhase
	}

	players, err := m.store.ListPlayers(ctx, code)
	if err != nil {
		return err
	}
	if err := requireHost(players, actorID); err != nil {
		return err
	}

	room.Status = game.StatusVoting
	if err := m.store.SaveRoom(ctx, room); err != nil {
		return err
	}

	m.bus.PublishRoom(room)
	return nil
}

// CastVote records a vote from an alive non-spectator for another alive
// non-spectator in the same room. When the vote completes the round it is
// finalized in the same critical section and the result is returned;
// otherwise the result is nil.
func (m *Manager) CastVote(ctx context.Context, voterID, targetID string) (*game.VoteResult, error) {
	voter, err := m.store.GetPlayer(ctx, voterID)
	if err != nil {
		return nil, err
	}

	lock := m.roomLock(voter.RoomCode)
	lock.Lock()
	defer lock.Unlock()

	room, err := m.store.GetRoom(ctx, voter.RoomCode)
	if err != nil {
		return nil, err
	}
	if room.Status != game.StatusVoting {
		return nil, game.ErrInvalidPhase
	}

	players, err := m.store.ListPlayers(ctx, voter.RoomCode)
	if err != nil {
		return nil, err
	}

	voter = game.FindByID(players, voterID)
	if voter == nil || voter.IsSpectator || !voter.IsAlive {
		return nil, game.ErrInvalidVote
	}
	target := game.FindByID(players, targetID)
	if target == nil || target.IsSpectator || !target.IsAlive || target.ID == voter.ID {
		return nil, game.ErrInvalidVote
	}

	voter.VotedFor = &targetID
	if err := m.store.SavePlayer(ctx, voter); err != nil {
		return nil, err
	}

	m.publishPlayers(ctx, voter.RoomCode)

	if !game.VotingComplete(players) {
		return nil, nil
	}
	result, err := m.finalizeLocked(ctx, room, players)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FinalizeVoting resolves a completed vote. When the room is not in VOTING,
// or not every eligible player has voted yet, it is a silent no-op, so any
// number of concurrent or repeated invocations collapse into one effective
// transition.
func (m *Manager) FinalizeVoting(ctx context.Context, code string) (*game.VoteResult, error) {
	lock := m.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	room, err := m.store.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.Status != game.StatusVoting {
		return nil, nil
	}

	players, err := m.store.ListPlayers(ctx, code)
	if err != nil {
		return nil, err
	}
	if !game.VotingComplete(players) {
		return nil, nil
	}

	return m.finalizeLocked(ctx, room, players)
}

// reconcileDeparture repairs a mid-vote roster change after a player has
// been removed. Ballots cast for the departed player are cleared so that no
// vote references someone outside the room; when the departure itself
// completes the remaining ballot set, the vote is resolved on the spot.
// Callers hold the room lock.
func (m *Manager) reconcileDeparture(ctx context.Context, code, departedID string) error {
	room, err := m.store.GetRoom(ctx, code)
	if err != nil {
		return err
	}
	if room.Status != game.StatusVoting {
		return nil
	}

	players, err := m.store.ListPlayers(ctx, code)
	if err != nil {
		return err
	}

	for _, p := range players {
		if p.VotedFor == nil || *p.VotedFor != departedID {
			continue
		}
		p.VotedFor = nil
		if err := m.store.SavePlayer(ctx, p); err != nil {
			return err
		}
	}

	if !game.VotingComplete(players) {
		return nil
	}
	_, err = m.finalizeLocked(ctx, room, players)
	return err
}

// finalizeLocked applies the vote resolution. Callers hold the room lock and
// have verified status == VOTING.
func (m *Manager) finalizeLocked(ctx context.Context, room *game.Room, players []*game.Player) (*game.VoteResult, error) {
	alive := game.Alive(players)

	impostorID := ""
	if room.ImpostorID != nil {
		impostorID = *room.ImpostorID
	}
	result := game.EvaluateVotes(alive, impostorID)

	// The eliminee can be absent when the roster changed between tallying
	// and resolution; the outcome still stands.
	if eliminated := game.FindByID(players, result.EliminatedID); eliminated != nil {
		eliminated.IsAlive = false
		if err := m.store.SavePlayer(ctx, eliminated); err != nil {
			return nil, err
		}
	}

	switch result.Outcome {
	case game.OutcomeTie, game.OutcomeInnocentEliminated:
		if err := m.clearVotes(ctx, players); err != nil {
			return nil, err
		}
		room.Status = game.StatusPlaying
	case game.OutcomeImpostorCaught, game.OutcomeImpostorWins:
		room.Status = game.StatusFinished
	}

	if err := m.store.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	m.publishPlayers(ctx, room.Code)
	m.bus.PublishRoom(room)
	zap.L().Info("vote resolved",
		zap.String("room", room.Code),
		zap.String("outcome", string(result.Outcome)),
		zap.String("eliminated", result.EliminatedID),
	)
	return &result, nil
}

// ResumeDiscussion aborts an in-progress vote: votes are cleared and the
// room returns to PLAYING. Host only.
func (m *Manager) ResumeDiscussion(ctx context.Context, actorID, code string) error {
	lock := m.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	room, err := m.store.GetRoom(ctx, code)
	if err != nil {
		return err
	}
	if room.Status != game.StatusVoting {
		return game.ErrInvalidPhase
	}

	players, err := m.store.ListPlayers(ctx, code)
	if err != nil {
		return err
	}
	if err := requireHost(players, actorID); err != nil {
		return err
	}

	if err := m.clearVotes(ctx, players); err != nil {
		return err
	}
	room.Status = game.StatusPlaying
	if err := m.store.SaveRoom(ctx, room); err != nil {
		return err
	}

	m.publishPlayers(ctx, code)
	m.bus.PublishRoom(room)
	return nil
}

// ReturnToLobby resets a FINISHED room for another game: every player is
// revived with votes cleared, and the round fields are blanked. Host only.
func (m *Manager) ReturnToLobby(ctx context.Context, actorID, code string) error {
	lock := m.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	room, err := m.store.GetRoom(ctx, code)
	if err != nil {
		return err
	}
	if room.Status != game.StatusFinished {
		return game.ErrInvalidPhase
	}

	players, err := m.store.ListPlayers(ctx, code)
	if err != nil {
		return err
	}
	if err := requireHost(players, actorID); err != nil {
		return err
	}

	for _, p := range players {
		if p.IsAlive && p.VotedFor == nil {
			continue
		}
		p.IsAlive = true
		p.VotedFor = nil
		if err := m.store.SavePlayer(ctx, p); err != nil {
			return err
		}
	}

	room.Status = game.StatusLobby
	room.Category = nil
	room.SecretWord = nil
	room.ImpostorID = nil
	if err := m.store.SaveRoom(ctx, room); err != nil {
		return err
	}

	m.publishPlayers(ctx, code)
	m.bus.PublishRoom(room)
	zap.L().Info("returned to lobby", zap.String("room", code))
	return nil
}

// ExpireIdleRooms deletes rooms not touched since the cutoff and releases
// their locks. Invoked periodically by the server.
func (m *Manager) ExpireIdleRooms(ctx context.Context, cutoff time.Time) (int, error) {
	codes, err := m.store.DeleteIdleRooms(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	for _, code := range codes {
		m.dropLock(code)
		zap.L().Info("expired idle room", zap.String("room", code))
	}
	return len(codes), nil
}

// clearVotes resets VotedFor for every player that has one set.
func (m *Manager) clearVotes(ctx context.Context, players []*game.Player) error {
	for _, p := range players {
		if p.VotedFor == nil {
			continue
		}
		p.VotedFor = nil
		if err := m.store.SavePlayer(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// publishPlayers pushes the current roster to the room's subscribers.
func (m *Manager) publishPlayers(ctx context.Context, code string) {
	players, err := m.store.ListPlayers(ctx, code)
	if err != nil {
		zap.L().Warn("listing players for notification", zap.String("room", code), zap.Error(err))
		return
	}
	m.bus.PublishPlayers(code, players)
}

// requireHost verifies that the actor is the current derived host.
func requireHost(players []*game.Player, actorID string) error {
	host := game.Host(players)
	if host == nil || host.ID != actorID {
		return game.ErrNotHost
	}
	return nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > game.MaxNameLength {
		return "", game.ErrInvalidName
	}
	return name, nil
}
