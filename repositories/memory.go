package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"

	"github.com/Dosada05/swiss-tournament/models"
)

// MemoryStore keeps players and matches in process memory and enforces the
// same constraints as the Postgres schema. Ids come from counters that are
// never rewound, like serial columns. A repository call made with the
// executor of an open transaction joins it; any other call waits until that
// transaction has finished, so a rollback only reverts the transaction's own
// writes.
type MemoryStore struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	players      []models.Player
	matches      []models.Match
	nextPlayerID int
	nextMatchID  int
	now          func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextPlayerID: 1, nextMatchID: 1, now: time.Now}
}

func (s *MemoryStore) Players() PlayerRepository { return &memoryPlayerRepository{s: s} }

func (s *MemoryStore) Matches() MatchRepository { return &memoryMatchRepository{s: s} }

func (s *MemoryStore) Transactor() Transactor { return &memoryTransactor{s: s} }

type memorySnapshot struct {
	players []models.Player
	matches []models.Match
}

func (s *MemoryStore) snapshot() memorySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memorySnapshot{
		players: append([]models.Player(nil), s.players...),
		matches: append([]models.Match(nil), s.matches...),
	}
}

func (s *MemoryStore) restore(snap memorySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = snap.players
	s.matches = snap.matches
}

func (s *MemoryStore) playerExists(id int) bool {
	return lo.ContainsBy(s.players, func(p models.Player) bool { return p.ID == id })
}

func (s *MemoryStore) pairPlayed(a, b int) bool {
	if a == b {
		return false
	}
	return lo.ContainsBy(s.matches, func(m models.Match) bool {
		return m.Involves(a) && m.Involves(b)
	})
}

var errNoSQL = errors.New("memory store does not execute SQL")

// memoryTx marks repository calls that belong to an open transaction. It is
// only an identity; its SQL methods never run a query.
type memoryTx struct {
	s    *MemoryStore
	open atomic.Bool
}

func (tx *memoryTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errNoSQL
}

func (tx *memoryTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errNoSQL
}

func (tx *memoryTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

// enter admits a repository call. Calls carrying the executor of the open
// transaction run inside it; all others are serialized behind txMu.
func (s *MemoryStore) enter(exec SQLExecutor) (release func()) {
	if tx, ok := exec.(*memoryTx); ok && tx.s == s && tx.open.Load() {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

type memoryTransactor struct {
	s *MemoryStore
}

// WithinTx serializes units of work and restores the previous state when fn
// fails. Counters keep advancing on rollback, as Postgres sequences do.
func (t *memoryTransactor) WithinTx(ctx context.Context, fn func(exec SQLExecutor) error) error {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memoryTx{s: t.s}
	tx.open.Store(true)
	defer tx.open.Store(false)

	snap := t.s.snapshot()
	if err := fn(tx); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

type memoryPlayerRepository struct {
	s *MemoryStore
}

func (r *memoryPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	defer r.s.enter(exec)()

	if strings.TrimSpace(player.Name) == "" {
		return ErrPlayerNameInvalid
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	player.ID = r.s.nextPlayerID
	player.CreatedAt = r.s.now()
	r.s.nextPlayerID++
	r.s.players = append(r.s.players, *player)
	return nil
}

func (r *memoryPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	defer r.s.enter(exec)()

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := lo.Find(r.s.players, func(p models.Player) bool { return p.ID == id })
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return &p, nil
}

func (r *memoryPlayerRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Player, error) {
	defer r.s.enter(exec)()

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	players := make([]*models.Player, len(r.s.players))
	for i := range r.s.players {
		p := r.s.players[i]
		players[i] = &p
	}
	return players, nil
}

func (r *memoryPlayerRepository) Count(ctx context.Context, exec SQLExecutor) (int, error) {
	defer r.s.enter(exec)()

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.players), nil
}

func (r *memoryPlayerRepository) DeleteAll(ctx context.Context, exec SQLExecutor) (int64, error) {
	defer r.s.enter(exec)()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if len(r.s.matches) > 0 {
		return 0, ErrPlayersReferenced
	}
	n := int64(len(r.s.players))
	r.s.players = nil
	return n, nil
}

type memoryMatchRepository struct {
	s *MemoryStore
}

func (r *memoryMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	defer r.s.enter(exec)()

	if match.PlayerA == match.PlayerB || !match.Involves(match.WinnerID) {
		return ErrMatchInvalid
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.playerExists(match.PlayerA) || !r.s.playerExists(match.PlayerB) {
		return ErrMatchPlayerInvalid
	}
	if r.s.pairPlayed(match.PlayerA, match.PlayerB) {
		return ErrMatchAlreadyPlayed
	}
	match.ID = r.s.nextMatchID
	match.CreatedAt = r.s.now()
	r.s.nextMatchID++
	r.s.matches = append(r.s.matches, *match)
	return nil
}

func (r *memoryMatchRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Match, error) {
	defer r.s.enter(exec)()

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matches := make([]*models.Match, len(r.s.matches))
	for i := range r.s.matches {
		m := r.s.matches[i]
		matches[i] = &m
	}
	return matches, nil
}

func (r *memoryMatchRepository) Count(ctx context.Context, exec SQLExecutor) (int, error) {
	defer r.s.enter(exec)()

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.matches), nil
}

func (r *memoryMatchRepository) HasPlayed(ctx context.Context, exec SQLExecutor, playerA, playerB int) (bool, error) {
	defer r.s.enter(exec)()

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.pairPlayed(playerA, playerB), nil
}

func (r *memoryMatchRepository) DeleteAll(ctx context.Context, exec SQLExecutor) (int64, error) {
	defer r.s.enter(exec)()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := int64(len(r.s.matches))
	r.s.matches = nil
	return n, nil
}
