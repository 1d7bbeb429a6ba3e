// Package state holds the in-memory session state: the cached character
// record, the live enemy mapping, the combat log, and the active target.
// It is the single logical owner of mutable game state; every component
// reads clones and commits mutations back through it.
package state

import (
	"sort"
	"sync"

	"github.com/deepdelve/crawler-core/internal/entities/crawler"
	"github.com/deepdelve/crawler-core/internal/errors"
)

// SessionStore serializes all character and enemy mutations for one local
// session. Character commits use compare-and-swap on a version counter so
// a read-modify-persist cycle can never silently lose an update.
type SessionStore struct {
	mu sync.RWMutex

	character *crawler.Character
	version   uint64

	enemies        map[int]*crawler.Enemy
	currentEnemyID int

	playerDamageLog []crawler.DmgPayload
	combatLog       []string
}

// New creates an empty session store
func New() *SessionStore {
	return &SessionStore{
		enemies: make(map[int]*crawler.Enemy),
	}
}

// SetCharacter installs the character record, resetting the version
// counter. Used on load/seed and on defeat restart.
func (s *SessionStore) SetCharacter(c *crawler.Character) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.character = c.Clone()
	s.version++
}

// Character returns a deep copy of the cached character and the version
// to pass back to CommitCharacter.
func (s *SessionStore) Character() (*crawler.Character, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.character.Clone(), s.version
}

// CommitCharacter installs a mutated character copy if no other writer
// committed since the copy was taken. Returns an aborted error on a
// version mismatch; the caller rereads and reapplies.
func (s *SessionStore) CommitCharacter(c *crawler.Character, version uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version != s.version {
		return errors.Newf(errors.CodeFailedPrecondition,
			"character version changed (have %d, committing %d)", s.version, version)
	}
	s.character = c.Clone()
	s.version++
	return nil
}

// Enemy returns a deep copy of the enemy at the given index
func (s *SessionStore) Enemy(index int) (*crawler.Enemy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.enemies[index]
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

// UpdateEnemy applies fn to the live enemy record under the write lock
func (s *SessionStore) UpdateEnemy(index int, fn func(*crawler.Enemy)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enemies[index]
	if !ok {
		return false
	}
	fn(e)
	return true
}

// AddEnemy inserts a live enemy at the given index
func (s *SessionStore) AddEnemy(index int, e *crawler.Enemy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enemies[index] = e.Clone()
}

// RemoveEnemy deletes the enemy at the given index
func (s *SessionStore) RemoveEnemy(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.enemies, index)
}

// ReplaceEnemies clears and bulk-replaces the live enemy mapping. Only the
// spawn engine calls this.
func (s *SessionStore) ReplaceEnemies(enemies map[int]*crawler.Enemy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enemies = make(map[int]*crawler.Enemy, len(enemies))
	for idx, e := range enemies {
		s.enemies[idx] = e.Clone()
	}
}

// EnemyCount returns the number of live enemies
func (s *SessionStore) EnemyCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.enemies)
}

// EnemyIndices returns the live enemy indices in ascending order
func (s *SessionStore) EnemyIndices() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	indices := make([]int, 0, len(s.enemies))
	for idx := range s.enemies {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

// Enemies returns a deep copy of the live enemy mapping
func (s *SessionStore) Enemies() map[int]*crawler.Enemy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int]*crawler.Enemy, len(s.enemies))
	for idx, e := range s.enemies {
		out[idx] = e.Clone()
	}
	return out
}

// CurrentEnemyID returns the active target index. The value is only
// meaningful while the enemy mapping is non-empty.
func (s *SessionStore) CurrentEnemyID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentEnemyID
}

// SetCurrentEnemyID sets the active target index
func (s *SessionStore) SetCurrentEnemyID(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentEnemyID = index
}

// AppendPlayerDamage records a damage application against the player
func (s *SessionStore) AppendPlayerDamage(p crawler.DmgPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playerDamageLog = append(s.playerDamageLog, p)
}

// PlayerDamageLog returns a copy of the player's damage log
func (s *SessionStore) PlayerDamageLog() []crawler.DmgPayload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]crawler.DmgPayload(nil), s.playerDamageLog...)
}

// AppendLog appends human-readable lines to the combat log
func (s *SessionStore) AppendLog(lines ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.combatLog = append(s.combatLog, lines...)
}

// CombatLog returns a copy of the combat log
func (s *SessionStore) CombatLog() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.combatLog...)
}

// ClearCombatLog empties the combat log and the player damage log.
// Called on room change.
func (s *SessionStore) ClearCombatLog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.combatLog = nil
	s.playerDamageLog = nil
}
