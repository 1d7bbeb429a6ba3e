package state_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepdelve/crawler-core/internal/entities/crawler"
	"github.com/deepdelve/crawler-core/internal/errors"
	"github.com/deepdelve/crawler-core/internal/state"
)

func TestCharacterCloneIsolation(t *testing.T) {
	s := state.New()
	s.SetCharacter(crawler.NewCharacterTemplate())

	c, _ := s.Character()
	c.Gold = 9999
	c.Inventory = nil

	fresh, _ := s.Character()
	assert.NotEqual(t, 9999.0, fresh.Gold, "mutating a read copy must not touch the cache")
	assert.NotEmpty(t, fresh.Inventory)
}

func TestCommitCharacterCAS(t *testing.T) {
	s := state.New()
	s.SetCharacter(crawler.NewCharacterTemplate())

	a, va := s.Character()
	b, vb := s.Character()
	require.Equal(t, va, vb)

	a.Gold = 50
	require.NoError(t, s.CommitCharacter(a, va))

	b.Gold = 75
	err := s.CommitCharacter(b, vb)
	require.Error(t, err, "stale commit must be rejected")
	assert.True(t, errors.IsFailedPrecondition(err))

	fresh, _ := s.Character()
	assert.InDelta(t, 50.0, fresh.Gold, 1e-9)
}

func TestConcurrentCommitsNeverLoseUpdates(t *testing.T) {
	s := state.New()
	s.SetCharacter(crawler.NewCharacterTemplate())

	const writers = 8
	const increments = 25

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				for {
					c, v := s.Character()
					c.Experience++
					if err := s.CommitCharacter(c, v); err == nil {
						break
					}
				}
			}
		}()
	}
	wg.Wait()

	c, _ := s.Character()
	assert.Equal(t, writers*increments, c.Experience)
}

func TestEnemyLifecycle(t *testing.T) {
	s := state.New()
	assert.Zero(t, s.EnemyCount())

	s.AddEnemy(0, &crawler.Enemy{ArchetypeID: "rat", Health: 8})
	s.AddEnemy(1, &crawler.Enemy{ArchetypeID: "bat", Health: 6})
	assert.Equal(t, 2, s.EnemyCount())
	assert.Equal(t, []int{0, 1}, s.EnemyIndices())

	ok := s.UpdateEnemy(0, func(e *crawler.Enemy) { e.Health -= 5 })
	require.True(t, ok)
	e, found := s.Enemy(0)
	require.True(t, found)
	assert.Equal(t, 3, e.Health)

	// clone isolation
	e.Health = -100
	fresh, _ := s.Enemy(0)
	assert.Equal(t, 3, fresh.Health)

	s.RemoveEnemy(0)
	_, found = s.Enemy(0)
	assert.False(t, found)

	s.ReplaceEnemies(map[int]*crawler.Enemy{
		0: {ArchetypeID: "goblin", Health: 14},
	})
	assert.Equal(t, 1, s.EnemyCount())
	assert.False(t, s.UpdateEnemy(1, func(*crawler.Enemy) {}))
}

func TestCombatLog(t *testing.T) {
	s := state.New()
	s.AppendLog("You hit the rat for 6 damage.")
	s.AppendLog("The rat missed.", "You hit the rat for 7 damage.")
	assert.Len(t, s.CombatLog(), 3)

	s.AppendPlayerDamage(crawler.DmgPayload{Dmg: 4})
	assert.Len(t, s.PlayerDamageLog(), 1)

	s.ClearCombatLog()
	assert.Empty(t, s.CombatLog())
	assert.Empty(t, s.PlayerDamageLog())
}
