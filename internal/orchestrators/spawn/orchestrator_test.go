package spawn_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepdelve/crawler-core/internal/entities/crawler"
	"github.com/deepdelve/crawler-core/internal/errors"
	"github.com/deepdelve/crawler-core/internal/orchestrators/spawn"
	"github.com/deepdelve/crawler-core/internal/state"
)

// scriptedRoller replays a fixed sequence of rolls, then repeats the last
type scriptedRoller struct {
	rolls []int
	i     int
}

func (r *scriptedRoller) Roll(size int) (int, error) {
	roll := r.rolls[r.i]
	if r.i < len(r.rolls)-1 {
		r.i++
	}
	if roll > size {
		roll = size
	}
	return roll, nil
}

func (r *scriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// gridMap is a stub TileMap with a walkable rectangle
type gridMap struct {
	tiles   [][]int
	playerX int
	playerY int
}

func (m *gridMap) Tiles() [][]int             { return m.tiles }
func (m *gridMap) PlayerPosition() (int, int) { return m.playerX, m.playerY }
func (m *gridMap) MapID() string              { return "catacombs_1" }

func openGrid(w, h int) [][]int {
	tiles := make([][]int, h)
	for y := range tiles {
		tiles[y] = make([]int, w)
		for x := range tiles[y] {
			tiles[y][x] = 1
		}
	}
	return tiles
}

func newOrchestrator(t *testing.T, store *state.SessionStore, roller *scriptedRoller, m *gridMap) spawn.Service {
	t.Helper()
	svc, err := spawn.NewOrchestrator(&spawn.Config{
		Store:        store,
		Roller:       roller,
		Map:          m,
		FallbackTile: spawn.Position{X: 1, Y: 1},
	})
	require.NoError(t, err)
	return svc
}

func TestConfigValidation(t *testing.T) {
	_, err := spawn.NewOrchestrator(&spawn.Config{})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestPickArchetypeUsesMultiset(t *testing.T) {
	store := state.New()
	m := &gridMap{tiles: openGrid(8, 8)}

	// roll 1 lands on the first multiset entry
	svc := newOrchestrator(t, store, &scriptedRoller{rolls: []int{1}}, m)
	id, err := svc.PickArchetype()
	require.NoError(t, err)
	assert.Equal(t, crawler.SpawnMultiset[0], id)

	// last roll lands on the last entry
	svc = newOrchestrator(t, store, &scriptedRoller{rolls: []int{len(crawler.SpawnMultiset)}}, m)
	id, err = svc.PickArchetype()
	require.NoError(t, err)
	assert.Equal(t, crawler.SpawnMultiset[len(crawler.SpawnMultiset)-1], id)
}

func TestScaleEnemyScenario(t *testing.T) {
	svc := newOrchestrator(t, state.New(), &scriptedRoller{rolls: []int{1}}, &gridMap{tiles: openGrid(4, 4)})

	// rat base health is 8; floor(8 * (1 + 2*0.55)) = 16
	enemy, err := svc.ScaleEnemy(&spawn.ScaleEnemyInput{ArchetypeID: "rat", CombatScale: 3})
	require.NoError(t, err)
	assert.Equal(t, 16, enemy.Health)
	assert.Equal(t, 16, enemy.Stats.MaxHealth)

	// level' = baseLevel + floor(combatScale - 1)
	assert.Equal(t, crawler.Archetypes["rat"].BaseLevel+2, enemy.Level)

	// xp' = floor(baseXp * rewardScale), rewardScale defaulting to combatScale
	assert.Equal(t, crawler.Archetypes["rat"].BaseXP*3, enemy.XP)
}

func TestScaleEnemyMonotonicAndPositive(t *testing.T) {
	svc := newOrchestrator(t, state.New(), &scriptedRoller{rolls: []int{1}}, &gridMap{tiles: openGrid(4, 4)})

	for id := range crawler.Archetypes {
		prev, err := svc.ScaleEnemy(&spawn.ScaleEnemyInput{ArchetypeID: id, CombatScale: 1})
		require.NoError(t, err)

		for _, scale := range []float64{1.5, 2, 3, 5, 8, 13} {
			cur, err := svc.ScaleEnemy(&spawn.ScaleEnemyInput{ArchetypeID: id, CombatScale: scale})
			require.NoError(t, err)

			assert.GreaterOrEqual(t, cur.Stats.Health, prev.Stats.Health, "%s health at scale %v", id, scale)
			assert.GreaterOrEqual(t, cur.Stats.Attack, prev.Stats.Attack, "%s attack at scale %v", id, scale)
			assert.GreaterOrEqual(t, cur.Stats.Defence, prev.Stats.Defence, "%s defence at scale %v", id, scale)

			assert.GreaterOrEqual(t, cur.Stats.Health, 1)
			assert.GreaterOrEqual(t, cur.Stats.Attack, 1)
			assert.GreaterOrEqual(t, cur.Stats.Strength, 1)
			assert.GreaterOrEqual(t, cur.Stats.Dexterity, 1)
			assert.GreaterOrEqual(t, cur.Stats.Defence, 1)
			prev = cur
		}
	}
}

func TestScaleEnemyScaleBelowOneIsClamped(t *testing.T) {
	svc := newOrchestrator(t, state.New(), &scriptedRoller{rolls: []int{1}}, &gridMap{tiles: openGrid(4, 4)})

	base, err := svc.ScaleEnemy(&spawn.ScaleEnemyInput{ArchetypeID: "goblin", CombatScale: 1})
	require.NoError(t, err)
	clamped, err := svc.ScaleEnemy(&spawn.ScaleEnemyInput{ArchetypeID: "goblin", CombatScale: 0.2})
	require.NoError(t, err)
	assert.Equal(t, base.Stats, clamped.Stats)
}

func TestScaleEnemyDropChanceClamped(t *testing.T) {
	svc := newOrchestrator(t, state.New(), &scriptedRoller{rolls: []int{1}}, &gridMap{tiles: openGrid(4, 4)})

	enemy, err := svc.ScaleEnemy(&spawn.ScaleEnemyInput{ArchetypeID: "orc", CombatScale: 1, RewardScale: 50})
	require.NoError(t, err)
	for _, l := range enemy.Loot {
		assert.LessOrEqual(t, l.DropChance, 1.95)
		assert.GreaterOrEqual(t, l.DropChance, 0.01)
	}
}

func TestScaleEnemyBehaviorCopiedVerbatim(t *testing.T) {
	svc := newOrchestrator(t, state.New(), &scriptedRoller{rolls: []int{1}}, &gridMap{tiles: openGrid(4, 4)})

	enemy, err := svc.ScaleEnemy(&spawn.ScaleEnemyInput{ArchetypeID: "cave_spider", CombatScale: 9})
	require.NoError(t, err)
	assert.Equal(t, crawler.Archetypes["cave_spider"].Behavior, enemy.Behavior)
}

func TestScaleEnemyUnknownArchetype(t *testing.T) {
	svc := newOrchestrator(t, state.New(), &scriptedRoller{rolls: []int{1}}, &gridMap{tiles: openGrid(4, 4)})

	_, err := svc.ScaleEnemy(&spawn.ScaleEnemyInput{ArchetypeID: "dragon"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestSpawnPackSharesPositionAndSequentialIndices(t *testing.T) {
	store := state.New()
	svc := newOrchestrator(t, store, &scriptedRoller{rolls: []int{1}}, &gridMap{tiles: openGrid(10, 10), playerX: 0, playerY: 0})

	out, err := svc.SpawnPack(context.Background(), &spawn.SpawnPackInput{Count: 3, CombatScale: 1})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, out.Indices)

	first, ok := store.Enemy(0)
	require.True(t, ok)
	for _, idx := range out.Indices[1:] {
		e, ok := store.Enemy(idx)
		require.True(t, ok)
		assert.Equal(t, first.PositionX, e.PositionX)
		assert.Equal(t, first.PositionY, e.PositionY)
	}

	// next pack continues from the live count
	out, err = svc.SpawnPack(context.Background(), &spawn.SpawnPackInput{Count: 2, CombatScale: 1})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, out.Indices)
}

func TestSpawnRespectsMinimumDistance(t *testing.T) {
	store := state.New()
	// player in the center of a 7x7 grid
	m := &gridMap{tiles: openGrid(7, 7), playerX: 3, playerY: 3}
	svc := newOrchestrator(t, store, &scriptedRoller{rolls: []int{1}}, m)

	out, err := svc.SpawnSingle(context.Background(), &spawn.SpawnSingleInput{CombatScale: 1})
	require.NoError(t, err)

	e, ok := store.Enemy(out.Index)
	require.True(t, ok)
	dist := abs(e.PositionX-3) + abs(e.PositionY-3)
	assert.GreaterOrEqual(t, dist, spawn.DefaultMinSpawnDistance)
}

func TestSpawnFallsBackWhenNoTileQualifies(t *testing.T) {
	store := state.New()
	// 2x2 grid, every tile within distance 3 of the player
	m := &gridMap{tiles: openGrid(2, 2), playerX: 0, playerY: 0}
	svc := newOrchestrator(t, store, &scriptedRoller{rolls: []int{1}}, m)

	out, err := svc.SpawnSingle(context.Background(), &spawn.SpawnSingleInput{CombatScale: 1})
	require.NoError(t, err)

	e, ok := store.Enemy(out.Index)
	require.True(t, ok)
	assert.Equal(t, 1, e.PositionX)
	assert.Equal(t, 1, e.PositionY)
}

func TestSpawnRandomEncounterClearsAndResetsTarget(t *testing.T) {
	store := state.New()
	store.AddEnemy(7, &crawler.Enemy{ArchetypeID: "orc", Health: 26})
	store.SetCurrentEnemyID(7)
	store.AppendLog("stale line from the previous room")

	svc := newOrchestrator(t, store, &scriptedRoller{rolls: []int{2}}, &gridMap{tiles: openGrid(12, 12), playerX: 0, playerY: 0})

	out, err := svc.SpawnRandomEncounter(context.Background(), &spawn.SpawnRandomEncounterInput{
		TotalEnemies: 5,
		MaxPackSize:  3,
		CombatScale:  2,
	})
	require.NoError(t, err)

	assert.Len(t, out.Indices, 5)
	assert.Equal(t, 5, store.EnemyCount())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, store.EnemyIndices(), "old enemies must be gone")
	assert.Equal(t, out.FirstIndex, store.CurrentEnemyID())
	assert.Equal(t, out.Indices[0], out.FirstIndex)
	assert.Empty(t, store.CombatLog(), "room change clears the combat log")
}

func TestSpawnPackValidation(t *testing.T) {
	svc := newOrchestrator(t, state.New(), &scriptedRoller{rolls: []int{1}}, &gridMap{tiles: openGrid(4, 4)})

	_, err := svc.SpawnPack(context.Background(), &spawn.SpawnPackInput{Count: 0})
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = svc.SpawnRandomEncounter(context.Background(), &spawn.SpawnRandomEncounterInput{TotalEnemies: 0})
	assert.True(t, errors.IsInvalidArgument(err))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
