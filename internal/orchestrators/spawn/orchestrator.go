// Package spawn implements the enemy scaling and spawn engine. It is the
// only component allowed to clear or bulk-replace the live enemy mapping.
package spawn

//go:generate mockgen -destination=mock/mock_service.go -package=spawnmock github.com/deepdelve/crawler-core/internal/orchestrators/spawn Service

import (
	"context"
	"log/slog"
	"math"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/deepdelve/crawler-core/internal/entities/crawler"
	"github.com/deepdelve/crawler-core/internal/errors"
	"github.com/deepdelve/crawler-core/internal/state"
)

// DefaultMinSpawnDistance is the minimum Manhattan distance between a drawn
// spawn tile and the player
const DefaultMinSpawnDistance = 3

// statScaleCoef is the per-stat linear coefficient applied to
// (combatScale - 1)
var statScaleCoef = struct {
	health, attack, strength, dexterity, stamina, vitality, intelligence, defence float64
}{
	health:       0.55,
	attack:       0.40,
	strength:     0.20,
	dexterity:    0.16,
	stamina:      0.20,
	vitality:     0.20,
	intelligence: 0.12,
	defence:      0.30,
}

// Drop chance bounds after reward scaling
const (
	minDropChance = 0.01
	maxDropChance = 1.95
)

// Service defines the interface for enemy scaling and spawning
type Service interface {
	// PickArchetype draws an archetype id from the weighted spawn multiset
	PickArchetype() (string, error)

	// ScaleEnemy produces a fully-scaled combat record for an archetype
	ScaleEnemy(input *ScaleEnemyInput) (*crawler.Enemy, error)

	// SpawnPack spawns a group sharing one position
	SpawnPack(ctx context.Context, input *SpawnPackInput) (*SpawnPackOutput, error)

	// SpawnSingle spawns one enemy
	SpawnSingle(ctx context.Context, input *SpawnSingleInput) (*SpawnSingleOutput, error)

	// SpawnRandomEncounter clears the room and repopulates it with packs
	SpawnRandomEncounter(ctx context.Context, input *SpawnRandomEncounterInput) (*SpawnRandomEncounterOutput, error)
}

// Config holds the dependencies for the spawn orchestrator
type Config struct {
	Store  *state.SessionStore
	Roller dice.Roller
	Map    TileMap
	// MinSpawnDistance defaults to DefaultMinSpawnDistance when zero
	MinSpawnDistance int
	// FallbackTile is used when no walkable tile qualifies
	FallbackTile Position
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Store == nil {
		vb.RequiredField("Store")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.Map == nil {
		vb.RequiredField("Map")
	}

	return vb.Build()
}

type orchestrator struct {
	store        *state.SessionStore
	roller       dice.Roller
	tileMap      TileMap
	minDistance  int
	fallbackTile Position
}

// NewOrchestrator creates a new spawn orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	minDistance := cfg.MinSpawnDistance
	if minDistance == 0 {
		minDistance = DefaultMinSpawnDistance
	}

	return &orchestrator{
		store:        cfg.Store,
		roller:       cfg.Roller,
		tileMap:      cfg.Map,
		minDistance:  minDistance,
		fallbackTile: cfg.FallbackTile,
	}, nil
}

// PickArchetype draws uniformly from the weighted multiset. Duplicate
// entries bias probability; the full catalog is never drawn from directly.
func (o *orchestrator) PickArchetype() (string, error) {
	roll, err := o.roller.Roll(len(crawler.SpawnMultiset))
	if err != nil {
		return "", errors.Wrap(err, "failed to draw archetype")
	}
	return crawler.SpawnMultiset[roll-1], nil
}

// ScaleEnemy builds a live enemy record from an archetype and scale factors
func (o *orchestrator) ScaleEnemy(input *ScaleEnemyInput) (*crawler.Enemy, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	arch, ok := crawler.Archetypes[input.ArchetypeID]
	if !ok {
		return nil, errors.NotFoundf("unknown enemy archetype %q", input.ArchetypeID)
	}

	combatScale := math.Max(1, input.CombatScale)
	rewardScale := input.RewardScale
	if rewardScale <= 0 {
		rewardScale = combatScale
	}
	rewardScale = math.Max(1, rewardScale)

	stats := crawler.Stats{
		Health:       scaleStat(arch.BaseStats.Health, combatScale, statScaleCoef.health),
		Attack:       scaleStat(arch.BaseStats.Attack, combatScale, statScaleCoef.attack),
		Strength:     scaleStat(arch.BaseStats.Strength, combatScale, statScaleCoef.strength),
		Dexterity:    scaleStat(arch.BaseStats.Dexterity, combatScale, statScaleCoef.dexterity),
		Stamina:      scaleStat(arch.BaseStats.Stamina, combatScale, statScaleCoef.stamina),
		Vitality:     scaleStat(arch.BaseStats.Vitality, combatScale, statScaleCoef.vitality),
		Intelligence: scaleStat(arch.BaseStats.Intelligence, combatScale, statScaleCoef.intelligence),
		Defence:      scaleStat(arch.BaseStats.Defence, combatScale, statScaleCoef.defence),
		AttackSpeed:  arch.BaseStats.AttackSpeed,
		Crit:         arch.BaseStats.Crit,
		Dodge:        arch.BaseStats.Dodge,
	}
	stats.MaxHealth = stats.Health

	level := arch.BaseLevel + int(math.Floor(math.Max(0, combatScale-1)))
	xp := int(math.Floor(float64(arch.BaseXP) * rewardScale))
	if xp < 1 {
		xp = 1
	}

	loot := make([]crawler.LootItem, len(arch.Loot))
	for i, entry := range arch.Loot {
		item := entry.Item.Clone()
		if item.IsStackable() && item.Amount > 0 {
			scaled := int(math.Floor(float64(item.Amount) * rewardScale))
			if scaled < 1 {
				scaled = 1
			}
			item.Amount = scaled
		}

		chance := entry.DropChance * rewardScale
		if chance < minDropChance {
			chance = minDropChance
		}
		if chance > maxDropChance {
			chance = maxDropChance
		}

		loot[i] = crawler.LootItem{Item: item, DropChance: chance}
	}

	return &crawler.Enemy{
		ArchetypeID: arch.ID,
		Stats:       stats,
		Health:      stats.Health,
		Level:       level,
		XP:          xp,
		Loot:        loot,
		Info:        crawler.EnemyInfo{Name: arch.Name, Level: level, XP: xp},
		Behavior:    arch.Behavior,
	}, nil
}

func scaleStat(base int, combatScale, coef float64) int {
	scaled := int(math.Floor(float64(base) * (1 + (combatScale-1)*coef)))
	if scaled < 1 {
		scaled = 1
	}
	return scaled
}

// SpawnPack spawns Count enemies sharing one position, with sequential
// indices starting at the current live-enemy count.
func (o *orchestrator) SpawnPack(ctx context.Context, input *SpawnPackInput) (*SpawnPackOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Count < 1 {
		return nil, errors.InvalidArgumentf("pack count must be positive, got %d", input.Count)
	}

	pos, err := o.resolvePosition(input.Position)
	if err != nil {
		return nil, err
	}

	nextIndex := o.store.EnemyCount()
	indices := make([]int, 0, input.Count)
	for i := 0; i < input.Count; i++ {
		archetypeID, err := o.PickArchetype()
		if err != nil {
			return nil, err
		}

		enemy, err := o.ScaleEnemy(&ScaleEnemyInput{
			ArchetypeID: archetypeID,
			CombatScale: input.CombatScale,
			RewardScale: input.RewardScale,
		})
		if err != nil {
			return nil, err
		}
		enemy.PositionX = pos.X
		enemy.PositionY = pos.Y

		index := nextIndex + i
		o.store.AddEnemy(index, enemy)
		indices = append(indices, index)
	}

	slog.DebugContext(ctx, "pack spawned",
		"count", input.Count,
		"x", pos.X,
		"y", pos.Y,
		"indices", indices)

	return &SpawnPackOutput{Indices: indices}, nil
}

// SpawnSingle spawns one enemy
func (o *orchestrator) SpawnSingle(ctx context.Context, input *SpawnSingleInput) (*SpawnSingleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.SpawnPack(ctx, &SpawnPackInput{
		Count:       1,
		Position:    input.Position,
		CombatScale: input.CombatScale,
		RewardScale: input.RewardScale,
	})
	if err != nil {
		return nil, err
	}

	return &SpawnSingleOutput{Index: out.Indices[0]}, nil
}

// SpawnRandomEncounter clears all live enemies, spawns packs of size
// 1..MaxPackSize until TotalEnemies is reached, resets the active target
// to the first spawned enemy, and clears the combat log (room change).
func (o *orchestrator) SpawnRandomEncounter(
	ctx context.Context,
	input *SpawnRandomEncounterInput,
) (*SpawnRandomEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.TotalEnemies < 1 {
		return nil, errors.InvalidArgumentf("total enemies must be positive, got %d", input.TotalEnemies)
	}
	maxPack := input.MaxPackSize
	if maxPack < 1 {
		maxPack = 1
	}

	o.store.ReplaceEnemies(nil)
	o.store.ClearCombatLog()

	indices := make([]int, 0, input.TotalEnemies)
	remaining := input.TotalEnemies
	for remaining > 0 {
		size := maxPack
		if remaining < size {
			size = remaining
		}
		if size > 1 {
			roll, err := o.roller.Roll(size)
			if err != nil {
				return nil, errors.Wrap(err, "failed to roll pack size")
			}
			size = roll
		}

		out, err := o.SpawnPack(ctx, &SpawnPackInput{
			Count:       size,
			CombatScale: input.CombatScale,
			RewardScale: input.RewardScale,
		})
		if err != nil {
			return nil, err
		}
		indices = append(indices, out.Indices...)
		remaining -= size
	}

	first := indices[0]
	o.store.SetCurrentEnemyID(first)

	slog.InfoContext(ctx, "random encounter spawned",
		"total", len(indices),
		"max_pack_size", maxPack,
		"first_index", first)

	return &SpawnRandomEncounterOutput{Indices: indices, FirstIndex: first}, nil
}

// resolvePosition returns the pinned position, or draws a walkable tile at
// Manhattan distance >= minDistance from the player, or the fallback tile.
func (o *orchestrator) resolvePosition(pinned *Position) (Position, error) {
	if pinned != nil {
		return *pinned, nil
	}

	playerX, playerY := o.tileMap.PlayerPosition()
	var candidates []Position
	for y, row := range o.tileMap.Tiles() {
		for x, tile := range row {
			if tile <= 0 {
				continue
			}
			if abs(x-playerX)+abs(y-playerY) < o.minDistance {
				continue
			}
			candidates = append(candidates, Position{X: x, Y: y})
		}
	}

	if len(candidates) == 0 {
		return o.fallbackTile, nil
	}

	roll, err := o.roller.Roll(len(candidates))
	if err != nil {
		return Position{}, errors.Wrap(err, "failed to draw spawn tile")
	}
	return candidates[roll-1], nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
