// Package combat implements the encounter state machine and the round
// resolution loop. Phases: Idle, Engaged, Resolving, Victory, Defeat.
// Defeat is terminal until an explicit Restart.
package combat

//go:generate mockgen -destination=mock/mock_service.go -package=combatmock github.com/deepdelve/crawler-core/internal/orchestrators/combat Service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/deepdelve/crawler-core/internal/engine/formula"
	"github.com/deepdelve/crawler-core/internal/entities/crawler"
	"github.com/deepdelve/crawler-core/internal/errors"
	"github.com/deepdelve/crawler-core/internal/orchestrators/inventory"
	"github.com/deepdelve/crawler-core/internal/pkg/idgen"
	"github.com/deepdelve/crawler-core/internal/repositories/save"
	"github.com/deepdelve/crawler-core/internal/state"
)

// DefaultRoundInterval is the cadence of the repeating round resolution
const DefaultRoundInterval = 800 * time.Millisecond

const (
	// strengthModifier feeds the physical damage formula for both sides
	strengthModifier = 1.5
	critMultiplier   = 2
	commitAttempts   = 3
)

// Service defines the interface for the combat engine
type Service interface {
	// Phase returns the current encounter phase
	Phase() Phase

	// Engage sets the active target and enters Engaged. The target must
	// exist and have health > 0.
	Engage(ctx context.Context, input *EngageInput) (*EngageOutput, error)

	// ResolveRound applies one player-enemy damage exchange
	ResolveRound(ctx context.Context) (*ResolveRoundOutput, error)

	// Disengage cancels the loop and returns to Idle. Committed effects
	// stand; the pending loot offer is discarded.
	Disengage(ctx context.Context) error

	// StartLoop begins repeating round resolution. Starting while a loop
	// is active is a no-op.
	StartLoop(ctx context.Context) error

	// StopLoop cancels the repeating round resolution
	StopLoop(ctx context.Context) error

	// Offer returns the pending loot offer, or nil
	Offer() *LootOffer

	// LootAll inserts every offered item and returns to Idle
	LootAll(ctx context.Context) (*inventory.InsertOutput, error)

	// LootNone discards the offer and returns to Idle
	LootNone(ctx context.Context) error

	// LootSingle inserts one offered item; the offer stays open until
	// emptied or declined
	LootSingle(ctx context.Context, input *LootSingleInput) (*inventory.InsertOutput, error)

	// Restart replaces the defeated character with a fresh template record
	Restart(ctx context.Context) error
}

// Config holds the dependencies for the combat orchestrator
type Config struct {
	Store     *state.SessionStore
	Roller    dice.Roller
	Inventory inventory.Service
	Repo      save.Repository
	EventBus  events.EventBus
	// RoundInterval defaults to DefaultRoundInterval when zero
	RoundInterval time.Duration
	// SaveSlot defaults to inventory.DefaultSaveSlot when empty
	SaveSlot string
	// IDGen labels encounters in logs; defaults to a prefixed generator
	IDGen idgen.Generator
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
	if c.Inventory == nil {
		vb.RequiredField("Inventory")
	}
	if c.Repo == nil {
		vb.RequiredField("Repo")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}

	return vb.Build()
}

type orchestrator struct {
	store     *state.SessionStore
	roller    dice.Roller
	inventory inventory.Service
	repo      save.Repository
	eventBus  events.EventBus
	idgen     idgen.Generator
	interval  time.Duration
	saveSlot  string

	mu          sync.Mutex
	phase       Phase
	offer       *LootOffer
	encounterID string
	loopCancel  context.CancelFunc
}

// NewOrchestrator creates a new combat orchestrator with the provided
// dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	interval := cfg.RoundInterval
	if interval == 0 {
		interval = DefaultRoundInterval
	}
	saveSlot := cfg.SaveSlot
	if saveSlot == "" {
		saveSlot = inventory.DefaultSaveSlot
	}
	gen := cfg.IDGen
	if gen == nil {
		gen = idgen.NewPrefixed("enc")
	}

	return &orchestrator{
		store:     cfg.Store,
		roller:    cfg.Roller,
		inventory: cfg.Inventory,
		repo:      cfg.Repo,
		eventBus:  cfg.EventBus,
		idgen:     gen,
		interval:  interval,
		saveSlot:  saveSlot,
		phase:     PhaseIdle,
	}, nil
}

// Phase returns the current encounter phase
func (o *orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// Engage sets the active target and enters Engaged
func (o *orchestrator) Engage(ctx context.Context, input *EngageInput) (*EngageOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.phase != PhaseIdle {
		return nil, errors.FailedPreconditionf("cannot engage while %s", o.phase)
	}

	enemy, ok := o.store.Enemy(input.EnemyIndex)
	if !ok {
		return nil, errors.NotFoundf("no enemy at index %d", input.EnemyIndex)
	}
	if !enemy.Alive() {
		return nil, errors.FailedPreconditionf("%s is already dead", enemy.Info.Name)
	}

	o.store.SetCurrentEnemyID(input.EnemyIndex)
	o.phase = PhaseEngaged
	o.encounterID = o.idgen.Generate()
	o.store.AppendLog(fmt.Sprintf("You engage %s.", enemy.Info.Name))

	slog.InfoContext(ctx, "encounter engaged",
		"encounter_id", o.encounterID,
		"enemy", enemyCombatant{index: input.EnemyIndex, archetypeID: enemy.ArchetypeID}.GetID(),
		"archetype", enemy.ArchetypeID)

	return &EngageOutput{Enemy: enemy}, nil
}

// hitSpec describes one attack application
type hitSpec struct {
	base          int
	strength      int
	crit          float64
	targetDodge   float64
	targetDefence int
}

// rollHit evaluates dodge, damage, and crit for one application. A dodged
// attack yields a zero payload, which the log treats as a miss.
func (o *orchestrator) rollHit(spec hitSpec) (crawler.DmgPayload, error) {
	dodgeRoll, err := o.roller.Roll(100)
	if err != nil {
		return crawler.DmgPayload{}, errors.Wrap(err, "failed to roll dodge")
	}
	if float64(dodgeRoll) <= spec.targetDodge*100 {
		return crawler.DmgPayload{}, nil
	}

	dmg := formula.PhysicalDamage(spec.base, spec.strength, strengthModifier)
	dmg -= spec.targetDefence / 2
	if dmg < 1 {
		dmg = 1
	}

	critRoll, err := o.roller.Roll(100)
	if err != nil {
		return crawler.DmgPayload{}, errors.Wrap(err, "failed to roll crit")
	}
	crit := float64(critRoll) <= spec.crit*100
	if crit {
		dmg *= critMultiplier
	}

	return crawler.DmgPayload{Dmg: dmg, Crit: crit}, nil
}

// ResolveRound applies one player-enemy damage exchange
func (o *orchestrator) ResolveRound(ctx context.Context) (*ResolveRoundOutput, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.phase != PhaseEngaged {
		return nil, errors.FailedPreconditionf("cannot resolve a round while %s", o.phase)
	}
	o.phase = PhaseResolving

	index := o.store.CurrentEnemyID()
	enemy, ok := o.store.Enemy(index)
	if !ok || !enemy.Alive() {
		o.stopLoopLocked()
		o.phase = PhaseIdle
		return nil, errors.NotFoundf("no living enemy at index %d", index)
	}

	character, _ := o.store.Character()
	out := &ResolveRoundOutput{}

	playerHit, err := o.rollHit(hitSpec{
		base:          character.Stats.Attack + weaponDamage(character),
		strength:      character.Stats.Strength,
		crit:          character.Stats.Crit + weaponCritMod(character),
		targetDodge:   enemy.Stats.Dodge,
		targetDefence: enemy.Stats.Defence,
	})
	if err != nil {
		o.phase = PhaseEngaged
		return nil, err
	}
	out.PlayerHit = playerHit
	o.store.UpdateEnemy(index, func(e *crawler.Enemy) {
		e.Health -= playerHit.Dmg
		if e.Health < 0 {
			e.Health = 0
		}
		e.Stats.Health = e.Health
		e.DamageLog = append(e.DamageLog, playerHit)
	})
	o.logHit(ctx, "You", enemy.Info.Name, playerHit)

	enemy, _ = o.store.Enemy(index)
	if enemy != nil && !enemy.Alive() {
		o.stopLoopLocked()
		out.EnemyDefeated = true
		out.XPGranted, out.LeveledUp = o.grantExperience(ctx, enemy.XP)
		o.store.AppendLog(fmt.Sprintf("%s dies. You gain %d experience.", enemy.Info.Name, enemy.XP))

		offer, err := o.buildLootOffer(ctx, enemy)
		if err != nil {
			o.phase = PhaseIdle
			return nil, err
		}
		o.store.RemoveEnemy(index)

		if offer == nil {
			o.phase = PhaseIdle
		} else {
			o.offer = offer
			out.Offer = offer
			o.phase = PhaseVictory
		}
		return out, nil
	}

	enemyHit, err := o.rollHit(hitSpec{
		base:          enemy.Stats.Attack,
		strength:      enemy.Stats.Strength,
		crit:          enemy.Stats.Crit,
		targetDodge:   character.Stats.Dodge,
		targetDefence: character.Stats.Defence + equippedDefence(character),
	})
	if err != nil {
		o.phase = PhaseEngaged
		return nil, err
	}
	out.EnemyHit = enemyHit
	o.store.AppendPlayerDamage(enemyHit)

	var defeated bool
	o.commit(ctx, func(c *crawler.Character) {
		c.Stats.Health -= enemyHit.Dmg
		c.Stats.ClampHealth()
		defeated = !c.Alive()
	})
	o.logHit(ctx, enemy.Info.Name, "you", enemyHit)

	if defeated {
		o.stopLoopLocked()
		out.PlayerDefeated = true
		o.phase = PhaseDefeat
		o.store.AppendLog("You have been defeated.")
		return out, nil
	}

	o.phase = PhaseEngaged
	return out, nil
}

// logHit appends the combat-log line for one damage application
func (o *orchestrator) logHit(ctx context.Context, source, target string, hit crawler.DmgPayload) {
	switch {
	case hit.Dmg == 0:
		o.store.AppendLog(fmt.Sprintf("%s missed.", source))
	case hit.Crit:
		o.store.AppendLog(fmt.Sprintf("%s dealt %d critical damage to %s.", source, hit.Dmg, target))
	default:
		o.store.AppendLog(fmt.Sprintf("%s dealt %d damage to %s.", source, hit.Dmg, target))
	}
	slog.DebugContext(ctx, "damage applied",
		"source", source,
		"damage", hit.Dmg,
		"crit", hit.Crit)
}

// grantExperience adds xp and applies level-ups at the level*100 threshold.
// A level-up raises max health by half the vitality stat and refills health.
func (o *orchestrator) grantExperience(ctx context.Context, xp int) (int, bool) {
	leveled := false
	var level int
	o.commit(ctx, func(c *crawler.Character) {
		c.Experience += xp
		for c.Experience >= c.Level*100 {
			c.Experience -= c.Level * 100
			c.Level++
			c.Stats.MaxHealth += c.Stats.Vitality / 2
			c.Stats.Health = c.Stats.MaxHealth
			leveled = true
		}
		level = c.Level
	})
	if leveled {
		o.store.AppendLog(fmt.Sprintf("You reached level %d!", level))
	}
	return xp, leveled
}

// buildLootOffer rolls each loot entry's drop chance. A chance above 1
// always drops; for stackables the excess is a second roll that doubles the
// stack. Returns nil when nothing dropped.
func (o *orchestrator) buildLootOffer(ctx context.Context, enemy *crawler.Enemy) (*LootOffer, error) {
	var items []*crawler.Item
	for _, entry := range enemy.Loot {
		roll, err := o.roller.Roll(100)
		if err != nil {
			return nil, errors.Wrap(err, "failed to roll loot drop")
		}
		if float64(roll) > entry.DropChance*100 {
			continue
		}

		item := entry.Item.Clone()
		if extra := entry.DropChance - 1; extra > 0 && item.IsStackable() {
			bonusRoll, err := o.roller.Roll(100)
			if err != nil {
				return nil, errors.Wrap(err, "failed to roll bonus stack")
			}
			if float64(bonusRoll) <= extra*100 {
				item.Amount = item.StackAmount() * 2
			}
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, nil
	}

	caps, err := o.inventory.Capacities(ctx)
	if err != nil {
		return nil, err
	}
	return &LootOffer{
		LootItems:     items,
		BagCount:      caps.BagCount,
		BagCapacity:   caps.BagCapacity,
		StashCount:    caps.BeltCount,
		StashCapacity: caps.BeltCapacity,
	}, nil
}

// Disengage cancels the loop and returns to Idle
func (o *orchestrator) Disengage(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.phase == PhaseDefeat {
		return errors.FailedPrecondition("defeated; restart required")
	}

	o.stopLoopLocked()
	o.offer = nil
	o.phase = PhaseIdle
	slog.DebugContext(ctx, "encounter disengaged")
	return nil
}

// StartLoop begins repeating round resolution on the configured cadence
func (o *orchestrator) StartLoop(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.loopCancel != nil {
		return nil
	}
	if o.phase != PhaseEngaged {
		return errors.FailedPreconditionf("cannot start the loop while %s", o.phase)
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	o.loopCancel = cancel
	go o.runLoop(loopCtx)
	return nil
}

// StopLoop cancels the repeating round resolution
func (o *orchestrator) StopLoop(_ context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopLoopLocked()
	return nil
}

func (o *orchestrator) stopLoopLocked() {
	if o.loopCancel != nil {
		o.loopCancel()
		o.loopCancel = nil
	}
}

// runLoop resolves rounds until cancellation, an encounter-ending round, or
// an error. A panic halts the loop cleanly instead of leaving a dangling
// ticker.
func (o *orchestrator) runLoop(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("combat loop recovered from panic", "panic", r)
			o.mu.Lock()
			o.stopLoopLocked()
			o.mu.Unlock()
		}
	}()

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			out, err := o.ResolveRound(ctx)
			if err != nil {
				if ctx.Err() == nil {
					slog.ErrorContext(ctx, "combat round failed", "error", err)
				}
				o.mu.Lock()
				o.stopLoopLocked()
				o.mu.Unlock()
				return
			}
			if out.EnemyDefeated || out.PlayerDefeated {
				return
			}
		}
	}
}

// Offer returns the pending loot offer, or nil
func (o *orchestrator) Offer() *LootOffer {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.offer
}

// LootAll inserts every offered item and returns to Idle
func (o *orchestrator) LootAll(ctx context.Context) (*inventory.InsertOutput, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.phase != PhaseVictory || o.offer == nil {
		return nil, errors.FailedPrecondition("no loot to take")
	}

	items := o.offer.LootItems
	o.offer = nil
	o.phase = PhaseIdle

	out, err := o.inventory.Insert(ctx, &inventory.InsertInput{Items: items})
	if err != nil {
		return nil, err
	}
	for _, rejected := range out.Rejected {
		o.store.AppendLog(fmt.Sprintf("%s is left behind.", rejected.Name))
	}
	return out, nil
}

// LootNone discards the offer and returns to Idle
func (o *orchestrator) LootNone(_ context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.phase != PhaseVictory || o.offer == nil {
		return errors.FailedPrecondition("no loot to decline")
	}

	o.offer = nil
	o.phase = PhaseIdle
	o.store.AppendLog("You leave the loot behind.")
	return nil
}

// LootSingle inserts one offered item. The offer stays open until emptied.
func (o *orchestrator) LootSingle(ctx context.Context, input *LootSingleInput) (*inventory.InsertOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.phase != PhaseVictory || o.offer == nil {
		return nil, errors.FailedPrecondition("no loot to take")
	}
	if input.Index < 0 || input.Index >= len(o.offer.LootItems) {
		return nil, errors.OutOfRangef("loot index %d out of range", input.Index)
	}

	item := o.offer.LootItems[input.Index]
	out, err := o.inventory.Insert(ctx, &inventory.InsertInput{Items: []*crawler.Item{item}})
	if err != nil {
		return nil, err
	}
	if len(out.Rejected) > 0 {
		return out, nil
	}

	o.offer.LootItems = append(
		o.offer.LootItems[:input.Index:input.Index],
		o.offer.LootItems[input.Index+1:]...)
	if len(o.offer.LootItems) == 0 {
		o.offer = nil
		o.phase = PhaseIdle
	}
	return out, nil
}

// Restart replaces the defeated character with a fresh template record and
// clears the room
func (o *orchestrator) Restart(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.stopLoopLocked()

	fresh := crawler.NewCharacterTemplate()
	inventory.NormalizeContainers(fresh)
	o.store.SetCharacter(fresh)
	o.store.ReplaceEnemies(nil)
	o.store.ClearCombatLog()
	o.offer = nil
	o.phase = PhaseIdle

	o.persist(ctx, fresh)
	slog.InfoContext(ctx, "character restarted", "slot", o.saveSlot)
	return nil
}

// commit runs one read-mutate-commit-persist cycle against the session
// store, retrying on commit contention
func (o *orchestrator) commit(ctx context.Context, mutate func(*crawler.Character)) {
	for attempt := 0; attempt < commitAttempts; attempt++ {
		character, version := o.store.Character()
		mutate(character)
		if err := o.store.CommitCharacter(character, version); err != nil {
			if errors.IsFailedPrecondition(err) {
				continue
			}
			slog.ErrorContext(ctx, "failed to commit character", "error", err)
			return
		}
		o.persist(ctx, character)
		return
	}
	slog.ErrorContext(ctx, "character commit exhausted retries")
}

// persist writes the full record. The in-memory commit stands even when
// storage is down.
func (o *orchestrator) persist(ctx context.Context, c *crawler.Character) {
	_, err := o.repo.Save(ctx, save.SaveInput{
		Slot: o.saveSlot,
		Record: &save.Record{
			Character: c,
			Enemies:   o.enemySnapshot(),
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to persist character record",
			"slot", o.saveSlot,
			"error", err)
	}
}

func (o *orchestrator) enemySnapshot() []*crawler.Enemy {
	indices := o.store.EnemyIndices()
	out := make([]*crawler.Enemy, 0, len(indices))
	for _, idx := range indices {
		if e, ok := o.store.Enemy(idx); ok {
			out = append(out, e)
		}
	}
	return out
}

func weaponDamage(c *crawler.Character) int {
	if w := c.Equipped(crawler.SlotWeapon); w != nil {
		return w.Stats.Damage
	}
	return 0
}

func weaponCritMod(c *crawler.Character) float64 {
	if w := c.Equipped(crawler.SlotWeapon); w != nil {
		return w.Stats.CritMod
	}
	return 0
}

func equippedDefence(c *crawler.Character) int {
	total := 0
	for _, item := range c.Equipment {
		if item != nil {
			total += item.Stats.Defence
		}
	}
	return total
}
