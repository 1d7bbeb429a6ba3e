package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"

	"github.com/deepdelve/crawler-core/internal/entities/crawler"
	"github.com/deepdelve/crawler-core/internal/errors"
	"github.com/deepdelve/crawler-core/internal/orchestrators/combat"
	"github.com/deepdelve/crawler-core/internal/orchestrators/inventory"
	"github.com/deepdelve/crawler-core/internal/orchestrators/spawn"
	redisclient "github.com/deepdelve/crawler-core/internal/redis"
	"github.com/deepdelve/crawler-core/internal/repositories/save"
	"github.com/deepdelve/crawler-core/internal/state"
)

var (
	redisAddr    string
	saveSlot     string
	totalEnemies int
	maxPackSize  int
	combatScale  float64
	roundMillis  int
	resetSlot    bool
	verbose      bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run one encounter end to end",
	Long:  `Load or seed the save slot, spawn a random encounter, fight it round by round, loot the drops, and print a state snapshot.`,
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "Redis address for save slots")
	playCmd.Flags().StringVar(&saveSlot, "slot", "default", "Save slot name")
	playCmd.Flags().IntVar(&totalEnemies, "enemies", 4, "Total enemies in the encounter")
	playCmd.Flags().IntVar(&maxPackSize, "max-pack", 3, "Maximum pack size")
	playCmd.Flags().Float64Var(&combatScale, "scale", 1.0, "Combat scale factor")
	playCmd.Flags().IntVar(&roundMillis, "round-ms", 200, "Round resolution cadence in milliseconds")
	playCmd.Flags().BoolVar(&resetSlot, "reset", false, "Delete the save slot before playing")
	playCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

// dungeonMap is the fixed walkable grid for the smoke run
type dungeonMap struct {
	tiles   [][]int
	playerX int
	playerY int
}

func newDungeonMap(width, height int) *dungeonMap {
	tiles := make([][]int, height)
	for y := range tiles {
		tiles[y] = make([]int, width)
		for x := range tiles[y] {
			tiles[y][x] = 1
		}
	}
	return &dungeonMap{tiles: tiles, playerX: width / 2, playerY: height / 2}
}

func (m *dungeonMap) Tiles() [][]int             { return m.tiles }
func (m *dungeonMap) PlayerPosition() (int, int) { return m.playerX, m.playerY }
func (m *dungeonMap) MapID() string              { return "smoke_run" }

// autoConfirmer approves every prompt; the smoke run is non-interactive
type autoConfirmer struct{}

func (autoConfirmer) Confirm(_ context.Context, _ string) (bool, error) { return true, nil }

// logFloor logs dropped items instead of tracking floor state
type logFloor struct{}

func (logFloor) ReceiveDrop(ctx context.Context, drop inventory.Drop) error {
	for _, item := range drop.Items {
		slog.InfoContext(ctx, "item dropped to floor",
			"item", item.Name,
			"map", drop.MapID,
			"x", drop.X,
			"y", drop.Y)
	}
	return nil
}

// snapshot is the JSON state dump printed at the end of the run
type snapshot struct {
	Character *crawler.Character `json:"character"`
	Enemies   int                `json:"enemiesRemaining"`
	CombatLog []string           `json:"combatLog"`
}

func runPlay(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("received shutdown signal, stopping")
		cancel()
	}()

	client, err := redisclient.NewClient(redisAddr, nil)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer func() { _ = client.Close() }()

	repo, err := save.NewRedis(&save.RedisConfig{Client: client})
	if err != nil {
		return fmt.Errorf("failed to create save repository: %w", err)
	}

	if resetSlot {
		if _, err := repo.Delete(ctx, save.DeleteInput{Slot: saveSlot}); err != nil && !errors.IsNotFound(err) {
			return fmt.Errorf("failed to reset save slot: %w", err)
		}
	}

	store := state.New()
	if err := loadOrSeed(ctx, repo, store); err != nil {
		return err
	}

	tileMap := newDungeonMap(12, 12)
	roller := dice.DefaultRoller

	spawnSvc, err := spawn.NewOrchestrator(&spawn.Config{
		Store:        store,
		Roller:       roller,
		Map:          tileMap,
		FallbackTile: spawn.Position{X: 1, Y: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create spawn orchestrator: %w", err)
	}

	invSvc, err := inventory.NewOrchestrator(&inventory.Config{
		Store:     store,
		Repo:      repo,
		Confirmer: autoConfirmer{},
		Floor:     logFloor{},
		Position:  tileMap,
		SaveSlot:  saveSlot,
	})
	if err != nil {
		return fmt.Errorf("failed to create inventory orchestrator: %w", err)
	}

	combatSvc, err := combat.NewOrchestrator(&combat.Config{
		Store:         store,
		Roller:        roller,
		Inventory:     invSvc,
		Repo:          repo,
		EventBus:      events.NewBus(),
		RoundInterval: time.Duration(roundMillis) * time.Millisecond,
		SaveSlot:      saveSlot,
	})
	if err != nil {
		return fmt.Errorf("failed to create combat orchestrator: %w", err)
	}

	encounter, err := spawnSvc.SpawnRandomEncounter(ctx, &spawn.SpawnRandomEncounterInput{
		TotalEnemies: totalEnemies,
		MaxPackSize:  maxPackSize,
		CombatScale:  combatScale,
	})
	if err != nil {
		return fmt.Errorf("failed to spawn encounter: %w", err)
	}
	slog.Info("encounter spawned", "enemies", len(encounter.Indices))

	if err := fightEncounter(ctx, combatSvc, store); err != nil {
		return err
	}

	return printSnapshot(store)
}

// loadOrSeed fills the session store from the save slot, seeding a fresh
// template when the slot is uninitialized
func loadOrSeed(ctx context.Context, repo save.Repository, store *state.SessionStore) error {
	out, err := repo.Get(ctx, save.GetInput{Slot: saveSlot})
	switch {
	case err == nil:
		character := out.Record.Character
		inventory.NormalizeContainers(character)
		store.SetCharacter(character)
		slog.Info("save slot loaded",
			"slot", saveSlot,
			"level", character.Level,
			"gold", character.Gold)
		return nil

	case errors.IsNotFound(err):
		character := crawler.NewCharacterTemplate()
		inventory.NormalizeContainers(character)
		store.SetCharacter(character)
		if _, err := repo.Save(ctx, save.SaveInput{
			Slot:   saveSlot,
			Record: &save.Record{Character: character},
		}); err != nil {
			return fmt.Errorf("failed to seed save slot: %w", err)
		}
		slog.Info("save slot seeded from template", "slot", saveSlot)
		return nil

	default:
		return fmt.Errorf("failed to load save slot: %w", err)
	}
}

// fightEncounter engages each remaining enemy in turn, looting after every
// victory, until the room is clear, the player falls, or the run is
// interrupted
func fightEncounter(ctx context.Context, combatSvc combat.Service, store *state.SessionStore) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for ctx.Err() == nil {
		indices := store.EnemyIndices()
		if len(indices) == 0 {
			slog.Info("room cleared")
			return nil
		}

		if _, err := combatSvc.Engage(ctx, &combat.EngageInput{EnemyIndex: indices[0]}); err != nil {
			if errors.IsFailedPrecondition(err) || errors.IsNotFound(err) {
				store.RemoveEnemy(indices[0])
				continue
			}
			return fmt.Errorf("failed to engage: %w", err)
		}
		if err := combatSvc.StartLoop(ctx); err != nil {
			return fmt.Errorf("failed to start combat loop: %w", err)
		}

	rounds:
		for {
			select {
			case <-ctx.Done():
				_ = combatSvc.StopLoop(ctx)
				return nil
			case <-ticker.C:
				switch combatSvc.Phase() {
				case combat.PhaseVictory:
					looted, err := combatSvc.LootAll(ctx)
					if err != nil && !errors.IsFailedPrecondition(err) {
						return fmt.Errorf("failed to loot: %w", err)
					}
					if looted != nil {
						slog.Info("loot taken",
							"items", len(looted.Inserted),
							"rejected", len(looted.Rejected),
							"gold", looted.Gold)
					}
					break rounds
				case combat.PhaseDefeat:
					slog.Warn("player defeated; restart with --reset or call Restart")
					return nil
				case combat.PhaseIdle:
					break rounds
				}
			}
		}
	}
	return nil
}

func printSnapshot(store *state.SessionStore) error {
	character, _ := store.Character()
	snap := snapshot{
		Character: character,
		Enemies:   store.EnemyCount(),
		CombatLog: store.CombatLog(),
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render snapshot: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
