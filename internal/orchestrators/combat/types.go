package combat

import (
	"github.com/deepdelve/crawler-core/internal/entities/crawler"
)

// Phase is the encounter state machine phase
type Phase string

// Encounter phases. Victory and Defeat are entered from Resolving; Defeat
// is terminal until an explicit Restart.
const (
	PhaseIdle      Phase = "idle"
	PhaseEngaged   Phase = "engaged"
	PhaseResolving Phase = "resolving"
	PhaseVictory   Phase = "victory"
	PhaseDefeat    Phase = "defeat"
)

// LootOffer is handed to the loot collaborator after a victory. Counts and
// capacities let the presenter show how much still fits.
type LootOffer struct {
	LootItems     []*crawler.Item
	BagCount      int
	BagCapacity   int
	StashCount    int
	StashCapacity int
}

// EngageInput defines the request for engaging a target
type EngageInput struct {
	EnemyIndex int
}

// EngageOutput defines the response for engaging a target
type EngageOutput struct {
	Enemy *crawler.Enemy
}

// ResolveRoundOutput reports one resolved exchange
type ResolveRoundOutput struct {
	// PlayerHit is the damage the player dealt this round
	PlayerHit crawler.DmgPayload
	// EnemyHit is the damage the enemy dealt this round. Zero when the
	// enemy died before striking back.
	EnemyHit       crawler.DmgPayload
	EnemyDefeated  bool
	PlayerDefeated bool
	XPGranted      int
	LeveledUp      bool
	// Offer is non-nil when the enemy died and dropped loot
	Offer *LootOffer
}

// LootSingleInput defines the request for looting one offered item
type LootSingleInput struct {
	Index int
}
