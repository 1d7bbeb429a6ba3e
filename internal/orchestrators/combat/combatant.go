package combat

import (
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// Combatant entity types
const (
	EntityTypeCharacter = "character"
	EntityTypeEnemy     = "enemy"
)

// playerCombatant identifies the player side of an exchange
type playerCombatant struct{}

func (playerCombatant) GetID() string   { return "player" }
func (playerCombatant) GetType() string { return EntityTypeCharacter }

// enemyCombatant identifies one live enemy by its index
type enemyCombatant struct {
	index       int
	archetypeID string
}

func (e enemyCombatant) GetID() string   { return fmt.Sprintf("enemy-%d", e.index) }
func (e enemyCombatant) GetType() string { return EntityTypeEnemy }

var (
	_ core.Entity = playerCombatant{}
	_ core.Entity = enemyCombatant{}
)
