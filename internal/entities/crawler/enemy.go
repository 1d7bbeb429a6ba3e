package crawler

// DmgPayload is one damage application, recorded on the receiving side
type DmgPayload struct {
	Dmg  int  `json:"dmg"`
	Crit bool `json:"crit"`
}

// LootItem is a drop-table entry carried by a live enemy
type LootItem struct {
	Item       *Item   `json:"item"`
	DropChance float64 `json:"dropChance"`
}

// EnemyInfo is the display summary for a live enemy
type EnemyInfo struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
	XP    int    `json:"xp"`
}

// Behavior holds the static per-archetype perception and engagement rules.
// Scaling never touches these; they are copied verbatim at spawn.
type Behavior struct {
	VisibilityMode    string `json:"visibilityMode"`
	VisibilityRange   int    `json:"visibilityRange"`
	AttackStyle       string `json:"attackStyle"`
	AttackRange       int    `json:"attackRange"`
	PlayerEngageRange int    `json:"playerEngageRange"`
	FirstStrike       bool   `json:"firstStrike"`
	Disposition       string `json:"disposition"`
}

// Enemy is a live, per-encounter combat record. It is keyed in the session
// store by an integer index that is not stable across encounters.
type Enemy struct {
	ArchetypeID string       `json:"id"`
	Stats       Stats        `json:"stats"`
	Health      int          `json:"health"`
	DamageLog   []DmgPayload `json:"damage"`
	Level       int          `json:"level"`
	XP          int          `json:"xp"`
	Loot        []LootItem   `json:"loot"`
	Info        EnemyInfo    `json:"info"`
	PositionX   int          `json:"positionX"`
	PositionY   int          `json:"positionY"`
	Behavior    Behavior     `json:"behavior"`
}

// Alive reports whether the enemy can still act
func (e *Enemy) Alive() bool {
	return e.Health > 0
}

// Clone returns a deep copy of the enemy
func (e *Enemy) Clone() *Enemy {
	if e == nil {
		return nil
	}
	cp := *e
	cp.DamageLog = append([]DmgPayload(nil), e.DamageLog...)
	cp.Loot = make([]LootItem, len(e.Loot))
	for i, l := range e.Loot {
		cp.Loot[i] = LootItem{Item: l.Item.Clone(), DropChance: l.DropChance}
	}
	return &cp
}
