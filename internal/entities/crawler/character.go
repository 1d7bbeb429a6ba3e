// Package crawler implements the dungeon-crawler entities.
// NOTE: These are data-only structs. Derived values (damage, carry
// capacity, container capacity) are computed by the formula engine and the
// orchestrators, not here.
package crawler

// Class archetypes used by the carry capacity table
const (
	ClassWarrior = "warrior"
	ClassMage    = "mage"
	ClassRanger  = "ranger"
	ClassRogue   = "rogue"
)

// Container capacity bounds. Effective capacity is derived from the
// equipped bag/belt items, clamped into these bounds.
const (
	StartingBagCapacity     = 8
	BagCapacity             = 24
	StartingBeltCapacity    = 2
	ConsumableStashCapacity = 8
)

// Character is the singleton persisted record for one save slot
type Character struct {
	Class           string         `json:"class"`
	Stats           Stats          `json:"stats"`
	Experience      int            `json:"experience"`
	Level           int            `json:"level"`
	Equipment       map[Slot]*Item `json:"equipment"`
	Inventory       []*Item        `json:"inventory"`
	ConsumableStash []*Item        `json:"consumableStash"`
	Gold            float64        `json:"gold"`
}

// Equipped returns the item in the given slot, or nil
func (c *Character) Equipped(slot Slot) *Item {
	if c.Equipment == nil {
		return nil
	}
	return c.Equipment[slot]
}

// SetEquipped places an item into the given slot
func (c *Character) SetEquipped(slot Slot, item *Item) {
	if c.Equipment == nil {
		c.Equipment = make(map[Slot]*Item)
	}
	c.Equipment[slot] = item
}

// Alive reports whether the character can still act
func (c *Character) Alive() bool {
	return c.Stats.Health > 0
}

// Clone returns a deep copy of the character. The session store hands out
// clones so callers can never mutate the cached record in place.
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Equipment = make(map[Slot]*Item, len(c.Equipment))
	for slot, item := range c.Equipment {
		cp.Equipment[slot] = item.Clone()
	}
	cp.Inventory = cloneItems(c.Inventory)
	cp.ConsumableStash = cloneItems(c.ConsumableStash)
	return &cp
}

func cloneItems(items []*Item) []*Item {
	out := make([]*Item, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
