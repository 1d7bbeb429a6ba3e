package crawler

// ItemType discriminates the item variants. Alias spellings that appear in
// content data ("helm", "bags", ...) are folded onto the canonical types by
// NormalizeItem; the slot compatibility table accepts both.
type ItemType string

// Canonical item types
const (
	ItemTypeWeapon     ItemType = "weapon"
	ItemTypeSword      ItemType = "sword"
	ItemTypeDagger     ItemType = "dagger"
	ItemTypeOffhand    ItemType = "offhand"
	ItemTypeShield     ItemType = "shield"
	ItemTypeHelmet     ItemType = "helmet"
	ItemTypeArmor      ItemType = "armor"
	ItemTypeBoots      ItemType = "boots"
	ItemTypeBelt       ItemType = "belt"
	ItemTypeRing       ItemType = "ring"
	ItemTypeAmulet     ItemType = "amulet"
	ItemTypeBag        ItemType = "bag"
	ItemTypeConsumable ItemType = "consumable"
	ItemTypeCurrency   ItemType = "currency"
)

// typeAliases folds alternate content-data spellings onto canonical types
var typeAliases = map[ItemType]ItemType{
	"armors":   ItemTypeArmor,
	"helm":     ItemTypeHelmet,
	"helms":    ItemTypeHelmet,
	"bags":     ItemTypeBag,
	"backpack": ItemTypeBag,
	"pouch":    ItemTypeBag,
	"swords":   ItemTypeSword,
	"daggers":  ItemTypeDagger,
	"shields":  ItemTypeShield,
}

// ItemStats is the variant-dependent stat mapping, fixed-shape. Equipment
// uses Damage/Defence/AttackSpeed/CritMod, consumables use Amount/Mana,
// currency uses Value, container items use BagSlots/ConsumableSlots.
type ItemStats struct {
	Damage          int     `json:"damage,omitempty"`
	Defence         int     `json:"defence,omitempty"`
	AttackSpeed     float64 `json:"attackSpeed,omitempty"`
	CritMod         float64 `json:"critMod,omitempty"`
	Amount          int     `json:"amount,omitempty"`
	Mana            int     `json:"mana,omitempty"`
	Value           float64 `json:"value,omitempty"`
	BagSlots        int     `json:"bagSlots,omitempty"`
	ConsumableSlots int     `json:"consumableSlots,omitempty"`
	Bonus           int     `json:"bonus,omitempty"`
}

// Item is a tagged-variant item record
type Item struct {
	Name   string    `json:"name"`
	Type   ItemType  `json:"type"`
	Stats  ItemStats `json:"stats"`
	Weight float64   `json:"weight,omitempty"`
	Amount int       `json:"amount,omitempty"`
}

// StackAmount returns the stack size, treating an unset amount as 1
func (i *Item) StackAmount() int {
	if i.Amount < 1 {
		return 1
	}
	return i.Amount
}

// IsConsumable reports whether the item is a consumable
func (i *Item) IsConsumable() bool {
	return i.Type == ItemTypeConsumable
}

// IsCurrency reports whether the item is currency
func (i *Item) IsCurrency() bool {
	return i.Type == ItemTypeCurrency
}

// IsStackable reports whether stacks of this variant merge
func (i *Item) IsStackable() bool {
	return i.Type == ItemTypeConsumable || i.Type == ItemTypeCurrency
}

// Clone returns a deep copy of the item
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// NormalizeItem folds alias types onto canonical ones. Unknown variants are
// rejected at the boundary rather than propagated.
func NormalizeItem(item *Item) (*Item, bool) {
	if item == nil {
		return nil, false
	}
	if canonical, ok := typeAliases[item.Type]; ok {
		n := item.Clone()
		n.Type = canonical
		return n, true
	}
	switch item.Type {
	case ItemTypeWeapon, ItemTypeSword, ItemTypeDagger, ItemTypeOffhand, ItemTypeShield,
		ItemTypeHelmet, ItemTypeArmor, ItemTypeBoots, ItemTypeBelt, ItemTypeRing,
		ItemTypeAmulet, ItemTypeBag, ItemTypeConsumable, ItemTypeCurrency:
		return item, true
	}
	return nil, false
}
