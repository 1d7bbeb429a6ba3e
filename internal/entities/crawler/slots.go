package crawler

// Slot identifies an equipment slot on the character
type Slot string

// Equipment slots
const (
	SlotWeapon  Slot = "weapon"
	SlotOffhand Slot = "offhand"
	SlotHelmet  Slot = "helmet"
	SlotArmor   Slot = "armor"
	SlotBoots   Slot = "boots"
	SlotBelt    Slot = "belt"
	SlotRing    Slot = "ring"
	SlotAmulet  Slot = "amulet"
	SlotBag     Slot = "bag"
)

// AllSlots lists every equipment slot in display order
var AllSlots = []Slot{
	SlotWeapon, SlotOffhand, SlotHelmet, SlotArmor, SlotBoots,
	SlotBelt, SlotRing, SlotAmulet, SlotBag,
}

// slotCompat maps each slot to the item types it accepts. Slots absent here
// accept only the exact type match (ring, amulet, boots, belt).
var slotCompat = map[Slot][]ItemType{
	SlotWeapon:  {ItemTypeWeapon, ItemTypeSword, ItemTypeDagger},
	SlotOffhand: {ItemTypeOffhand, ItemTypeShield},
	SlotHelmet:  {ItemTypeHelmet},
	SlotArmor:   {ItemTypeArmor},
	SlotBag:     {ItemTypeBag},
}

// SlotAccepts reports whether the slot accepts the given item type
func SlotAccepts(slot Slot, t ItemType) bool {
	if accepted, ok := slotCompat[slot]; ok {
		for _, a := range accepted {
			if a == t {
				return true
			}
		}
		return false
	}
	return ItemType(slot) == t
}

// SlotFor resolves the natural slot for an item type, or "" when the type
// is not equippable (consumables and currency never resolve).
func SlotFor(t ItemType) Slot {
	switch t {
	case ItemTypeWeapon, ItemTypeSword, ItemTypeDagger:
		return SlotWeapon
	case ItemTypeOffhand, ItemTypeShield:
		return SlotOffhand
	case ItemTypeHelmet:
		return SlotHelmet
	case ItemTypeArmor:
		return SlotArmor
	case ItemTypeBoots:
		return SlotBoots
	case ItemTypeBelt:
		return SlotBelt
	case ItemTypeRing:
		return SlotRing
	case ItemTypeAmulet:
		return SlotAmulet
	case ItemTypeBag:
		return SlotBag
	}
	return ""
}
