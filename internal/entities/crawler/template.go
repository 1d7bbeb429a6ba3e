package crawler

// NewDefaultBag synthesizes the fallback bag container. Bag and belt slots
// are never left truly empty; unequipping restores one of these.
func NewDefaultBag() *Item {
	return &Item{
		Name:  "Small Pouch",
		Type:  ItemTypeBag,
		Stats: ItemStats{BagSlots: StartingBagCapacity},
	}
}

// NewDefaultBelt synthesizes the fallback belt container
func NewDefaultBelt() *Item {
	return &Item{
		Name:  "Worn Belt",
		Type:  ItemTypeBelt,
		Stats: ItemStats{ConsumableSlots: StartingBeltCapacity},
	}
}

// NewCharacterTemplate builds the new-game character record. The save
// repository seeds an uninitialized slot from this.
func NewCharacterTemplate() *Character {
	return &Character{
		Class: ClassWarrior,
		Stats: Stats{
			Health: 100, MaxHealth: 100, Attack: 10, Strength: 20,
			Dexterity: 12, Stamina: 15, Vitality: 18, Intelligence: 8,
			Defence: 5, AttackSpeed: 1.0, Crit: 0.05, Dodge: 0.04,
		},
		Experience: 0,
		Level:      1,
		Equipment: map[Slot]*Item{
			SlotWeapon: {Name: "Training Sword", Type: ItemTypeSword, Stats: ItemStats{Damage: 5, AttackSpeed: 1.0}},
			SlotArmor:  {Name: "Padded Tunic", Type: ItemTypeArmor, Stats: ItemStats{Defence: 3}},
			SlotBag:    NewDefaultBag(),
			SlotBelt:   NewDefaultBelt(),
		},
		Inventory: []*Item{
			{Name: "Torch", Type: ItemTypeConsumable, Stats: ItemStats{Amount: 0}, Weight: 0.5},
		},
		ConsumableStash: []*Item{
			{Name: "Small Healing Potion", Type: ItemTypeConsumable, Stats: ItemStats{Amount: 20}, Weight: 0.3},
		},
		Gold: 10,
	}
}
