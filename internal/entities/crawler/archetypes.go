package crawler

// Archetype is a static enemy template referenced by id. Base values are
// configuration data; the spawn engine scales them per encounter.
type Archetype struct {
	ID        string
	Name      string
	BaseStats Stats
	BaseLevel int
	BaseXP    int
	Loot      []LootItem
	Behavior  Behavior
}

// Archetypes is the static enemy catalog keyed by archetype id
var Archetypes = map[string]Archetype{
	"rat": {
		ID:   "rat",
		Name: "Sewer Rat",
		BaseStats: Stats{
			Health: 8, MaxHealth: 8, Attack: 3, Strength: 4, Dexterity: 6,
			Stamina: 4, Vitality: 3, Intelligence: 1, Defence: 1,
			AttackSpeed: 1.4, Crit: 0.02, Dodge: 0.08,
		},
		BaseLevel: 1,
		BaseXP:    6,
		Loot: []LootItem{
			{Item: &Item{Name: "Copper Coins", Type: ItemTypeCurrency, Stats: ItemStats{Value: 0.25}, Amount: 3}, DropChance: 0.6},
			{Item: &Item{Name: "Rat Tail", Type: ItemTypeConsumable, Stats: ItemStats{Amount: 2}, Weight: 0.1, Amount: 1}, DropChance: 0.2},
		},
		Behavior: Behavior{
			VisibilityMode: "scent", VisibilityRange: 4, AttackStyle: "melee",
			AttackRange: 1, PlayerEngageRange: 3, FirstStrike: false, Disposition: "skittish",
		},
	},
	"bat": {
		ID:   "bat",
		Name: "Cave Bat",
		BaseStats: Stats{
			Health: 6, MaxHealth: 6, Attack: 4, Strength: 3, Dexterity: 9,
			Stamina: 5, Vitality: 2, Intelligence: 1, Defence: 1,
			AttackSpeed: 1.8, Crit: 0.04, Dodge: 0.15,
		},
		BaseLevel: 1,
		BaseXP:    7,
		Loot: []LootItem{
			{Item: &Item{Name: "Copper Coins", Type: ItemTypeCurrency, Stats: ItemStats{Value: 0.25}, Amount: 2}, DropChance: 0.5},
		},
		Behavior: Behavior{
			VisibilityMode: "echo", VisibilityRange: 7, AttackStyle: "melee",
			AttackRange: 1, PlayerEngageRange: 5, FirstStrike: true, Disposition: "erratic",
		},
	},
	"goblin": {
		ID:   "goblin",
		Name: "Goblin Scavenger",
		BaseStats: Stats{
			Health: 14, MaxHealth: 14, Attack: 6, Strength: 7, Dexterity: 7,
			Stamina: 6, Vitality: 5, Intelligence: 4, Defence: 3,
			AttackSpeed: 1.1, Crit: 0.05, Dodge: 0.06,
		},
		BaseLevel: 2,
		BaseXP:    14,
		Loot: []LootItem{
			{Item: &Item{Name: "Silver Coins", Type: ItemTypeCurrency, Stats: ItemStats{Value: 1}, Amount: 2}, DropChance: 0.55},
			{Item: &Item{Name: "Rusty Dagger", Type: ItemTypeDagger, Stats: ItemStats{Damage: 4, AttackSpeed: 1.3}}, DropChance: 0.15},
			{Item: &Item{Name: "Small Healing Potion", Type: ItemTypeConsumable, Stats: ItemStats{Amount: 20}, Weight: 0.3}, DropChance: 0.25},
		},
		Behavior: Behavior{
			VisibilityMode: "sight", VisibilityRange: 6, AttackStyle: "melee",
			AttackRange: 1, PlayerEngageRange: 4, FirstStrike: false, Disposition: "hostile",
		},
	},
	"skeleton": {
		ID:   "skeleton",
		Name: "Restless Skeleton",
		BaseStats: Stats{
			Health: 18, MaxHealth: 18, Attack: 8, Strength: 9, Dexterity: 5,
			Stamina: 8, Vitality: 6, Intelligence: 2, Defence: 5,
			AttackSpeed: 0.9, Crit: 0.04, Dodge: 0.03,
		},
		BaseLevel: 3,
		BaseXP:    22,
		Loot: []LootItem{
			{Item: &Item{Name: "Silver Coins", Type: ItemTypeCurrency, Stats: ItemStats{Value: 1}, Amount: 4}, DropChance: 0.5},
			{Item: &Item{Name: "Bone Shield", Type: ItemTypeShield, Stats: ItemStats{Defence: 6}}, DropChance: 0.12},
			{Item: &Item{Name: "Cracked Helm", Type: ItemTypeHelmet, Stats: ItemStats{Defence: 3}}, DropChance: 0.1},
		},
		Behavior: Behavior{
			VisibilityMode: "sight", VisibilityRange: 5, AttackStyle: "melee",
			AttackRange: 1, PlayerEngageRange: 4, FirstStrike: false, Disposition: "relentless",
		},
	},
	"orc": {
		ID:   "orc",
		Name: "Orc Brute",
		BaseStats: Stats{
			Health: 26, MaxHealth: 26, Attack: 11, Strength: 13, Dexterity: 4,
			Stamina: 10, Vitality: 9, Intelligence: 3, Defence: 6,
			AttackSpeed: 0.8, Crit: 0.06, Dodge: 0.02,
		},
		BaseLevel: 4,
		BaseXP:    35,
		Loot: []LootItem{
			{Item: &Item{Name: "Gold Coins", Type: ItemTypeCurrency, Stats: ItemStats{Value: 5}, Amount: 2}, DropChance: 0.45},
			{Item: &Item{Name: "Orcish Cleaver", Type: ItemTypeWeapon, Stats: ItemStats{Damage: 9, AttackSpeed: 0.9}}, DropChance: 0.14},
			{Item: &Item{Name: "Hide Armor", Type: ItemTypeArmor, Stats: ItemStats{Defence: 7}}, DropChance: 0.1},
			{Item: &Item{Name: "Healing Potion", Type: ItemTypeConsumable, Stats: ItemStats{Amount: 40}, Weight: 0.4}, DropChance: 0.3},
		},
		Behavior: Behavior{
			VisibilityMode: "sight", VisibilityRange: 6, AttackStyle: "melee",
			AttackRange: 1, PlayerEngageRange: 6, FirstStrike: false, Disposition: "aggressive",
		},
	},
	"cave_spider": {
		ID:   "cave_spider",
		Name: "Cave Spider",
		BaseStats: Stats{
			Health: 12, MaxHealth: 12, Attack: 7, Strength: 5, Dexterity: 10,
			Stamina: 6, Vitality: 4, Intelligence: 2, Defence: 2,
			AttackSpeed: 1.5, Crit: 0.08, Dodge: 0.12,
		},
		BaseLevel: 2,
		BaseXP:    16,
		Loot: []LootItem{
			{Item: &Item{Name: "Spider Silk", Type: ItemTypeConsumable, Stats: ItemStats{Amount: 5}, Weight: 0.1, Amount: 2}, DropChance: 0.4},
			{Item: &Item{Name: "Venom Fang Ring", Type: ItemTypeRing, Stats: ItemStats{CritMod: 0.03}}, DropChance: 0.05},
		},
		Behavior: Behavior{
			VisibilityMode: "tremor", VisibilityRange: 5, AttackStyle: "ambush",
			AttackRange: 1, PlayerEngageRange: 2, FirstStrike: true, Disposition: "patient",
		},
	},
}

// SpawnMultiset is the weighted multiset PickArchetype draws from.
// Duplicates bias probability; the full catalog is deliberately not listed.
var SpawnMultiset = []string{
	"rat", "rat", "rat",
	"bat", "bat",
	"goblin", "goblin", "goblin",
	"cave_spider", "cave_spider",
	"skeleton", "skeleton",
	"orc",
}
