package crawler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepdelve/crawler-core/internal/entities/crawler"
)

func TestNormalizeItemFoldsAliases(t *testing.T) {
	tests := []struct {
		alias string
		want  crawler.ItemType
	}{
		{"helm", crawler.ItemTypeHelmet},
		{"helms", crawler.ItemTypeHelmet},
		{"armors", crawler.ItemTypeArmor},
		{"bags", crawler.ItemTypeBag},
		{"backpack", crawler.ItemTypeBag},
		{"pouch", crawler.ItemTypeBag},
		{"swords", crawler.ItemTypeSword},
		{"shields", crawler.ItemTypeShield},
	}
	for _, tc := range tests {
		item, ok := crawler.NormalizeItem(&crawler.Item{Name: "x", Type: crawler.ItemType(tc.alias)})
		require.True(t, ok, tc.alias)
		assert.Equal(t, tc.want, item.Type, tc.alias)
	}
}

func TestNormalizeItemKeepsCanonicalTypes(t *testing.T) {
	item := &crawler.Item{Name: "Iron Sword", Type: crawler.ItemTypeSword}
	normalized, ok := crawler.NormalizeItem(item)
	require.True(t, ok)
	assert.Same(t, item, normalized, "canonical items pass through untouched")
}

func TestNormalizeItemRejectsUnknownVariants(t *testing.T) {
	_, ok := crawler.NormalizeItem(&crawler.Item{Name: "Strange Orb", Type: "orb"})
	assert.False(t, ok)

	_, ok = crawler.NormalizeItem(nil)
	assert.False(t, ok)
}

func TestSlotCompatibility(t *testing.T) {
	assert.True(t, crawler.SlotAccepts(crawler.SlotWeapon, crawler.ItemTypeSword))
	assert.True(t, crawler.SlotAccepts(crawler.SlotWeapon, crawler.ItemTypeDagger))
	assert.True(t, crawler.SlotAccepts(crawler.SlotOffhand, crawler.ItemTypeShield))
	assert.True(t, crawler.SlotAccepts(crawler.SlotRing, crawler.ItemTypeRing))

	assert.False(t, crawler.SlotAccepts(crawler.SlotHelmet, crawler.ItemTypeSword))
	assert.False(t, crawler.SlotAccepts(crawler.SlotWeapon, crawler.ItemTypeShield))
	assert.False(t, crawler.SlotAccepts(crawler.SlotRing, crawler.ItemTypeAmulet))
}

func TestSlotForUnequippableTypes(t *testing.T) {
	assert.Equal(t, crawler.Slot(""), crawler.SlotFor(crawler.ItemTypeConsumable))
	assert.Equal(t, crawler.Slot(""), crawler.SlotFor(crawler.ItemTypeCurrency))
	assert.Equal(t, crawler.SlotWeapon, crawler.SlotFor(crawler.ItemTypeDagger))
	assert.Equal(t, crawler.SlotOffhand, crawler.SlotFor(crawler.ItemTypeShield))
}

func TestStackAmountTreatsUnsetAsOne(t *testing.T) {
	item := &crawler.Item{Name: "Torch", Type: crawler.ItemTypeConsumable}
	assert.Equal(t, 1, item.StackAmount())

	item.Amount = 5
	assert.Equal(t, 5, item.StackAmount())
}

func TestCharacterCloneIsDeep(t *testing.T) {
	original := crawler.NewCharacterTemplate()
	clone := original.Clone()

	clone.Stats.Health = 1
	clone.Equipment[crawler.SlotWeapon].Name = "changed"
	clone.Inventory[0].Name = "changed"
	clone.ConsumableStash[0].Amount = 99

	assert.Equal(t, 100, original.Stats.Health)
	assert.Equal(t, "Training Sword", original.Equipment[crawler.SlotWeapon].Name)
	assert.Equal(t, "Torch", original.Inventory[0].Name)
	assert.Zero(t, original.ConsumableStash[0].Amount)
}

func TestEnemyCloneIsDeep(t *testing.T) {
	original := &crawler.Enemy{
		ArchetypeID: "rat",
		DamageLog:   []crawler.DmgPayload{{Dmg: 3}},
		Loot: []crawler.LootItem{
			{Item: &crawler.Item{Name: "Rat Tail", Type: crawler.ItemTypeConsumable}, DropChance: 0.2},
		},
	}
	clone := original.Clone()
	clone.DamageLog[0].Dmg = 99
	clone.Loot[0].Item.Name = "changed"

	assert.Equal(t, 3, original.DamageLog[0].Dmg)
	assert.Equal(t, "Rat Tail", original.Loot[0].Item.Name)
}

func TestSpawnMultisetReferencesKnownArchetypes(t *testing.T) {
	require.NotEmpty(t, crawler.SpawnMultiset)
	for _, id := range crawler.SpawnMultiset {
		_, ok := crawler.Archetypes[id]
		assert.True(t, ok, "multiset entry %q must exist in the catalog", id)
	}
}

func TestArchetypeLootNormalizes(t *testing.T) {
	for id, arch := range crawler.Archetypes {
		assert.Positive(t, arch.BaseStats.Health, id)
		assert.Positive(t, arch.BaseXP, id)
		for _, entry := range arch.Loot {
			_, ok := crawler.NormalizeItem(entry.Item)
			assert.True(t, ok, "%s loot %q must be a known variant", id, entry.Item.Name)
			assert.Greater(t, entry.DropChance, 0.0, id)
		}
	}
}

func TestTemplateStartsWithDefaultContainers(t *testing.T) {
	c := crawler.NewCharacterTemplate()
	require.NotNil(t, c.Equipped(crawler.SlotBag))
	require.NotNil(t, c.Equipped(crawler.SlotBelt))
	assert.Equal(t, crawler.StartingBagCapacity, c.Equipped(crawler.SlotBag).Stats.BagSlots)
	assert.Equal(t, crawler.StartingBeltCapacity, c.Equipped(crawler.SlotBelt).Stats.ConsumableSlots)
	assert.True(t, c.Alive())
}
