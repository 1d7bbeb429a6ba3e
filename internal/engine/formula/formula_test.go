package formula_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deepdelve/crawler-core/internal/engine/formula"
	"github.com/deepdelve/crawler-core/internal/entities/crawler"
)

func TestPhysicalDamage(t *testing.T) {
	// base warrior scenario: strength 20, damage 10, modifier 3
	assert.Equal(t, 16, formula.PhysicalDamage(10, 20, 3))

	// floors, never rounds up
	assert.Equal(t, 11, formula.PhysicalDamage(10, 5, 3)) // 10 + 1.5
	assert.Equal(t, 0, formula.PhysicalDamage(0, 0, 3))
}

func TestAttackRating(t *testing.T) {
	assert.InDelta(t, 60.0, formula.AttackRating(10, 10, 2, 1), 1e-9)
	assert.InDelta(t, 10.0, formula.AttackRating(10, 0, 2, 0), 1e-9)
}

func TestDefenceRating(t *testing.T) {
	assert.InDelta(t, 20.0, formula.DefenceRating(10, 1, 10), 1e-9)
	assert.InDelta(t, 0.0, formula.DefenceRating(0, 2, 10), 1e-9)
}

func TestCarryCapacity(t *testing.T) {
	assert.InDelta(t, 240.0, formula.CarryCapacity(crawler.ClassWarrior, 20), 1e-9)
	assert.InDelta(t, 140.0, formula.CarryCapacity(crawler.ClassMage, 20), 1e-9)
	assert.InDelta(t, 190.0, formula.CarryCapacity(crawler.ClassRanger, 20), 1e-9)
	assert.InDelta(t, 190.0, formula.CarryCapacity(crawler.ClassRogue, 20), 1e-9)

	// unknown class falls back to warrior base
	assert.InDelta(t, 240.0, formula.CarryCapacity("necromancer", 20), 1e-9)
}

func TestItemWeightExplicit(t *testing.T) {
	potion := &crawler.Item{Name: "Potion", Type: crawler.ItemTypeConsumable, Weight: 0.3, Amount: 4}
	assert.InDelta(t, 1.2, formula.ItemWeight(potion), 1e-9)
}

func TestItemWeightDerived(t *testing.T) {
	sword := &crawler.Item{Name: "Sword", Type: crawler.ItemTypeSword, Stats: crawler.ItemStats{Damage: 8}}
	assert.InDelta(t, 4.0, formula.ItemWeight(sword), 1e-9)

	// clamped to the variant minimum
	shiv := &crawler.Item{Name: "Shiv", Type: crawler.ItemTypeDagger, Stats: crawler.ItemStats{Damage: 1}}
	assert.InDelta(t, 0.5, formula.ItemWeight(shiv), 1e-9)

	// clamped to the variant maximum
	plate := &crawler.Item{Name: "Plate", Type: crawler.ItemTypeArmor, Stats: crawler.ItemStats{Defence: 100}}
	assert.InDelta(t, 25.0, formula.ItemWeight(plate), 1e-9)

	// defence drives shield weight
	shield := &crawler.Item{Name: "Shield", Type: crawler.ItemTypeShield, Stats: crawler.ItemStats{Defence: 6}}
	assert.InDelta(t, 4.2, formula.ItemWeight(shield), 1e-9)
}

func TestItemWeightNonNegativeAndScalesWithAmount(t *testing.T) {
	items := []*crawler.Item{
		{Type: crawler.ItemTypeCurrency, Amount: 50},
		{Type: crawler.ItemTypeConsumable, Amount: 2},
		{Type: crawler.ItemTypeRing},
		{Type: crawler.ItemTypeWeapon, Stats: crawler.ItemStats{Damage: 7}},
		{Type: crawler.ItemTypeBoots, Stats: crawler.ItemStats{Defence: 4}},
		{Type: crawler.ItemTypeBag},
	}

	for _, item := range items {
		w := formula.ItemWeight(item)
		assert.GreaterOrEqual(t, w, 0.0, "weight must never be negative: %+v", item)

		doubled := item.Clone()
		doubled.Amount = item.StackAmount() * 2
		assert.InDelta(t, w*2, formula.ItemWeight(doubled), 0.01,
			"doubling the stack must double the weight: %+v", item)
	}
}

func TestItemWeightNil(t *testing.T) {
	assert.Zero(t, formula.ItemWeight(nil))
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 1.23, formula.Round2(1.2345), 1e-9)
	assert.InDelta(t, 1.24, formula.Round2(1.236), 1e-9)
	assert.InDelta(t, 0.0, formula.Round2(0), 1e-9)
}
