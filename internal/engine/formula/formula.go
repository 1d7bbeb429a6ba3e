// Package formula implements the pure derived-stat functions of the
// combat core. Nothing here touches state or does I/O; every function is
// deterministic so the combat and inventory orchestrators can be tested
// against it directly.
package formula

import (
	"math"

	"github.com/deepdelve/crawler-core/internal/entities/crawler"
)

// classCarryBase is the per-class carry capacity base table
var classCarryBase = map[string]float64{
	crawler.ClassWarrior: 200,
	crawler.ClassMage:    100,
	crawler.ClassRanger:  150,
	crawler.ClassRogue:   150,
}

// Round2 rounds to 2 decimal places
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// PhysicalDamage computes floor(baseDamage + strength/10 * strengthModifier)
func PhysicalDamage(baseDamage, strength int, strengthModifier float64) int {
	return int(math.Floor(float64(baseDamage) + float64(strength)/10*strengthModifier))
}

// AttackRating computes (baseAR + dexterity*arPerDex) * (attackBonus + 1)
func AttackRating(baseAR, dexterity int, arPerDex, attackBonus float64) float64 {
	return (float64(baseAR) + float64(dexterity)*arPerDex) * (attackBonus + 1)
}

// DefenceRating computes baseDefence * (bonusDefence + dexterity*0.1)
func DefenceRating(baseDefence int, bonusDefence float64, dexterity int) float64 {
	return float64(baseDefence) * (bonusDefence + float64(dexterity)*0.1)
}

// CarryCapacity computes the class/strength-derived carry maximum.
// Unknown classes fall back to the warrior base. Never below 10.
func CarryCapacity(class string, strength int) float64 {
	base, ok := classCarryBase[class]
	if !ok {
		base = classCarryBase[crawler.ClassWarrior]
	}
	capacity := base + float64(strength)*2
	if capacity < 10 {
		capacity = 10
	}
	return capacity
}

// unitWeightRange derives a unit weight from the variant's relevant stat,
// clamped into a per-variant range.
type unitWeightRange struct {
	perStat float64
	min     float64
	max     float64
}

// statWeights covers variants whose weight derives from a combat stat:
// damage for weapons, defence for armor/shield/helmet/boots.
var statWeights = map[crawler.ItemType]unitWeightRange{
	crawler.ItemTypeWeapon:  {perStat: 0.5, min: 1, max: 12},
	crawler.ItemTypeSword:   {perStat: 0.5, min: 1, max: 12},
	crawler.ItemTypeDagger:  {perStat: 0.3, min: 0.5, max: 6},
	crawler.ItemTypeOffhand: {perStat: 0.7, min: 1.5, max: 15},
	crawler.ItemTypeShield:  {perStat: 0.7, min: 1.5, max: 15},
	crawler.ItemTypeArmor:   {perStat: 0.8, min: 2, max: 25},
	crawler.ItemTypeHelmet:  {perStat: 0.5, min: 0.5, max: 8},
	crawler.ItemTypeBoots:   {perStat: 0.4, min: 0.5, max: 6},
}

// flatWeights covers variants with a fixed unit weight
var flatWeights = map[crawler.ItemType]float64{
	crawler.ItemTypeBelt:       0.5,
	crawler.ItemTypeRing:       0.05,
	crawler.ItemTypeAmulet:     0.05,
	crawler.ItemTypeBag:        1,
	crawler.ItemTypeConsumable: 0.3,
	crawler.ItemTypeCurrency:   0,
}

// ItemWeight computes the carried weight of an item stack. An explicit
// positive weight wins; otherwise the unit weight derives from the variant
// and its relevant stat, clamped to the variant's range. The result is
// multiplied by the stack amount and rounded to 2 decimals.
func ItemWeight(item *crawler.Item) float64 {
	if item == nil {
		return 0
	}

	amount := float64(item.StackAmount())
	if item.Weight > 0 {
		return Round2(item.Weight * amount)
	}

	if r, ok := statWeights[item.Type]; ok {
		stat := item.Stats.Damage
		switch item.Type {
		case crawler.ItemTypeOffhand, crawler.ItemTypeShield, crawler.ItemTypeArmor,
			crawler.ItemTypeHelmet, crawler.ItemTypeBoots:
			stat = item.Stats.Defence
		}
		unit := float64(stat) * r.perStat
		if unit < r.min {
			unit = r.min
		}
		if unit > r.max {
			unit = r.max
		}
		return Round2(unit * amount)
	}

	return Round2(flatWeights[item.Type] * amount)
}
