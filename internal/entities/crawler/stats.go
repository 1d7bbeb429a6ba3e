package crawler

// Stats is the fixed-shape combat stat block shared by the character and
// enemies. All derived values (damage, attack rating, carry capacity) are
// computed by the formula engine, never stored here.
type Stats struct {
	Health       int     `json:"health"`
	MaxHealth    int     `json:"maxHealth"`
	Attack       int     `json:"attack"`
	Strength     int     `json:"strength"`
	Dexterity    int     `json:"dexterity"`
	Stamina      int     `json:"stamina"`
	Vitality     int     `json:"vitality"`
	Intelligence int     `json:"intelligence"`
	Defence      int     `json:"defence"`
	AttackSpeed  float64 `json:"attackSpeed"`
	Crit         float64 `json:"crit"`
	Dodge        float64 `json:"dodge"`
}

// ClampHealth clamps Health into [0, MaxHealth]. Health may be driven
// negative by a damage application; callers clamp before the death check
// so "dead" is always exactly zero.
func (s *Stats) ClampHealth() {
	if s.Health < 0 {
		s.Health = 0
	}
	if s.MaxHealth > 0 && s.Health > s.MaxHealth {
		s.Health = s.MaxHealth
	}
}
