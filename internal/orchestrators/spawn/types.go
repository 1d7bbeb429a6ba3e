package spawn

// Position is a tile coordinate on the current map
type Position struct {
	X int
	Y int
}

// TileMap is the read-only map collaborator. tiles[y][x] > 0 is walkable.
type TileMap interface {
	Tiles() [][]int
	PlayerPosition() (x, y int)
	MapID() string
}

// ScaleEnemyInput defines the request for scaling an archetype
type ScaleEnemyInput struct {
	ArchetypeID string
	// CombatScale drives stat scaling; values below 1 are treated as 1
	CombatScale float64
	// RewardScale drives xp/loot scaling; 0 or below means "use CombatScale"
	RewardScale float64
}

// SpawnPackInput defines the request for spawning one pack
type SpawnPackInput struct {
	Count int
	// Position pins the pack; nil draws a walkable tile
	Position    *Position
	CombatScale float64
	RewardScale float64
}

// SpawnPackOutput defines the response for spawning one pack
type SpawnPackOutput struct {
	Indices []int
}

// SpawnSingleInput defines the request for spawning one enemy
type SpawnSingleInput struct {
	Position    *Position
	CombatScale float64
	RewardScale float64
}

// SpawnSingleOutput defines the response for spawning one enemy
type SpawnSingleOutput struct {
	Index int
}

// SpawnRandomEncounterInput defines the request for repopulating a room
type SpawnRandomEncounterInput struct {
	TotalEnemies int
	MaxPackSize  int
	CombatScale  float64
	RewardScale  float64
}

// SpawnRandomEncounterOutput defines the response for repopulating a room
type SpawnRandomEncounterOutput struct {
	Indices []int
	// FirstIndex is the new active target
	FirstIndex int
}
