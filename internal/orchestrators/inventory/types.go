package inventory

import (
	"context"

	"github.com/deepdelve/crawler-core/internal/entities/crawler"
)

// Container identifies a character-side item container
type Container string

// Containers addressable by index
const (
	ContainerBag  Container = "bag"
	ContainerBelt Container = "belt"
)

// Confirmer gates destructive operations behind an external prompt
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Drop is the outbound payload emitted when items hit the floor
type Drop struct {
	Items []*crawler.Item
	MapID string
	X     int
	Y     int
}

// FloorReceiver receives dropped items. This is a one-way notification;
// dropped items are not recoverable through this component.
type FloorReceiver interface {
	ReceiveDrop(ctx context.Context, drop Drop) error
}

// PositionSource supplies the player's map id and coordinates for drops
type PositionSource interface {
	MapID() string
	PlayerPosition() (x, y int)
}

// EquipInput defines the request for equipping an item from a container
type EquipInput struct {
	// Container defaults to the bag when empty
	Container   Container
	SourceIndex int
	// TargetSlot overrides the natural slot for the item type
	TargetSlot crawler.Slot
}

// EquipOutput defines the response for an equip transaction
type EquipOutput struct {
	// Consumed is true when the item was a consumable and was used up
	Consumed bool
	Slot     crawler.Slot
	Equipped *crawler.Item
	// Replaced is the previously equipped item returned to the bag
	Replaced *crawler.Item
}

// MoveToBeltInput defines the request for moving a bag consumable to the belt
type MoveToBeltInput struct {
	SourceIndex int
}

// MoveToBeltOutput defines the response for a bag-to-belt move
type MoveToBeltOutput struct {
	Item *crawler.Item
}

// MoveToBagInput defines the request for moving a belt item to the bag
type MoveToBagInput struct {
	SourceIndex int
}

// MoveToBagOutput defines the response for a belt-to-bag move
type MoveToBagOutput struct {
	Item *crawler.Item
}

// UnequipInput defines the request for unequipping a slot
type UnequipInput struct {
	Slot crawler.Slot
}

// UnequipOutput defines the response for an unequip transaction
type UnequipOutput struct {
	Item *crawler.Item
}

// DeleteItemInput defines the request for permanently deleting an item
type DeleteItemInput struct {
	Container Container
	Index     int
}

// DeleteItemOutput defines the response for a delete transaction
type DeleteItemOutput struct {
	// Deleted is false when the confirmation prompt was declined
	Deleted bool
	Item    *crawler.Item
}

// DropToFloorInput defines the request for dropping an item to the floor
type DropToFloorInput struct {
	Container Container
	Index     int
}

// DropToFloorOutput defines the response for a drop transaction
type DropToFloorOutput struct {
	Item *crawler.Item
}

// CollectCurrencyInput defines the request for converting a bag currency
// item into gold
type CollectCurrencyInput struct {
	Index int
}

// CollectCurrencyOutput defines the response for a currency collection
type CollectCurrencyOutput struct {
	Collected float64
	Gold      float64
}

// InsertInput defines the request for inserting loot into the containers
type InsertInput struct {
	Items []*crawler.Item
}

// InsertOutput defines the response for a loot insertion. Items that do not
// fit are returned in Rejected and left out of the character record.
type InsertOutput struct {
	Inserted []*crawler.Item
	Rejected []*crawler.Item
	Gold     float64
}

// CapacitiesOutput reports the derived container capacities and fills
type CapacitiesOutput struct {
	BagCount     int
	BagCapacity  int
	BeltCount    int
	BeltCapacity int
}

// CarryLoadOutput reports used weight against carry capacity. Overloaded is
// informational; nothing is force-dropped.
type CarryLoadOutput struct {
	Used       float64
	Capacity   float64
	Overloaded bool
}
