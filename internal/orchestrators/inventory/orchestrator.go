// Package inventory implements the inventory and equipment manager. Every
// transaction follows the same cycle: read the cached character, mutate the
// copy, validate capacity, commit back, persist the full record.
package inventory

//go:generate mockgen -destination=mock/mock_service.go -package=inventorymock github.com/deepdelve/crawler-core/internal/orchestrators/inventory Service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deepdelve/crawler-core/internal/engine/formula"
	"github.com/deepdelve/crawler-core/internal/entities/crawler"
	"github.com/deepdelve/crawler-core/internal/errors"
	"github.com/deepdelve/crawler-core/internal/repositories/save"
	"github.com/deepdelve/crawler-core/internal/state"
)

// DefaultSaveSlot is used when no slot is configured
const DefaultSaveSlot = "default"

// Service defines the interface for inventory and equipment transactions
type Service interface {
	// Capacities reports the derived container capacities and fills
	Capacities(ctx context.Context) (*CapacitiesOutput, error)

	// Equip moves an item from a container into its equipment slot.
	// Consumables are consumed instead; currency is never equipped.
	Equip(ctx context.Context, input *EquipInput) (*EquipOutput, error)

	// MoveToBelt moves a consumable from the bag to the belt
	MoveToBelt(ctx context.Context, input *MoveToBeltInput) (*MoveToBeltOutput, error)

	// MoveToBag moves a belt item back to the bag
	MoveToBag(ctx context.Context, input *MoveToBagInput) (*MoveToBagOutput, error)

	// Unequip returns an equipped item to the bag. Bag and belt slots are
	// reset to a synthesized default container, never left empty.
	Unequip(ctx context.Context, input *UnequipInput) (*UnequipOutput, error)

	// DeleteItem permanently removes an item after external confirmation
	DeleteItem(ctx context.Context, input *DeleteItemInput) (*DeleteItemOutput, error)

	// DropToFloor removes an item and emits it to the floor collaborator
	DropToFloor(ctx context.Context, input *DropToFloorInput) (*DropToFloorOutput, error)

	// CollectCurrency converts a bag currency item into gold
	CollectCurrency(ctx context.Context, input *CollectCurrencyInput) (*CollectCurrencyOutput, error)

	// Insert places loot items into the containers, merging stacks and
	// rejecting what does not fit
	Insert(ctx context.Context, input *InsertInput) (*InsertOutput, error)

	// CarryLoad reports used weight against the class carry capacity
	CarryLoad(ctx context.Context) (*CarryLoadOutput, error)
}

// Config holds the dependencies for the inventory orchestrator
type Config struct {
	Store     *state.SessionStore
	Repo      save.Repository
	Confirmer Confirmer
	Floor     FloorReceiver
	Position  PositionSource
	// SaveSlot defaults to DefaultSaveSlot when empty
	SaveSlot string
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Store == nil {
		vb.RequiredField("Store")
	}
	if c.Repo == nil {
		vb.RequiredField("Repo")
	}
	if c.Confirmer == nil {
		vb.RequiredField("Confirmer")
	}
	if c.Floor == nil {
		vb.RequiredField("Floor")
	}
	if c.Position == nil {
		vb.RequiredField("Position")
	}

	return vb.Build()
}

type orchestrator struct {
	store     *state.SessionStore
	repo      save.Repository
	confirmer Confirmer
	floor     FloorReceiver
	position  PositionSource
	saveSlot  string
}

// NewOrchestrator creates a new inventory orchestrator with the provided
// dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	saveSlot := cfg.SaveSlot
	if saveSlot == "" {
		saveSlot = DefaultSaveSlot
	}

	return &orchestrator{
		store:     cfg.Store,
		repo:      cfg.Repo,
		confirmer: cfg.Confirmer,
		floor:     cfg.Floor,
		position:  cfg.Position,
		saveSlot:  saveSlot,
	}, nil
}

// BagCapacityOf derives the bag capacity from the equipped bag item,
// clamped between the starting and maximum capacity.
func BagCapacityOf(c *crawler.Character) int {
	slots := crawler.StartingBagCapacity
	if bag := c.Equipped(crawler.SlotBag); bag != nil && bag.Stats.BagSlots > 0 {
		slots = bag.Stats.BagSlots
	}
	return clampInt(slots, crawler.StartingBagCapacity, crawler.BagCapacity)
}

// BeltCapacityOf derives the belt capacity from the equipped belt item.
// A belt without an explicit slot count falls back to the starting capacity
// plus its bonus stat.
func BeltCapacityOf(c *crawler.Character) int {
	slots := crawler.StartingBeltCapacity
	if belt := c.Equipped(crawler.SlotBelt); belt != nil {
		switch {
		case belt.Stats.ConsumableSlots > 0:
			slots = belt.Stats.ConsumableSlots
		case belt.Stats.Bonus > 0:
			slots = crawler.StartingBeltCapacity + belt.Stats.Bonus
		}
	}
	return clampInt(slots, crawler.StartingBeltCapacity, crawler.ConsumableStashCapacity)
}

// NormalizeContainers repairs a character record loaded from storage:
// missing bag/belt slots get default containers, nil entries are pruned,
// gold is rounded and floored at zero. Applying it twice is a no-op.
func NormalizeContainers(c *crawler.Character) {
	if c.Equipment == nil {
		c.Equipment = make(map[crawler.Slot]*crawler.Item)
	}
	if c.Equipment[crawler.SlotBag] == nil {
		c.Equipment[crawler.SlotBag] = crawler.NewDefaultBag()
	}
	if c.Equipment[crawler.SlotBelt] == nil {
		c.Equipment[crawler.SlotBelt] = crawler.NewDefaultBelt()
	}
	c.Inventory = pruneNil(c.Inventory)
	c.ConsumableStash = pruneNil(c.ConsumableStash)
	if c.Gold < 0 {
		c.Gold = 0
	}
	c.Gold = formula.Round2(c.Gold)
	c.Stats.ClampHealth()
}

func pruneNil(items []*crawler.Item) []*crawler.Item {
	out := items[:0]
	for _, item := range items {
		if item != nil {
			out = append(out, item)
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// noChangeError aborts a transaction without treating it as a failure
type noChangeError struct{}

func (noChangeError) Error() string { return "no change" }

var errNoChange = noChangeError{}

// transact runs one read-mutate-validate-commit-persist cycle. A capacity
// violation or any error from fn aborts with no state change.
func (o *orchestrator) transact(ctx context.Context, fn func(*crawler.Character) error) error {
	character, version := o.store.Character()

	if err := fn(character); err != nil {
		if err == errNoChange {
			return nil
		}
		return err
	}

	if err := validateCapacity(character); err != nil {
		o.store.AppendLog(errors.GetMessage(err))
		return err
	}

	if err := o.store.CommitCharacter(character, version); err != nil {
		return err
	}

	o.persist(ctx, character)
	return nil
}

func validateCapacity(c *crawler.Character) error {
	if bagCap := BagCapacityOf(c); len(c.Inventory) > bagCap {
		return errors.FailedPreconditionf("bag is full (%d/%d)", len(c.Inventory), bagCap)
	}
	if beltCap := BeltCapacityOf(c); len(c.ConsumableStash) > beltCap {
		return errors.FailedPreconditionf("belt is full (%d/%d)", len(c.ConsumableStash), beltCap)
	}
	return nil
}

// persist writes the full record after a committed mutation. The in-memory
// commit stands even when storage is down; the failure is logged and the
// next successful write carries the current state.
func (o *orchestrator) persist(ctx context.Context, c *crawler.Character) {
	_, err := o.repo.Save(ctx, save.SaveInput{
		Slot: o.saveSlot,
		Record: &save.Record{
			Character: c,
			Enemies:   o.enemySnapshot(),
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to persist character record",
			"slot", o.saveSlot,
			"error", err)
	}
}

func (o *orchestrator) enemySnapshot() []*crawler.Enemy {
	indices := o.store.EnemyIndices()
	out := make([]*crawler.Enemy, 0, len(indices))
	for _, idx := range indices {
		if e, ok := o.store.Enemy(idx); ok {
			out = append(out, e)
		}
	}
	return out
}

func containerSlice(c *crawler.Character, ct Container) (*[]*crawler.Item, error) {
	switch ct {
	case ContainerBag, "":
		return &c.Inventory, nil
	case ContainerBelt:
		return &c.ConsumableStash, nil
	}
	return nil, errors.InvalidArgumentf("unknown container %q", ct)
}

func itemAt(items []*crawler.Item, index int) (*crawler.Item, error) {
	if index < 0 || index >= len(items) {
		return nil, errors.NotFoundf("no item at index %d", index)
	}
	return items[index], nil
}

func removeAt(items []*crawler.Item, index int) []*crawler.Item {
	return append(items[:index:index], items[index+1:]...)
}

func isDefaultContainer(item *crawler.Item) bool {
	switch item.Type {
	case crawler.ItemTypeBag:
		return item.Name == crawler.NewDefaultBag().Name
	case crawler.ItemTypeBelt:
		return item.Name == crawler.NewDefaultBelt().Name
	}
	return false
}

// Capacities reports the derived container capacities and fills
func (o *orchestrator) Capacities(_ context.Context) (*CapacitiesOutput, error) {
	character, _ := o.store.Character()
	return &CapacitiesOutput{
		BagCount:     len(character.Inventory),
		BagCapacity:  BagCapacityOf(character),
		BeltCount:    len(character.ConsumableStash),
		BeltCapacity: BeltCapacityOf(character),
	}, nil
}

// Equip moves an item from a container into its equipment slot
func (o *orchestrator) Equip(ctx context.Context, input *EquipInput) (*EquipOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out := &EquipOutput{}
	err := o.transact(ctx, func(c *crawler.Character) error {
		source, err := containerSlice(c, input.Container)
		if err != nil {
			return err
		}
		item, err := itemAt(*source, input.SourceIndex)
		if err != nil {
			return err
		}

		if item.IsCurrency() {
			o.store.AppendLog(fmt.Sprintf("%s cannot be equipped", item.Name))
			return errNoChange
		}

		if item.IsConsumable() {
			*source = removeAt(*source, input.SourceIndex)
			heal := item.Stats.Amount
			c.Stats.Health += heal
			c.Stats.ClampHealth()
			out.Consumed = true
			o.store.AppendLog(fmt.Sprintf("Consumed %s (+%d health)", item.Name, heal))
			return nil
		}

		slot := input.TargetSlot
		if slot == "" {
			slot = crawler.SlotFor(item.Type)
		}
		if slot == "" || !crawler.SlotAccepts(slot, item.Type) {
			msg := fmt.Sprintf("%s does not fit the %s slot", item.Name, slot)
			o.store.AppendLog(msg)
			return errors.InvalidArgument(msg)
		}

		*source = removeAt(*source, input.SourceIndex)
		if previous := c.Equipped(slot); previous != nil && !isDefaultContainer(previous) {
			c.Inventory = append(c.Inventory, previous)
			out.Replaced = previous
		}
		c.SetEquipped(slot, item)
		out.Slot = slot
		out.Equipped = item
		o.store.AppendLog(fmt.Sprintf("Equipped %s", item.Name))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MoveToBelt moves a consumable from the bag to the belt
func (o *orchestrator) MoveToBelt(ctx context.Context, input *MoveToBeltInput) (*MoveToBeltOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out := &MoveToBeltOutput{}
	err := o.transact(ctx, func(c *crawler.Character) error {
		item, err := itemAt(c.Inventory, input.SourceIndex)
		if err != nil {
			return err
		}
		if !item.IsConsumable() {
			msg := fmt.Sprintf("%s is not a consumable and cannot go on the belt", item.Name)
			o.store.AppendLog(msg)
			return errors.InvalidArgument(msg)
		}

		c.Inventory = removeAt(c.Inventory, input.SourceIndex)
		insertStacking(&c.ConsumableStash, item)
		out.Item = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MoveToBag moves a belt item back to the bag
func (o *orchestrator) MoveToBag(ctx context.Context, input *MoveToBagInput) (*MoveToBagOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out := &MoveToBagOutput{}
	err := o.transact(ctx, func(c *crawler.Character) error {
		item, err := itemAt(c.ConsumableStash, input.SourceIndex)
		if err != nil {
			return err
		}
		c.ConsumableStash = removeAt(c.ConsumableStash, input.SourceIndex)
		insertStacking(&c.Inventory, item)
		out.Item = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Unequip returns an equipped item to the bag
func (o *orchestrator) Unequip(ctx context.Context, input *UnequipInput) (*UnequipOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out := &UnequipOutput{}
	err := o.transact(ctx, func(c *crawler.Character) error {
		item := c.Equipped(input.Slot)
		if item == nil {
			return errors.NotFoundf("nothing equipped in slot %q", input.Slot)
		}
		if isDefaultContainer(item) {
			return errNoChange
		}

		c.Inventory = append(c.Inventory, item)
		switch input.Slot {
		case crawler.SlotBag:
			c.SetEquipped(crawler.SlotBag, crawler.NewDefaultBag())
		case crawler.SlotBelt:
			c.SetEquipped(crawler.SlotBelt, crawler.NewDefaultBelt())
		default:
			delete(c.Equipment, input.Slot)
		}
		out.Item = item
		o.store.AppendLog(fmt.Sprintf("Unequipped %s", item.Name))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteItem permanently removes an item after external confirmation
func (o *orchestrator) DeleteItem(ctx context.Context, input *DeleteItemInput) (*DeleteItemOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	character, _ := o.store.Character()
	source, err := containerSlice(character, input.Container)
	if err != nil {
		return nil, err
	}
	item, err := itemAt(*source, input.Index)
	if err != nil {
		return nil, err
	}

	confirmed, err := o.confirmer.Confirm(ctx, fmt.Sprintf("Permanently delete %s?", item.Name))
	if err != nil {
		return nil, errors.Wrap(err, "confirmation failed")
	}
	if !confirmed {
		slog.DebugContext(ctx, "item deletion declined", "item", item.Name)
		return &DeleteItemOutput{Deleted: false}, nil
	}

	out := &DeleteItemOutput{Deleted: true}
	err = o.transact(ctx, func(c *crawler.Character) error {
		src, err := containerSlice(c, input.Container)
		if err != nil {
			return err
		}
		deleted, err := itemAt(*src, input.Index)
		if err != nil {
			return err
		}
		*src = removeAt(*src, input.Index)
		out.Item = deleted
		o.store.AppendLog(fmt.Sprintf("Destroyed %s", deleted.Name))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DropToFloor removes an item and emits it to the floor collaborator
func (o *orchestrator) DropToFloor(ctx context.Context, input *DropToFloorInput) (*DropToFloorOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out := &DropToFloorOutput{}
	err := o.transact(ctx, func(c *crawler.Character) error {
		source, err := containerSlice(c, input.Container)
		if err != nil {
			return err
		}
		item, err := itemAt(*source, input.Index)
		if err != nil {
			return err
		}
		*source = removeAt(*source, input.Index)
		out.Item = item
		o.store.AppendLog(fmt.Sprintf("Dropped %s on the floor", item.Name))
		return nil
	})
	if err != nil {
		return nil, err
	}

	x, y := o.position.PlayerPosition()
	drop := Drop{Items: []*crawler.Item{out.Item}, MapID: o.position.MapID(), X: x, Y: y}
	if err := o.floor.ReceiveDrop(ctx, drop); err != nil {
		slog.WarnContext(ctx, "floor collaborator rejected drop",
			"item", out.Item.Name,
			"error", err)
	}
	return out, nil
}

// CollectCurrency converts a bag currency item into gold
func (o *orchestrator) CollectCurrency(ctx context.Context, input *CollectCurrencyInput) (*CollectCurrencyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out := &CollectCurrencyOutput{}
	err := o.transact(ctx, func(c *crawler.Character) error {
		item, err := itemAt(c.Inventory, input.Index)
		if err != nil {
			return err
		}
		if !item.IsCurrency() {
			return errors.InvalidArgumentf("%s is not currency", item.Name)
		}

		collected := formula.Round2(item.Stats.Value * float64(item.StackAmount()))
		c.Inventory = removeAt(c.Inventory, input.Index)
		c.Gold = formula.Round2(c.Gold + collected)
		out.Collected = collected
		out.Gold = c.Gold
		o.store.AppendLog(fmt.Sprintf("Collected %s (+%.2f gold)", item.Name, collected))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Insert places loot items into the containers. Currency converts straight
// to gold, consumables prefer the belt, everything else goes to the bag.
// Items that fit nowhere are rejected; the rest still commit.
func (o *orchestrator) Insert(ctx context.Context, input *InsertInput) (*InsertOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out := &InsertOutput{}
	err := o.transact(ctx, func(c *crawler.Character) error {
		for _, raw := range input.Items {
			item, ok := crawler.NormalizeItem(raw)
			if !ok {
				out.Rejected = append(out.Rejected, raw)
				continue
			}
			item = item.Clone()

			switch {
			case item.IsCurrency():
				gained := formula.Round2(item.Stats.Value * float64(item.StackAmount()))
				c.Gold = formula.Round2(c.Gold + gained)
				out.Inserted = append(out.Inserted, item)

			case item.IsConsumable() && fitsStacking(c.ConsumableStash, item, BeltCapacityOf(c)):
				insertStacking(&c.ConsumableStash, item)
				out.Inserted = append(out.Inserted, item)

			case fitsStacking(c.Inventory, item, BagCapacityOf(c)):
				insertStacking(&c.Inventory, item)
				out.Inserted = append(out.Inserted, item)

			default:
				out.Rejected = append(out.Rejected, item)
				o.store.AppendLog(fmt.Sprintf("No room for %s", item.Name))
			}
		}

		out.Gold = c.Gold
		if len(out.Inserted) == 0 {
			return errNoChange
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// fitsStacking reports whether the item can enter the container: either by
// merging into an existing stack or by occupying a free slot.
func fitsStacking(items []*crawler.Item, item *crawler.Item, capacity int) bool {
	if item.IsStackable() {
		for _, existing := range items {
			if existing.Name == item.Name && existing.Type == item.Type {
				return true
			}
		}
	}
	return len(items) < capacity
}

// insertStacking merges stackable items into an existing stack by name, or
// appends
func insertStacking(items *[]*crawler.Item, item *crawler.Item) {
	if item.IsStackable() {
		for _, existing := range *items {
			if existing.Name == item.Name && existing.Type == item.Type {
				existing.Amount = existing.StackAmount() + item.StackAmount()
				return
			}
		}
	}
	*items = append(*items, item)
}

// CarryLoad reports used weight against the class carry capacity
func (o *orchestrator) CarryLoad(_ context.Context) (*CarryLoadOutput, error) {
	character, _ := o.store.Character()

	used := 0.0
	for _, item := range character.Inventory {
		used += formula.ItemWeight(item)
	}
	for _, item := range character.ConsumableStash {
		used += formula.ItemWeight(item)
	}
	for _, item := range character.Equipment {
		if item != nil {
			used += formula.ItemWeight(item)
		}
	}
	used = formula.Round2(used)

	capacity := formula.CarryCapacity(character.Class, character.Stats.Strength)
	return &CarryLoadOutput{
		Used:       used,
		Capacity:   capacity,
		Overloaded: used > capacity,
	}, nil
}
