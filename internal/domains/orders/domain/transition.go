package domain

// StockAction names the inventory ledger call a status change requires.
type StockAction string

const (
	StockConfirm StockAction = "confirm"
	StockRelease StockAction = "release"
)

// StockEffect is one ledger call with the exact quantity recorded on an item.
type StockEffect struct {
	Action    StockAction
	ProductID int64
	Quantity  int
}

// StatusChange is the outcome of planning a transition: the updated order and
// the ledger calls that must succeed before it is persisted.
type StatusChange struct {
	Order   *Order
	From    Status
	To      Status
	Effects []StockEffect
}

// PlanStatusChange applies the order state machine without touching any
// collaborator. Only PENDING→CONFIRMED and PENDING→CANCELLED carry stock
// effects; every other requested transition is written as-is.
func PlanStatusChange(order *Order, next Status) (StatusChange, error) {
	if !next.Valid() {
		return StatusChange{}, ErrInvalidStatus
	}
	updated := order.Clone()
	from := updated.Status
	updated.Status = next

	var action StockAction
	switch {
	case from == StatusPending && next == StatusConfirmed:
		action = StockConfirm
	case from == StatusPending && next == StatusCancelled:
		action = StockRelease
	}

	change := StatusChange{Order: updated, From: from, To: next}
	if action == "" {
		return change, nil
	}
	change.Effects = make([]StockEffect, 0, len(updated.Items))
	for _, item := range updated.Items {
		change.Effects = append(change.Effects, StockEffect{
			Action:    action,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return change, nil
}
