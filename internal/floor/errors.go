package floor

import "errors"

var (
	ErrNoTableSelected         = errors.New("no table selected")
	ErrInvalidTable            = errors.New("invalid table number")
	ErrMenuItemNotFound        = errors.New("menu item not found")
	ErrEmptyDraft              = errors.New("draft order is empty")
	ErrOrderNotFound           = errors.New("kitchen order not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrNoReadyOrders           = errors.New("no ready orders for table")
	ErrNoOrdersForTable        = errors.New("no orders for table")
	ErrNoPendingSettlement     = errors.New("no pending settlement")
	ErrStaleSettlement         = errors.New("settlement preview is stale")
	ErrBillNotFound            = errors.New("bill not found")
	ErrPersistenceFailure      = errors.New("persistence failure")
	ErrAuthorizationDenied     = errors.New("authorization denied")
	ErrConfirmationRequired    = errors.New("explicit confirmation required")
	ErrNoBillsForDate          = errors.New("no bills for date")
)
