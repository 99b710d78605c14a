package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordermesa/preorder-backend/pkg/enums"
)

// Line is one menu item entry in a customer's cart. UnitPrice is copied from
// the menu at add time so the cart stays stable while menus change.
type Line struct {
	MenuItemID uuid.UUID       `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
}

// LineTotal returns unit price times quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Snapshot is a read-only copy of a cart. RestaurantID is nil while the cart
// is empty; a cart only ever holds lines from a single restaurant.
type Snapshot struct {
	RestaurantID   *uuid.UUID      `json:"restaurant_id,omitempty"`
	RestaurantName string          `json:"restaurant_name,omitempty"`
	OrderType      enums.OrderType `json:"order_type"`
	Lines          []Line          `json:"lines"`
	ItemCount      int             `json:"item_count"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// IsEmpty reports whether the snapshot carries no lines.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || len(s.Lines) == 0
}

// ConflictDetails is attached to cart conflict errors so clients can render
// the replace-or-keep prompt without another round trip.
type ConflictDetails struct {
	CurrentRestaurantID    uuid.UUID `json:"current_restaurant_id"`
	CurrentRestaurantName  string    `json:"current_restaurant_name"`
	IncomingRestaurantID   uuid.UUID `json:"incoming_restaurant_id"`
	IncomingRestaurantName string    `json:"incoming_restaurant_name"`
}

type state struct {
	restaurantID   uuid.UUID
	restaurantName string
	orderType      enums.OrderType
	lines          []Line
	checkingOut    bool
}

func newState() *state {
	return &state{orderType: enums.OrderTypeDineIn}
}

func (st *state) snapshot() *Snapshot {
	snap := &Snapshot{
		OrderType: st.orderType,
		Lines:     make([]Line, len(st.lines)),
		Subtotal:  decimal.Zero,
	}
	copy(snap.Lines, st.lines)
	for _, line := range st.lines {
		snap.ItemCount += line.Quantity
		snap.Subtotal = snap.Subtotal.Add(line.LineTotal())
	}
	if st.restaurantID != uuid.Nil {
		id := st.restaurantID
		snap.RestaurantID = &id
		snap.RestaurantName = st.restaurantName
	}
	return snap
}

func (st *state) lineIndex(menuItemID uuid.UUID) int {
	for i, line := range st.lines {
		if line.MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}

func (st *state) removeLine(menuItemID uuid.UUID) {
	idx := st.lineIndex(menuItemID)
	if idx < 0 {
		return
	}
	st.lines = append(st.lines[:idx], st.lines[idx+1:]...)
	if len(st.lines) == 0 {
		st.restaurantID = uuid.Nil
		st.restaurantName = ""
	}
}
