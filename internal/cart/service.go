package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordermesa/preorder-backend/pkg/db/models"
	"github.com/ordermesa/preorder-backend/pkg/enums"
	pkgerrors "github.com/ordermesa/preorder-backend/pkg/errors"
)

type menuLoader interface {
	GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
}

type restaurantLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
}

// Service exposes the cart operations available to a signed-in customer.
// Carts are held in memory per customer and never outlive the process.
type Service interface {
	AddItem(ctx context.Context, customerID, menuItemID uuid.UUID, quantity int) (*Snapshot, error)
	ReplaceWith(ctx context.Context, customerID, menuItemID uuid.UUID) (*Snapshot, error)
	RemoveItem(ctx context.Context, customerID, menuItemID uuid.UUID) (*Snapshot, error)
	UpdateQuantity(ctx context.Context, customerID, menuItemID uuid.UUID, quantity int) (*Snapshot, error)
	SetOrderType(ctx context.Context, customerID uuid.UUID, orderType enums.OrderType) (*Snapshot, error)
	Clear(ctx context.Context, customerID uuid.UUID) error
	Snapshot(ctx context.Context, customerID uuid.UUID) (*Snapshot, error)

	// BeginCheckout marks the cart in flight and returns a stable snapshot
	// for the submission pipeline. EndCheckout releases the flag after a
	// failed attempt; CompleteCheckout empties the cart after a successful one.
	BeginCheckout(ctx context.Context, customerID uuid.UUID) (*Snapshot, error)
	CompleteCheckout(ctx context.Context, customerID uuid.UUID)
	EndCheckout(ctx context.Context, customerID uuid.UUID)
}

type service struct {
	mu          sync.Mutex
	carts       map[uuid.UUID]*state
	menus       menuLoader
	restaurants restaurantLoader
}

// NewService builds an in-memory cart service backed by the menu catalog.
func NewService(menus menuLoader, restaurants restaurantLoader) (Service, error) {
	if menus == nil {
		return nil, fmt.Errorf("menu loader required")
	}
	if restaurants == nil {
		return nil, fmt.Errorf("restaurant loader required")
	}
	return &service{
		carts:       make(map[uuid.UUID]*state),
		menus:       menus,
		restaurants: restaurants,
	}, nil
}

// AddItem merges the menu item into the cart, adding quantities when the line
// already exists. Items from a different restaurant than the current cart
// surface a conflict instead of mutating anything.
func (s *service) AddItem(ctx context.Context, customerID, menuItemID uuid.UUID, quantity int) (*Snapshot, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	item, restaurant, err := s.loadCatalog(ctx, customerID, menuItemID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateLocked(customerID)
	if st.checkingOut {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout in progress")
	}
	if len(st.lines) > 0 && st.restaurantID != item.RestaurantID {
		return nil, pkgerrors.New(pkgerrors.CodeCartConflict, "cart holds items from another restaurant").
			WithDetails(ConflictDetails{
				CurrentRestaurantID:    st.restaurantID,
				CurrentRestaurantName:  st.restaurantName,
				IncomingRestaurantID:   restaurant.ID,
				IncomingRestaurantName: restaurant.Name,
			})
	}

	if len(st.lines) == 0 {
		st.restaurantID = restaurant.ID
		st.restaurantName = restaurant.Name
	}
	if idx := st.lineIndex(item.ID); idx >= 0 {
		st.lines[idx].Quantity += quantity
	} else {
		st.lines = append(st.lines, Line{
			MenuItemID: item.ID,
			Name:       item.Name,
			UnitPrice:  item.Price,
			Quantity:   quantity,
		})
	}
	return st.snapshot(), nil
}

// ReplaceWith discards the current cart and starts over with a single unit of
// the provided menu item. The order type survives the swap.
func (s *service) ReplaceWith(ctx context.Context, customerID, menuItemID uuid.UUID) (*Snapshot, error) {
	item, restaurant, err := s.loadCatalog(ctx, customerID, menuItemID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateLocked(customerID)
	if st.checkingOut {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout in progress")
	}

	st.restaurantID = restaurant.ID
	st.restaurantName = restaurant.Name
	st.lines = []Line{{
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		Quantity:   1,
	}}
	return st.snapshot(), nil
}

// RemoveItem drops the line for the menu item. Removing an item that is not
// in the cart is a no-op. Removing the last line also forgets the restaurant.
func (s *service) RemoveItem(ctx context.Context, customerID, menuItemID uuid.UUID) (*Snapshot, error) {
	if err := requireCustomer(customerID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateLocked(customerID)
	if st.checkingOut {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout in progress")
	}
	st.removeLine(menuItemID)
	return st.snapshot(), nil
}

// UpdateQuantity sets the quantity for an existing line. Zero or negative
// quantities remove the line.
func (s *service) UpdateQuantity(ctx context.Context, customerID, menuItemID uuid.UUID, quantity int) (*Snapshot, error) {
	if err := requireCustomer(customerID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateLocked(customerID)
	if st.checkingOut {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout in progress")
	}
	idx := st.lineIndex(menuItemID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not in cart")
	}
	if quantity <= 0 {
		st.removeLine(menuItemID)
	} else {
		st.lines[idx].Quantity = quantity
	}
	return st.snapshot(), nil
}

// SetOrderType switches between dine-in and take-away for the cart.
func (s *service) SetOrderType(ctx context.Context, customerID uuid.UUID, orderType enums.OrderType) (*Snapshot, error) {
	if err := requireCustomer(customerID); err != nil {
		return nil, err
	}
	if !orderType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order type %q", orderType))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateLocked(customerID)
	if st.checkingOut {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout in progress")
	}
	st.orderType = orderType
	return st.snapshot(), nil
}

// Clear empties the cart and resets the order type to dine-in.
func (s *service) Clear(ctx context.Context, customerID uuid.UUID) error {
	if err := requireCustomer(customerID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateLocked(customerID)
	if st.checkingOut {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout in progress")
	}
	s.carts[customerID] = newState()
	return nil
}

// Snapshot returns a copy of the current cart.
func (s *service) Snapshot(ctx context.Context, customerID uuid.UUID) (*Snapshot, error) {
	if err := requireCustomer(customerID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stateLocked(customerID).snapshot(), nil
}

// BeginCheckout flags the cart as in flight so concurrent submissions and
// cart edits are rejected until the attempt settles.
func (s *service) BeginCheckout(ctx context.Context, customerID uuid.UUID) (*Snapshot, error) {
	if err := requireCustomer(customerID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateLocked(customerID)
	if st.checkingOut {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already in progress")
	}
	if len(st.lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}
	st.checkingOut = true
	return st.snapshot(), nil
}

// CompleteCheckout empties the cart after a successful submission and
// releases the in-flight flag.
func (s *service) CompleteCheckout(ctx context.Context, customerID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[customerID] = newState()
}

// EndCheckout releases the in-flight flag, leaving the cart intact so the
// customer can retry after a failed attempt.
func (s *service) EndCheckout(ctx context.Context, customerID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.carts[customerID]; ok {
		st.checkingOut = false
	}
}

func (s *service) loadCatalog(ctx context.Context, customerID, menuItemID uuid.UUID) (*models.MenuItem, *models.Restaurant, error) {
	if err := requireCustomer(customerID); err != nil {
		return nil, nil, err
	}
	if menuItemID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item id is required")
	}

	item, err := s.menus.GetMenuItem(ctx, menuItemID)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			return nil, nil, err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}
	if !item.IsAvailable {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item is not available")
	}

	restaurant, err := s.restaurants.GetByID(ctx, item.RestaurantID)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			return nil, nil, err
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	return item, restaurant, nil
}

func (s *service) stateLocked(customerID uuid.UUID) *state {
	st, ok := s.carts[customerID]
	if !ok {
		st = newState()
		s.carts[customerID] = st
	}
	return st
}

func requireCustomer(customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "customer id is required")
	}
	return nil
}
