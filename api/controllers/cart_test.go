package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordermesa/preorder-backend/api/middleware"
	cartsvc "github.com/ordermesa/preorder-backend/internal/cart"
	"github.com/ordermesa/preorder-backend/pkg/enums"
	pkgerrors "github.com/ordermesa/preorder-backend/pkg/errors"
)

type stubCartService struct {
	snap *cartsvc.Snapshot
	err  error

	gotCustomer uuid.UUID
	gotItem     uuid.UUID
	gotQuantity int
	cleared     bool
}

func (s *stubCartService) AddItem(ctx context.Context, customerID, menuItemID uuid.UUID, quantity int) (*cartsvc.Snapshot, error) {
	s.gotCustomer = customerID
	s.gotItem = menuItemID
	s.gotQuantity = quantity
	return s.snap, s.err
}

func (s *stubCartService) ReplaceWith(ctx context.Context, customerID, menuItemID uuid.UUID) (*cartsvc.Snapshot, error) {
	s.gotCustomer = customerID
	s.gotItem = menuItemID
	return s.snap, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, customerID, menuItemID uuid.UUID) (*cartsvc.Snapshot, error) {
	s.gotCustomer = customerID
	s.gotItem = menuItemID
	return s.snap, s.err
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, customerID, menuItemID uuid.UUID, quantity int) (*cartsvc.Snapshot, error) {
	s.gotCustomer = customerID
	s.gotItem = menuItemID
	s.gotQuantity = quantity
	return s.snap, s.err
}

func (s *stubCartService) SetOrderType(ctx context.Context, customerID uuid.UUID, orderType enums.OrderType) (*cartsvc.Snapshot, error) {
	s.gotCustomer = customerID
	return s.snap, s.err
}

func (s *stubCartService) Clear(ctx context.Context, customerID uuid.UUID) error {
	s.gotCustomer = customerID
	s.cleared = true
	return s.err
}

func (s *stubCartService) Snapshot(ctx context.Context, customerID uuid.UUID) (*cartsvc.Snapshot, error) {
	s.gotCustomer = customerID
	return s.snap, s.err
}

func (s *stubCartService) BeginCheckout(ctx context.Context, customerID uuid.UUID) (*cartsvc.Snapshot, error) {
	return s.snap, s.err
}

func (s *stubCartService) CompleteCheckout(ctx context.Context, customerID uuid.UUID) {}

func (s *stubCartService) EndCheckout(ctx context.Context, customerID uuid.UUID) {}

func testSnapshot() *cartsvc.Snapshot {
	restaurantID := uuid.New()
	return &cartsvc.Snapshot{
		RestaurantID:   &restaurantID,
		RestaurantName: "Thai Garden",
		OrderType:      enums.OrderTypeDineIn,
		Lines: []cartsvc.Line{
			{MenuItemID: uuid.New(), Name: "Pad Thai", UnitPrice: decimal.NewFromInt(8500), Quantity: 2},
		},
		ItemCount: 2,
		Subtotal:  decimal.NewFromInt(17000),
	}
}

func authedRequest(method, target string, body string, customerID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.WithCustomerID(req.Context(), customerID.String()))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestCartAddItem(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	menuItemID := uuid.New()
	svc := &stubCartService{snap: testSnapshot()}
	handler := CartAddItem(svc, nil)

	body := `{"menu_item_id":"` + menuItemID.String() + `","quantity":2}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body, customerID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotCustomer != customerID || svc.gotItem != menuItemID || svc.gotQuantity != 2 {
		t.Fatalf("service called with %s %s %d", svc.gotCustomer, svc.gotItem, svc.gotQuantity)
	}

	var envelope struct {
		Data cartsvc.Snapshot `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.RestaurantName != "Thai Garden" {
		t.Fatalf("unexpected restaurant %q", envelope.Data.RestaurantName)
	}
}

func TestCartAddItemDefaultsQuantityToOne(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{snap: testSnapshot()}
	handler := CartAddItem(svc, nil)

	body := `{"menu_item_id":"` + uuid.NewString() + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body, uuid.New()))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotQuantity != 1 {
		t.Fatalf("expected quantity defaulted to 1, got %d", svc.gotQuantity)
	}
}

func TestCartAddItemRejectsNegativeQuantity(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{snap: testSnapshot()}
	handler := CartAddItem(svc, nil)

	body := `{"menu_item_id":"` + uuid.NewString() + `","quantity":-2}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body, uuid.New()))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddItemConflictIncludesDetails(t *testing.T) {
	t.Parallel()

	details := cartsvc.ConflictDetails{
		CurrentRestaurantID:    uuid.New(),
		CurrentRestaurantName:  "Thai Garden",
		IncomingRestaurantID:   uuid.New(),
		IncomingRestaurantName: "Golden Shan",
	}
	svc := &stubCartService{
		err: pkgerrors.New(pkgerrors.CodeCartConflict, "cart holds items from another restaurant").WithDetails(details),
	}
	handler := CartAddItem(svc, nil)

	body := `{"menu_item_id":"` + uuid.NewString() + `","quantity":1}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body, uuid.New()))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code    string                   `json:"code"`
			Details cartsvc.ConflictDetails `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeCartConflict) {
		t.Fatalf("expected code %s got %s", pkgerrors.CodeCartConflict, envelope.Error.Code)
	}
	if envelope.Error.Details.IncomingRestaurantName != "Golden Shan" {
		t.Fatalf("expected conflict details, got %+v", envelope.Error.Details)
	}
}

func TestCartUpdateQuantity(t *testing.T) {
	t.Parallel()

	menuItemID := uuid.New()
	svc := &stubCartService{snap: testSnapshot()}
	handler := CartUpdateQuantity(svc, nil)

	req := authedRequest(http.MethodPatch, "/api/v1/cart/items/"+menuItemID.String(), `{"quantity":3}`, uuid.New())
	req = withURLParam(req, "menuItemID", menuItemID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotItem != menuItemID || svc.gotQuantity != 3 {
		t.Fatalf("service called with %s %d", svc.gotItem, svc.gotQuantity)
	}
}

func TestCartRemoveItemRejectsBadID(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{snap: testSnapshot()}
	handler := CartRemoveItem(svc, nil)

	req := authedRequest(http.MethodDelete, "/api/v1/cart/items/not-a-uuid", "", uuid.New())
	req = withURLParam(req, "menuItemID", "not-a-uuid")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartSetOrderType(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{snap: testSnapshot()}
	handler := CartSetOrderType(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPut, "/api/v1/cart/order-type", `{"order_type":"take_away"}`, uuid.New()))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	bad := httptest.NewRecorder()
	handler.ServeHTTP(bad, authedRequest(http.MethodPut, "/api/v1/cart/order-type", `{"order_type":"delivery"}`, uuid.New()))
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown order type got %d", bad.Code)
	}
}

func TestCartClear(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{}
	handler := CartClear(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodDelete, "/api/v1/cart", "", uuid.New()))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.cleared {
		t.Fatal("expected Clear to be called")
	}
}

func TestCartEditBlockedDuringCheckout(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "checkout in progress")}
	handler := CartAddItem(svc, nil)

	body := `{"menu_item_id":"` + uuid.NewString() + `","quantity":1}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body, uuid.New()))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}
