package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"wardstock/internal/inventory/handler/mocks"
	"wardstock/internal/inventory/models"
	dErrors "wardstock/pkg/domain-errors"
	"wardstock/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type InventoryHandlerSuite struct {
	suite.Suite
}

func TestInventoryHandlerSuite(t *testing.T) {
	suite.Run(t, new(InventoryHandlerSuite))
}

func (s *InventoryHandlerSuite) newHandler(t *testing.T) (*mocks.MockService, chi.Router) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockService(ctrl)
	h := New(mockService, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	return mockService, r
}

func intPtr(v int) *int { return &v }

func (s *InventoryHandlerSuite) TestList() {
	s.T().Run("wraps items in inventory key", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().List(gomock.Any()).Return([]*models.Item{
			{ID: "ITEM1", Name: "Gauze", Quantity: 10},
			{ID: "ITEM2", Name: "Saline", Quantity: 4},
		}, nil)

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/inventory"))

		testutil.AssertStatusOK(t, rr)
		got := testutil.UnmarshalResponse[models.InventoryResponse](t, rr)
		assert.Len(t, got.Inventory, 2)
		assert.Equal(t, "Gauze", got.Inventory[0].Name)
	})

	s.T().Run("hides internal failures", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().List(gomock.Any()).
			Return(nil, dErrors.Wrap(errors.New("pq: bad connection"), dErrors.CodeInternal, "failed to list inventory"))

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/inventory"))

		testutil.AssertStatusAndMessage(t, rr, http.StatusInternalServerError, "Internal server error")
	})
}

func (s *InventoryHandlerSuite) TestGet() {
	s.T().Run("passes path id to service", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Get(gomock.Any(), "ITEM1").Return(&models.Item{ID: "ITEM1", Name: "Gauze"}, nil)

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/inventory/ITEM1"))

		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONHasKey(t, rr, "item")
	})

	s.T().Run("returns 404 when missing", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Get(gomock.Any(), "NOPE").Return(nil, dErrors.New(dErrors.CodeNotFound, "Item not found"))

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/inventory/NOPE"))

		testutil.AssertStatusAndMessage(t, rr, http.StatusNotFound, "Item not found")
	})
}

func (s *InventoryHandlerSuite) TestCreate() {
	req := models.CreateRequest{ItemID: "ITEM3", ItemName: "Tape", Quantity: intPtr(2)}

	s.T().Run("returns 201 with item", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Create(gomock.Any(), req).Return(&models.Item{ID: "ITEM3", Name: "Tape", Quantity: 2}, nil)

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/inventory", req))

		testutil.AssertStatus(t, rr, http.StatusCreated)
		got := testutil.UnmarshalResponse[models.ItemResponse](t, rr)
		assert.Equal(t, 2, got.Item.Quantity)
	})

	s.T().Run("returns 403 with policy reason", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "Access denied: insufficient permissions"))

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/inventory", req))

		testutil.AssertStatusAndMessage(t, rr, http.StatusForbidden, "Access denied: insufficient permissions")
	})

	s.T().Run("rejects malformed json without calling service", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/inventory", `{"item_id":`))

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func (s *InventoryHandlerSuite) TestUpdate() {
	s.T().Run("distinguishes omitted name from quantity", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Update(gomock.Any(), "ITEM1", models.UpdateRequest{Quantity: intPtr(5)}).
			Return(&models.Item{ID: "ITEM1", Name: "Gauze", Quantity: 5}, nil)

		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPut, "/inventory/ITEM1", `{"quantity":5}`))

		testutil.AssertStatusOK(t, rr)
	})

	s.T().Run("returns 403 for nurse rename", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Update(gomock.Any(), "ITEM1", gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "Nurses can only update quantity"))

		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPut, "/inventory/ITEM1", `{"item_name":"Bandage"}`))

		testutil.AssertStatusAndMessage(t, rr, http.StatusForbidden, "Nurses can only update quantity")
	})
}

func (s *InventoryHandlerSuite) TestDelete() {
	s.T().Run("returns confirmation message", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Delete(gomock.Any(), "ITEM1").Return(nil)

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, "/inventory/ITEM1"))

		testutil.AssertStatusAndMessage(t, rr, http.StatusOK, "Item deleted successfully")
	})

	s.T().Run("returns 404 for unknown item", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Delete(gomock.Any(), "GONE").Return(dErrors.New(dErrors.CodeNotFound, "Item not found"))

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, "/inventory/GONE"))

		testutil.AssertStatusAndMessage(t, rr, http.StatusNotFound, "Item not found")
	})
}
