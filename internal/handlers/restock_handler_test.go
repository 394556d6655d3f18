package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"medsupply-service/internal/models"
	"medsupply-service/internal/services"
)

func setupRestockRouter(svc *MockRestockService) http.Handler {
	r := setupTestRouter()
	h := NewRestockHandler(svc, Pagination{DefaultPageSize: 20, MaxPageSize: 100})
	r.GET("/low-stock", h.ListLowStock)
	r.POST("/low-stock/evaluate", h.EvaluateStock)
	r.POST("/low-stock/:id/request", h.RequestFromDistributor)
	r.GET("/restock-orders", h.ListRestockOrders)
	r.PUT("/stock-levels", h.UpsertStockLevel)
	return r
}

func TestListLowStock(t *testing.T) {
	svc := new(MockRestockService)
	router := setupRestockRouter(svc)

	svc.On("ListLowStock", mock.Anything, testTenantID).Return([]models.LowStockItemView{
		{
			LowStockItem: models.LowStockItem{DrugName: "Paracetamol 500mg", Priority: models.StockPriorityHigh},
			NearbyDistributors: []models.CandidateView{
				{Distributor: models.Distributor{Code: "DIST-002"}, Score: 95, Optimized: true, TotalCost: "50.00"},
			},
		},
	}, nil)

	w := performRequest(router, http.MethodGet, "/low-stock", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(w)
	assert.Equal(t, float64(1), body["total"])
	item := body["data"].([]interface{})[0].(map[string]interface{})
	candidates := item["nearbyDistributors"].([]interface{})
	assert.Equal(t, true, candidates[0].(map[string]interface{})["optimized"])
}

func TestRequestFromDistributor(t *testing.T) {
	itemID := uuid.New()
	distributorID := uuid.New()
	path := "/low-stock/" + itemID.String() + "/request"
	payload := `{"distributorId":"` + distributorID.String() + `"}`

	tests := []struct {
		name       string
		path       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{name: "placed", path: path, body: payload, wantStatus: http.StatusCreated},
		{name: "invalid id", path: "/low-stock/abc/request", body: payload, wantStatus: http.StatusBadRequest, wantCode: "INVALID_ID"},
		{name: "missing body", path: path, body: "", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "item gone", path: path, body: payload, serviceErr: services.ErrLowStockItemNotFound, wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "drug not stocked", path: path, body: payload, serviceErr: services.ErrDrugNotStocked, wantStatus: http.StatusUnprocessableEntity, wantCode: "DISTRIBUTOR_UNSUITABLE"},
		{name: "distributor unavailable", path: path, body: payload, serviceErr: services.ErrDistributorUnavailable, wantStatus: http.StatusUnprocessableEntity, wantCode: "DISTRIBUTOR_UNSUITABLE"},
		{name: "ledger failure", path: path, body: payload, serviceErr: services.ErrLedger, wantStatus: http.StatusBadGateway, wantCode: "LEDGER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockRestockService)
			router := setupRestockRouter(svc)

			if tt.serviceErr != nil {
				svc.On("RequestFromDistributor", mock.Anything, testTenantID, itemID, distributorID, testUserName).Return(nil, tt.serviceErr)
			} else {
				svc.On("RequestFromDistributor", mock.Anything, testTenantID, itemID, distributorID, testUserName).Return(&models.RestockOrder{
					LowStockItemID: itemID,
					DistributorID:  distributorID,
					Quantity:       500,
					TotalCost:      decimal.RequireFromString("50.00"),
					Status:         models.RestockOrderStatusPending,
				}, nil)
			}

			w := performRequest(router, http.MethodPost, tt.path, strings.NewReader(tt.body), "application/json")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(w))
			} else {
				data := decodeBody(w)["data"].(map[string]interface{})
				assert.Equal(t, "PENDING", data["status"])
			}
		})
	}
}

func TestListRestockOrders_ClampsPageSize(t *testing.T) {
	svc := new(MockRestockService)
	router := setupRestockRouter(svc)

	svc.On("ListOrders", mock.Anything, testTenantID, 100, 100).Return([]models.RestockOrder{}, int64(150), nil)

	w := performRequest(router, http.MethodGet, "/restock-orders?page=2&limit=500", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	pagination := decodeBody(w)["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["page"])
	assert.Equal(t, float64(100), pagination["limit"])
	svc.AssertExpectations(t)
}

func TestUpsertStockLevel(t *testing.T) {
	svc := new(MockRestockService)
	router := setupRestockRouter(svc)

	input := models.UpsertStockLevelRequest{DrugName: "Aspirin 75mg", CurrentStock: 220, MinimumRequired: 300, CriticalLevel: 250, MonthlyUsage: 200}
	svc.On("UpsertStockLevel", mock.Anything, testTenantID, testUserName, input).
		Return(&models.StockLevel{DrugName: input.DrugName, CurrentStock: input.CurrentStock}, nil)

	w := performJSON(router, http.MethodPut, "/stock-levels", input)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestUpsertStockLevel_RejectsNegativeStock(t *testing.T) {
	svc := new(MockRestockService)
	router := setupRestockRouter(svc)

	w := performJSON(router, http.MethodPut, "/stock-levels", map[string]interface{}{"drugName": "Aspirin 75mg", "currentStock": -5})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "UpsertStockLevel", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEvaluateStock(t *testing.T) {
	svc := new(MockRestockService)
	router := setupRestockRouter(svc)

	svc.On("Evaluate", mock.Anything, testTenantID).Return(&services.EvaluationResult{
		Evaluated: 3,
		Created:   []models.LowStockItem{{DrugName: "Insulin Glargine 100IU/ml"}},
	}, nil)

	w := performRequest(router, http.MethodPost, "/low-stock/evaluate", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(w)["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["evaluated"])
}
