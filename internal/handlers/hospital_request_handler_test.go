package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"medsupply-service/internal/models"
	"medsupply-service/internal/services"
)

func setupHospitalRequestRouter(svc *MockHospitalRequestService) http.Handler {
	r := setupTestRouter()
	h := NewHospitalRequestHandler(svc)
	r.GET("/hospital-requests", h.ListHospitalRequests)
	r.POST("/hospital-requests", h.CreateHospitalRequest)
	r.GET("/hospital-requests/export", h.ExportHospitalRequests)
	r.POST("/hospital-requests/:id/fulfill", h.FulfillHospitalRequest)
	r.GET("/hospital-requests/filters", h.GetSavedFilters)
	r.PUT("/hospital-requests/filters", h.SaveFilters)
	r.DELETE("/hospital-requests/filters", h.ClearFilters)
	return r
}

func TestListHospitalRequests_AppliesQueryFilters(t *testing.T) {
	svc := new(MockHospitalRequestService)
	router := setupHospitalRequestRouter(svc)

	expected := models.DefaultFilterCriteria()
	expected.Urgency = "high"
	expected.SortBy = models.SortByDistance

	svc.On("List", mock.Anything, testTenantID, expected).Return(&services.ListResult{
		Requests:       []models.RankedRequest{{HospitalRequest: models.HospitalRequest{HospitalName: "Rural Health Center"}, PriorityRank: 1}},
		Filters:        expected,
		Total:          4,
		Matched:        1,
		FiltersApplied: 2,
	}, nil)

	w := performRequest(router, http.MethodGet, "/hospital-requests?urgency=high&sortBy=distance", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(4), body["total"])
	assert.Equal(t, float64(1), body["matched"])
	assert.Equal(t, float64(2), body["filtersApplied"])
	data := body["data"].([]interface{})
	assert.Len(t, data, 1)
	assert.Equal(t, float64(1), data[0].(map[string]interface{})["priorityRank"])
	svc.AssertExpectations(t)
}

func TestListHospitalRequests_UsesSavedFiltersAsBase(t *testing.T) {
	svc := new(MockHospitalRequestService)
	router := setupHospitalRequestRouter(svc)

	saved := models.DefaultFilterCriteria()
	saved.Type = "rural"
	saved.Drug = "Insulin"
	svc.On("SavedFilters", mock.Anything, testTenantID, testUserID).Return(saved, nil)

	expected := saved
	expected.Urgency = "medium"
	svc.On("List", mock.Anything, testTenantID, expected).Return(&services.ListResult{Filters: expected}, nil)

	w := performRequest(router, http.MethodGet, "/hospital-requests?useSaved=true&urgency=medium", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestListHospitalRequests_InvalidFilter(t *testing.T) {
	svc := new(MockHospitalRequestService)
	router := setupHospitalRequestRouter(svc)

	svc.On("List", mock.Anything, testTenantID, mock.Anything).Return(nil, services.ErrInvalidFilter)

	w := performRequest(router, http.MethodGet, "/hospital-requests?dateRange=Yesterday", nil, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(w))
}

func TestCreateHospitalRequest(t *testing.T) {
	svc := new(MockHospitalRequestService)
	router := setupHospitalRequestRouter(svc)

	input := models.CreateHospitalRequestRequest{
		HospitalName: "Rural Health Center",
		Location:     "Hyderabad",
		Type:         models.FacilityTypeRural,
		DrugName:     "Paracetamol 500mg",
		Quantity:     100,
		Urgency:      models.UrgencyHigh,
		Distance:     2.5,
	}
	svc.On("Create", mock.Anything, testTenantID, testUserName, input).
		Return(&models.HospitalRequest{ID: uuid.New(), HospitalName: input.HospitalName, Status: models.RequestStatusPending}, nil)

	w := performJSON(router, http.MethodPost, "/hospital-requests", input)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(w)
	assert.Equal(t, "Hospital request created successfully", body["message"])
	svc.AssertExpectations(t)
}

func TestCreateHospitalRequest_MissingFields(t *testing.T) {
	svc := new(MockHospitalRequestService)
	router := setupHospitalRequestRouter(svc)

	w := performJSON(router, http.MethodPost, "/hospital-requests", map[string]interface{}{"hospitalName": "Rural Health Center"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(w))
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFulfillHospitalRequest(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		path       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{name: "fulfilled", path: "/hospital-requests/" + id.String() + "/fulfill", wantStatus: http.StatusOK},
		{name: "invalid id", path: "/hospital-requests/not-a-uuid/fulfill", wantStatus: http.StatusBadRequest, wantCode: "INVALID_ID"},
		{name: "not found", path: "/hospital-requests/" + id.String() + "/fulfill", serviceErr: services.ErrRequestNotFound, wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "ledger failure", path: "/hospital-requests/" + id.String() + "/fulfill", serviceErr: services.ErrLedger, wantStatus: http.StatusBadGateway, wantCode: "LEDGER_ERROR"},
		{name: "unexpected failure", path: "/hospital-requests/" + id.String() + "/fulfill", serviceErr: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockHospitalRequestService)
			router := setupHospitalRequestRouter(svc)

			if tt.serviceErr != nil {
				svc.On("Fulfill", mock.Anything, testTenantID, id, testUserName).Return(nil, tt.serviceErr)
			} else {
				svc.On("Fulfill", mock.Anything, testTenantID, id, testUserName).
					Return(&models.FulfillmentRecord{HospitalRequestID: id, TransactionHash: "0xabc"}, nil)
			}

			w := performRequest(router, http.MethodPost, tt.path, nil, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(w))
			}
		})
	}
}

func TestExportHospitalRequests(t *testing.T) {
	svc := new(MockHospitalRequestService)
	router := setupHospitalRequestRouter(svc)

	svc.On("Export", mock.Anything, testTenantID, models.DefaultFilterCriteria(), services.ReportFormatCSV).Return(&services.Report{
		Filename:    "hospital_requests_2025-03-14.csv",
		ContentType: "text/csv",
		Body:        []byte("Hospital Name,Location\n"),
	}, nil)

	w := performRequest(router, http.MethodGet, "/hospital-requests/export", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=hospital_requests_2025-03-14.csv", w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, "Hospital Name,Location\n", w.Body.String())
}

func TestExportHospitalRequests_UnsupportedFormat(t *testing.T) {
	svc := new(MockHospitalRequestService)
	router := setupHospitalRequestRouter(svc)

	svc.On("Export", mock.Anything, testTenantID, mock.Anything, services.ReportFormat("pdf")).Return(nil, services.ErrUnsupportedFormat)

	w := performRequest(router, http.MethodGet, "/hospital-requests/export?format=pdf", nil, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSavedFilters_RoundTrip(t *testing.T) {
	svc := new(MockHospitalRequestService)
	router := setupHospitalRequestRouter(svc)

	criteria := models.FilterCriteria{Urgency: "high", Type: "rural"}
	stored := criteria.WithDefaults()
	svc.On("SaveFilters", mock.Anything, testTenantID, testUserID, criteria).Return(stored, nil)
	svc.On("ClearFilters", mock.Anything, testTenantID, testUserID).Return(models.DefaultFilterCriteria(), nil)

	w := performJSON(router, http.MethodPut, "/hospital-requests/filters", criteria)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(w)["data"].(map[string]interface{})
	assert.Equal(t, "high", data["urgency"])
	assert.Equal(t, "All Medicines", data["drug"])

	w = performRequest(router, http.MethodDelete, "/hospital-requests/filters", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(w)["data"].(map[string]interface{})
	assert.Equal(t, "All", data["urgency"])
	assert.Equal(t, "priority", data["sortBy"])
	svc.AssertExpectations(t)
}
