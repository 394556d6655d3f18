package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medsupply-service/internal/models"
)

var testNow = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

func newRequest(hospital string, urgency models.Urgency, facility models.FacilityType, distance float64, age time.Duration) models.HospitalRequest {
	return models.HospitalRequest{
		ID:           uuid.New(),
		TenantID:     "tenant-1",
		HospitalName: hospital,
		Location:     "Hyderabad",
		Type:         facility,
		DrugName:     "Paracetamol 500mg",
		Quantity:     100,
		Urgency:      urgency,
		Distance:     distance,
		Timestamp:    testNow.Add(-age).UnixMilli(),
		Status:       models.RequestStatusPending,
	}
}

func sampleRequests() []models.HospitalRequest {
	insulin := newRequest("Apollo Hospitals", models.UrgencyMedium, models.FacilityTypeUrban, 50, time.Hour)
	insulin.DrugName = "Insulin Glargine"
	amoxicillin := newRequest("Rural Medical Center", models.UrgencyMedium, models.FacilityTypeRural, 200, 90*time.Minute)
	amoxicillin.DrugName = "Amoxicillin 250mg"
	vaccine := newRequest("City General Hospital", models.UrgencyHigh, models.FacilityTypeUrban, 75, 2*time.Hour)
	vaccine.DrugName = "Covishield Vaccine"
	old := newRequest("District Clinic", models.UrgencyLow, models.FacilityTypeRural, 20, 10*24*time.Hour)

	return []models.HospitalRequest{
		newRequest("Rural Health Center", models.UrgencyHigh, models.FacilityTypeRural, 150, 30*time.Minute),
		insulin,
		amoxicillin,
		vaccine,
		old,
	}
}

func hospitalNames(requests []models.HospitalRequest) []string {
	names := make([]string, len(requests))
	for i, r := range requests {
		names[i] = r.HospitalName
	}
	return names
}

func TestFilterRequests_DefaultsKeepEverything(t *testing.T) {
	requests := sampleRequests()

	filtered := FilterRequests(requests, models.DefaultFilterCriteria(), testNow)

	assert.Equal(t, hospitalNames(requests), hospitalNames(filtered))
}

func TestFilterRequests_EmptyCriteriaAppliesNoPredicate(t *testing.T) {
	requests := sampleRequests()

	filtered := FilterRequests(requests, models.FilterCriteria{}, testNow)

	assert.Len(t, filtered, len(requests))
}

func TestFilterRequests_ByDimension(t *testing.T) {
	tests := []struct {
		name     string
		criteria models.FilterCriteria
		expected []string
	}{
		{
			name:     "urgency",
			criteria: models.FilterCriteria{Urgency: "high"},
			expected: []string{"Rural Health Center", "City General Hospital"},
		},
		{
			name:     "facility type",
			criteria: models.FilterCriteria{Type: "rural"},
			expected: []string{"Rural Health Center", "Rural Medical Center", "District Clinic"},
		},
		{
			name:     "drug",
			criteria: models.FilterCriteria{Drug: "Insulin Glargine"},
			expected: []string{"Apollo Hospitals"},
		},
		{
			name:     "last 24 hours",
			criteria: models.FilterCriteria{DateRange: models.DateRangeLast24Hours},
			expected: []string{"Rural Health Center", "Apollo Hospitals", "Rural Medical Center", "City General Hospital"},
		},
		{
			name:     "combined",
			criteria: models.FilterCriteria{Urgency: "medium", Type: "rural", DateRange: models.DateRangeLast7Days},
			expected: []string{"Rural Medical Center"},
		},
		{
			name:     "unknown drug matches nothing",
			criteria: models.FilterCriteria{Drug: "Unobtainium"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := FilterRequests(sampleRequests(), tt.criteria.WithDefaults(), testNow)
			assert.Equal(t, tt.expected, hospitalNames(filtered))
		})
	}
}

func TestFilterRequests_DoesNotModifyInput(t *testing.T) {
	requests := sampleRequests()
	before := hospitalNames(requests)

	FilterRequests(requests, models.FilterCriteria{Urgency: "low"}, testNow)

	assert.Equal(t, before, hospitalNames(requests))
}

func TestFilterRequests_Idempotent(t *testing.T) {
	criteria := models.FilterCriteria{Type: "rural", DateRange: models.DateRangeLast7Days}.WithDefaults()

	once := FilterRequests(sampleRequests(), criteria, testNow)
	twice := FilterRequests(once, criteria, testNow)

	assert.Equal(t, once, twice)
}

func TestFilterRequests_CompositionCommutes(t *testing.T) {
	byUrgency := models.FilterCriteria{Urgency: "medium"}.WithDefaults()
	byType := models.FilterCriteria{Type: "rural"}.WithDefaults()

	urgencyThenType := FilterRequests(FilterRequests(sampleRequests(), byUrgency, testNow), byType, testNow)
	typeThenUrgency := FilterRequests(FilterRequests(sampleRequests(), byType, testNow), byUrgency, testNow)

	assert.ElementsMatch(t, hospitalNames(urgencyThenType), hospitalNames(typeThenUrgency))
}

func TestFilterRequests_LastHourBoundary(t *testing.T) {
	justOutside := newRequest("Outside", models.UrgencyHigh, models.FacilityTypeUrban, 1, 0)
	justOutside.Timestamp = testNow.UnixMilli() - 3_600_001
	justInside := newRequest("Inside", models.UrgencyHigh, models.FacilityTypeUrban, 1, 0)
	justInside.Timestamp = testNow.UnixMilli() - 3_599_999
	exact := newRequest("Exact", models.UrgencyHigh, models.FacilityTypeUrban, 1, 0)
	exact.Timestamp = testNow.UnixMilli() - 3_600_000

	criteria := models.FilterCriteria{DateRange: models.DateRangeLastHour}.WithDefaults()
	filtered := FilterRequests([]models.HospitalRequest{justOutside, justInside, exact}, criteria, testNow)

	assert.Equal(t, []string{"Inside", "Exact"}, hospitalNames(filtered))
}

func TestSortRequests_PriorityOrdering(t *testing.T) {
	requests := []models.HospitalRequest{
		newRequest("urban-high-10", models.UrgencyHigh, models.FacilityTypeUrban, 10, 0),
		newRequest("rural-high-50", models.UrgencyHigh, models.FacilityTypeRural, 50, 0),
		newRequest("rural-low-1", models.UrgencyLow, models.FacilityTypeRural, 1, 0),
	}

	sorted := SortRequests(requests, models.SortByPriority)

	assert.Equal(t, []string{"rural-high-50", "urban-high-10", "rural-low-1"}, hospitalNames(sorted))
}

func TestSortRequests_PriorityFallsBackToDistance(t *testing.T) {
	requests := []models.HospitalRequest{
		newRequest("far", models.UrgencyMedium, models.FacilityTypeRural, 200, 0),
		newRequest("near", models.UrgencyMedium, models.FacilityTypeRural, 20, 0),
	}

	sorted := SortRequests(requests, models.SortByPriority)

	assert.Equal(t, []string{"near", "far"}, hospitalNames(sorted))
}

func TestSortRequests_ByDistanceAndTimestamp(t *testing.T) {
	requests := sampleRequests()

	byDistance := SortRequests(requests, models.SortByDistance)
	assert.Equal(t, []string{"District Clinic", "Apollo Hospitals", "City General Hospital", "Rural Health Center", "Rural Medical Center"}, hospitalNames(byDistance))

	byTimestamp := SortRequests(requests, models.SortByTimestamp)
	assert.Equal(t, []string{"Rural Health Center", "Apollo Hospitals", "Rural Medical Center", "City General Hospital", "District Clinic"}, hospitalNames(byTimestamp))
}

func TestSortRequests_StableForTies(t *testing.T) {
	requests := make([]models.HospitalRequest, 0, 6)
	for i := 0; i < 6; i++ {
		requests = append(requests, newRequest(string(rune('A'+i)), models.UrgencyMedium, models.FacilityTypeUrban, 42, time.Duration(i)*time.Minute))
	}
	// an unrelated request in the middle must not disturb the tied group
	requests = append(requests[:3], append([]models.HospitalRequest{newRequest("X", models.UrgencyHigh, models.FacilityTypeRural, 1, 0)}, requests[3:]...)...)

	for _, key := range []models.SortKey{models.SortByPriority, models.SortByDistance} {
		sorted := SortRequests(requests, key)
		tied := make([]string, 0, 6)
		for _, r := range sorted {
			if r.HospitalName != "X" {
				tied = append(tied, r.HospitalName)
			}
		}
		assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, tied, "sort key %s", key)
	}
}

func TestSortRequests_TimestampStableForTies(t *testing.T) {
	// same instant, differing in every other key
	requests := []models.HospitalRequest{
		newRequest("A", models.UrgencyLow, models.FacilityTypeUrban, 300, 5*time.Minute),
		newRequest("B", models.UrgencyHigh, models.FacilityTypeRural, 10, 5*time.Minute),
		newRequest("C", models.UrgencyMedium, models.FacilityTypeUrban, 150, 5*time.Minute),
		newRequest("D", models.UrgencyHigh, models.FacilityTypeUrban, 1, 5*time.Minute),
	}
	newest := newRequest("N", models.UrgencyLow, models.FacilityTypeUrban, 500, time.Minute)
	requests = append(requests[:2], append([]models.HospitalRequest{newest}, requests[2:]...)...)

	sorted := SortRequests(requests, models.SortByTimestamp)

	assert.Equal(t, []string{"N", "A", "B", "C", "D"}, hospitalNames(sorted))
}

func TestSortRequests_DoesNotModifyInput(t *testing.T) {
	requests := sampleRequests()
	before := hospitalNames(requests)

	SortRequests(requests, models.SortByDistance)

	assert.Equal(t, before, hospitalNames(requests))
}

func TestSortRequests_EmptyInput(t *testing.T) {
	sorted := SortRequests(nil, models.SortByPriority)

	require.NotNil(t, sorted)
	assert.Empty(t, sorted)
}

func TestPrioritizeRequests_RanksArePositions(t *testing.T) {
	ranked := PrioritizeRequests(sampleRequests(), models.DefaultFilterCriteria(), testNow)

	require.Len(t, ranked, 5)
	for i, r := range ranked {
		assert.Equal(t, i+1, r.PriorityRank)
	}
	assert.Equal(t, "Rural Health Center", ranked[0].HospitalName)
	assert.Equal(t, "City General Hospital", ranked[1].HospitalName)
	assert.Equal(t, "Rural Medical Center", ranked[2].HospitalName)
	assert.Equal(t, "Apollo Hospitals", ranked[3].HospitalName)
	assert.Equal(t, "District Clinic", ranked[4].HospitalName)
}
