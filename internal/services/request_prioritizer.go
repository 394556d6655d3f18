package services

import (
	"cmp"
	"slices"
	"time"

	"medsupply-service/internal/models"
)

// SortRequests returns a new slice ordered by the given policy. All orderings
// are stable: fully tied requests keep their input order.
//
//   - priority (default): urgency high > medium > low, then rural before
//     urban, then closer first
//   - distance: closer first
//   - timestamp: newest first
func SortRequests(requests []models.HospitalRequest, sortBy models.SortKey) []models.HospitalRequest {
	sorted := slices.Clone(requests)
	if sorted == nil {
		sorted = []models.HospitalRequest{}
	}

	switch sortBy {
	case models.SortByDistance:
		slices.SortStableFunc(sorted, func(a, b models.HospitalRequest) int {
			return cmp.Compare(a.Distance, b.Distance)
		})
	case models.SortByTimestamp:
		slices.SortStableFunc(sorted, func(a, b models.HospitalRequest) int {
			return cmp.Compare(b.Timestamp, a.Timestamp)
		})
	default:
		slices.SortStableFunc(sorted, compareByPriority)
	}

	return sorted
}

func compareByPriority(a, b models.HospitalRequest) int {
	if c := cmp.Compare(b.Urgency.Weight(), a.Urgency.Weight()); c != 0 {
		return c
	}
	// Rural facilities go first within the same urgency. This is a
	// tiebreak only; no rural:urban quota is enforced.
	if c := cmp.Compare(facilityRank(a.Type), facilityRank(b.Type)); c != 0 {
		return c
	}
	return cmp.Compare(a.Distance, b.Distance)
}

func facilityRank(t models.FacilityType) int {
	if t == models.FacilityTypeRural {
		return 0
	}
	return 1
}

// RankRequests attaches the 1-based position of each request
func RankRequests(requests []models.HospitalRequest) []models.RankedRequest {
	ranked := make([]models.RankedRequest, len(requests))
	for i, request := range requests {
		ranked[i] = models.RankedRequest{
			HospitalRequest: request,
			PriorityRank:    i + 1,
		}
	}
	return ranked
}

// PrioritizeRequests filters, sorts and ranks in one pass of the pipeline
func PrioritizeRequests(requests []models.HospitalRequest, criteria models.FilterCriteria, now time.Time) []models.RankedRequest {
	filtered := FilterRequests(requests, criteria, now)
	return RankRequests(SortRequests(filtered, criteria.SortBy))
}
