package services

import (
	"time"

	"medsupply-service/internal/models"
)

// FilterRequests returns the requests matching every active dimension of
// criteria, in their original order. The input slice is not modified.
//
// A dimension set to its sentinel (All, All Medicines, All Time) or left
// empty applies no predicate. The time window keeps requests whose timestamp
// is at or after now minus the window.
func FilterRequests(requests []models.HospitalRequest, criteria models.FilterCriteria, now time.Time) []models.HospitalRequest {
	filtered := make([]models.HospitalRequest, 0, len(requests))

	checkTime := criteria.DateRange != "" && criteria.DateRange != models.DateRangeAllTime
	var timeLimit int64
	if checkTime {
		if window, ok := criteria.DateRange.Window(); ok {
			timeLimit = now.UnixMilli() - window.Milliseconds()
		}
	}

	for _, request := range requests {
		if !isSentinel(criteria.Urgency, models.FilterAll) && string(request.Urgency) != criteria.Urgency {
			continue
		}
		if !isSentinel(criteria.Type, models.FilterAll) && string(request.Type) != criteria.Type {
			continue
		}
		if !isSentinel(criteria.Drug, models.FilterAllMedicines) && request.DrugName != criteria.Drug {
			continue
		}
		if checkTime && request.Timestamp < timeLimit {
			continue
		}
		filtered = append(filtered, request)
	}

	return filtered
}

func isSentinel(value, sentinel string) bool {
	return value == "" || value == sentinel
}
