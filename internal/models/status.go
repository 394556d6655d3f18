package models

import "fmt"

// Status values carry one canonical mapping table each. Ledger payloads use
// the numeric codes, the API uses the string form, the dashboards use labels.

type statusInfo struct {
	code  int
	label string
}

// RequestStatus is the lifecycle state of a hospital request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusFulfilled RequestStatus = "FULFILLED"
)

var requestStatuses = map[RequestStatus]statusInfo{
	RequestStatusPending:   {code: 0, label: "Pending"},
	RequestStatusFulfilled: {code: 1, label: "Fulfilled"},
}

func (s RequestStatus) Valid() bool {
	_, ok := requestStatuses[s]
	return ok
}

func (s RequestStatus) Code() int {
	if info, ok := requestStatuses[s]; ok {
		return info.code
	}
	return -1
}

func (s RequestStatus) Label() string {
	if info, ok := requestStatuses[s]; ok {
		return info.label
	}
	return "Unknown"
}

// RequestStatusFromCode resolves a numeric ledger code
func RequestStatusFromCode(code int) (RequestStatus, error) {
	for status, info := range requestStatuses {
		if info.code == code {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown request status code %d", code)
}

// RestockOrderStatus is the lifecycle state of an order placed with a distributor
type RestockOrderStatus string

const (
	RestockOrderStatusPending   RestockOrderStatus = "PENDING"
	RestockOrderStatusConfirmed RestockOrderStatus = "CONFIRMED"
	RestockOrderStatusInTransit RestockOrderStatus = "IN_TRANSIT"
	RestockOrderStatusDelivered RestockOrderStatus = "DELIVERED"
	RestockOrderStatusCancelled RestockOrderStatus = "CANCELLED"
)

var restockOrderStatuses = map[RestockOrderStatus]statusInfo{
	RestockOrderStatusPending:   {code: 0, label: "Pending"},
	RestockOrderStatusConfirmed: {code: 1, label: "Confirmed"},
	RestockOrderStatusInTransit: {code: 2, label: "In Transit"},
	RestockOrderStatusDelivered: {code: 3, label: "Delivered"},
	RestockOrderStatusCancelled: {code: 4, label: "Cancelled"},
}

func (s RestockOrderStatus) Valid() bool {
	_, ok := restockOrderStatuses[s]
	return ok
}

func (s RestockOrderStatus) Code() int {
	if info, ok := restockOrderStatuses[s]; ok {
		return info.code
	}
	return -1
}

func (s RestockOrderStatus) Label() string {
	if info, ok := restockOrderStatuses[s]; ok {
		return info.label
	}
	return "Unknown"
}

// Outstanding is true while the order has not been delivered or cancelled
func (s RestockOrderStatus) Outstanding() bool {
	switch s {
	case RestockOrderStatusPending, RestockOrderStatusConfirmed, RestockOrderStatusInTransit:
		return true
	}
	return false
}

// OutstandingRestockOrderStatuses lists the statuses for which Outstanding is
// true, in lifecycle order
func OutstandingRestockOrderStatuses() []RestockOrderStatus {
	return []RestockOrderStatus{RestockOrderStatusPending, RestockOrderStatusConfirmed, RestockOrderStatusInTransit}
}

// RestockOrderStatusFromCode resolves a numeric ledger code
func RestockOrderStatusFromCode(code int) (RestockOrderStatus, error) {
	for status, info := range restockOrderStatuses {
		if info.code == code {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown restock order status code %d", code)
}

// Ledger urgency levels: low 0, normal 1, high 2, critical 3
var urgencyLedgerCodes = map[Urgency]int{
	UrgencyLow:    0,
	UrgencyMedium: 1,
	UrgencyHigh:   2,
}

var stockPriorityLedgerCodes = map[StockPriority]int{
	StockPriorityLow:      0,
	StockPriorityMedium:   1,
	StockPriorityHigh:     2,
	StockPriorityCritical: 3,
}

// LedgerCode returns the urgency level recorded on the ledger
func (u Urgency) LedgerCode() int {
	if code, ok := urgencyLedgerCodes[u]; ok {
		return code
	}
	return 1
}

// LedgerCode returns the urgency level recorded on the ledger
func (p StockPriority) LedgerCode() int {
	if code, ok := stockPriorityLedgerCodes[p]; ok {
		return code
	}
	return 1
}
