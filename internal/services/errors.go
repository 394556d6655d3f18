package services

import "errors"

var (
	ErrRequestNotFound        = errors.New("hospital request not found")
	ErrLowStockItemNotFound   = errors.New("low stock item not found")
	ErrDistributorNotFound    = errors.New("distributor not found")
	ErrDistributorUnavailable = errors.New("distributor is not accepting orders")
	ErrDrugNotStocked         = errors.New("distributor does not stock this drug")
	ErrInvalidFilter          = errors.New("invalid filter criteria")
	ErrInvalidRequest         = errors.New("invalid hospital request")
	ErrLedger                 = errors.New("ledger transaction failed")
)
