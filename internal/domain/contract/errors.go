package contract

import "errors"

var (
	ErrContractNotFound = errors.New("contract not found")
	ErrNurseNotFound    = errors.New("nurse not found")
	ErrClientNotFound   = errors.New("client not found")
)
