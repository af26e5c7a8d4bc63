package timecard

import "errors"

var (
	ErrNotFound               = errors.New("timecard not found")
	ErrInvalidTransition      = errors.New("timecard is not in a state that allows this transition")
	ErrRejectionReasonMissing = errors.New("rejection requires a reason")
	ErrContractInactive       = errors.New("contract is not active")
)
