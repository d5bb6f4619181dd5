package fantasy

import "time"

// TransferAction is the closed set of ledger actions.
type TransferAction string

const (
	TransferAdd    TransferAction = "ADD"
	TransferRemove TransferAction = "REMOVE"
	TransferSwap   TransferAction = "SWAP"
)

// LimitedActions are the actions that count toward the weekly transfer limit.
var LimitedActions = []TransferAction{TransferAdd, TransferSwap}

func (a TransferAction) Valid() bool {
	switch a {
	case TransferAdd, TransferRemove, TransferSwap:
		return true
	default:
		return false
	}
}

// TransferRecord is an append-only ledger row of a roster change.
type TransferRecord struct {
	ID               string
	SquadID          string
	PeriodID         *string
	Action           TransferAction
	IncomingPlayerID string
	OutgoingPlayerID string
	Cost             int64
	CreatedAt        time.Time
}

func CloneTransfer(r TransferRecord) TransferRecord {
	out := r
	if r.PeriodID != nil {
		periodID := *r.PeriodID
		out.PeriodID = &periodID
	}
	return out
}
