package fantasy

import (
	"context"
	"time"
)

// Repository describes squad, membership and ledger persistence needs from use cases.
type Repository interface {
	GetSquad(ctx context.Context, squadID string) (Squad, bool, error)
	GetSquadByOwner(ctx context.Context, ownerID, leagueID string) (Squad, bool, error)
	ListSquadsByLeague(ctx context.Context, leagueID string) ([]Squad, error)
	// CreateSquad fails with ErrSquadExists when the owner already has a squad in the league.
	CreateSquad(ctx context.Context, squad Squad) error

	// ListMemberships returns every membership of a squad including ended ones.
	ListMemberships(ctx context.Context, squadID string) ([]Membership, error)
	ListTransfers(ctx context.Context, squadID string) ([]TransferRecord, error)
	CountTransfers(ctx context.Context, squadID, periodID string, actions ...TransferAction) (int, error)

	// WithinSquadTx runs fn as one atomic unit scoped to a squad. Calls for the
	// same squad are serialized. Nothing fn writes is kept when it returns an error.
	// A missing squad yields ErrSquadNotFound.
	WithinSquadTx(ctx context.Context, squadID string, fn func(ctx context.Context, tx SquadTx) error) error
}

// SquadTx is the view of one squad inside a roster transaction.
type SquadTx interface {
	Squad() Squad
	ActiveMemberships(ctx context.Context) ([]Membership, error)
	CountTransfers(ctx context.Context, periodID string, actions ...TransferAction) (int, error)
	UpdateBalance(ctx context.Context, balance int64, updatedAt time.Time) error
	// InsertMembership fails with ErrDuplicateMembership when the player is already active.
	InsertMembership(ctx context.Context, membership Membership) error
	UpdateMembership(ctx context.Context, membership Membership) error
	AppendTransfer(ctx context.Context, record TransferRecord) error
}
