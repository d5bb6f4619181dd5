package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
)

type squadState struct {
	squad       fantasy.Squad
	memberships []fantasy.Membership
	transfers   []fantasy.TransferRecord
}

// SquadRepository keeps squads with their memberships and transfer ledgers.
// Transactions take a per-squad lock and work on a staged copy that replaces
// the stored state only when the callback succeeds.
type SquadRepository struct {
	mu      sync.RWMutex
	items   map[string]*squadState
	byOwner map[string]string
	locks   map[string]*sync.Mutex
}

func NewSquadRepository() *SquadRepository {
	return &SquadRepository{
		items:   make(map[string]*squadState),
		byOwner: make(map[string]string),
		locks:   make(map[string]*sync.Mutex),
	}
}

func (r *SquadRepository) GetSquad(_ context.Context, squadID string) (fantasy.Squad, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.items[squadID]
	if !ok {
		return fantasy.Squad{}, false, nil
	}
	return state.squad, true, nil
}

func (r *SquadRepository) GetSquadByOwner(_ context.Context, ownerID, leagueID string) (fantasy.Squad, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	squadID, ok := r.byOwner[ownerKey(ownerID, leagueID)]
	if !ok {
		return fantasy.Squad{}, false, nil
	}
	return r.items[squadID].squad, true, nil
}

func (r *SquadRepository) ListSquadsByLeague(_ context.Context, leagueID string) ([]fantasy.Squad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fantasy.Squad, 0)
	for _, state := range r.items {
		if state.squad.LeagueID == leagueID {
			out = append(out, state.squad)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *SquadRepository) CreateSquad(_ context.Context, squad fantasy.Squad) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ownerKey(squad.OwnerID, squad.LeagueID)
	if _, exists := r.byOwner[key]; exists {
		return fmt.Errorf("%w: owner=%s league=%s", fantasy.ErrSquadExists, squad.OwnerID, squad.LeagueID)
	}
	if _, exists := r.items[squad.ID]; exists {
		return fmt.Errorf("%w: squad=%s", fantasy.ErrSquadExists, squad.ID)
	}

	r.items[squad.ID] = &squadState{squad: squad}
	r.byOwner[key] = squad.ID
	r.locks[squad.ID] = &sync.Mutex{}
	return nil
}

func (r *SquadRepository) ListMemberships(_ context.Context, squadID string) ([]fantasy.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.items[squadID]
	if !ok {
		return nil, nil
	}
	return cloneMemberships(state.memberships), nil
}

func (r *SquadRepository) ListTransfers(_ context.Context, squadID string) ([]fantasy.TransferRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.items[squadID]
	if !ok {
		return nil, nil
	}
	out := make([]fantasy.TransferRecord, 0, len(state.transfers))
	for _, t := range state.transfers {
		out = append(out, fantasy.CloneTransfer(t))
	}
	return out, nil
}

func (r *SquadRepository) CountTransfers(_ context.Context, squadID, periodID string, actions ...fantasy.TransferAction) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.items[squadID]
	if !ok {
		return 0, nil
	}
	return countTransfers(state.transfers, periodID, actions), nil
}

func (r *SquadRepository) WithinSquadTx(ctx context.Context, squadID string, fn func(ctx context.Context, tx fantasy.SquadTx) error) error {
	r.mu.RLock()
	lock, ok := r.locks[squadID]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: squad=%s", fantasy.ErrSquadNotFound, squadID)
	}

	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	current := r.items[squadID]
	staged := &squadState{
		squad:       current.squad,
		memberships: cloneMemberships(current.memberships),
		transfers:   append([]fantasy.TransferRecord(nil), current.transfers...),
	}
	r.mu.RUnlock()

	if err := fn(ctx, &squadTx{state: staged}); err != nil {
		return err
	}

	r.mu.Lock()
	r.items[squadID] = staged
	r.mu.Unlock()
	return nil
}

type squadTx struct {
	state *squadState
}

func (tx *squadTx) Squad() fantasy.Squad {
	return tx.state.squad
}

func (tx *squadTx) ActiveMemberships(_ context.Context) ([]fantasy.Membership, error) {
	out := make([]fantasy.Membership, 0, len(tx.state.memberships))
	for _, m := range tx.state.memberships {
		if m.Active() {
			out = append(out, fantasy.CloneMembership(m))
		}
	}
	return out, nil
}

func (tx *squadTx) CountTransfers(_ context.Context, periodID string, actions ...fantasy.TransferAction) (int, error) {
	return countTransfers(tx.state.transfers, periodID, actions), nil
}

func (tx *squadTx) UpdateBalance(_ context.Context, balance int64, updatedAt time.Time) error {
	if balance < 0 {
		return fmt.Errorf("%w: squad=%s balance=%d", fantasy.ErrInsufficientBalance, tx.state.squad.ID, balance)
	}
	tx.state.squad.Balance = balance
	tx.state.squad.UpdatedAt = updatedAt
	return nil
}

func (tx *squadTx) InsertMembership(_ context.Context, membership fantasy.Membership) error {
	for _, m := range tx.state.memberships {
		if m.ID == membership.ID {
			return fmt.Errorf("membership id=%s already exists", membership.ID)
		}
		if m.Active() && m.PlayerID == membership.PlayerID {
			return fmt.Errorf("%w: squad=%s player=%s", fantasy.ErrDuplicateMembership, tx.state.squad.ID, membership.PlayerID)
		}
	}
	tx.state.memberships = append(tx.state.memberships, fantasy.CloneMembership(membership))
	return nil
}

func (tx *squadTx) UpdateMembership(_ context.Context, membership fantasy.Membership) error {
	for i, m := range tx.state.memberships {
		if m.ID == membership.ID {
			tx.state.memberships[i] = fantasy.CloneMembership(membership)
			return nil
		}
	}
	return fmt.Errorf("membership id=%s not found in squad=%s", membership.ID, tx.state.squad.ID)
}

func (tx *squadTx) AppendTransfer(_ context.Context, record fantasy.TransferRecord) error {
	tx.state.transfers = append(tx.state.transfers, fantasy.CloneTransfer(record))
	return nil
}

func countTransfers(records []fantasy.TransferRecord, periodID string, actions []fantasy.TransferAction) int {
	count := 0
	for _, t := range records {
		if t.PeriodID == nil || *t.PeriodID != periodID {
			continue
		}
		if len(actions) > 0 && !containsAction(actions, t.Action) {
			continue
		}
		count++
	}
	return count
}

func containsAction(actions []fantasy.TransferAction, action fantasy.TransferAction) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

func cloneMemberships(items []fantasy.Membership) []fantasy.Membership {
	out := make([]fantasy.Membership, 0, len(items))
	for _, m := range items {
		out = append(out, fantasy.CloneMembership(m))
	}
	return out
}

func ownerKey(ownerID, leagueID string) string {
	return ownerID + "::" + leagueID
}
