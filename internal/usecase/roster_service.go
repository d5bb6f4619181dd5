package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-roster/internal/domain/league"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
	"github.com/riskibarqy/fantasy-roster/internal/domain/scoring"
	idgen "github.com/riskibarqy/fantasy-roster/internal/platform/id"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// CreateSquadInput is the incoming payload for creating a squad.
type CreateSquadInput struct {
	OwnerID  string
	LeagueID string
	Name     string
}

// SwapInput replaces one active member with a new player in a single transfer.
type SwapInput struct {
	SquadID              string
	OutgoingMembershipID string
	IncomingPlayerID     string
}

type RemoveResult struct {
	Membership fantasy.Membership
	Refund     int64
	Balance    int64
}

type SwapResult struct {
	Outgoing fantasy.Membership
	Incoming fantasy.Membership
	Refund   int64
	Balance  int64
}

// TransferAllowance reports the current period's transfer usage of a squad.
// PeriodID is nil when no period covers today and the limit does not apply.
type TransferAllowance struct {
	PeriodID  *string
	Used      int
	Limit     int
	Remaining int
}

type RosterService struct {
	leagueRepo league.Repository
	registry   player.Registry
	periodRepo scoring.PeriodRepository
	squadRepo  fantasy.Repository
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
	loc        *time.Location
}

func NewRosterService(
	leagueRepo league.Repository,
	registry player.Registry,
	periodRepo scoring.PeriodRepository,
	squadRepo fantasy.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RosterService{
		leagueRepo: leagueRepo,
		registry:   registry,
		periodRepo: periodRepo,
		squadRepo:  squadRepo,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the time source used for deadlines and current-period lookup.
func (s *RosterService) WithClock(now func() time.Time) *RosterService {
	if now != nil {
		s.now = now
	}
	return s
}

// WithLocation sets the timezone whose calendar day picks the current period.
func (s *RosterService) WithLocation(loc *time.Location) *RosterService {
	s.loc = loc
	return s
}

func (s *RosterService) CreateSquad(ctx context.Context, input CreateSquadInput) (fantasy.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.CreateSquad")
	defer span.End()

	input.OwnerID = strings.TrimSpace(input.OwnerID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.Name = strings.TrimSpace(input.Name)
	if input.OwnerID == "" {
		return fantasy.Squad{}, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}
	if input.LeagueID == "" {
		return fantasy.Squad{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return fantasy.Squad{}, fmt.Errorf("%w: squad name is required", ErrInvalidInput)
	}

	cfg, err := s.getLeague(ctx, input.LeagueID)
	if err != nil {
		return fantasy.Squad{}, err
	}

	squadID, err := s.idGen.NewID()
	if err != nil {
		return fantasy.Squad{}, fmt.Errorf("generate squad id: %w", err)
	}

	now := s.now().UTC()
	squad := fantasy.Squad{
		ID:        squadID,
		OwnerID:   input.OwnerID,
		LeagueID:  cfg.ID,
		Name:      input.Name,
		Balance:   cfg.BudgetCap,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := squad.ValidateBasic(); err != nil {
		return fantasy.Squad{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.squadRepo.CreateSquad(ctx, squad); err != nil {
		return fantasy.Squad{}, fmt.Errorf("create squad: %w", err)
	}

	s.logger.InfoContext(ctx, "squad created",
		"squad_id", squad.ID,
		"owner_id", squad.OwnerID,
		"league_id", squad.LeagueID,
		"balance", squad.Balance,
	)
	return squad, nil
}

func (s *RosterService) AddPlayer(ctx context.Context, squadID, playerID string) (fantasy.Membership, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AddPlayer",
		attribute.String("squad_id", squadID),
		attribute.String("player_id", playerID),
	)
	defer span.End()

	squadID = strings.TrimSpace(squadID)
	playerID = strings.TrimSpace(playerID)
	if squadID == "" || playerID == "" {
		return fantasy.Membership{}, fmt.Errorf("%w: squad id and player id are required", ErrInvalidInput)
	}

	var added fantasy.Membership
	var balance int64
	err := s.squadRepo.WithinSquadTx(ctx, squadID, func(ctx context.Context, tx fantasy.SquadTx) error {
		squad := tx.Squad()
		scope, err := s.loadScope(ctx, squad.LeagueID)
		if err != nil {
			return err
		}

		incoming, exists, err := s.registry.GetByID(ctx, playerID)
		if err != nil {
			return fmt.Errorf("get player by id: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
		}

		active, err := tx.ActiveMemberships(ctx)
		if err != nil {
			return fmt.Errorf("list active memberships: %w", err)
		}
		if err := s.checkIncoming(ctx, tx, scope, squad.Balance, active, incoming); err != nil {
			return err
		}

		membership, err := s.newMembership(squad.ID, incoming, scope)
		if err != nil {
			return err
		}
		if err := tx.InsertMembership(ctx, membership); err != nil {
			return fmt.Errorf("insert membership: %w", err)
		}
		balance = squad.Balance - incoming.Price
		if err := tx.UpdateBalance(ctx, balance, scope.asOf.UTC()); err != nil {
			return fmt.Errorf("debit squad balance: %w", err)
		}
		if err := s.appendTransfer(ctx, tx, scope, fantasy.TransferRecord{
			Action:           fantasy.TransferAdd,
			IncomingPlayerID: incoming.ID,
			Cost:             incoming.Price,
		}); err != nil {
			return err
		}

		added = membership
		return nil
	})
	if err != nil {
		return fantasy.Membership{}, squadTxError(err, squadID)
	}

	s.logger.InfoContext(ctx, "player added to squad",
		"squad_id", squadID,
		"player_id", added.PlayerID,
		"membership_id", added.ID,
		"price", added.PurchasePrice,
		"balance", balance,
	)
	return added, nil
}

func (s *RosterService) RemovePlayer(ctx context.Context, squadID, membershipID string) (RemoveResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.RemovePlayer",
		attribute.String("squad_id", squadID),
		attribute.String("membership_id", membershipID),
	)
	defer span.End()

	squadID = strings.TrimSpace(squadID)
	membershipID = strings.TrimSpace(membershipID)
	if squadID == "" || membershipID == "" {
		return RemoveResult{}, fmt.Errorf("%w: squad id and membership id are required", ErrInvalidInput)
	}

	var result RemoveResult
	err := s.squadRepo.WithinSquadTx(ctx, squadID, func(ctx context.Context, tx fantasy.SquadTx) error {
		squad := tx.Squad()
		scope, err := s.loadScope(ctx, squad.LeagueID)
		if err != nil {
			return err
		}

		active, err := tx.ActiveMemberships(ctx)
		if err != nil {
			return fmt.Errorf("list active memberships: %w", err)
		}
		outgoing, ok := fantasy.FindActive(active, membershipID)
		if !ok {
			return fmt.Errorf("%w: active membership=%s", ErrNotFound, membershipID)
		}
		if scope.deadlinePassed() {
			return fmt.Errorf("%w: period=%s", fantasy.ErrDeadlinePassed, scope.period.ID)
		}

		refund, err := s.refundFor(ctx, scope.league, outgoing)
		if err != nil {
			return err
		}

		closed := outgoing.End(scope.league.EndDate)
		closed.UpdatedAt = scope.asOf.UTC()
		if err := tx.UpdateMembership(ctx, closed); err != nil {
			return fmt.Errorf("close membership: %w", err)
		}
		balance := squad.Balance + refund
		if err := tx.UpdateBalance(ctx, balance, scope.asOf.UTC()); err != nil {
			return fmt.Errorf("credit squad balance: %w", err)
		}
		if err := s.appendTransfer(ctx, tx, scope, fantasy.TransferRecord{
			Action:           fantasy.TransferRemove,
			OutgoingPlayerID: outgoing.PlayerID,
			Cost:             0,
		}); err != nil {
			return err
		}

		result = RemoveResult{Membership: closed, Refund: refund, Balance: balance}
		return nil
	})
	if err != nil {
		return RemoveResult{}, squadTxError(err, squadID)
	}

	s.logger.InfoContext(ctx, "player removed from squad",
		"squad_id", squadID,
		"player_id", result.Membership.PlayerID,
		"membership_id", result.Membership.ID,
		"refund", result.Refund,
		"balance", result.Balance,
	)
	return result, nil
}

// SwapPlayer sells one active member and buys another player as a single SWAP transfer.
// The refund counts toward the balance check and the outgoing member does not
// count toward the squad size or real-team cap.
func (s *RosterService) SwapPlayer(ctx context.Context, input SwapInput) (SwapResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SwapPlayer",
		attribute.String("squad_id", input.SquadID),
	)
	defer span.End()

	input.SquadID = strings.TrimSpace(input.SquadID)
	input.OutgoingMembershipID = strings.TrimSpace(input.OutgoingMembershipID)
	input.IncomingPlayerID = strings.TrimSpace(input.IncomingPlayerID)
	if input.SquadID == "" || input.OutgoingMembershipID == "" || input.IncomingPlayerID == "" {
		return SwapResult{}, fmt.Errorf("%w: squad id, outgoing membership id and incoming player id are required", ErrInvalidInput)
	}

	var result SwapResult
	err := s.squadRepo.WithinSquadTx(ctx, input.SquadID, func(ctx context.Context, tx fantasy.SquadTx) error {
		squad := tx.Squad()
		scope, err := s.loadScope(ctx, squad.LeagueID)
		if err != nil {
			return err
		}

		active, err := tx.ActiveMemberships(ctx)
		if err != nil {
			return fmt.Errorf("list active memberships: %w", err)
		}
		outgoing, ok := fantasy.FindActive(active, input.OutgoingMembershipID)
		if !ok {
			return fmt.Errorf("%w: active membership=%s", ErrNotFound, input.OutgoingMembershipID)
		}
		incoming, exists, err := s.registry.GetByID(ctx, input.IncomingPlayerID)
		if err != nil {
			return fmt.Errorf("get player by id: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: player=%s", ErrNotFound, input.IncomingPlayerID)
		}
		if incoming.ID == outgoing.PlayerID {
			return fmt.Errorf("%w: incoming player is the outgoing player", ErrInvalidInput)
		}

		refund, err := s.refundFor(ctx, scope.league, outgoing)
		if err != nil {
			return err
		}

		remaining := make([]fantasy.Membership, 0, len(active))
		for _, m := range active {
			if m.ID != outgoing.ID {
				remaining = append(remaining, m)
			}
		}
		if err := s.checkIncoming(ctx, tx, scope, squad.Balance+refund, remaining, incoming); err != nil {
			return err
		}

		closed := outgoing.End(scope.league.EndDate)
		closed.UpdatedAt = scope.asOf.UTC()
		if err := tx.UpdateMembership(ctx, closed); err != nil {
			return fmt.Errorf("close outgoing membership: %w", err)
		}
		membership, err := s.newMembership(squad.ID, incoming, scope)
		if err != nil {
			return err
		}
		if err := tx.InsertMembership(ctx, membership); err != nil {
			return fmt.Errorf("insert incoming membership: %w", err)
		}
		balance := squad.Balance + refund - incoming.Price
		if err := tx.UpdateBalance(ctx, balance, scope.asOf.UTC()); err != nil {
			return fmt.Errorf("settle squad balance: %w", err)
		}
		if err := s.appendTransfer(ctx, tx, scope, fantasy.TransferRecord{
			Action:           fantasy.TransferSwap,
			IncomingPlayerID: incoming.ID,
			OutgoingPlayerID: outgoing.PlayerID,
			Cost:             incoming.Price,
		}); err != nil {
			return err
		}

		result = SwapResult{Outgoing: closed, Incoming: membership, Refund: refund, Balance: balance}
		return nil
	})
	if err != nil {
		return SwapResult{}, squadTxError(err, input.SquadID)
	}

	s.logger.InfoContext(ctx, "player swapped in squad",
		"squad_id", input.SquadID,
		"outgoing_player_id", result.Outgoing.PlayerID,
		"incoming_player_id", result.Incoming.PlayerID,
		"refund", result.Refund,
		"balance", result.Balance,
	)
	return result, nil
}

func (s *RosterService) SetCaptain(ctx context.Context, squadID, membershipID string) error {
	return s.assignRole(ctx, squadID, membershipID, fantasy.RoleCaptain)
}

func (s *RosterService) SetViceCaptain(ctx context.Context, squadID, membershipID string) error {
	return s.assignRole(ctx, squadID, membershipID, fantasy.RoleViceCaptain)
}

func (s *RosterService) assignRole(ctx context.Context, squadID, membershipID string, role fantasy.Role) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.assignRole",
		attribute.String("squad_id", squadID),
		attribute.String("role", string(role)),
	)
	defer span.End()

	squadID = strings.TrimSpace(squadID)
	membershipID = strings.TrimSpace(membershipID)
	if squadID == "" || membershipID == "" {
		return fmt.Errorf("%w: squad id and membership id are required", ErrInvalidInput)
	}

	err := s.squadRepo.WithinSquadTx(ctx, squadID, func(ctx context.Context, tx fantasy.SquadTx) error {
		scope, err := s.loadScope(ctx, tx.Squad().LeagueID)
		if err != nil {
			return err
		}

		active, err := tx.ActiveMemberships(ctx)
		if err != nil {
			return fmt.Errorf("list active memberships: %w", err)
		}
		target, ok := fantasy.FindActive(active, membershipID)
		if !ok {
			return fmt.Errorf("%w: active membership=%s", ErrNotFound, membershipID)
		}
		if scope.deadlinePassed() {
			return fmt.Errorf("%w: period=%s", fantasy.ErrDeadlinePassed, scope.period.ID)
		}

		for _, changed := range fantasy.ReassignRole(active, target, role) {
			changed.UpdatedAt = scope.asOf.UTC()
			if err := tx.UpdateMembership(ctx, changed); err != nil {
				return fmt.Errorf("update %s flag membership=%s: %w", strings.ToLower(string(role)), changed.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return squadTxError(err, squadID)
	}

	s.logger.InfoContext(ctx, "squad armband assigned",
		"squad_id", squadID,
		"membership_id", membershipID,
		"role", string(role),
	)
	return nil
}

func (s *RosterService) GetSquad(ctx context.Context, squadID string) (fantasy.Squad, error) {
	squadID = strings.TrimSpace(squadID)
	if squadID == "" {
		return fantasy.Squad{}, fmt.Errorf("%w: squad id is required", ErrInvalidInput)
	}

	squad, exists, err := s.squadRepo.GetSquad(ctx, squadID)
	if err != nil {
		return fantasy.Squad{}, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return fantasy.Squad{}, fmt.Errorf("%w: squad=%s", ErrNotFound, squadID)
	}
	return squad, nil
}

// ListMemberships returns a squad's full membership history, ended rows included.
func (s *RosterService) ListMemberships(ctx context.Context, squadID string) ([]fantasy.Membership, error) {
	if _, err := s.GetSquad(ctx, squadID); err != nil {
		return nil, err
	}
	items, err := s.squadRepo.ListMemberships(ctx, strings.TrimSpace(squadID))
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return items, nil
}

func (s *RosterService) ListActiveMemberships(ctx context.Context, squadID string) ([]fantasy.Membership, error) {
	items, err := s.ListMemberships(ctx, squadID)
	if err != nil {
		return nil, err
	}

	out := make([]fantasy.Membership, 0, len(items))
	for _, m := range items {
		if m.Active() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *RosterService) ListTransfers(ctx context.Context, squadID string) ([]fantasy.TransferRecord, error) {
	if _, err := s.GetSquad(ctx, squadID); err != nil {
		return nil, err
	}
	items, err := s.squadRepo.ListTransfers(ctx, strings.TrimSpace(squadID))
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	return items, nil
}

func (s *RosterService) TransfersLeft(ctx context.Context, squadID string) (TransferAllowance, error) {
	squad, err := s.GetSquad(ctx, squadID)
	if err != nil {
		return TransferAllowance{}, err
	}
	scope, err := s.loadScope(ctx, squad.LeagueID)
	if err != nil {
		return TransferAllowance{}, err
	}

	allowance := TransferAllowance{Limit: scope.league.TransferLimitPerWeek}
	if !scope.inPeriod {
		allowance.Remaining = allowance.Limit
		return allowance, nil
	}

	used, err := s.squadRepo.CountTransfers(ctx, squad.ID, scope.period.ID, fantasy.LimitedActions...)
	if err != nil {
		return TransferAllowance{}, fmt.Errorf("count transfers: %w", err)
	}
	allowance.PeriodID = scope.periodID()
	allowance.Used = used
	allowance.Remaining = max(allowance.Limit-used, 0)
	return allowance, nil
}

// rosterScope is the league and period context a roster change is judged in.
type rosterScope struct {
	league   league.Config
	period   scoring.Period
	inPeriod bool
	asOf     time.Time
}

func (sc rosterScope) periodID() *string {
	if !sc.inPeriod {
		return nil
	}
	id := sc.period.ID
	return &id
}

func (sc rosterScope) deadlinePassed() bool {
	return sc.inPeriod && sc.period.DeadlinePassed(sc.asOf)
}

func (s *RosterService) loadScope(ctx context.Context, leagueID string) (rosterScope, error) {
	cfg, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return rosterScope{}, err
	}

	periods, err := s.periodRepo.ListPeriods(ctx, leagueID)
	if err != nil {
		return rosterScope{}, fmt.Errorf("list periods: %w", err)
	}

	asOf := s.now()
	period, ok := scoring.CurrentPeriod(periods, inLocation(asOf, s.loc))
	return rosterScope{league: cfg, period: period, inPeriod: ok, asOf: asOf}, nil
}

func (s *RosterService) getLeague(ctx context.Context, leagueID string) (league.Config, error) {
	cfg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.Config{}, fmt.Errorf("get league by id: %w", err)
	}
	if !exists {
		return league.Config{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	return cfg, nil
}

// checkIncoming runs the buy-side checks in order, then the duplicate check.
func (s *RosterService) checkIncoming(
	ctx context.Context,
	tx fantasy.SquadTx,
	scope rosterScope,
	balance int64,
	active []fantasy.Membership,
	incoming player.Player,
) error {
	sameTeam, err := s.countSameTeam(ctx, active, incoming.TeamID)
	if err != nil {
		return err
	}

	check := fantasy.AddCheck{
		Balance:        balance,
		Price:          incoming.Price,
		ActiveCount:    len(active),
		SquadSizeLimit: scope.league.SquadSizeLimit,
		TeamID:         incoming.TeamID,
		SameTeamCount:  sameTeam,
		MaxPerRealTeam: scope.league.MaxPlayersPerRealTeam,
		InPeriod:       scope.inPeriod,
		TransferLimit:  scope.league.TransferLimitPerWeek,
		DeadlinePassed: scope.deadlinePassed(),
	}
	if scope.inPeriod {
		used, err := tx.CountTransfers(ctx, scope.period.ID, fantasy.LimitedActions...)
		if err != nil {
			return fmt.Errorf("count transfers: %w", err)
		}
		check.TransfersUsed = used
	}
	if err := check.Validate(); err != nil {
		return err
	}

	if fantasy.HasActivePlayer(active, incoming.ID) {
		return fmt.Errorf("%w: player=%s", fantasy.ErrDuplicateMembership, incoming.ID)
	}
	return nil
}

// countSameTeam counts active members whose player is currently on teamID.
func (s *RosterService) countSameTeam(ctx context.Context, active []fantasy.Membership, teamID string) (int, error) {
	if teamID == "" {
		return 0, nil
	}

	count := 0
	for _, m := range active {
		p, exists, err := s.registry.GetByID(ctx, m.PlayerID)
		if err != nil {
			return 0, fmt.Errorf("get member player=%s: %w", m.PlayerID, err)
		}
		if exists && p.TeamID == teamID {
			count++
		}
	}
	return count, nil
}

func (s *RosterService) refundFor(ctx context.Context, cfg league.Config, m fantasy.Membership) (int64, error) {
	if cfg.RefundPolicy != league.RefundAtCurrentPrice {
		return m.PurchasePrice, nil
	}

	p, exists, err := s.registry.GetByID(ctx, m.PlayerID)
	if err != nil {
		return 0, fmt.Errorf("get player current price: %w", err)
	}
	if !exists {
		s.logger.WarnContext(ctx, "player missing from registry, refunding purchase price",
			"player_id", m.PlayerID,
			"membership_id", m.ID,
		)
		return m.PurchasePrice, nil
	}
	return cfg.Refund(m.PurchasePrice, p.Price), nil
}

func (s *RosterService) newMembership(squadID string, incoming player.Player, scope rosterScope) (fantasy.Membership, error) {
	membershipID, err := s.idGen.NewID()
	if err != nil {
		return fantasy.Membership{}, fmt.Errorf("generate membership id: %w", err)
	}

	now := scope.asOf.UTC()
	return fantasy.Membership{
		ID:            membershipID,
		SquadID:       squadID,
		PlayerID:      incoming.ID,
		PurchasePrice: incoming.Price,
		ActiveFrom:    scope.league.StartDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (s *RosterService) appendTransfer(ctx context.Context, tx fantasy.SquadTx, scope rosterScope, record fantasy.TransferRecord) error {
	recordID, err := s.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate transfer id: %w", err)
	}

	record.ID = recordID
	record.SquadID = tx.Squad().ID
	record.PeriodID = scope.periodID()
	record.CreatedAt = scope.asOf.UTC()
	if err := tx.AppendTransfer(ctx, record); err != nil {
		return fmt.Errorf("append %s transfer: %w", strings.ToLower(string(record.Action)), err)
	}
	return nil
}
