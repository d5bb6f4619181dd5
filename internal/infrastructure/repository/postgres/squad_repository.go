package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
	qb "github.com/riskibarqy/fantasy-roster/internal/platform/querybuilder"
)

const activePlayerIndex = "uq_squad_memberships_active_player"

// SquadRepository persists squads, memberships and the transfer ledger.
// Roster transactions lock the squad row so changes to one squad serialize.
type SquadRepository struct {
	db *sqlx.DB
}

func NewSquadRepository(db *sqlx.DB) *SquadRepository {
	return &SquadRepository{db: db}
}

func (r *SquadRepository) GetSquad(ctx context.Context, squadID string) (fantasy.Squad, bool, error) {
	query, args, err := qb.Select("*").From("fantasy_squads").
		Where(qb.Eq("public_id", squadID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return fantasy.Squad{}, false, fmt.Errorf("build select squad query: %w", err)
	}
	return r.getSquad(ctx, query, args)
}

func (r *SquadRepository) GetSquadByOwner(ctx context.Context, ownerID, leagueID string) (fantasy.Squad, bool, error) {
	query, args, err := qb.Select("*").From("fantasy_squads").
		Where(qb.Eq("owner_id", ownerID), qb.Eq("league_public_id", leagueID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return fantasy.Squad{}, false, fmt.Errorf("build select squad by owner query: %w", err)
	}
	return r.getSquad(ctx, query, args)
}

func (r *SquadRepository) getSquad(ctx context.Context, query string, args []any) (fantasy.Squad, bool, error) {
	var row squadTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fantasy.Squad{}, false, nil
		}
		return fantasy.Squad{}, false, fmt.Errorf("get squad: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *SquadRepository) ListSquadsByLeague(ctx context.Context, leagueID string) ([]fantasy.Squad, error) {
	query, args, err := qb.Select("*").From("fantasy_squads").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select squads by league query: %w", err)
	}

	var rows []squadTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select squads by league: %w", err)
	}

	out := make([]fantasy.Squad, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *SquadRepository) CreateSquad(ctx context.Context, squad fantasy.Squad) error {
	query, args, err := qb.InsertModel("fantasy_squads", squadInsertModel{
		PublicID:  squad.ID,
		OwnerID:   squad.OwnerID,
		LeagueID:  squad.LeagueID,
		Name:      squad.Name,
		Balance:   squad.Balance,
		CreatedAt: squad.CreatedAt.UTC(),
		UpdatedAt: squad.UpdatedAt.UTC(),
	}, "")
	if err != nil {
		return fmt.Errorf("build insert squad query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if uniqueViolation(err, "") {
			return fmt.Errorf("%w: owner=%s league=%s", fantasy.ErrSquadExists, squad.OwnerID, squad.LeagueID)
		}
		return fmt.Errorf("insert squad: %w", err)
	}
	return nil
}

func (r *SquadRepository) ListMemberships(ctx context.Context, squadID string) ([]fantasy.Membership, error) {
	return listMemberships(ctx, r.db, squadID, false)
}

func (r *SquadRepository) ListTransfers(ctx context.Context, squadID string) ([]fantasy.TransferRecord, error) {
	query, args, err := qb.Select("*").From("transfer_records").
		Where(qb.Eq("squad_public_id", squadID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select transfers query: %w", err)
	}

	var rows []transferTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select transfers: %w", err)
	}

	out := make([]fantasy.TransferRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *SquadRepository) CountTransfers(ctx context.Context, squadID, periodID string, actions ...fantasy.TransferAction) (int, error) {
	return countTransfers(ctx, r.db, squadID, periodID, actions)
}

func (r *SquadRepository) WithinSquadTx(ctx context.Context, squadID string, fn func(ctx context.Context, tx fantasy.SquadTx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin squad tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.Select("*").From("fantasy_squads").
		Where(qb.Eq("public_id", squadID)).
		ForUpdate().
		ToSQL()
	if err != nil {
		return fmt.Errorf("build lock squad query: %w", err)
	}

	var row squadTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: squad=%s", fantasy.ErrSquadNotFound, squadID)
		}
		return fmt.Errorf("lock squad %s: %w", squadID, err)
	}

	if err := fn(ctx, &squadTx{tx: tx, squad: row.toDomain()}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrapf(err, "commit squad tx squad=%s", squadID)
	}
	return nil
}

type squadTx struct {
	tx    *sqlx.Tx
	squad fantasy.Squad
}

func (t *squadTx) Squad() fantasy.Squad {
	return t.squad
}

func (t *squadTx) ActiveMemberships(ctx context.Context) ([]fantasy.Membership, error) {
	return listMemberships(ctx, t.tx, t.squad.ID, true)
}

func (t *squadTx) CountTransfers(ctx context.Context, periodID string, actions ...fantasy.TransferAction) (int, error) {
	return countTransfers(ctx, t.tx, t.squad.ID, periodID, actions)
}

func (t *squadTx) UpdateBalance(ctx context.Context, balance int64, updatedAt time.Time) error {
	if balance < 0 {
		return fmt.Errorf("%w: squad=%s balance=%d", fantasy.ErrInsufficientBalance, t.squad.ID, balance)
	}

	query, args, err := qb.Update("fantasy_squads").
		Set("balance", balance).
		Set("updated_at", updatedAt.UTC()).
		Where(qb.Eq("public_id", t.squad.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update squad balance query: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update squad balance: %w", err)
	}

	t.squad.Balance = balance
	t.squad.UpdatedAt = updatedAt
	return nil
}

func (t *squadTx) InsertMembership(ctx context.Context, membership fantasy.Membership) error {
	query, args, err := qb.InsertModel("squad_memberships", membershipInsertModel{
		PublicID:      membership.ID,
		SquadID:       t.squad.ID,
		PlayerID:      membership.PlayerID,
		PurchasePrice: membership.PurchasePrice,
		IsCaptain:     membership.IsCaptain,
		IsViceCaptain: membership.IsViceCaptain,
		ActiveFrom:    membership.ActiveFrom.UTC(),
		ActiveTo:      nullableTime(membership.ActiveTo),
		CreatedAt:     membership.CreatedAt.UTC(),
		UpdatedAt:     membership.UpdatedAt.UTC(),
	}, "")
	if err != nil {
		return fmt.Errorf("build insert membership query: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		if uniqueViolation(err, activePlayerIndex) {
			return fmt.Errorf("%w: squad=%s player=%s", fantasy.ErrDuplicateMembership, t.squad.ID, membership.PlayerID)
		}
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

func (t *squadTx) UpdateMembership(ctx context.Context, membership fantasy.Membership) error {
	query, args, err := qb.Update("squad_memberships").
		Set("purchase_price", membership.PurchasePrice).
		Set("is_captain", membership.IsCaptain).
		Set("is_vice_captain", membership.IsViceCaptain).
		Set("active_to", nullableTime(membership.ActiveTo)).
		Set("updated_at", membership.UpdatedAt.UTC()).
		Where(qb.Eq("public_id", membership.ID), qb.Eq("squad_public_id", t.squad.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update membership query: %w", err)
	}

	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update membership: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update membership rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("membership id=%s not found in squad=%s", membership.ID, t.squad.ID)
	}
	return nil
}

func (t *squadTx) AppendTransfer(ctx context.Context, record fantasy.TransferRecord) error {
	query, args, err := qb.InsertModel("transfer_records", transferInsertModel{
		PublicID:         record.ID,
		SquadID:          t.squad.ID,
		PeriodID:         nullableString(record.PeriodID),
		Action:           string(record.Action),
		IncomingPlayerID: record.IncomingPlayerID,
		OutgoingPlayerID: record.OutgoingPlayerID,
		Cost:             record.Cost,
		CreatedAt:        record.CreatedAt.UTC(),
	}, "")
	if err != nil {
		return fmt.Errorf("build insert transfer query: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert transfer record: %w", err)
	}
	return nil
}

func listMemberships(ctx context.Context, q sqlx.QueryerContext, squadID string, activeOnly bool) ([]fantasy.Membership, error) {
	conditions := []qb.Condition{qb.Eq("squad_public_id", squadID)}
	if activeOnly {
		conditions = append(conditions, qb.IsNull("active_to"))
	}
	query, args, err := qb.Select("*").From("squad_memberships").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select memberships query: %w", err)
	}

	var rows []membershipTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select memberships: %w", err)
	}

	out := make([]fantasy.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// countTransfers counts ledger rows of a period. No actions means every action.
func countTransfers(ctx context.Context, q sqlx.QueryerContext, squadID, periodID string, actions []fantasy.TransferAction) (int, error) {
	conditions := []qb.Condition{
		qb.Eq("squad_public_id", squadID),
		qb.Eq("period_public_id", periodID),
	}
	if len(actions) > 0 {
		names := make([]string, 0, len(actions))
		for _, a := range actions {
			names = append(names, string(a))
		}
		conditions = append(conditions, qb.Expr("action = ANY(?)", pq.Array(names)))
	}

	query, args, err := qb.Select("COUNT(1)").From("transfer_records").
		Where(conditions...).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count transfers query: %w", err)
	}

	var count int
	if err := sqlx.GetContext(ctx, q, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count transfers: %w", err)
	}
	return count, nil
}

func nullableTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: v.UTC(), Valid: true}
}

func (m squadTableModel) toDomain() fantasy.Squad {
	return fantasy.Squad{
		ID:        m.PublicID,
		OwnerID:   m.OwnerID,
		LeagueID:  m.LeagueID,
		Name:      m.Name,
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func (m membershipTableModel) toDomain() fantasy.Membership {
	out := fantasy.Membership{
		ID:            m.PublicID,
		SquadID:       m.SquadID,
		PlayerID:      m.PlayerID,
		PurchasePrice: m.PurchasePrice,
		IsCaptain:     m.IsCaptain,
		IsViceCaptain: m.IsViceCaptain,
		ActiveFrom:    m.ActiveFrom.UTC(),
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
	if m.ActiveTo.Valid {
		activeTo := m.ActiveTo.Time.UTC()
		out.ActiveTo = &activeTo
	}
	return out
}

func (m transferTableModel) toDomain() fantasy.TransferRecord {
	return fantasy.TransferRecord{
		ID:               m.PublicID,
		SquadID:          m.SquadID,
		PeriodID:         stringPtr(m.PeriodID),
		Action:           fantasy.TransferAction(m.Action),
		IncomingPlayerID: m.IncomingPlayerID,
		OutgoingPlayerID: m.OutgoingPlayerID,
		Cost:             m.Cost,
		CreatedAt:        m.CreatedAt.UTC(),
	}
}
