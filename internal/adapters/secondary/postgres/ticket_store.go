package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/lorrc/ticket-insights/internal/core/utils"
)

// ticketColumns is the column order shared by COPY and SELECT.
var ticketColumns = []string{
	"position",
	"ticket_id",
	"status",
	"assigned_user",
	"resolver",
	"company",
	"branch",
	"category",
	"priority",
	"title",
	"description",
	"requester",
	"created_user",
	"ticket_type",
	"sub_category",
	"department",
	"sla",
	"created_date",
	"resolved_date",
	"no_of_days",
	"no_of_working_days",
}

// TicketStore is the PostgreSQL record store.
type TicketStore struct {
	pool *pgxpool.Pool
	tx   *TransactionManager
}

var _ ports.TicketStore = (*TicketStore)(nil)

// NewTicketStore creates a store backed by pool.
func NewTicketStore(pool *pgxpool.Pool) *TicketStore {
	return &TicketStore{pool: pool, tx: NewTransactionManager(pool)}
}

// LoadAll returns the stored tickets in the order they were imported.
func (s *TicketStore) LoadAll(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
SELECT ticket_id, status, assigned_user, resolver, company, branch, category,
       priority, title, description, requester, created_user, ticket_type,
       sub_category, department, sla, created_date, resolved_date, no_of_days,
       no_of_working_days
FROM tickets
ORDER BY position
`

	rows, err := GetDBTX(ctx, s.pool).Query(ctx, query)
	if err != nil {
		return nil, apperrors.WrapStore("load", err)
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		var (
			r                     ticketRow
			createdAt, resolvedAt pgtype.Timestamptz
			days, workingDays     pgtype.Int4
		)
		if err := rows.Scan(
			&r.ID, &r.Status, &r.AssignedUser, &r.Resolver, &r.Company, &r.Branch,
			&r.Category, &r.Priority, &r.Title, &r.Description, &r.Requester,
			&r.CreatedUser, &r.TicketType, &r.SubCategory, &r.Department, &r.SLA,
			&createdAt, &resolvedAt, &days, &workingDays,
		); err != nil {
			return nil, apperrors.WrapStore("load", err)
		}
		t := r.toDomain()
		t.CreatedDate = utils.FromTimestamptz(createdAt)
		t.ResolvedDate = utils.FromTimestamptz(resolvedAt)
		t.NoOfDays = utils.FromInt4(days)
		t.NoOfWorkingDays = utils.FromInt4(workingDays)
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapStore("load", err)
	}
	return tickets, nil
}

// ReplaceAll deletes the stored set and copies tickets in within one
// transaction, so a failure leaves the previous set intact.
func (s *TicketStore) ReplaceAll(ctx context.Context, tickets []domain.Ticket) error {
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		db := GetDBTX(ctx, s.pool)
		if _, err := db.Exec(ctx, `DELETE FROM tickets`); err != nil {
			return err
		}
		if len(tickets) == 0 {
			return nil
		}
		_, err := db.CopyFrom(ctx, pgx.Identifier{"tickets"}, ticketColumns,
			pgx.CopyFromSlice(len(tickets), func(i int) ([]any, error) {
				return copyValues(i, tickets[i]), nil
			}))
		return err
	})
	return apperrors.WrapStore("replace", err)
}

// Clear removes every stored ticket.
func (s *TicketStore) Clear(ctx context.Context) error {
	_, err := GetDBTX(ctx, s.pool).Exec(ctx, `DELETE FROM tickets`)
	return apperrors.WrapStore("clear", err)
}

// Stats counts stored tickets per classification.
func (s *TicketStore) Stats(ctx context.Context) (domain.StoreStats, error) {
	const query = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE status = ANY($1)),
       COUNT(*) FILTER (WHERE status = ANY($2))
FROM tickets
`

	var stats domain.StoreStats
	err := GetDBTX(ctx, s.pool).
		QueryRow(ctx, query, domain.ResolvedStatuses(), domain.DiscardedStatuses()).
		Scan(&stats.Total, &stats.Resolved, &stats.Discarded)
	if err != nil {
		return domain.StoreStats{}, apperrors.WrapStore("stats", err)
	}
	stats.Pending = stats.Total - stats.Resolved - stats.Discarded
	return stats, nil
}

// Ping checks connectivity.
func (s *TicketStore) Ping(ctx context.Context) error {
	return apperrors.WrapStore("ping", s.pool.Ping(ctx))
}

// ticketRow mirrors the text columns of the tickets table.
type ticketRow struct {
	ID, Status                                                  string
	AssignedUser, Resolver, Company, Branch, Category, Priority pgtype.Text
	Title, Description, Requester, CreatedUser, TicketType      pgtype.Text
	SubCategory, Department, SLA                                pgtype.Text
}

func (r ticketRow) toDomain() domain.Ticket {
	return domain.Ticket{
		ID:           r.ID,
		Status:       r.Status,
		AssignedUser: utils.FromNullString(r.AssignedUser),
		Resolver:     utils.FromNullString(r.Resolver),
		Company:      utils.FromNullString(r.Company),
		Branch:       utils.FromNullString(r.Branch),
		Category:     utils.FromNullString(r.Category),
		Priority:     utils.FromNullString(r.Priority),
		Title:        utils.FromNullString(r.Title),
		Description:  utils.FromNullString(r.Description),
		Requester:    utils.FromNullString(r.Requester),
		CreatedUser:  utils.FromNullString(r.CreatedUser),
		TicketType:   utils.FromNullString(r.TicketType),
		SubCategory:  utils.FromNullString(r.SubCategory),
		Department:   utils.FromNullString(r.Department),
		SLA:          utils.FromNullString(r.SLA),
	}
}

func copyValues(i int, t domain.Ticket) []any {
	return []any{
		int32(i + 1),
		t.ID,
		t.Status,
		utils.ToNullString(t.AssignedUser),
		utils.ToNullString(t.Resolver),
		utils.ToNullString(t.Company),
		utils.ToNullString(t.Branch),
		utils.ToNullString(t.Category),
		utils.ToNullString(t.Priority),
		utils.ToNullString(t.Title),
		utils.ToNullString(t.Description),
		utils.ToNullString(t.Requester),
		utils.ToNullString(t.CreatedUser),
		utils.ToNullString(t.TicketType),
		utils.ToNullString(t.SubCategory),
		utils.ToNullString(t.Department),
		utils.ToNullString(t.SLA),
		utils.ToTimestamptz(t.CreatedDate),
		utils.ToTimestamptz(t.ResolvedDate),
		utils.ToInt4(t.NoOfDays),
		utils.ToInt4(t.NoOfWorkingDays),
	}
}
