package request

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/michaelkennf/hopital-api/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const requestCols = `id, requested_by, type, description, amount, status, decided_by, decision_note, decided_at, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, req *Request) error {
	req.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO requests (id, requested_by, type, description, amount, status)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		req.ID, req.RequestedBy, req.Type, req.Description, req.Amount, req.Status,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	return scanRequest(r.conn(ctx).QueryRow(ctx, `SELECT `+requestCols+` FROM requests WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, req *Request) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE requests SET
			status=$2, decided_by=$3, decision_note=$4, decided_at=$5, updated_at=NOW()
		WHERE id = $1`,
		req.ID, req.Status, req.DecidedBy, req.DecisionNote, req.DecidedAt,
	)
	return err
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Request, int, error) {
	where, args := filterClause(f)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM requests`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, fmt.Sprintf(
		`SELECT `+requestCols+` FROM requests%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []*Request
	for rows.Next() {
		var req Request
		err := rows.Scan(&req.ID, &req.RequestedBy, &req.Type, &req.Description, &req.Amount,
			&req.Status, &req.DecidedBy, &req.DecisionNote, &req.DecidedAt, &req.CreatedAt, &req.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, &req)
	}
	return requests, total, nil
}

func filterClause(f Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if f.RequestedBy != nil {
		args = append(args, *f.RequestedBy)
		conds = append(conds, fmt.Sprintf("requested_by = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanRequest(row pgx.Row) (*Request, error) {
	var req Request
	err := row.Scan(&req.ID, &req.RequestedBy, &req.Type, &req.Description, &req.Amount,
		&req.Status, &req.DecidedBy, &req.DecisionNote, &req.DecidedAt, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
