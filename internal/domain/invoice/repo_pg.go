package invoice

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

const invoiceCols = `id, number, patient_id, status, source_type, source_id, total, paid_by, paid_at, created_at, updated_at`
const itemCols = `id, invoice_id, label, quantity, unit_price, total`

func (r *repoPG) Create(ctx context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		q := r.conn(ctx)
		_, err := q.Exec(ctx, `
			INSERT INTO invoices (id, number, patient_id, status, source_type, source_id, total)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			inv.ID, inv.Number, inv.PatientID, inv.Status, inv.SourceType, inv.SourceID, inv.Total,
		)
		if err != nil {
			return err
		}
		for _, it := range inv.Items {
			it.ID = uuid.New()
			it.InvoiceID = inv.ID
			_, err := q.Exec(ctx, `
				INSERT INTO invoice_items (id, invoice_id, label, quantity, unit_price, total)
				VALUES ($1,$2,$3,$4,$5,$6)`,
				it.ID, it.InvoiceID, it.Label, it.Quantity, it.UnitPrice, it.Total,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := scanInvoice(r.conn(ctx).QueryRow(ctx, `SELECT `+invoiceCols+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+itemCols+` FROM invoice_items WHERE invoice_id = $1 ORDER BY label`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it InvoiceItem
		err := rows.Scan(&it.ID, &it.InvoiceID, &it.Label, &it.Quantity, &it.UnitPrice, &it.Total)
		if err != nil {
			return nil, err
		}
		inv.Items = append(inv.Items, &it)
	}
	return inv, nil
}

func (r *repoPG) Update(ctx context.Context, inv *Invoice) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE invoices SET
			status=$2, paid_by=$3, paid_at=$4, updated_at=NOW()
		WHERE id = $1`,
		inv.ID, inv.Status, inv.PaidBy, inv.PaidAt,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	// invoice_items rows go with the invoice via ON DELETE CASCADE.
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	return err
}

// List returns invoices without their items. Callers needing line items
// fetch the invoice by id.
func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Invoice, int, error) {
	where, args := filterClause(f)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, fmt.Sprintf(
		`SELECT `+invoiceCols+` FROM invoices%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invoices []*Invoice
	for rows.Next() {
		var inv Invoice
		err := rows.Scan(&inv.ID, &inv.Number, &inv.PatientID, &inv.Status, &inv.SourceType, &inv.SourceID,
			&inv.Total, &inv.PaidBy, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, &inv)
	}
	return invoices, total, nil
}

func (r *repoPG) NextNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.conn(ctx).QueryRow(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("FAC-%06d", n), nil
}

func filterClause(f Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if f.PatientID != nil {
		args = append(args, *f.PatientID)
		conds = append(conds, fmt.Sprintf("patient_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.SourceType != "" {
		args = append(args, f.SourceType)
		conds = append(conds, fmt.Sprintf("source_type = $%d", len(args)))
	}
	if f.SourceID != nil {
		args = append(args, *f.SourceID)
		conds = append(conds, fmt.Sprintf("source_id = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.Number, &inv.PatientID, &inv.Status, &inv.SourceType, &inv.SourceID,
		&inv.Total, &inv.PaidBy, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
