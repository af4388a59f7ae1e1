package medication

import (
	"context"

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

const medCols = `id, name, unit, price, stock, min_stock, created_at, updated_at`
const saleCols = `id, medication_id, patient_id, sold_by, quantity, unit_price, total, created_at`

func (r *repoPG) Create(ctx context.Context, m *Medication) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medications (id, name, unit, price, stock, min_stock)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		m.ID, m.Name, m.Unit, m.Price, m.Stock, m.MinStock,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return scanMed(r.conn(ctx).QueryRow(ctx, `SELECT `+medCols+` FROM medications WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, m *Medication) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE medications SET name=$2, unit=$3, price=$4, min_stock=$5, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.Unit, m.Price, m.MinStock,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM medications WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medications`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+medCols+` FROM medications ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectMeds(rows, total)
}

func (r *repoPG) ListLowStock(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medications WHERE stock <= min_stock`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+medCols+` FROM medications WHERE stock <= min_stock ORDER BY stock LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectMeds(rows, total)
}

func (r *repoPG) AddStock(ctx context.Context, id uuid.UUID, quantity int) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE medications SET stock = stock + $2, updated_at=NOW() WHERE id = $1`,
		id, quantity,
	)
	return err
}

func (r *repoPG) CreateSale(ctx context.Context, sale *Sale) error {
	sale.ID = uuid.New()
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		// The guarded decrement keeps stock non-negative under concurrent
		// sales without an explicit row lock.
		tag, err := r.conn(ctx).Exec(ctx, `
			UPDATE medications SET stock = stock - $2, updated_at=NOW()
			WHERE id = $1 AND stock >= $2`,
			sale.MedicationID, sale.Quantity,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrInsufficientStock
		}

		_, err = r.conn(ctx).Exec(ctx, `
			INSERT INTO medication_sales (id, medication_id, patient_id, sold_by, quantity, unit_price, total)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			sale.ID, sale.MedicationID, sale.PatientID, sale.SoldBy, sale.Quantity, sale.UnitPrice, sale.Total,
		)
		return err
	})
}

func (r *repoPG) ListSales(ctx context.Context, limit, offset int) ([]*Sale, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medication_sales`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+saleCols+` FROM medication_sales ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectSales(rows, total)
}

func (r *repoPG) ListSalesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Sale, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medication_sales WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+saleCols+` FROM medication_sales WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectSales(rows, total)
}

func scanMed(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.Name, &m.Unit, &m.Price, &m.Stock, &m.MinStock, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMeds(rows pgx.Rows, total int) ([]*Medication, int, error) {
	var meds []*Medication
	for rows.Next() {
		var m Medication
		if err := rows.Scan(&m.ID, &m.Name, &m.Unit, &m.Price, &m.Stock, &m.MinStock, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, err
		}
		meds = append(meds, &m)
	}
	return meds, total, nil
}

func collectSales(rows pgx.Rows, total int) ([]*Sale, int, error) {
	var sales []*Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.MedicationID, &s.PatientID, &s.SoldBy, &s.Quantity, &s.UnitPrice, &s.Total, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		sales = append(sales, &s)
	}
	return sales, total, nil
}
