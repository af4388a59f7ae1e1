package hospitalization

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

const roomCols = `id, number, capacity, occupied, daily_rate, created_at, updated_at`
const admissionCols = `id, patient_id, room_id, admitted_by, reason, maternity, status, admitted_at, discharged_at, created_at, updated_at`

func (r *repoPG) CreateRoom(ctx context.Context, room *Room) error {
	room.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO rooms (id, number, capacity, occupied, daily_rate)
		VALUES ($1,$2,$3,0,$4)`,
		room.ID, room.Number, room.Capacity, room.DailyRate,
	)
	return err
}

func (r *repoPG) GetRoom(ctx context.Context, id uuid.UUID) (*Room, error) {
	return scanRoom(r.conn(ctx).QueryRow(ctx, `SELECT `+roomCols+` FROM rooms WHERE id = $1`, id))
}

func (r *repoPG) UpdateRoom(ctx context.Context, room *Room) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE rooms SET number=$2, capacity=$3, daily_rate=$4, updated_at=NOW()
		WHERE id = $1`,
		room.ID, room.Number, room.Capacity, room.DailyRate,
	)
	return err
}

func (r *repoPG) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListRooms(ctx context.Context, limit, offset int) ([]*Room, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+roomCols+` FROM rooms ORDER BY number LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rooms []*Room
	for rows.Next() {
		var room Room
		err := rows.Scan(&room.ID, &room.Number, &room.Capacity, &room.Occupied, &room.DailyRate, &room.CreatedAt, &room.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		rooms = append(rooms, &room)
	}
	return rooms, total, nil
}

// takeBed increments occupancy, refusing when the room is at capacity.
func takeBed(ctx context.Context, q querier, roomID uuid.UUID) error {
	tag, err := q.Exec(ctx,
		`UPDATE rooms SET occupied = occupied + 1, updated_at = NOW()
		 WHERE id = $1 AND occupied < capacity`, roomID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRoomFull
	}
	return nil
}

func releaseBed(ctx context.Context, q querier, roomID uuid.UUID) error {
	_, err := q.Exec(ctx,
		`UPDATE rooms SET occupied = GREATEST(occupied - 1, 0), updated_at = NOW()
		 WHERE id = $1`, roomID)
	return err
}

func (r *repoPG) CreateAdmission(ctx context.Context, a *Admission) error {
	a.ID = uuid.New()
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		q := r.conn(ctx)
		if err := takeBed(ctx, q, a.RoomID); err != nil {
			return err
		}
		_, err := q.Exec(ctx, `
			INSERT INTO admissions (id, patient_id, room_id, admitted_by, reason, maternity, status, admitted_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			a.ID, a.PatientID, a.RoomID, a.AdmittedBy, a.Reason, a.Maternity, a.Status, a.AdmittedAt,
		)
		return err
	})
}

func (r *repoPG) GetAdmission(ctx context.Context, id uuid.UUID) (*Admission, error) {
	return scanAdmission(r.conn(ctx).QueryRow(ctx,
		`SELECT `+admissionCols+` FROM admissions WHERE id = $1`, id))
}

func (r *repoPG) Transfer(ctx context.Context, a *Admission, toRoomID uuid.UUID) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		q := r.conn(ctx)
		if err := takeBed(ctx, q, toRoomID); err != nil {
			return err
		}
		if err := releaseBed(ctx, q, a.RoomID); err != nil {
			return err
		}
		a.RoomID = toRoomID
		_, err := q.Exec(ctx,
			`UPDATE admissions SET room_id=$2, updated_at=NOW() WHERE id = $1`, a.ID, toRoomID)
		return err
	})
}

func (r *repoPG) Discharge(ctx context.Context, a *Admission) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		q := r.conn(ctx)
		if err := releaseBed(ctx, q, a.RoomID); err != nil {
			return err
		}
		_, err := q.Exec(ctx,
			`UPDATE admissions SET status=$2, discharged_at=$3, updated_at=NOW() WHERE id = $1`,
			a.ID, a.Status, a.DischargedAt,
		)
		return err
	})
}

func (r *repoPG) ListAdmissions(ctx context.Context, f Filter, limit, offset int) ([]*Admission, int, error) {
	where, args := filterClause(f)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM admissions`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, fmt.Sprintf(
		`SELECT `+admissionCols+` FROM admissions%s ORDER BY admitted_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var admissions []*Admission
	for rows.Next() {
		var a Admission
		err := rows.Scan(&a.ID, &a.PatientID, &a.RoomID, &a.AdmittedBy, &a.Reason, &a.Maternity,
			&a.Status, &a.AdmittedAt, &a.DischargedAt, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		admissions = append(admissions, &a)
	}
	return admissions, total, nil
}

func filterClause(f Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if f.PatientID != nil {
		args = append(args, *f.PatientID)
		conds = append(conds, fmt.Sprintf("patient_id = $%d", len(args)))
	}
	if f.Maternity != nil {
		args = append(args, *f.Maternity)
		conds = append(conds, fmt.Sprintf("maternity = $%d", len(args)))
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

func scanRoom(row pgx.Row) (*Room, error) {
	var room Room
	err := row.Scan(&room.ID, &room.Number, &room.Capacity, &room.Occupied, &room.DailyRate, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func scanAdmission(row pgx.Row) (*Admission, error) {
	var a Admission
	err := row.Scan(&a.ID, &a.PatientID, &a.RoomID, &a.AdmittedBy, &a.Reason, &a.Maternity,
		&a.Status, &a.AdmittedAt, &a.DischargedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
