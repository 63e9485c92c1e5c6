package selection

import (
	"context"

	"github.com/valortpms/real-time-map-sub001/internal/db"
)

type Repository struct {
	db db.Querier
}

func NewRepository(db db.Querier) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Load(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT device_id FROM selected_devices ORDER BY device_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Repository) Select(ctx context.Context, deviceID string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO selected_devices (device_id, selected_at)
		VALUES ($1, now())
		ON CONFLICT (device_id) DO NOTHING
	`, deviceID)
	return err
}

func (r *Repository) Deselect(ctx context.Context, deviceID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM selected_devices WHERE device_id=$1`, deviceID)
	return err
}
