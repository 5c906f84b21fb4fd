package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Deelite34/link-shortener/internal/models"
)

type clientRecord struct {
	ID        int64  `db:"id"`
	Address   string `db:"address"`
	URLsCount int64  `db:"urls_count"`
	IsBanned  bool   `db:"is_banned"`
}

func (r *clientRecord) ToClient() *models.Client {
	return &models.Client{
		ID:        r.ID,
		Address:   r.Address,
		URLsCount: r.URLsCount,
		IsBanned:  r.IsBanned,
	}
}

type ClientRepository struct {
	db *sqlx.DB
}

func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{
		db: db,
	}
}

// FindOrCreate returns the client row for the given address, inserting it
// first if none exists. The upsert keeps concurrent calls for the same
// address from ever producing two rows.
func (r *ClientRepository) FindOrCreate(ctx context.Context, address string) (*models.Client, error) {
	const op = "database.postgres.ClientRepository.FindOrCreate"

	rec := new(clientRecord)
	query := `INSERT INTO clients(address)
		VALUES ($1)
		ON CONFLICT (address) DO UPDATE SET address = EXCLUDED.address
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, address)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to find or create client record: %w", op, err)
	}

	return rec.ToClient(), nil
}
