package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Deelite34/link-shortener/internal/database"
	"github.com/Deelite34/link-shortener/internal/models"
)

type linkRecord struct {
	ID           int64     `db:"id"`
	ClientID     int64     `db:"client_id"`
	OwnerAddress string    `db:"owner_address"`
	URLInput     string    `db:"url_input"`
	URLOutput    string    `db:"url_output"`
	CreatedAt    time.Time `db:"created_at"`
	ExpiresAt    time.Time `db:"expires_at"`
}

func (r *linkRecord) ToLink() *models.Link {
	return &models.Link{
		ID:           r.ID,
		ClientID:     r.ClientID,
		OwnerAddress: r.OwnerAddress,
		URLInput:     r.URLInput,
		URLOutput:    r.URLOutput,
		CreatedAt:    r.CreatedAt,
		ExpiresAt:    r.ExpiresAt,
	}
}

const selectLinkQuery = `SELECT l.id, l.client_id, c.address AS owner_address,
		l.url_input, l.url_output, l.created_at, l.expires_at
	FROM links l
	JOIN clients c ON c.id = l.client_id`

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{
		db: db,
	}
}

// Create inserts a new link and increments the owner's live link count in
// one transaction, so a unique-slug violation never leaves the count
// drifted. A violation is reported as database.ErrSlugExists.
func (r *LinkRepository) Create(ctx context.Context, clientID int64, slug, destination string) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.Create"

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback() //nolint:errcheck

	rec := new(linkRecord)
	query := `INSERT INTO links(client_id, url_input, url_output)
		VALUES ($1, $2, $3)
		RETURNING id, client_id, url_input, url_output, created_at, expires_at`

	if err := tx.GetContext(ctx, rec, query, clientID, destination, slug); err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrSlugExists)
		}

		return nil, fmt.Errorf("%s: failed to create link record: %w", op, err)
	}

	query = `UPDATE clients
		SET urls_count = urls_count + 1
		WHERE id = $1`

	if _, err := tx.ExecContext(ctx, query, clientID); err != nil {
		return nil, fmt.Errorf("%s: failed to increment urls count: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return rec.ToLink(), nil
}

// GetBySlug retrieves a link together with its owner's address.
func (r *LinkRepository) GetBySlug(ctx context.Context, slug string) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.GetBySlug"

	rec := new(linkRecord)
	query := selectLinkQuery + `
	WHERE l.url_output = $1`

	err := r.db.GetContext(ctx, rec, query, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get link record: %w", op, err)
	}

	return rec.ToLink(), nil
}

// GetByAddressAndSlug retrieves a link only when it is owned by the client
// with the given address.
func (r *LinkRepository) GetByAddressAndSlug(ctx context.Context, address, slug string) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.GetByAddressAndSlug"

	rec := new(linkRecord)
	query := selectLinkQuery + `
	WHERE c.address = $1 AND l.url_output = $2`

	err := r.db.GetContext(ctx, rec, query, address, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get link record: %w", op, err)
	}

	return rec.ToLink(), nil
}

// ListByAddress returns all links owned by the client with the given
// address. Unknown addresses yield an empty slice.
func (r *LinkRepository) ListByAddress(ctx context.Context, address string) ([]*models.Link, error) {
	const op = "database.postgres.LinkRepository.ListByAddress"

	var recs []linkRecord
	query := selectLinkQuery + `
	WHERE c.address = $1
	ORDER BY l.id`

	if err := r.db.SelectContext(ctx, &recs, query, address); err != nil {
		return nil, fmt.Errorf("%s: failed to list link records: %w", op, err)
	}

	links := make([]*models.Link, 0, len(recs))
	for i := range recs {
		links = append(links, recs[i].ToLink())
	}

	return links, nil
}

// Delete removes a link and decrements the owner's live link count in one
// transaction, mirroring the atomicity of Create.
func (r *LinkRepository) Delete(ctx context.Context, id int64) error {
	const op = "database.postgres.LinkRepository.Delete"

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback() //nolint:errcheck

	var clientID int64
	query := `DELETE FROM links
		WHERE id = $1
		RETURNING client_id`

	if err := tx.GetContext(ctx, &clientID, query, id); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return fmt.Errorf("%s: failed to delete link record: %w", op, err)
	}

	query = `UPDATE clients
		SET urls_count = urls_count - 1
		WHERE id = $1 AND urls_count > 0`

	if _, err := tx.ExecContext(ctx, query, clientID); err != nil {
		return fmt.Errorf("%s: failed to decrement urls count: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return nil
}
