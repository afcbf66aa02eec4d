package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"adframes/internal/domain"
	"adframes/internal/port"
)

type inventoryRepo struct {
	db *sqlx.DB
}

// NewInventoryRepo creates a new PostgreSQL-backed InventoryRepository.
func NewInventoryRepo(db *sqlx.DB) port.InventoryRepository {
	return &inventoryRepo{db: db}
}

func (r *inventoryRepo) Insert(ctx context.Context, rec *domain.InventoryRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now().UTC()

	prices, err := json.Marshal(rec.Prices)
	if err != nil {
		return fmt.Errorf("inventoryRepo.Insert: marshaling prices: %w", err)
	}
	modes, err := json.Marshal(rec.ContractingModes)
	if err != nil {
		return fmt.Errorf("inventoryRepo.Insert: marshaling modes: %w", err)
	}
	photos, err := json.Marshal(nonNilStrings(rec.Photos))
	if err != nil {
		return fmt.Errorf("inventoryRepo.Insert: marshaling photos: %w", err)
	}
	metadata, err := json.Marshal(nonNilMap(rec.Metadata))
	if err != nil {
		return fmt.Errorf("inventoryRepo.Insert: marshaling metadata: %w", err)
	}

	query := `INSERT INTO inventory_frames
		(id, owner_id, external_id, name, venue_type, address, city, state, zip_code,
		 category, latitude, longitude, width_m, height_m, prices, contracting_modes,
		 slots_available, slots_per_day, daily_impressions, description, photos, metadata,
		 source_row, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21, $22, $23, $24)`

	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.OwnerID, rec.ExternalID, rec.Name, rec.VenueType, rec.Address,
		rec.City, rec.State, rec.ZipCode, rec.Category, rec.Latitude, rec.Longitude,
		rec.WidthM, rec.HeightM, prices, modes, rec.SlotsAvailable, rec.SlotsPerDay,
		rec.DailyImpressions, rec.Description, photos, metadata, rec.SourceRow, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("inventoryRepo.Insert: %w", err)
	}
	return nil
}

func (r *inventoryRepo) QueryExistingNames(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	var names []string
	err := r.db.SelectContext(ctx, &names,
		"SELECT name FROM inventory_frames WHERE owner_id = $1", ownerID)
	if err != nil {
		return nil, fmt.Errorf("inventoryRepo.QueryExistingNames: %w", err)
	}
	return names, nil
}

func (r *inventoryRepo) QueryExistingIdentifiers(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids,
		"SELECT external_id FROM inventory_frames WHERE owner_id = $1 AND external_id <> ''", ownerID)
	if err != nil {
		return nil, fmt.Errorf("inventoryRepo.QueryExistingIdentifiers: %w", err)
	}
	return ids, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
