package services

import (
	"errors"
	"fmt"

	"pingpong-bot/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchStore is the persistence surface the lifecycle coordinator needs.
// Get returns (nil, nil) when the match is absent; a non-nil error always
// means the storage layer itself failed, never "not found".
type MatchStore interface {
	CreateOrReplace(m *models.Match) error
	Get(id string) (*models.Match, error)
	Delete(id string) error
	AppendResult(r *models.Result) error
}

// DBMatchStore is the GORM-backed MatchStore. Single-row create/read/delete
// statements are atomic at the database, which is all the coordinator relies
// on — no cross-row transactions.
type DBMatchStore struct {
	DB *gorm.DB
}

func NewDBMatchStore(db *gorm.DB) *DBMatchStore {
	return &DBMatchStore{DB: db}
}

// CreateOrReplace upserts by id. Ids are generated per request, so a
// conflict only happens when the platform redelivers the same interaction;
// last-write-wins is harmless there.
func (s *DBMatchStore) CreateOrReplace(m *models.Match) error {
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"challenger", "opponent", "channel", "created_at"}),
	}).Create(m).Error
	if err != nil {
		return fmt.Errorf("upsert match %s: %w", m.ID, err)
	}
	return nil
}

func (s *DBMatchStore) Get(id string) (*models.Match, error) {
	var m models.Match
	if err := s.DB.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch match %s: %w", id, err)
	}
	return &m, nil
}

// Delete removes the match row. Deleting an already-absent row is a no-op,
// which makes decline and score submission safe to replay under retries.
func (s *DBMatchStore) Delete(id string) error {
	if err := s.DB.Delete(&models.Match{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete match %s: %w", id, err)
	}
	return nil
}

func (s *DBMatchStore) AppendResult(r *models.Result) error {
	if err := s.DB.Create(r).Error; err != nil {
		return fmt.Errorf("append result for match %s: %w", r.MatchID, err)
	}
	return nil
}
