package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"montarreda/internal/models"
)

// BackupVersion is the interchange format version written on export.
const BackupVersion = "1.0"

// ErrBackupNonValido marks a document that does not match the backup
// schema (as opposed to a store failure during restore).
var ErrBackupNonValido = errors.New("file di backup non valido")

// BackupData carries the collections covered by a backup. Timbrature is
// optional: 1.0 documents written by older installs only contained users
// and lavori.
type BackupData struct {
	Users      []models.User       `json:"users"`
	Lavori     []models.Lavoro     `json:"lavori"`
	Timbrature []models.Timbratura `json:"timbrature,omitempty"`
}

// BackupDocument is the full snapshot written to disk.
type BackupDocument struct {
	ID        string     `json:"id"`
	Version   string     `json:"version"`
	Timestamp time.Time  `json:"timestamp"`
	Data      BackupData `json:"data"`
}

// ImportResult reports a restore outcome. Confirmed=false means the user
// declined the overwrite; that is a normal outcome, not an error, and the
// store is untouched.
type ImportResult struct {
	Confirmed  bool
	Users      int
	Lavori     int
	Timbrature int
	Message    string
}

const msgImportAnnullato = "Importazione annullata"

// BackupService snapshots and restores the whole store.
type BackupService struct {
	DB *gorm.DB
}

func NewBackupService(db *gorm.DB) *BackupService { return &BackupService{DB: db} }

// Export snapshots every collection into a versioned, timestamped
// document.
func (s *BackupService) Export() (BackupDocument, error) {
	doc := BackupDocument{
		ID:        uuid.NewString(),
		Version:   BackupVersion,
		Timestamp: time.Now().UTC(),
	}
	if err := s.DB.Order("id asc").Find(&doc.Data.Users).Error; err != nil {
		return BackupDocument{}, fmt.Errorf("export users: %w", err)
	}
	if err := s.DB.Order("id asc").Find(&doc.Data.Lavori).Error; err != nil {
		return BackupDocument{}, fmt.Errorf("export lavori: %w", err)
	}
	if err := s.DB.Order("id asc").Find(&doc.Data.Timbrature).Error; err != nil {
		return BackupDocument{}, fmt.Errorf("export timbrature: %w", err)
	}
	return doc, nil
}

// Filename names the downloaded backup after the day it was taken.
func Filename(now time.Time) string {
	return "montarreda-backup-" + now.Format("2006-01-02") + ".json"
}

// ParseBackup decodes and validates a backup document. Both users and
// lavori must be present (possibly empty arrays); their absence means the
// file is not one of ours.
func ParseBackup(raw []byte) (BackupDocument, error) {
	var probe struct {
		ID        string    `json:"id"`
		Version   string    `json:"version"`
		Timestamp time.Time `json:"timestamp"`
		Data      *struct {
			Users      *[]models.User      `json:"users"`
			Lavori     *[]models.Lavoro    `json:"lavori"`
			Timbrature []models.Timbratura `json:"timbrature"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return BackupDocument{}, ErrBackupNonValido
	}
	if probe.Data == nil || probe.Data.Users == nil || probe.Data.Lavori == nil {
		return BackupDocument{}, ErrBackupNonValido
	}
	return BackupDocument{
		ID:        probe.ID,
		Version:   probe.Version,
		Timestamp: probe.Timestamp,
		Data: BackupData{
			Users:      *probe.Data.Users,
			Lavori:     *probe.Data.Lavori,
			Timbrature: probe.Data.Timbrature,
		},
	}, nil
}

// Import restores the document into the store. The caller passes the
// user's explicit confirmation; without it nothing is cleared. The
// restore runs in one transaction and reinserts rows with their original
// primary keys, so timbrature keep pointing at the right users across a
// round trip.
func (s *BackupService) Import(doc BackupDocument, confirmed bool) (ImportResult, error) {
	if !confirmed {
		return ImportResult{Message: msgImportAnnullato}, nil
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"timbrature", "lavori", "users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		for i := range doc.Data.Users {
			if err := tx.Create(&doc.Data.Users[i]).Error; err != nil {
				return fmt.Errorf("restore user: %w", err)
			}
		}
		for i := range doc.Data.Lavori {
			if err := tx.Create(&doc.Data.Lavori[i]).Error; err != nil {
				return fmt.Errorf("restore lavoro: %w", err)
			}
		}
		for i := range doc.Data.Timbrature {
			if err := tx.Create(&doc.Data.Timbrature[i]).Error; err != nil {
				return fmt.Errorf("restore timbratura: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return ImportResult{
		Confirmed:  true,
		Users:      len(doc.Data.Users),
		Lavori:     len(doc.Data.Lavori),
		Timbrature: len(doc.Data.Timbrature),
		Message:    fmt.Sprintf("Importati %d utenti e %d lavori!", len(doc.Data.Users), len(doc.Data.Lavori)),
	}, nil
}
