package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"montarreda/internal/models"
)

var (
	// ErrDataNonValida segnala una data fuori dal formato YYYY-MM-DD.
	ErrDataNonValida = errors.New("formato data non valido, usa YYYY-MM-DD")
	// ErrOrarioNonValido segnala un orario fuori dal formato HH:MM.
	ErrOrarioNonValido = errors.New("formato orario non valido, usa HH:MM")
	// ErrOrarioInvertito: l'ingresso deve precedere l'uscita.
	ErrOrarioInvertito = errors.New("l'orario di ingresso deve essere minore di quello di uscita")
	// ErrTimbraturaNonTrovata è restituito da Delete per id inesistenti.
	ErrTimbraturaNonTrovata = errors.New("timbratura non trovata")
)

// TimbraturaService owns the attendance records. Saving goes through the
// duplicate check on (id_utente, data): a second submission for the same
// day does not touch the store unless the caller explicitly asks to
// replace the existing row.
type TimbraturaService struct {
	DB *gorm.DB
}

func NewTimbraturaService(db *gorm.DB) *TimbraturaService { return &TimbraturaService{DB: db} }

// TimbraturaInput carries one clock-in submission. Empty orario fields
// are allowed only on a replace, where they mean "keep the stored value".
type TimbraturaInput struct {
	IDUtente       uint   `json:"id_utente"`
	Data           string `json:"data"`
	OrarioIngresso string `json:"orario_ingresso"`
	OrarioUscita   string `json:"orario_uscita"`
}

// SaveResult distinguishes the three save outcomes: inserted, updated,
// or blocked pending user confirmation (Timbratura then carries the row
// that would be overwritten).
type SaveResult struct {
	NeedsConfirmation bool
	Updated           bool
	Message           string
	Timbratura        models.Timbratura
}

// Messages shown verbatim by the UI.
const (
	msgTimbraturaEsistente  = "Esiste già una timbratura per questo utente in questa data."
	msgTimbraturaRegistrata = "Timbratura registrata con successo!"
	msgTimbraturaAggiornata = "Timbratura aggiornata con successo!"
)

// Save validates the submission and inserts it, or, when a row already
// exists for the same user and day, either reports it (replace=false,
// store untouched) or merges the incoming fields over the stored row and
// upserts it by primary key (replace=true). Store failures propagate.
func (s *TimbraturaService) Save(in TimbraturaInput, replace bool) (SaveResult, error) {
	if _, err := time.Parse("2006-01-02", in.Data); err != nil {
		return SaveResult{}, ErrDataNonValida
	}

	var existing models.Timbratura
	err := s.DB.Where("id_utente = ? AND data = ?", in.IDUtente, in.Data).First(&existing).Error
	found := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return SaveResult{}, fmt.Errorf("lookup timbratura: %w", err)
	}

	if found && !replace {
		return SaveResult{NeedsConfirmation: true, Message: msgTimbraturaEsistente, Timbratura: existing}, nil
	}

	if found {
		// Merge: incoming non-empty fields win, stored values survive
		// for anything the payload omitted.
		if in.OrarioIngresso != "" {
			existing.OrarioIngresso = in.OrarioIngresso
		}
		if in.OrarioUscita != "" {
			existing.OrarioUscita = in.OrarioUscita
		}
		minuti, err := minutiLavorati(existing.OrarioIngresso, existing.OrarioUscita)
		if err != nil {
			return SaveResult{}, err
		}
		existing.TempoLavorativo = minuti
		if err := s.DB.Save(&existing).Error; err != nil {
			return SaveResult{}, fmt.Errorf("update timbratura: %w", err)
		}
		return SaveResult{Updated: true, Message: msgTimbraturaAggiornata, Timbratura: existing}, nil
	}

	minuti, err := minutiLavorati(in.OrarioIngresso, in.OrarioUscita)
	if err != nil {
		return SaveResult{}, err
	}
	nuova := models.Timbratura{
		IDUtente:        in.IDUtente,
		Data:            in.Data,
		OrarioIngresso:  in.OrarioIngresso,
		OrarioUscita:    in.OrarioUscita,
		TempoLavorativo: minuti,
	}
	if err := s.DB.Create(&nuova).Error; err != nil {
		return SaveResult{}, fmt.Errorf("insert timbratura: %w", err)
	}
	return SaveResult{Message: msgTimbraturaRegistrata, Timbratura: nuova}, nil
}

// minutiLavorati validates the two orari and returns uscita-ingresso in
// minutes.
func minutiLavorati(ingresso, uscita string) (int, error) {
	tIn, err := time.Parse("15:04", ingresso)
	if err != nil {
		return 0, ErrOrarioNonValido
	}
	tOut, err := time.Parse("15:04", uscita)
	if err != nil {
		return 0, ErrOrarioNonValido
	}
	if !tIn.Before(tOut) {
		return 0, ErrOrarioInvertito
	}
	return int(tOut.Sub(tIn).Minutes()), nil
}

// List returns the timbrature for one user on one exact day.
func (s *TimbraturaService) List(userID uint, data string) ([]models.Timbratura, error) {
	var out []models.Timbratura
	if err := s.DB.Where("id_utente = ? AND data = ?", userID, data).
		Order("orario_ingresso asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list timbrature: %w", err)
	}
	return out, nil
}

// ListMese returns a user's timbrature for a whole month, ordered by day
// then clock-in time. Dates are ISO strings so the month is a half-open
// string range.
func (s *TimbraturaService) ListMese(userID uint, mese, anno int) ([]models.Timbratura, error) {
	if mese < 1 || mese > 12 {
		return nil, ErrDataNonValida
	}
	from := fmt.Sprintf("%04d-%02d-01", anno, mese)
	to := fmt.Sprintf("%04d-%02d-01", anno, mese+1)
	if mese == 12 {
		to = fmt.Sprintf("%04d-01-01", anno+1)
	}
	var out []models.Timbratura
	if err := s.DB.Where("id_utente = ? AND data >= ? AND data < ?", userID, from, to).
		Order("data asc, orario_ingresso asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list timbrature mese: %w", err)
	}
	return out, nil
}

// Delete removes one timbratura by primary key.
func (s *TimbraturaService) Delete(id uint) error {
	res := s.DB.Delete(&models.Timbratura{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete timbratura: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTimbraturaNonTrovata
	}
	return nil
}
