package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"montarreda/internal/models"
)

// AttivitaFilters narrows the job list for the activity report. Empty
// fields mean "no filter"; the date bounds are inclusive on both ends.
type AttivitaFilters struct {
	DataDa   string
	DataA    string
	Commessa string
}

// Validate checks that any non-empty date bound is a well-formed ISO day.
func (f AttivitaFilters) Validate() error {
	for _, d := range []string{f.DataDa, f.DataA} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return ErrDataNonValida
		}
	}
	return nil
}

// Totali holds the per-payment-method sums of saldato. Saldato is the
// settled total: cash, cheque, transfer and financing only — store
// payments and suspended amounts are tracked but not counted as settled,
// and unrecognized methods join no bucket at all.
type Totali struct {
	Contanti      float64 `json:"contanti"`
	Assegni       float64 `json:"assegni"`
	Bonifico      float64 `json:"bonifico"`
	Finanziamento float64 `json:"finanziamento"`
	Negozio       float64 `json:"negozio"`
	Sospeso       float64 `json:"sospeso"`
	Saldato       float64 `json:"saldato"`
}

// Riepilogo carries the report summary figures, derived from the raw
// columns rather than from the payment buckets: Saldato here is the
// plain sum over every job, and the transport fee is a flat 6% of the
// total contract value.
type Riepilogo struct {
	Contratto            float64 `json:"contratto"`
	Saldato              float64 `json:"saldato"`
	PercentualeTrasporto float64 `json:"percentuale_trasporto"`
	ExtraSuConsegne      float64 `json:"extra_su_consegne"`
	TotaleLordo          float64 `json:"totale_lordo"`
}

// AttivitaService answers the activity queries feeding both the JSON
// endpoint and the PDF report. Store failures propagate: a broken store
// must never read as "no activity".
type AttivitaService struct {
	DB *gorm.DB
}

func NewAttivitaService(db *gorm.DB) *AttivitaService { return &AttivitaService{DB: db} }

// Get returns the jobs matching the filters, in date order, with their
// payment-method totals.
func (s *AttivitaService) Get(f AttivitaFilters) ([]models.Lavoro, Totali, error) {
	if err := f.Validate(); err != nil {
		return nil, Totali{}, err
	}
	q := s.DB.Model(&models.Lavoro{})
	if f.DataDa != "" {
		q = q.Where("data >= ?", f.DataDa)
	}
	if f.DataA != "" {
		q = q.Where("data <= ?", f.DataA)
	}
	if f.Commessa != "" {
		q = q.Where("commessa = ?", f.Commessa)
	}
	var lavori []models.Lavoro
	if err := q.Order("data asc, id asc").Find(&lavori).Error; err != nil {
		return nil, Totali{}, fmt.Errorf("load attività: %w", err)
	}
	return lavori, CalcolaTotali(lavori), nil
}

// CalcolaTotali buckets saldato by payment method.
func CalcolaTotali(lavori []models.Lavoro) Totali {
	var t Totali
	for _, l := range lavori {
		switch l.Saldo {
		case models.SaldoContanti:
			t.Contanti += l.Saldato
		case models.SaldoAssegno:
			t.Assegni += l.Saldato
		case models.SaldoBonifico:
			t.Bonifico += l.Saldato
		case models.SaldoFinanziamento:
			t.Finanziamento += l.Saldato
		case models.SaldoNegozio:
			t.Negozio += l.Saldato
		case models.SaldoSospeso:
			t.Sospeso += l.Saldato
		}
	}
	t.Saldato = t.Contanti + t.Assegni + t.Bonifico + t.Finanziamento
	return t
}

// CalcolaRiepilogo computes the report summary block.
func CalcolaRiepilogo(lavori []models.Lavoro) Riepilogo {
	var r Riepilogo
	for _, l := range lavori {
		r.Contratto += l.Contratto
		r.Saldato += l.Saldato
		r.ExtraSuConsegne += l.ExtraConsegna
	}
	r.PercentualeTrasporto = r.Contratto * 0.06
	r.TotaleLordo = r.PercentualeTrasporto + r.ExtraSuConsegne
	return r
}
