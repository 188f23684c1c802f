package models

// Payment methods accepted on a Lavoro. Anything else is stored as-is
// but joins no totals bucket.
const (
	SaldoContanti      = "Contanti"
	SaldoAssegno       = "Assegno"
	SaldoBonifico      = "Bonifico"
	SaldoFinanziamento = "Finanziamento"
	SaldoNegozio       = "Pag. Negozio"
	SaldoSospeso       = "Sospeso"
)

// Lavoro is a job/order record: contract value, amount settled so far
// and the payment method used to settle it.
type Lavoro struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Data          string  `gorm:"not null;index" json:"data"`
	Cliente       string  `gorm:"not null" json:"cliente"`
	Contratto     float64 `gorm:"not null" json:"contratto"`
	Saldato       float64 `gorm:"not null" json:"saldato"`
	Commessa      string  `gorm:"not null;index" json:"commessa"`
	Saldo         string  `gorm:"not null" json:"saldo"`
	ExtraConsegna float64 `json:"extra_consegna"`
}

// TableName keeps the Italian plural instead of gorm's guess.
func (Lavoro) TableName() string { return "lavori" }

// SaldoRiconosciuto reports whether s is one of the enumerated payment
// methods.
func SaldoRiconosciuto(s string) bool {
	switch s {
	case SaldoContanti, SaldoAssegno, SaldoBonifico, SaldoFinanziamento, SaldoNegozio, SaldoSospeso:
		return true
	}
	return false
}
