package models

// Timbratura is one attendance record: a user's clock-in/out for a
// single day. Data is "YYYY-MM-DD", the orario fields are "HH:MM" and
// TempoLavorativo is derived in minutes when the record is saved.
// At most one row per (IDUtente, Data) pair; the service enforces this
// so that a re-submission can be turned into an explicit replace.
type Timbratura struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	IDUtente        uint   `gorm:"not null;index;index:idx_timbrature_utente_data" json:"id_utente"`
	Data            string `gorm:"not null;index;index:idx_timbrature_utente_data" json:"data"`
	OrarioIngresso  string `gorm:"not null" json:"orario_ingresso"`
	OrarioUscita    string `gorm:"not null" json:"orario_uscita"`
	TempoLavorativo int    `gorm:"not null" json:"tempo_lavorativo"`
}

// TableName keeps the Italian plural instead of gorm's guess.
func (Timbratura) TableName() string { return "timbrature" }
