package transaction

import "time"

// Transaction is one financial ledger row owned by a user.
type Transaction struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	UserID        uint64    `gorm:"index;not null" json:"userId"`
	Description   string    `gorm:"not null" json:"description"`
	Amount        float64   `gorm:"not null" json:"amount"`
	Date          time.Time `gorm:"index;not null;default:now()" json:"date"`
	Category      string    `gorm:"not null" json:"category"`
	Type          string    `gorm:"not null" json:"type"`
	Source        string    `gorm:"not null" json:"source"`
	FeeDeductions float64   `gorm:"not null;default:0" json:"feeDeductions"`
	TaxDeductions float64   `gorm:"not null;default:0" json:"taxDeductions"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"createdAt"`
}
