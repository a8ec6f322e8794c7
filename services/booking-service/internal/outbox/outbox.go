package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record is an event staged for publication in the same transaction that
// produced it. The dispatcher drains the table after commit, so a rolled-back
// booking can never leak an event onto the bus.
type Record struct {
	ID        string    `gorm:"primaryKey"`
	Topic     string    `gorm:"index"`
	Payload   []byte    `gorm:"type:jsonb"`
	CreatedAt time.Time `gorm:"index"`
}

func (Record) TableName() string { return "outbox" }

// Append stages one event inside the caller's transaction.
func Append(tx *gorm.DB, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal outbox %s: %w", topic, err)
	}
	rec := Record{
		ID:        uuid.NewString(),
		Topic:     topic,
		Payload:   body,
		CreatedAt: time.Now().UTC(),
	}
	return tx.Create(&rec).Error
}
