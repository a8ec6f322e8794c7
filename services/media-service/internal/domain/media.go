package domain

import "time"

// Asset records an uploaded file's metadata. The bytes themselves live in
// object storage outside this system; the row is what the pipeline and
// admin tooling query.
type Asset struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	EntityType string    `gorm:"index:idx_assets_entity;not null" json:"entityType"`
	EntityID   string    `gorm:"index:idx_assets_entity;not null" json:"entityId"`
	FilePath   string    `gorm:"uniqueIndex;not null" json:"filePath"`
	FileType   string    `json:"fileType"`
	FileSize   int64     `json:"fileSize"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Asset) TableName() string { return "media_assets" }
