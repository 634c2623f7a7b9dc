package archive

import (
	"time"

	"gorm.io/datatypes"
)

// Event kinds stored in the archive.
const (
	KindCreated = "created"
	KindDeleted = "deleted"
	KindDiff    = "diff"
)

// ChangeEventRecord is one archived inventory change event. Payload
// holds the full event JSON as written to the change log, so the
// archive can always reproduce the canonical line.
type ChangeEventRecord struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID     string         `gorm:"index:idx_change_event;size:36;not null" json:"event_id"`
	InventoryID int64          `gorm:"index:idx_change_inventory" json:"inventory_id"`
	Identity    string         `gorm:"size:64" json:"identity"`
	PlayerID    *int64         `gorm:"index:idx_change_player" json:"player_id"`
	PlayerName  string         `gorm:"size:64" json:"player_name"`
	Kind        string         `gorm:"size:16;not null" json:"kind"`
	Timestamp   int64          `json:"timestamp"`
	Payload     datatypes.JSON `json:"payload"`
	CreatedAt   time.Time      `gorm:"index:idx_change_created;autoCreateTime:milli" json:"created_at"`
}
