package model

import "time"

// Announcement 公告表 — 对应 announcements
type Announcement struct {
	ID            uint      `gorm:"primaryKey"                         json:"id"`
	CoordinatorID uint      `gorm:"not null"                           json:"coordinator_id"`
	Title         string    `gorm:"type:varchar(200);not null"         json:"title"`
	Content       string    `gorm:"type:text;not null"                 json:"content"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Coordinator *Coordinator `gorm:"foreignKey:CoordinatorID" json:"coordinator,omitempty"`
}

// TableName 指定表名
func (Announcement) TableName() string { return "announcements" }
