package model

import "time"

// Semester 学期表 — 对应 semesters
type Semester struct {
	ID           uint      `gorm:"primaryKey"                         json:"id"`
	SemesterName string    `gorm:"type:varchar(100);not null"         json:"semester_name"`
	StartDate    time.Time `gorm:"type:date;not null"                 json:"start_date"`
	EndDate      time.Time `gorm:"type:date;not null"                 json:"end_date"`
	IsCurrent    bool      `gorm:"not null;default:false"             json:"is_current"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (Semester) TableName() string { return "semesters" }
