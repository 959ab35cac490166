package model

import "time"

// ProjectStatus 题目审核状态
type ProjectStatus string

const (
	ProjectNoTitle        ProjectStatus = "no_title"
	ProjectAwaitingReview ProjectStatus = "awaiting_review"
	ProjectApproved       ProjectStatus = "approved"
	ProjectRejected       ProjectStatus = "rejected"
)

// DefaultProjectDescription 学生未填写描述时的占位文本
const DefaultProjectDescription = "Description not provided yet."

// Project 项目表 — 对应 projects，与 groups 一对一
type Project struct {
	ID                 uint          `gorm:"primaryKey"                                  json:"id"`
	GroupID            uint          `gorm:"not null;unique"                             json:"group_id"`
	Title              string        `gorm:"type:varchar(255);not null;default:''"       json:"title"`
	Description        string        `gorm:"type:text;not null;default:''"               json:"description"`
	Status             ProjectStatus `gorm:"type:varchar(20);not null;default:'no_title'" json:"status"`
	PendingTitle       *string       `gorm:"type:varchar(255)"                           json:"pending_title,omitempty"`
	PendingDescription *string       `gorm:"type:text"                                   json:"pending_description,omitempty"`
	UpdatedAt          time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"          json:"updated_at"`
}

// TableName 指定表名
func (Project) TableName() string { return "projects" }

// HasPendingChange 是否存在待审核的题目变更申请
func (p *Project) HasPendingChange() bool {
	return p.PendingTitle != nil
}
