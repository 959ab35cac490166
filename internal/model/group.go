package model

import "time"

// 分组状态
const (
	GroupStatusPending  = "Pending"
	GroupStatusApproved = "Approved"
)

// Group 项目小组表 — 对应 groups
type Group struct {
	ID            uint      `gorm:"primaryKey"                                json:"id"`
	Name          string    `gorm:"type:varchar(50);not null;unique"          json:"name"`
	Status        string    `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	CoordinatorID uint      `gorm:"not null"                                  json:"coordinator_id"`
	LecturerID    *uint     `                                                 json:"lecturer_id,omitempty"`
	AssessorID    *uint     `                                                 json:"assessor_id,omitempty"`
	LeaderID      *uint     `                                                 json:"leader_id,omitempty"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"        json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"        json:"updated_at"`

	// 关联
	Supervisor *Lecturer     `gorm:"foreignKey:LecturerID" json:"supervisor,omitempty"`
	Assessor   *Lecturer     `gorm:"foreignKey:AssessorID" json:"assessor,omitempty"`
	Leader     *Student      `gorm:"foreignKey:LeaderID"   json:"leader,omitempty"`
	Members    []GroupMember `gorm:"foreignKey:GroupID"    json:"members,omitempty"`
	Project    *Project      `gorm:"foreignKey:GroupID"    json:"project,omitempty"`
}

// TableName 指定表名
func (Group) TableName() string { return "groups" }

// GroupMember 组员表 — 对应 group_members，student_id 全局唯一
type GroupMember struct {
	ID        uint      `gorm:"primaryKey"                         json:"id"`
	GroupID   uint      `gorm:"not null;index"                     json:"group_id"`
	StudentID uint      `gorm:"not null;unique"                    json:"student_id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

// TableName 指定表名
func (GroupMember) TableName() string { return "group_members" }
