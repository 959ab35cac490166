package model

// 讲师角色编号
const (
	LecturerRolePlain              = 1
	LecturerRoleAssessor           = 2
	LecturerRoleSupervisorAssessor = 3
	LecturerRoleSupervisor         = 4
)

// Lecturer 讲师表 — 对应 lecturers
type Lecturer struct {
	Account
	RoleID int `gorm:"type:smallint;not null;default:1" json:"role_id"`
}

// TableName 指定表名
func (Lecturer) TableName() string { return "lecturers" }

// IsSupervisor role_id ∈ {3,4}
func (l *Lecturer) IsSupervisor() bool {
	return l.RoleID == LecturerRoleSupervisorAssessor || l.RoleID == LecturerRoleSupervisor
}

// IsAssessor role_id ∈ {2,3}
func (l *Lecturer) IsAssessor() bool {
	return l.RoleID == LecturerRoleAssessor || l.RoleID == LecturerRoleSupervisorAssessor
}
