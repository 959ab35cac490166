package model

// Student 学生表 — 对应 students
type Student struct {
	Account
	MatricNo string `gorm:"type:varchar(30);not null;unique" json:"matric_no"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// Coordinator 协调员表 — 对应 coordinators
type Coordinator struct {
	Account
}

// TableName 指定表名
func (Coordinator) TableName() string { return "coordinators" }

// Admin 管理员表 — 对应 admins
type Admin struct {
	Account
}

// TableName 指定表名
func (Admin) TableName() string { return "admins" }
