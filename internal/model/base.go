package model

import "time"

// 账号角色，同时作为 JWT 中的 role 声明
const (
	RoleStudent     = "student"
	RoleLecturer    = "lecturer"
	RoleCoordinator = "coordinator"
	RoleAdmin       = "admin"
)

// ValidRole 判断角色字符串是否合法
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleLecturer, RoleCoordinator, RoleAdmin:
		return true
	}
	return false
}

// Account 各角色账号的公共字段（嵌入到具体表模型）
type Account struct {
	ID           uint      `gorm:"primaryKey"                          json:"id"`
	Name         string    `gorm:"type:varchar(100);not null"          json:"name"`
	Email        string    `gorm:"type:varchar(255);not null;unique"   json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"          json:"-"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"  json:"created_at"`
}
