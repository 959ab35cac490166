package model

import "time"

// 会议状态
const (
	MeetingPending   = "Pending"
	MeetingConfirmed = "Confirmed"
	MeetingRejected  = "Rejected"
	MeetingCancelled = "Cancelled"
)

// Meeting 会议表 — 对应 meetings
// 由学生发起，仅被指派的导师可确认/拒绝/删除
type Meeting struct {
	ID          uint      `gorm:"primaryKey"                                 json:"id"`
	StudentID   uint      `gorm:"not null"                                   json:"student_id"`
	LecturerID  uint      `gorm:"not null"                                   json:"lecturer_id"`
	GroupID     uint      `gorm:"not null"                                   json:"group_id"`
	MeetingDate time.Time `gorm:"type:date;not null"                         json:"meeting_date"`
	MeetingTime string    `gorm:"type:varchar(5);not null"                   json:"meeting_time"` // HH:MM
	Topic       string    `gorm:"type:varchar(255);not null"                 json:"topic"`
	Status      string    `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"         json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"         json:"updated_at"`

	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Group   *Group   `gorm:"foreignKey:GroupID"   json:"group,omitempty"`
}

// TableName 指定表名
func (Meeting) TableName() string { return "meetings" }

// StartAt 合并日期与时间；时间格式非法时返回当天零点
func (m *Meeting) StartAt(loc *time.Location) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", m.MeetingDate.Format("2006-01-02")+" "+m.MeetingTime, loc)
	if err != nil {
		y, mo, d := m.MeetingDate.Date()
		return time.Date(y, mo, d, 0, 0, 0, 0, loc)
	}
	return t
}
