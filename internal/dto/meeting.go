package dto

// ── 会议模块 DTO ──

// CreateMeetingRequest 学生发起会议请求
type CreateMeetingRequest struct {
	Date  string `json:"date"  binding:"required,ymd"`  // 2025-06-12
	Time  string `json:"time"  binding:"required,hhmm"` // 14:30
	Topic string `json:"topic" binding:"required,min=2,max=255"`
}

// MeetingListRequest 会议列表筛选
type MeetingListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=Pending Confirmed Rejected Cancelled"`
}

// MeetingResponse 会议信息响应
type MeetingResponse struct {
	ID         uint   `json:"id"`
	GroupID    uint   `json:"group_id"`
	GroupName  string `json:"group_name,omitempty"`
	StudentID  uint   `json:"student_id"`
	Student    string `json:"student,omitempty"`
	LecturerID uint   `json:"lecturer_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Topic      string `json:"topic"`
	Status     string `json:"status"`
}
