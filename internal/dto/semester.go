package dto

// ── 学期模块 DTO ──

// CreateSemesterRequest 创建学期请求
type CreateSemesterRequest struct {
	SemesterName string `json:"semester_name" binding:"required,min=2,max=100"`
	StartDate    string `json:"start_date"    binding:"required,ymd"` // "2025-06-02"
	EndDate      string `json:"end_date"      binding:"required,ymd"`
}

// SemesterResponse 学期信息响应
type SemesterResponse struct {
	ID           uint   `json:"id"`
	SemesterName string `json:"semester_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	IsCurrent    bool   `json:"is_current"`
}
