package dto

// ── 提交物查看模块 DTO ──

// DeliverableListRequest 交付物列表筛选；未指定学期时取当前学期
type DeliverableListRequest struct {
	SemesterID uint `form:"semester_id" binding:"omitempty,min=1"`
}

// SubmissionListRequest 提交记录筛选
type SubmissionListRequest struct {
	PaginationRequest
	DeliverableID uint `form:"deliverable_id" binding:"omitempty,min=1"`
	GroupID       uint `form:"group_id"       binding:"omitempty,min=1"`
}

// DeliverableResponse 交付物信息
type DeliverableResponse struct {
	ID         uint   `json:"id"`
	SemesterID uint   `json:"semester_id"`
	Name       string `json:"name"`
	Scope      string `json:"scope"`
	DueDate    string `json:"due_date,omitempty"`
}

// SubmissionResponse 提交记录
type SubmissionResponse struct {
	ID            uint   `json:"id"`
	DeliverableID uint   `json:"deliverable_id"`
	Deliverable   string `json:"deliverable"`
	GroupID       uint   `json:"group_id"`
	GroupName     string `json:"group_name"`
	StudentID     *uint  `json:"student_id,omitempty"`
	StudentName   string `json:"student_name,omitempty"`
	FilePath      string `json:"file_path"`
	SubmittedAt   string `json:"submitted_at"`
	Late          bool   `json:"late"`
}

// GroupDeliverableStatus 某小组在某交付物上的提交情况
type GroupDeliverableStatus struct {
	Deliverable DeliverableResponse `json:"deliverable"`
	Submitted   bool                `json:"submitted"`
	Submission  *SubmissionResponse `json:"submission,omitempty"`
}

// LecturerDashboardItem 讲师仪表盘中单个小组的汇总
type LecturerDashboardItem struct {
	GroupID         uint   `json:"group_id"`
	GroupName       string `json:"group_name"`
	Relation        string `json:"relation"` // supervisor | assessor
	Submitted       int    `json:"submitted"`
	Total           int    `json:"total"`
	PendingMeetings int64  `json:"pending_meetings"`
	ProjectStatus   string `json:"project_status"`
}
