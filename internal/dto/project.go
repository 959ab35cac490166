package dto

// ── 题目审核模块 DTO ──

// 审核动作
const (
	ActionApproveInitial = "approve_initial"
	ActionRejectInitial  = "reject_initial"
	ActionApproveChange  = "approve_change"
	ActionRejectChange   = "reject_change"
)

// ProposeTitleRequest 学生提交/变更题目请求
type ProposeTitleRequest struct {
	Title       string `json:"title"       binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"max=5000"`
}

// ReviewTitleRequest 导师审核题目请求
type ReviewTitleRequest struct {
	Action string `json:"action" binding:"required"`
}

// ProjectResponse 项目信息响应
type ProjectResponse struct {
	ID                 uint    `json:"id"`
	GroupID            uint    `json:"group_id"`
	GroupName          string  `json:"group_name,omitempty"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Status             string  `json:"status"`
	PendingTitle       *string `json:"pending_title,omitempty"`
	PendingDescription *string `json:"pending_description,omitempty"`
	UpdatedAt          string  `json:"updated_at"`
}
