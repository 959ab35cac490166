package dto

// LecturerListRequest 讲师列表筛选
type LecturerListRequest struct {
	Role string `form:"role" binding:"omitempty,oneof=supervisor assessor"`
}

// LecturerResponse 讲师信息
type LecturerResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	RoleID       int    `json:"role_id"`
	IsSupervisor bool   `json:"is_supervisor"`
	IsAssessor   bool   `json:"is_assessor"`
}
