package dto

// ── 分组模块 DTO ──

// CreateGroupRequest 创建小组请求；lecturer_id 为可选的初始导师
type CreateGroupRequest struct {
	LecturerID *uint `json:"lecturer_id" binding:"omitempty,min=1"`
}

// AssignStudentRequest 分配学生请求
type AssignStudentRequest struct {
	StudentID uint `json:"student_id" binding:"required,min=1"`
}

// SetLeaderRequest 指定组长请求
type SetLeaderRequest struct {
	StudentID uint `json:"student_id" binding:"required,min=1"`
}

// AssignLecturerRequest 指派导师/评审请求
type AssignLecturerRequest struct {
	LecturerID uint `json:"lecturer_id" binding:"required,min=1"`
}

// ReviewGroupRequest 导师审核小组请求
type ReviewGroupRequest struct {
	Action string `json:"action" binding:"required,oneof=approve_group reject_group"`
}

// GroupListRequest 小组列表筛选
type GroupListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=Pending Approved"`
	Name   string `form:"name"   binding:"omitempty,max=50"`
}

// GroupResponse 小组信息响应
type GroupResponse struct {
	ID            uint             `json:"id"`
	Name          string           `json:"name"`
	Status        string           `json:"status"`
	CoordinatorID uint             `json:"coordinator_id"`
	Supervisor    *PersonRef       `json:"supervisor,omitempty"`
	Assessor      *PersonRef       `json:"assessor,omitempty"`
	LeaderID      *uint            `json:"leader_id,omitempty"`
	Members       []MemberResponse `json:"members"`
	Project       *ProjectResponse `json:"project,omitempty"`
	CreatedAt     string           `json:"created_at"`
}

// MemberResponse 组员信息
type MemberResponse struct {
	StudentID uint   `json:"student_id"`
	Name      string `json:"name"`
	MatricNo  string `json:"matric_no"`
	IsLeader  bool   `json:"is_leader"`
}

// MyGroupsResponse 讲师名下小组（按身份区分）
type MyGroupsResponse struct {
	Supervised []GroupResponse `json:"supervised"`
	Assessed   []GroupResponse `json:"assessed"`
}

// StudentResponse 学生简要信息
type StudentResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	MatricNo string `json:"matric_no"`
}
