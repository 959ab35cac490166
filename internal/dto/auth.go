package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Role     string `json:"role"     binding:"required,oneof=student lecturer coordinator admin"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// TokenResponse 登录成功响应
type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	ExpiresIn   int        `json:"expires_in"` // 秒
	User        MeResponse `json:"user"`
}

// MeResponse 当前登录用户信息
type MeResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	MatricNo     string `json:"matric_no,omitempty"`
	IsSupervisor bool   `json:"is_supervisor,omitempty"`
	IsAssessor   bool   `json:"is_assessor,omitempty"`
	GroupID      *uint  `json:"group_id,omitempty"`
}
