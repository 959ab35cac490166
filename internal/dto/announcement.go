package dto

// CreateAnnouncementRequest 发布公告请求
type CreateAnnouncementRequest struct {
	Title   string `json:"title"   binding:"required,min=2,max=200"`
	Content string `json:"content" binding:"required,min=1,max=10000"`
}

// AnnouncementResponse 公告信息
type AnnouncementResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Coordinator string `json:"coordinator,omitempty"`
	CreatedAt   string `json:"created_at"`
}
