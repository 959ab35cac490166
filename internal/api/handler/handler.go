package handler

import "fypcollabor8/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Semester     *SemesterHandler
	Group        *GroupHandler
	Project      *ProjectHandler
	Meeting      *MeetingHandler
	Submission   *SubmissionHandler
	Announcement *AnnouncementHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Semester:     NewSemesterHandler(svc.Semester),
		Group:        NewGroupHandler(svc.Group),
		Project:      NewProjectHandler(svc.Project),
		Meeting:      NewMeetingHandler(svc.Meeting),
		Submission:   NewSubmissionHandler(svc.Submission),
		Announcement: NewAnnouncementHandler(svc.Announcement),
		Export:       NewExportHandler(svc.Export),
	}
}
