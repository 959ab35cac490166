package service

import (
	"time"

	"fypcollabor8/backend/internal/dto"
	"fypcollabor8/backend/internal/model"
	"fypcollabor8/backend/pkg/validate"
)

// canViewGroup 协调员/管理员、组内学生、该组导师与评审可查看
func canViewGroup(identity dto.Identity, group *model.Group) bool {
	switch identity.Role {
	case model.RoleCoordinator, model.RoleAdmin:
		return true
	case model.RoleLecturer:
		return (group.LecturerID != nil && *group.LecturerID == identity.UserID) ||
			(group.AssessorID != nil && *group.AssessorID == identity.UserID)
	case model.RoleStudent:
		for _, m := range group.Members {
			if m.StudentID == identity.UserID {
				return true
			}
		}
	}
	return false
}

func toGroupResponses(groups []model.Group) []dto.GroupResponse {
	result := make([]dto.GroupResponse, 0, len(groups))
	for i := range groups {
		result = append(result, *toGroupResponse(&groups[i]))
	}
	return result
}

func toGroupResponse(group *model.Group) *dto.GroupResponse {
	resp := &dto.GroupResponse{
		ID:            group.ID,
		Name:          group.Name,
		Status:        group.Status,
		CoordinatorID: group.CoordinatorID,
		LeaderID:      group.LeaderID,
		Members:       make([]dto.MemberResponse, 0, len(group.Members)),
		CreatedAt:     group.CreatedAt.Format(time.RFC3339),
	}
	if group.Supervisor != nil {
		resp.Supervisor = lecturerRef(group.Supervisor)
	}
	if group.Assessor != nil {
		resp.Assessor = lecturerRef(group.Assessor)
	}
	for _, m := range group.Members {
		mr := dto.MemberResponse{
			StudentID: m.StudentID,
			IsLeader:  group.LeaderID != nil && *group.LeaderID == m.StudentID,
		}
		if m.Student != nil {
			mr.Name = m.Student.Name
			mr.MatricNo = m.Student.MatricNo
		}
		resp.Members = append(resp.Members, mr)
	}
	if group.Project != nil {
		resp.Project = toProjectResponse(group.Project, "")
	}
	return resp
}

func lecturerRef(l *model.Lecturer) *dto.PersonRef {
	return &dto.PersonRef{ID: l.ID, Name: l.Name, Email: l.Email}
}

func toProjectResponse(p *model.Project, groupName string) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:                 p.ID,
		GroupID:            p.GroupID,
		GroupName:          groupName,
		Title:              p.Title,
		Description:        p.Description,
		Status:             string(p.Status),
		PendingTitle:       p.PendingTitle,
		PendingDescription: p.PendingDescription,
		UpdatedAt:          p.UpdatedAt.Format(time.RFC3339),
	}
}

func toMeetingResponse(m *model.Meeting) dto.MeetingResponse {
	resp := dto.MeetingResponse{
		ID:         m.ID,
		GroupID:    m.GroupID,
		StudentID:  m.StudentID,
		LecturerID: m.LecturerID,
		Date:       m.MeetingDate.Format(validate.DateLayout),
		Time:       m.MeetingTime,
		Topic:      m.Topic,
		Status:     m.Status,
	}
	if m.Group != nil {
		resp.GroupName = m.Group.Name
	}
	if m.Student != nil {
		resp.Student = m.Student.Name
	}
	return resp
}

func toDeliverableResponse(d *model.Deliverable) dto.DeliverableResponse {
	resp := dto.DeliverableResponse{
		ID:         d.ID,
		SemesterID: d.SemesterID,
		Name:       d.Name,
		Scope:      d.Scope,
	}
	if d.DueDate != nil {
		resp.DueDate = d.DueDate.Format(time.RFC3339)
	}
	return resp
}

func toSubmissionResponse(sub *model.DeliverableSubmission) dto.SubmissionResponse {
	resp := dto.SubmissionResponse{
		ID:            sub.ID,
		DeliverableID: sub.DeliverableID,
		GroupID:       sub.GroupID,
		StudentID:     sub.StudentID,
		FilePath:      sub.FilePath,
		SubmittedAt:   sub.SubmittedAt.Format(time.RFC3339),
	}
	if sub.Deliverable != nil {
		resp.Deliverable = sub.Deliverable.Name
		resp.Late = sub.Deliverable.DueDate != nil && sub.SubmittedAt.After(*sub.Deliverable.DueDate)
	}
	if sub.Group != nil {
		resp.GroupName = sub.Group.Name
	}
	if sub.Student != nil {
		resp.StudentName = sub.Student.Name
	}
	return resp
}
