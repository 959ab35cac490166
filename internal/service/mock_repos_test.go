package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"fypcollabor8/backend/config"
	"fypcollabor8/backend/internal/model"
	"fypcollabor8/backend/internal/repository"
	pkgerrors "fypcollabor8/backend/pkg/errors"
)

// ════════════════════════════════════════════
// memStore — 所有 mock repository 共享的内存数据
// ════════════════════════════════════════════

type memStore struct {
	nextID uint

	semesters     map[uint]*model.Semester
	students      map[uint]*model.Student
	lecturers     map[uint]*model.Lecturer
	coordinators  map[uint]*model.Coordinator
	admins        map[uint]*model.Admin
	groups        map[uint]*model.Group
	members       []model.GroupMember
	projects      map[uint]*model.Project
	meetings      map[uint]*model.Meeting
	deliverables  []model.Deliverable
	submissions   []model.DeliverableSubmission
	evaluations   []model.GroupEvaluation
	rubricScores  []model.GroupEvaluationRubricScore
	announcements map[uint]*model.Announcement

	calls []string         // 记录写操作顺序
	fail  map[string]error // 按方法名注入错误
}

func newMemStore() *memStore {
	return &memStore{
		nextID:        100,
		semesters:     make(map[uint]*model.Semester),
		students:      make(map[uint]*model.Student),
		lecturers:     make(map[uint]*model.Lecturer),
		coordinators:  make(map[uint]*model.Coordinator),
		admins:        make(map[uint]*model.Admin),
		groups:        make(map[uint]*model.Group),
		projects:      make(map[uint]*model.Project),
		meetings:      make(map[uint]*model.Meeting),
		announcements: make(map[uint]*model.Announcement),
		fail:          make(map[string]error),
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

// record 记录调用并返回注入的错误
func (s *memStore) record(name string) error {
	s.calls = append(s.calls, name)
	return s.fail[name]
}

// snapshot 深拷贝当前数据，calls 与 fail 不参与回滚
func (s *memStore) snapshot() *memStore {
	return &memStore{
		nextID:        s.nextID,
		semesters:     cloneMap(s.semesters),
		students:      cloneMap(s.students),
		lecturers:     cloneMap(s.lecturers),
		coordinators:  cloneMap(s.coordinators),
		admins:        cloneMap(s.admins),
		groups:        cloneMap(s.groups),
		members:       append([]model.GroupMember(nil), s.members...),
		projects:      cloneMap(s.projects),
		meetings:      cloneMap(s.meetings),
		deliverables:  append([]model.Deliverable(nil), s.deliverables...),
		submissions:   append([]model.DeliverableSubmission(nil), s.submissions...),
		evaluations:   append([]model.GroupEvaluation(nil), s.evaluations...),
		rubricScores:  append([]model.GroupEvaluationRubricScore(nil), s.rubricScores...),
		announcements: cloneMap(s.announcements),
	}
}

func (s *memStore) restore(snap *memStore) {
	calls, fail := s.calls, s.fail
	*s = *snap
	s.calls, s.fail = calls, fail
}

func cloneMap[T any](m map[uint]*T) map[uint]*T {
	out := make(map[uint]*T, len(m))
	for k, v := range m {
		cp := *v
		out[k] = &cp
	}
	return out
}

// newMockRepository 以 memStore 构建 Repository 聚合
// Transaction 在同一个 store 上执行，fn 出错时恢复到执行前的快照
func newMockRepository(store *memStore) *repository.Repository {
	repo := &repository.Repository{
		Semester:     &mockSemesterRepo{store},
		Student:      &mockStudentRepo{store},
		Lecturer:     &mockLecturerRepo{store},
		Coordinator:  &mockCoordinatorRepo{store},
		Admin:        &mockAdminRepo{store},
		Group:        &mockGroupRepo{store},
		Project:      &mockProjectRepo{store},
		Meeting:      &mockMeetingRepo{store},
		Submission:   &mockSubmissionRepo{store},
		Evaluation:   &mockEvaluationRepo{store},
		Announcement: &mockAnnouncementRepo{store},
	}
	repo.RunTx = func(_ context.Context, fn func(txRepo *repository.Repository) error) error {
		snap := store.snapshot()
		if err := fn(repo); err != nil {
			store.restore(snap)
			return err
		}
		return nil
	}
	return repo
}

func testConfig() *config.Config {
	return &config.Config{Group: config.GroupConfig{MaxMembers: 4}}
}

// ── 数据构造 ──

func (s *memStore) addStudent(name string) *model.Student {
	id := s.id()
	st := &model.Student{
		Account:  model.Account{ID: id, Name: name, Email: strings.ToLower(name) + "@uni.test"},
		MatricNo: "M" + name,
	}
	s.students[id] = st
	return st
}

func (s *memStore) addLecturer(name string, roleID int) *model.Lecturer {
	id := s.id()
	l := &model.Lecturer{
		Account: model.Account{ID: id, Name: name, Email: strings.ToLower(name) + "@uni.test"},
		RoleID:  roleID,
	}
	s.lecturers[id] = l
	return l
}

func (s *memStore) addCurrentSemester(start time.Time) *model.Semester {
	sem := &model.Semester{
		ID:           s.id(),
		SemesterName: "当前学期",
		StartDate:    start,
		EndDate:      start.AddDate(0, 4, 0),
		IsCurrent:    true,
	}
	s.semesters[sem.ID] = sem
	return sem
}

func (s *memStore) addGroup(name string, supervisorID *uint) *model.Group {
	g := &model.Group{
		ID:         s.id(),
		Name:       name,
		Status:     model.GroupStatusPending,
		LecturerID: supervisorID,
		CreatedAt:  time.Now(),
	}
	s.groups[g.ID] = g
	return g
}

func (s *memStore) addMember(groupID, studentID uint) {
	s.members = append(s.members, model.GroupMember{
		ID:        s.id(),
		GroupID:   groupID,
		StudentID: studentID,
		CreatedAt: time.Now(),
	})
	if g := s.groups[groupID]; g != nil && g.LeaderID == nil {
		sid := studentID
		g.LeaderID = &sid
	}
}

func (s *memStore) addProject(groupID uint, status model.ProjectStatus, title string) *model.Project {
	p := &model.Project{ID: s.id(), GroupID: groupID, Status: status, Title: title}
	s.projects[p.ID] = p
	return p
}

func (s *memStore) membersOf(groupID uint) []model.GroupMember {
	var result []model.GroupMember
	for _, m := range s.members {
		if m.GroupID == groupID {
			result = append(result, m)
		}
	}
	return result
}

func (s *memStore) projectOf(groupID uint) *model.Project {
	for _, p := range s.projects {
		if p.GroupID == groupID {
			return p
		}
	}
	return nil
}

// ── Mock SemesterRepository ──

type mockSemesterRepo struct{ s *memStore }

func (m *mockSemesterRepo) Create(_ context.Context, sem *model.Semester) error {
	sem.ID = m.s.id()
	m.s.semesters[sem.ID] = sem
	return nil
}

func (m *mockSemesterRepo) GetByID(_ context.Context, id uint) (*model.Semester, error) {
	if sem, ok := m.s.semesters[id]; ok {
		return sem, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) GetCurrent(_ context.Context) (*model.Semester, error) {
	for _, sem := range m.s.semesters {
		if sem.IsCurrent {
			return sem, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) List(_ context.Context) ([]model.Semester, error) {
	var result []model.Semester
	for _, sem := range m.s.semesters {
		result = append(result, *sem)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.After(result[j].StartDate) })
	return result, nil
}

func (m *mockSemesterRepo) SetCurrent(_ context.Context, id uint) error {
	if err := m.s.record("Semester.SetCurrent"); err != nil {
		return err
	}
	if sem, ok := m.s.semesters[id]; ok {
		sem.IsCurrent = true
	}
	return nil
}

func (m *mockSemesterRepo) ClearCurrent(_ context.Context) error {
	if err := m.s.record("Semester.ClearCurrent"); err != nil {
		return err
	}
	for _, sem := range m.s.semesters {
		sem.IsCurrent = false
	}
	return nil
}

// ── Mock 账号 Repository ──

type mockStudentRepo struct{ s *memStore }

func (m *mockStudentRepo) GetByID(_ context.Context, id uint) (*model.Student, error) {
	if st, ok := m.s.students[id]; ok {
		return st, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	for _, st := range m.s.students {
		if strings.EqualFold(st.Email, email) {
			return st, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) ListUnassigned(_ context.Context) ([]model.Student, error) {
	assigned := make(map[uint]bool)
	for _, gm := range m.s.members {
		assigned[gm.StudentID] = true
	}
	var result []model.Student
	for _, st := range m.s.students {
		if !assigned[st.ID] {
			result = append(result, *st)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type mockLecturerRepo struct{ s *memStore }

func (m *mockLecturerRepo) GetByID(_ context.Context, id uint) (*model.Lecturer, error) {
	if l, ok := m.s.lecturers[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLecturerRepo) GetByEmail(_ context.Context, email string) (*model.Lecturer, error) {
	for _, l := range m.s.lecturers {
		if strings.EqualFold(l.Email, email) {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLecturerRepo) List(_ context.Context, roleIDs []int) ([]model.Lecturer, error) {
	var result []model.Lecturer
	for _, l := range m.s.lecturers {
		if len(roleIDs) == 0 || containsInt(roleIDs, l.RoleID) {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type mockCoordinatorRepo struct{ s *memStore }

func (m *mockCoordinatorRepo) GetByID(_ context.Context, id uint) (*model.Coordinator, error) {
	if c, ok := m.s.coordinators[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCoordinatorRepo) GetByEmail(_ context.Context, email string) (*model.Coordinator, error) {
	for _, c := range m.s.coordinators {
		if strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type mockAdminRepo struct{ s *memStore }

func (m *mockAdminRepo) GetByID(_ context.Context, id uint) (*model.Admin, error) {
	if a, ok := m.s.admins[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminRepo) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	for _, a := range m.s.admins {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock GroupRepository ──

type mockGroupRepo struct{ s *memStore }

func (m *mockGroupRepo) Create(_ context.Context, g *model.Group) error {
	if err := m.s.record("Group.Create"); err != nil {
		return err
	}
	for _, existing := range m.s.groups {
		if existing.Name == g.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	g.ID = m.s.id()
	g.CreatedAt = time.Now()
	cp := *g
	m.s.groups[g.ID] = &cp
	return nil
}

func (m *mockGroupRepo) GetByID(_ context.Context, id uint) (*model.Group, error) {
	if err := m.s.fail["Group.GetByID"]; err != nil {
		return nil, err
	}
	if g, ok := m.s.groups[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) GetDetail(_ context.Context, id uint) (*model.Group, error) {
	g, ok := m.s.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.detail(g), nil
}

func (m *mockGroupRepo) detail(g *model.Group) *model.Group {
	cp := *g
	if g.LecturerID != nil {
		cp.Supervisor = m.s.lecturers[*g.LecturerID]
	}
	if g.AssessorID != nil {
		cp.Assessor = m.s.lecturers[*g.AssessorID]
	}
	cp.Members = nil
	for _, gm := range m.s.membersOf(g.ID) {
		gm.Student = m.s.students[gm.StudentID]
		cp.Members = append(cp.Members, gm)
	}
	if p := m.s.projectOf(g.ID); p != nil {
		pc := *p
		cp.Project = &pc
	}
	return &cp
}

func (m *mockGroupRepo) LockByID(ctx context.Context, id uint) (*model.Group, error) {
	m.s.calls = append(m.s.calls, "Group.LockByID")
	return m.GetByID(ctx, id)
}

func (m *mockGroupRepo) sorted(filter func(*model.Group) bool) []model.Group {
	var result []model.Group
	for _, g := range m.s.groups {
		if filter(g) {
			result = append(result, *m.detail(g))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func (m *mockGroupRepo) List(_ context.Context, f repository.GroupListFilter, offset, limit int) ([]model.Group, int64, error) {
	all := m.sorted(func(g *model.Group) bool {
		return (f.Status == "" || g.Status == f.Status) &&
			(f.Name == "" || strings.Contains(strings.ToLower(g.Name), strings.ToLower(f.Name)))
	})
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Group{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockGroupRepo) ListAll(_ context.Context) ([]model.Group, error) {
	return m.sorted(func(*model.Group) bool { return true }), nil
}

func (m *mockGroupRepo) ListBySupervisor(_ context.Context, lecturerID uint) ([]model.Group, error) {
	return m.sorted(func(g *model.Group) bool { return g.LecturerID != nil && *g.LecturerID == lecturerID }), nil
}

func (m *mockGroupRepo) ListByAssessor(_ context.Context, lecturerID uint) ([]model.Group, error) {
	return m.sorted(func(g *model.Group) bool { return g.AssessorID != nil && *g.AssessorID == lecturerID }), nil
}

func (m *mockGroupRepo) UpdateStatus(_ context.Context, id uint, status string) error {
	if err := m.s.record("Group.UpdateStatus"); err != nil {
		return err
	}
	g, ok := m.s.groups[id]
	if !ok {
		return pkgerrors.ErrNoRowsAffected
	}
	g.Status = status
	return nil
}

func (m *mockGroupRepo) UpdateLecturer(_ context.Context, id uint, column string, lecturerID uint) error {
	if err := m.s.record("Group.UpdateLecturer"); err != nil {
		return err
	}
	g, ok := m.s.groups[id]
	if !ok {
		return pkgerrors.ErrNoRowsAffected
	}
	lid := lecturerID
	switch column {
	case repository.ColumnSupervisor:
		g.LecturerID = &lid
	case repository.ColumnAssessor:
		g.AssessorID = &lid
	default:
		return gorm.ErrInvalidField
	}
	return nil
}

func (m *mockGroupRepo) UpdateLeader(_ context.Context, id uint, leaderID *uint) error {
	if err := m.s.record("Group.UpdateLeader"); err != nil {
		return err
	}
	g, ok := m.s.groups[id]
	if !ok {
		return pkgerrors.ErrNoRowsAffected
	}
	if leaderID == nil {
		g.LeaderID = nil
	} else {
		lid := *leaderID
		g.LeaderID = &lid
	}
	return nil
}

func (m *mockGroupRepo) Delete(_ context.Context, id uint) error {
	if err := m.s.record("groups"); err != nil {
		return err
	}
	if _, ok := m.s.groups[id]; !ok {
		return pkgerrors.ErrNoRowsAffected
	}
	delete(m.s.groups, id)
	return nil
}

func (m *mockGroupRepo) LockNamePrefix(_ context.Context, _ string) error {
	return m.s.record("Group.LockNamePrefix")
}

func (m *mockGroupRepo) ListNamesWithPrefix(_ context.Context, prefix string) ([]string, error) {
	var names []string
	for _, g := range m.s.groups {
		if strings.HasPrefix(g.Name, prefix) {
			names = append(names, g.Name)
		}
	}
	return names, nil
}

// AddMember 与 SQL 条件插入语义一致：组未满且学生未入组时插入
func (m *mockGroupRepo) AddMember(_ context.Context, groupID, studentID uint, maxMembers int) (bool, error) {
	if err := m.s.record("Group.AddMember"); err != nil {
		return false, err
	}
	for _, gm := range m.s.members {
		if gm.StudentID == studentID {
			return false, nil
		}
	}
	if len(m.s.membersOf(groupID)) >= maxMembers {
		return false, nil
	}
	m.s.members = append(m.s.members, model.GroupMember{
		ID:        m.s.id(),
		GroupID:   groupID,
		StudentID: studentID,
		CreatedAt: time.Now(),
	})
	return true, nil
}

func (m *mockGroupRepo) GetMembershipByStudent(_ context.Context, studentID uint) (*model.GroupMember, error) {
	for _, gm := range m.s.members {
		if gm.StudentID == studentID {
			cp := gm
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) ListMembers(_ context.Context, groupID uint) ([]model.GroupMember, error) {
	return m.s.membersOf(groupID), nil
}

func (m *mockGroupRepo) RemoveMember(_ context.Context, groupID, studentID uint) error {
	if err := m.s.record("Group.RemoveMember"); err != nil {
		return err
	}
	for i, gm := range m.s.members {
		if gm.GroupID == groupID && gm.StudentID == studentID {
			m.s.members = append(m.s.members[:i], m.s.members[i+1:]...)
			return nil
		}
	}
	return pkgerrors.ErrNoRowsAffected
}

func (m *mockGroupRepo) DeleteMembers(_ context.Context, groupID uint) error {
	if err := m.s.record("group_members"); err != nil {
		return err
	}
	kept := m.s.members[:0]
	for _, gm := range m.s.members {
		if gm.GroupID != groupID {
			kept = append(kept, gm)
		}
	}
	m.s.members = kept
	return nil
}

// ── Mock ProjectRepository ──

type mockProjectRepo struct{ s *memStore }

func (m *mockProjectRepo) EnsureForGroup(_ context.Context, groupID uint) (*model.Project, error) {
	if err := m.s.record("Project.EnsureForGroup"); err != nil {
		return nil, err
	}
	p := m.s.projectOf(groupID)
	if p == nil {
		p = &model.Project{
			ID:          m.s.id(),
			GroupID:     groupID,
			Description: model.DefaultProjectDescription,
			Status:      model.ProjectNoTitle,
		}
		m.s.projects[p.ID] = p
	}
	cp := *p
	return &cp, nil
}

func (m *mockProjectRepo) GetByID(_ context.Context, id uint) (*model.Project, error) {
	if p, ok := m.s.projects[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProjectRepo) GetByGroupID(_ context.Context, groupID uint) (*model.Project, error) {
	if p := m.s.projectOf(groupID); p != nil {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProjectRepo) LockByID(ctx context.Context, id uint) (*model.Project, error) {
	return m.GetByID(ctx, id)
}

func (m *mockProjectRepo) Save(_ context.Context, p *model.Project) error {
	if err := m.s.record("Project.Save"); err != nil {
		return err
	}
	cp := *p
	m.s.projects[p.ID] = &cp
	return nil
}

func (m *mockProjectRepo) ListPendingBySupervisor(_ context.Context, lecturerID uint) ([]model.Project, error) {
	var result []model.Project
	for _, p := range m.s.projects {
		g, ok := m.s.groups[p.GroupID]
		if !ok || g.LecturerID == nil || *g.LecturerID != lecturerID {
			continue
		}
		if p.Status == model.ProjectAwaitingReview || p.HasPendingChange() {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockProjectRepo) DeleteByGroup(_ context.Context, groupID uint) error {
	if err := m.s.record("projects"); err != nil {
		return err
	}
	for id, p := range m.s.projects {
		if p.GroupID == groupID {
			delete(m.s.projects, id)
		}
	}
	return nil
}

// ── Mock MeetingRepository ──

type mockMeetingRepo struct{ s *memStore }

func (m *mockMeetingRepo) Create(_ context.Context, meeting *model.Meeting) error {
	meeting.ID = m.s.id()
	cp := *meeting
	m.s.meetings[meeting.ID] = &cp
	return nil
}

func (m *mockMeetingRepo) GetByID(_ context.Context, id uint) (*model.Meeting, error) {
	if mt, ok := m.s.meetings[id]; ok {
		cp := *mt
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMeetingRepo) UpdateStatusForLecturer(_ context.Context, id, lecturerID uint, from []string, to string) error {
	mt, ok := m.s.meetings[id]
	if !ok || mt.LecturerID != lecturerID || !containsString(from, mt.Status) {
		return pkgerrors.ErrNoRowsAffected
	}
	mt.Status = to
	return nil
}

func (m *mockMeetingRepo) UpdateStatusForGroup(_ context.Context, id, groupID uint, from []string, to string) error {
	mt, ok := m.s.meetings[id]
	if !ok || mt.GroupID != groupID || !containsString(from, mt.Status) {
		return pkgerrors.ErrNoRowsAffected
	}
	mt.Status = to
	return nil
}

func (m *mockMeetingRepo) DeleteForLecturer(_ context.Context, id, lecturerID uint) error {
	mt, ok := m.s.meetings[id]
	if !ok || mt.LecturerID != lecturerID {
		return pkgerrors.ErrNoRowsAffected
	}
	delete(m.s.meetings, id)
	return nil
}

func (m *mockMeetingRepo) list(filter func(*model.Meeting) bool, status string) []model.Meeting {
	var result []model.Meeting
	for _, mt := range m.s.meetings {
		if filter(mt) && (status == "" || mt.Status == status) {
			cp := *mt
			cp.Student = m.s.students[mt.StudentID]
			if g, ok := m.s.groups[mt.GroupID]; ok {
				gc := *g
				cp.Group = &gc
			}
			result = append(result, cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (m *mockMeetingRepo) ListByLecturer(_ context.Context, lecturerID uint, status string) ([]model.Meeting, error) {
	return m.list(func(mt *model.Meeting) bool { return mt.LecturerID == lecturerID }, status), nil
}

func (m *mockMeetingRepo) ListByGroup(_ context.Context, groupID uint, status string) ([]model.Meeting, error) {
	return m.list(func(mt *model.Meeting) bool { return mt.GroupID == groupID }, status), nil
}

func (m *mockMeetingRepo) CountPendingByLecturer(_ context.Context, lecturerID uint) (map[uint]int64, error) {
	counts := make(map[uint]int64)
	for _, mt := range m.s.meetings {
		if mt.LecturerID == lecturerID && mt.Status == model.MeetingPending {
			counts[mt.GroupID]++
		}
	}
	return counts, nil
}

func (m *mockMeetingRepo) DeleteByGroup(_ context.Context, groupID uint) error {
	if err := m.s.record("meetings"); err != nil {
		return err
	}
	for id, mt := range m.s.meetings {
		if mt.GroupID == groupID {
			delete(m.s.meetings, id)
		}
	}
	return nil
}

// ── Mock SubmissionRepository ──

type mockSubmissionRepo struct{ s *memStore }

func (m *mockSubmissionRepo) deliverable(id uint) *model.Deliverable {
	for i := range m.s.deliverables {
		if m.s.deliverables[i].ID == id {
			d := m.s.deliverables[i]
			return &d
		}
	}
	return nil
}

func (m *mockSubmissionRepo) ListDeliverables(_ context.Context, semesterID uint) ([]model.Deliverable, error) {
	var result []model.Deliverable
	for _, d := range m.s.deliverables {
		if semesterID == 0 || d.SemesterID == semesterID {
			result = append(result, d)
		}
	}
	return result, nil
}

func (m *mockSubmissionRepo) ListByGroup(_ context.Context, groupID uint) ([]model.DeliverableSubmission, error) {
	var result []model.DeliverableSubmission
	for _, sub := range m.s.submissions {
		if sub.GroupID == groupID {
			sub.Deliverable = m.deliverable(sub.DeliverableID)
			result = append(result, sub)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SubmittedAt.After(result[j].SubmittedAt) })
	return result, nil
}

func (m *mockSubmissionRepo) List(_ context.Context, f repository.SubmissionListFilter, offset, limit int) ([]model.DeliverableSubmission, int64, error) {
	var result []model.DeliverableSubmission
	for _, sub := range m.s.submissions {
		if f.DeliverableID > 0 && sub.DeliverableID != f.DeliverableID {
			continue
		}
		if f.GroupID > 0 && sub.GroupID != f.GroupID {
			continue
		}
		if f.GroupIDs != nil && !containsUint(f.GroupIDs, sub.GroupID) {
			continue
		}
		sub.Deliverable = m.deliverable(sub.DeliverableID)
		if g, ok := m.s.groups[sub.GroupID]; ok {
			gc := *g
			sub.Group = &gc
		}
		result = append(result, sub)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SubmittedAt.After(result[j].SubmittedAt) })
	total := int64(len(result))
	if limit > 0 {
		if offset >= len(result) {
			return []model.DeliverableSubmission{}, total, nil
		}
		end := offset + limit
		if end > len(result) {
			end = len(result)
		}
		result = result[offset:end]
	}
	return result, total, nil
}

func (m *mockSubmissionRepo) CountDeliverablesByGroups(_ context.Context, groupIDs []uint) (map[uint]int64, error) {
	seen := make(map[[2]uint]bool)
	counts := make(map[uint]int64)
	for _, sub := range m.s.submissions {
		key := [2]uint{sub.GroupID, sub.DeliverableID}
		if containsUint(groupIDs, sub.GroupID) && !seen[key] {
			seen[key] = true
			counts[sub.GroupID]++
		}
	}
	return counts, nil
}

func (m *mockSubmissionRepo) DeleteByGroup(_ context.Context, groupID uint) error {
	if err := m.s.record("deliverable_submissions"); err != nil {
		return err
	}
	kept := m.s.submissions[:0]
	for _, sub := range m.s.submissions {
		if sub.GroupID != groupID {
			kept = append(kept, sub)
		}
	}
	m.s.submissions = kept
	return nil
}

// ── Mock EvaluationRepository ──

type mockEvaluationRepo struct{ s *memStore }

func (m *mockEvaluationRepo) DeleteRubricScoresByGroup(_ context.Context, groupID uint) error {
	if err := m.s.record("group_evaluation_rubric_scores"); err != nil {
		return err
	}
	evalIDs := make(map[uint]bool)
	for _, e := range m.s.evaluations {
		if e.GroupID == groupID {
			evalIDs[e.ID] = true
		}
	}
	kept := m.s.rubricScores[:0]
	for _, r := range m.s.rubricScores {
		if !evalIDs[r.EvaluationID] {
			kept = append(kept, r)
		}
	}
	m.s.rubricScores = kept
	return nil
}

func (m *mockEvaluationRepo) DeleteByGroup(_ context.Context, groupID uint) error {
	if err := m.s.record("group_evaluations"); err != nil {
		return err
	}
	kept := m.s.evaluations[:0]
	for _, e := range m.s.evaluations {
		if e.GroupID != groupID {
			kept = append(kept, e)
		}
	}
	m.s.evaluations = kept
	return nil
}

// ── Mock AnnouncementRepository ──

type mockAnnouncementRepo struct{ s *memStore }

func (m *mockAnnouncementRepo) Create(_ context.Context, a *model.Announcement) error {
	a.ID = m.s.id()
	a.CreatedAt = time.Now()
	cp := *a
	m.s.announcements[a.ID] = &cp
	return nil
}

func (m *mockAnnouncementRepo) GetByID(_ context.Context, id uint) (*model.Announcement, error) {
	if a, ok := m.s.announcements[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAnnouncementRepo) List(_ context.Context, offset, limit int) ([]model.Announcement, int64, error) {
	var result []model.Announcement
	for _, a := range m.s.announcements {
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	total := int64(len(result))
	if offset >= len(result) {
		return []model.Announcement{}, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockAnnouncementRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.s.announcements[id]; !ok {
		return pkgerrors.ErrNoRowsAffected
	}
	delete(m.s.announcements, id)
	return nil
}

// ── 辅助 ──

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}

func containsUint(list []uint, v uint) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}

func uintPtr(v uint) *uint { return &v }
