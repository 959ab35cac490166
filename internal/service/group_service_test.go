package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"fypcollabor8/backend/internal/dto"
	"fypcollabor8/backend/internal/model"
	"fypcollabor8/backend/pkg/events"
)

// ── 测试辅助 ──

type recordingPublisher struct {
	published []events.Event
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.published = append(p.published, evt)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	var result []string
	for _, e := range p.published {
		result = append(result, e.Type)
	}
	return result
}

func setupTestGroupService() (GroupService, *memStore, *recordingPublisher) {
	store := newMemStore()
	pub := &recordingPublisher{}
	svc := NewGroupService(testConfig(), newMockRepository(store), pub, zap.NewNop())
	return svc, store, pub
}

var (
	coordinator = dto.Identity{UserID: 1, Role: model.RoleCoordinator}
	june2025    = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
)

// ── Create 测试 ──

func TestGroupService_Create_NamesSequentially(t *testing.T) {
	svc, store, pub := setupTestGroupService()
	store.addCurrentSemester(june2025)

	for i, want := range []string{"2025June001", "2025June002", "2025June003"} {
		g, err := svc.Create(context.Background(), coordinator, &dto.CreateGroupRequest{})
		if err != nil {
			t.Fatalf("第 %d 次 Create 应成功: %v", i+1, err)
		}
		if g.Name != want {
			t.Errorf("期望组名=%s，实际=%s", want, g.Name)
		}
		if g.Status != model.GroupStatusPending {
			t.Errorf("新建小组应为 Pending，实际=%s", g.Status)
		}
		if g.CoordinatorID != coordinator.UserID {
			t.Errorf("期望 coordinator_id=%d，实际=%d", coordinator.UserID, g.CoordinatorID)
		}
		if g.Project == nil || g.Project.Status != string(model.ProjectNoTitle) {
			t.Errorf("新建小组应带 no_title 项目，实际=%+v", g.Project)
		}
	}

	if len(pub.published) != 3 || pub.published[0].Type != events.TypeGroupCreated {
		t.Errorf("期望发布 3 条 group.created，实际=%v", pub.types())
	}
}

func TestGroupService_Create_SkipsGapAfterDeletion(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	store.addCurrentSemester(june2025)
	store.addGroup("2025June001", nil)
	store.addGroup("2025June003", nil)

	g, err := svc.Create(context.Background(), coordinator, &dto.CreateGroupRequest{})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if g.Name != "2025June004" {
		t.Errorf("期望组名=2025June004，实际=%s", g.Name)
	}
}

func TestGroupService_Create_NoActiveSemester(t *testing.T) {
	svc, store, _ := setupTestGroupService()

	_, err := svc.Create(context.Background(), coordinator, &dto.CreateGroupRequest{})
	if !errors.Is(err, ErrNoActiveSemester) {
		t.Errorf("期望 ErrNoActiveSemester，实际: %v", err)
	}
	if len(store.groups) != 0 {
		t.Error("无当前学期时不应创建小组")
	}
}

func TestGroupService_Create_WithSupervisor(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	store.addCurrentSemester(june2025)
	sup := store.addLecturer("Lee", model.LecturerRoleSupervisor)

	g, err := svc.Create(context.Background(), coordinator, &dto.CreateGroupRequest{LecturerID: &sup.ID})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if g.Supervisor == nil || g.Supervisor.ID != sup.ID {
		t.Errorf("期望导师=%d，实际=%+v", sup.ID, g.Supervisor)
	}
}

func TestGroupService_Create_LecturerNotSupervisor(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	store.addCurrentSemester(june2025)
	plain := store.addLecturer("Plain", model.LecturerRoleAssessor)

	_, err := svc.Create(context.Background(), coordinator, &dto.CreateGroupRequest{LecturerID: &plain.ID})
	if !errors.Is(err, ErrLecturerRoleMismatch) {
		t.Errorf("期望 ErrLecturerRoleMismatch，实际: %v", err)
	}
}

// ── AssignStudent 测试 ──

func TestGroupService_AssignStudent_FirstMemberBecomesLeader(t *testing.T) {
	svc, store, pub := setupTestGroupService()
	g := store.addGroup("2025June001", nil)
	a := store.addStudent("Alice")
	b := store.addStudent("Bob")

	if _, err := svc.AssignStudent(context.Background(), coordinator, g.ID, a.ID); err != nil {
		t.Fatalf("AssignStudent 应成功: %v", err)
	}
	resp, err := svc.AssignStudent(context.Background(), coordinator, g.ID, b.ID)
	if err != nil {
		t.Fatalf("AssignStudent 应成功: %v", err)
	}

	if resp.LeaderID == nil || *resp.LeaderID != a.ID {
		t.Errorf("期望组长=%d，实际=%v", a.ID, resp.LeaderID)
	}
	if len(resp.Members) != 2 {
		t.Errorf("期望 2 名组员，实际=%d", len(resp.Members))
	}
	if store.projectOf(g.ID) == nil {
		t.Error("分配学生后应存在项目记录")
	}
	if len(pub.published) != 2 || pub.published[1].Type != events.TypeGroupMemberAssigned {
		t.Errorf("期望发布 group.member_assigned，实际=%v", pub.types())
	}
}

func TestGroupService_AssignStudent_AlreadyAssigned(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	g1 := store.addGroup("2025June001", nil)
	g2 := store.addGroup("2025June002", nil)
	a := store.addStudent("Alice")
	store.addMember(g1.ID, a.ID)

	_, err := svc.AssignStudent(context.Background(), coordinator, g2.ID, a.ID)
	if !errors.Is(err, ErrStudentAlreadyAssigned) {
		t.Errorf("期望 ErrStudentAlreadyAssigned，实际: %v", err)
	}
	if len(store.membersOf(g2.ID)) != 0 {
		t.Error("已分组学生不应加入第二个小组")
	}
}

func TestGroupService_AssignStudent_GroupFull(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	g := store.addGroup("2025June001", nil)
	for _, name := range []string{"A", "B", "C", "D"} {
		store.addMember(g.ID, store.addStudent(name).ID)
	}
	e := store.addStudent("E")

	_, err := svc.AssignStudent(context.Background(), coordinator, g.ID, e.ID)
	if !errors.Is(err, ErrGroupFull) {
		t.Errorf("期望 ErrGroupFull，实际: %v", err)
	}
	if n := len(store.membersOf(g.ID)); n != 4 {
		t.Errorf("组员数应保持 4，实际=%d", n)
	}
}

func TestGroupService_AssignStudent_NotFound(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	g := store.addGroup("2025June001", nil)
	a := store.addStudent("Alice")

	if _, err := svc.AssignStudent(context.Background(), coordinator, 9999, a.ID); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("期望 ErrGroupNotFound，实际: %v", err)
	}
	if _, err := svc.AssignStudent(context.Background(), coordinator, g.ID, 9999); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际: %v", err)
	}
}

// ── SetLeader / RemoveStudent 测试 ──

func TestGroupService_SetLeader(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	g := store.addGroup("2025June001", nil)
	a, b := store.addStudent("Alice"), store.addStudent("Bob")
	outsider := store.addStudent("Carol")
	store.addMember(g.ID, a.ID)
	store.addMember(g.ID, b.ID)

	// 非组长学生不能更换组长
	bob := dto.Identity{UserID: b.ID, Role: model.RoleStudent}
	if err := svc.SetLeader(context.Background(), bob, g.ID, b.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("期望 ErrForbidden，实际: %v", err)
	}

	// 现任组长可移交
	alice := dto.Identity{UserID: a.ID, Role: model.RoleStudent}
	if err := svc.SetLeader(context.Background(), alice, g.ID, b.ID); err != nil {
		t.Fatalf("组长移交应成功: %v", err)
	}
	if *store.groups[g.ID].LeaderID != b.ID {
		t.Errorf("期望组长=%d，实际=%d", b.ID, *store.groups[g.ID].LeaderID)
	}

	// 非组员不能成为组长
	if err := svc.SetLeader(context.Background(), coordinator, g.ID, outsider.ID); !errors.Is(err, ErrStudentNotInGroup) {
		t.Errorf("期望 ErrStudentNotInGroup，实际: %v", err)
	}
}

func TestGroupService_SetLeader_LocksGroupFirst(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	g := store.addGroup("2025June001", nil)
	a, b := store.addStudent("Alice"), store.addStudent("Bob")
	store.addMember(g.ID, a.ID)
	store.addMember(g.ID, b.ID)
	store.calls = nil

	if err := svc.SetLeader(context.Background(), coordinator, g.ID, b.ID); err != nil {
		t.Fatalf("SetLeader 应成功: %v", err)
	}
	if len(store.calls) == 0 || store.calls[0] != "Group.LockByID" {
		t.Errorf("期望先锁定小组行，实际调用顺序: %v", store.calls)
	}

	if err := svc.SetLeader(context.Background(), coordinator, 9999, b.ID); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("期望 ErrGroupNotFound，实际: %v", err)
	}
}

func TestGroupService_SetLeader_UpdateFailedKeepsLeader(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	g := store.addGroup("2025June001", nil)
	a, b := store.addStudent("Alice"), store.addStudent("Bob")
	store.addMember(g.ID, a.ID)
	store.addMember(g.ID, b.ID)
	store.fail["Group.UpdateLeader"] = errors.New("connection reset")

	if err := svc.SetLeader(context.Background(), coordinator, g.ID, b.ID); err == nil {
		t.Fatal("期望更新组长失败")
	}
	if got := store.groups[g.ID].LeaderID; got == nil || *got != a.ID {
		t.Errorf("失败后组长应保持 %d，实际=%v", a.ID, got)
	}
}

func TestGroupService_RemoveStudent_LeaderPassesToEarliestMember(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	g := store.addGroup("2025June001", nil)
	a, b, c := store.addStudent("Alice"), store.addStudent("Bob"), store.addStudent("Carol")
	store.addMember(g.ID, a.ID)
	store.addMember(g.ID, b.ID)
	store.addMember(g.ID, c.ID)

	if err := svc.RemoveStudent(context.Background(), coordinator, g.ID, a.ID); err != nil {
		t.Fatalf("RemoveStudent 应成功: %v", err)
	}
	if got := store.groups[g.ID].LeaderID; got == nil || *got != b.ID {
		t.Errorf("期望组长顺延给 %d，实际=%v", b.ID, got)
	}

	if err := svc.RemoveStudent(context.Background(), coordinator, g.ID, a.ID); !errors.Is(err, ErrStudentNotInGroup) {
		t.Errorf("重复移出期望 ErrStudentNotInGroup，实际: %v", err)
	}
}

func TestGroupService_RemoveStudent_LastMemberClearsLeader(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	g := store.addGroup("2025June001", nil)
	a := store.addStudent("Alice")
	store.addMember(g.ID, a.ID)

	if err := svc.RemoveStudent(context.Background(), coordinator, g.ID, a.ID); err != nil {
		t.Fatalf("RemoveStudent 应成功: %v", err)
	}
	if store.groups[g.ID].LeaderID != nil {
		t.Error("最后一名组员移出后组长应为空")
	}
}

// ── Delete 测试 ──

func seedGroupWithDependents(store *memStore) *model.Group {
	sup := store.addLecturer("Lee", model.LecturerRoleSupervisor)
	g := store.addGroup("2025June001", &sup.ID)
	st := store.addStudent("Alice")
	store.addMember(g.ID, st.ID)
	store.addProject(g.ID, model.ProjectApproved, "X")
	store.meetings[store.id()] = &model.Meeting{GroupID: g.ID, LecturerID: sup.ID, StudentID: st.ID, Status: model.MeetingPending}
	store.submissions = append(store.submissions, model.DeliverableSubmission{ID: store.id(), GroupID: g.ID, DeliverableID: 1})
	evalID := store.id()
	store.evaluations = append(store.evaluations, model.GroupEvaluation{ID: evalID, GroupID: g.ID})
	store.rubricScores = append(store.rubricScores, model.GroupEvaluationRubricScore{ID: store.id(), EvaluationID: evalID})
	return g
}

func TestGroupService_Delete_CascadeOrder(t *testing.T) {
	svc, store, pub := setupTestGroupService()
	g := seedGroupWithDependents(store)
	store.calls = nil

	if err := svc.Delete(context.Background(), coordinator, g.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}

	want := []string{
		"meetings", "deliverable_submissions", "group_evaluation_rubric_scores",
		"group_evaluations", "projects", "group_members", "groups",
	}
	if !reflect.DeepEqual(store.calls, want) {
		t.Errorf("级联顺序不符\n期望: %v\n实际: %v", want, store.calls)
	}

	if len(store.groups) != 0 || len(store.members) != 0 || len(store.projects) != 0 ||
		len(store.meetings) != 0 || len(store.submissions) != 0 ||
		len(store.evaluations) != 0 || len(store.rubricScores) != 0 {
		t.Error("删除后不应残留任何关联数据")
	}
	if len(pub.published) != 1 || pub.published[0].Type != events.TypeGroupDeleted {
		t.Errorf("期望发布 group.deleted，实际=%v", pub.types())
	}
}

func TestGroupService_Delete_StepFailure(t *testing.T) {
	svc, store, pub := setupTestGroupService()
	g := seedGroupWithDependents(store)
	store.calls = nil
	store.fail["projects"] = errors.New("connection reset")

	err := svc.Delete(context.Background(), coordinator, g.ID)
	if !errors.Is(err, ErrGroupDeleteFailed) {
		t.Fatalf("期望 ErrGroupDeleteFailed，实际: %v", err)
	}

	// 出错后不再执行后续步骤
	last := store.calls[len(store.calls)-1]
	if last != "projects" {
		t.Errorf("期望在 projects 步骤中止，实际最后一步=%s", last)
	}
	if len(pub.published) != 0 {
		t.Error("删除失败时不应发布事件")
	}

	// 已执行的步骤随事务回滚
	if len(store.groups) != 1 || len(store.members) != 1 || len(store.projects) != 1 ||
		len(store.meetings) != 1 || len(store.submissions) != 1 ||
		len(store.evaluations) != 1 || len(store.rubricScores) != 1 {
		t.Error("删除失败后关联数据应全部保留")
	}
}

func TestGroupService_Delete_GroupVanished(t *testing.T) {
	svc, _, _ := setupTestGroupService()

	err := svc.Delete(context.Background(), coordinator, 12345)
	if !errors.Is(err, ErrGroupDeleteFailed) {
		t.Errorf("最终删除 0 行时期望 ErrGroupDeleteFailed，实际: %v", err)
	}
}

// ── Review 测试 ──

func TestGroupService_Review(t *testing.T) {
	svc, store, pub := setupTestGroupService()
	sup := store.addLecturer("Lee", model.LecturerRoleSupervisor)
	other := store.addLecturer("Other", model.LecturerRoleSupervisor)
	g := store.addGroup("2025June001", &sup.ID)

	otherID := dto.Identity{UserID: other.ID, Role: model.RoleLecturer}
	if err := svc.Review(context.Background(), otherID, g.ID, ActionApproveGroup); !errors.Is(err, ErrNotGroupSupervisor) {
		t.Errorf("期望 ErrNotGroupSupervisor，实际: %v", err)
	}

	supID := dto.Identity{UserID: sup.ID, Role: model.RoleLecturer}
	if err := svc.Review(context.Background(), supID, g.ID, ActionApproveGroup); err != nil {
		t.Fatalf("approve_group 应成功: %v", err)
	}
	if store.groups[g.ID].Status != model.GroupStatusApproved {
		t.Errorf("期望状态 Approved，实际=%s", store.groups[g.ID].Status)
	}
	if pub.types()[0] != events.TypeGroupApproved {
		t.Errorf("期望发布 group.approved，实际=%v", pub.types())
	}
}

func TestGroupService_Review_RejectDeletesGroup(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	g := seedGroupWithDependents(store)
	supID := dto.Identity{UserID: *g.LecturerID, Role: model.RoleLecturer}

	if err := svc.Review(context.Background(), supID, g.ID, ActionRejectGroup); err != nil {
		t.Fatalf("reject_group 应成功: %v", err)
	}
	if _, ok := store.groups[g.ID]; ok {
		t.Error("驳回后小组应被删除")
	}
}

// ── AssignRole 测试 ──

func TestGroupService_AssignRole_LastWriteWins(t *testing.T) {
	svc, store, pub := setupTestGroupService()
	g := store.addGroup("2025June001", nil)
	l1 := store.addLecturer("L1", model.LecturerRoleSupervisorAssessor)
	l2 := store.addLecturer("L2", model.LecturerRoleSupervisor)

	if err := svc.AssignRole(context.Background(), coordinator, g.ID, l1.ID, RoleSupervisor); err != nil {
		t.Fatalf("第一次指派应成功: %v", err)
	}
	if err := svc.AssignRole(context.Background(), coordinator, g.ID, l2.ID, RoleSupervisor); err != nil {
		t.Fatalf("覆盖指派应成功: %v", err)
	}
	if got := store.groups[g.ID].LecturerID; got == nil || *got != l2.ID {
		t.Errorf("期望导师被覆盖为 %d，实际=%v", l2.ID, got)
	}

	if err := svc.AssignRole(context.Background(), coordinator, g.ID, l1.ID, RoleAssessor); err != nil {
		t.Fatalf("指派评审应成功: %v", err)
	}
	if got := store.groups[g.ID].AssessorID; got == nil || *got != l1.ID {
		t.Errorf("期望评审=%d，实际=%v", l1.ID, got)
	}
	if len(pub.published) != 3 {
		t.Errorf("期望 3 条 group.role_assigned，实际=%v", pub.types())
	}
}

func TestGroupService_AssignRole_Errors(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	g := store.addGroup("2025June001", nil)
	supOnly := store.addLecturer("Sup", model.LecturerRoleSupervisor)

	tests := []struct {
		name       string
		groupID    uint
		lecturerID uint
		role       string
		want       error
	}{
		{"小组不存在", 9999, supOnly.ID, RoleSupervisor, ErrGroupNotFound},
		{"讲师不存在", g.ID, 9999, RoleSupervisor, ErrLecturerNotFound},
		{"无评审资格", g.ID, supOnly.ID, RoleAssessor, ErrLecturerRoleMismatch},
		{"未知角色", g.ID, supOnly.ID, "examiner", ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.AssignRole(context.Background(), coordinator, tt.groupID, tt.lecturerID, tt.role)
			if !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际: %v", tt.want, err)
			}
		})
	}
}

func TestGroupService_AssignRole_UpdateFailed(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	g := store.addGroup("2025June001", nil)
	l := store.addLecturer("L", model.LecturerRoleSupervisor)
	store.fail["Group.UpdateLecturer"] = errors.New("deadlock detected")

	err := svc.AssignRole(context.Background(), coordinator, g.ID, l.ID, RoleSupervisor)
	if !errors.Is(err, ErrRoleUpdateFailed) {
		t.Errorf("期望 ErrRoleUpdateFailed，实际: %v", err)
	}
}

// ── 查询测试 ──

func TestGroupService_GetByID_Access(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	sup := store.addLecturer("Lee", model.LecturerRoleSupervisor)
	g := store.addGroup("2025June001", &sup.ID)
	member := store.addStudent("Alice")
	outsider := store.addStudent("Bob")
	store.addMember(g.ID, member.ID)

	allowed := []dto.Identity{
		coordinator,
		{UserID: sup.ID, Role: model.RoleLecturer},
		{UserID: member.ID, Role: model.RoleStudent},
	}
	for _, id := range allowed {
		if _, err := svc.GetByID(context.Background(), id, g.ID); err != nil {
			t.Errorf("%s:%d 应可查看小组: %v", id.Role, id.UserID, err)
		}
	}

	_, err := svc.GetByID(context.Background(), dto.Identity{UserID: outsider.ID, Role: model.RoleStudent}, g.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("非组员期望 ErrForbidden，实际: %v", err)
	}
}

func TestGroupService_List_FilterAndPaginate(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	for _, name := range []string{"2025June001", "2025June002", "2025June003"} {
		store.addGroup(name, nil)
	}
	store.addGroup("2025July001", nil).Status = model.GroupStatusApproved

	req := &dto.GroupListRequest{Status: model.GroupStatusPending}
	req.PageSize = 2
	list, total, err := svc.List(context.Background(), req)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 3 || len(list) != 2 {
		t.Errorf("期望 total=3 len=2，实际 total=%d len=%d", total, len(list))
	}

	list, total, _ = svc.List(context.Background(), &dto.GroupListRequest{Name: "july"})
	if total != 1 || list[0].Name != "2025July001" {
		t.Errorf("名称筛选结果不符: total=%d", total)
	}
}

func TestGroupService_StudentGroup_NoGroup(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	st := store.addStudent("Alice")

	_, err := svc.StudentGroup(context.Background(), dto.Identity{UserID: st.ID, Role: model.RoleStudent})
	if !errors.Is(err, ErrNoGroup) {
		t.Errorf("期望 ErrNoGroup，实际: %v", err)
	}
}

func TestGroupService_LecturerGroups(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	l := store.addLecturer("Lee", model.LecturerRoleSupervisorAssessor)
	store.addGroup("2025June001", &l.ID)
	g2 := store.addGroup("2025June002", nil)
	g2.AssessorID = uintPtr(l.ID)

	resp, err := svc.LecturerGroups(context.Background(), dto.Identity{UserID: l.ID, Role: model.RoleLecturer})
	if err != nil {
		t.Fatalf("LecturerGroups 应成功: %v", err)
	}
	if len(resp.Supervised) != 1 || len(resp.Assessed) != 1 {
		t.Errorf("期望指导 1 组、评审 1 组，实际 %d / %d", len(resp.Supervised), len(resp.Assessed))
	}
}

func TestGroupService_ListUnassignedStudents(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	g := store.addGroup("2025June001", nil)
	a := store.addStudent("Alice")
	store.addStudent("Bob")
	store.addMember(g.ID, a.ID)

	list, err := svc.ListUnassignedStudents(context.Background())
	if err != nil {
		t.Fatalf("ListUnassignedStudents 应成功: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Bob" {
		t.Errorf("期望仅 Bob 未分组，实际=%+v", list)
	}
}

func TestGroupService_ListLecturers_ByRole(t *testing.T) {
	svc, store, _ := setupTestGroupService()
	store.addLecturer("A-Plain", model.LecturerRolePlain)
	store.addLecturer("B-Assessor", model.LecturerRoleAssessor)
	store.addLecturer("C-Both", model.LecturerRoleSupervisorAssessor)
	store.addLecturer("D-Supervisor", model.LecturerRoleSupervisor)

	sups, _ := svc.ListLecturers(context.Background(), RoleSupervisor)
	if len(sups) != 2 || sups[0].Name != "C-Both" || sups[1].Name != "D-Supervisor" {
		t.Errorf("导师筛选结果不符: %+v", sups)
	}
	assessors, _ := svc.ListLecturers(context.Background(), RoleAssessor)
	if len(assessors) != 2 || assessors[0].Name != "B-Assessor" {
		t.Errorf("评审筛选结果不符: %+v", assessors)
	}
	all, _ := svc.ListLecturers(context.Background(), "")
	if len(all) != 4 {
		t.Errorf("期望全部 4 名讲师，实际=%d", len(all))
	}
}

func TestGroupService_PublishFailureDoesNotFailRequest(t *testing.T) {
	svc, store, pub := setupTestGroupService()
	store.addCurrentSemester(june2025)
	pub.err = errors.New("kafka: broker not available")

	if _, err := svc.Create(context.Background(), coordinator, &dto.CreateGroupRequest{}); err != nil {
		t.Errorf("事件发布失败不应影响请求: %v", err)
	}
}
