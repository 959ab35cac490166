package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fypcollabor8/backend/config"
	"fypcollabor8/backend/internal/api/handler"
	"fypcollabor8/backend/internal/api/middleware"
	"fypcollabor8/backend/internal/model"
	"fypcollabor8/backend/pkg/jwt"
	"fypcollabor8/backend/pkg/redis"
)

const (
	defaultLoginRateLimit = 10
	defaultMaxBodyBytes   = 1 << 20
)

// Pinger 健康检查依赖
type Pinger interface {
	Ping(ctx context.Context) error
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db Pinger, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	maxBody := cfg.Server.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	loginLimit := cfg.Auth.LoginRateLimit
	if loginLimit <= 0 {
		loginLimit = defaultLoginRateLimit
	}

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBody))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "db": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	const (
		student     = model.RoleStudent
		lecturer    = model.RoleLecturer
		coordinator = model.RoleCoordinator
		admin       = model.RoleAdmin
	)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		v1.POST("/auth/login", middleware.RateLimit(rdb, loginLimit, time.Minute), h.Auth.Login)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 学期模块
			semesters := authorized.Group("/semesters")
			{
				semesters.GET("", h.Semester.ListSemesters)
				semesters.GET("/current", h.Semester.GetCurrentSemester)
				semesters.POST("", middleware.RoleAuth(admin, coordinator), h.Semester.CreateSemester)
				semesters.PUT("/:id/activate", middleware.RoleAuth(admin, coordinator), h.Semester.ActivateSemester)
			}

			// 分组模块
			groups := authorized.Group("/groups")
			{
				groups.GET("", middleware.RoleAuth(coordinator), h.Group.ListGroups)
				groups.POST("", middleware.RoleAuth(coordinator), h.Group.CreateGroup)
				groups.GET("/mine", middleware.RoleAuth(student, lecturer), h.Group.MyGroups)
				groups.GET("/export", middleware.RoleAuth(coordinator), h.Export.ExportGroups)
				groups.GET("/:id", h.Group.GetGroup) // 访问范围在 Service 层校验
				groups.DELETE("/:id", middleware.RoleAuth(coordinator), h.Group.DeleteGroup)
				groups.POST("/:id/members", middleware.RoleAuth(coordinator), h.Group.AssignStudent)
				groups.DELETE("/:id/members/:student_id", middleware.RoleAuth(coordinator), h.Group.RemoveStudent)
				groups.PUT("/:id/leader", middleware.RoleAuth(coordinator, student), h.Group.SetLeader)
				groups.POST("/:id/review", middleware.RoleAuth(lecturer), h.Group.ReviewGroup)
				groups.PUT("/:id/supervisor", middleware.RoleAuth(coordinator), h.Group.AssignSupervisor)
				groups.PUT("/:id/assessor", middleware.RoleAuth(coordinator), h.Group.AssignAssessor)
				groups.GET("/:id/submissions", h.Submission.GroupOverview)
			}

			authorized.GET("/students/unassigned", middleware.RoleAuth(coordinator), h.Group.ListUnassignedStudents)
			authorized.GET("/lecturers", middleware.RoleAuth(coordinator), h.Group.ListLecturers)

			// 题目审核模块
			projects := authorized.Group("/projects")
			{
				projects.POST("/mine/proposal", middleware.RoleAuth(student), h.Project.ProposeTitle)
				projects.POST("/mine/change-request", middleware.RoleAuth(student), h.Project.RequestChange)
				projects.GET("/pending", middleware.RoleAuth(lecturer), h.Project.ListPending)
				projects.GET("/:id", h.Project.GetProject)
				projects.POST("/:id/review", middleware.RoleAuth(lecturer), h.Project.ReviewTitle)
			}

			// 会议模块
			meetings := authorized.Group("/meetings")
			{
				meetings.GET("", middleware.RoleAuth(student, lecturer), h.Meeting.ListMeetings)
				meetings.POST("", middleware.RoleAuth(student), h.Meeting.CreateMeeting)
				meetings.GET("/calendar.ics", middleware.RoleAuth(lecturer), h.Meeting.Calendar)
				meetings.PUT("/:id/confirm", middleware.RoleAuth(lecturer), h.Meeting.ConfirmMeeting)
				meetings.PUT("/:id/reject", middleware.RoleAuth(lecturer), h.Meeting.RejectMeeting)
				meetings.PUT("/:id/cancel", middleware.RoleAuth(student), h.Meeting.CancelMeeting)
				meetings.DELETE("/:id", middleware.RoleAuth(lecturer), h.Meeting.DeleteMeeting)
			}

			// 提交物模块
			authorized.GET("/deliverables", h.Submission.ListDeliverables)
			authorized.GET("/submissions", middleware.RoleAuth(coordinator, lecturer), h.Submission.ListSubmissions)
			authorized.GET("/submissions/export", middleware.RoleAuth(coordinator), h.Export.ExportSubmissions)
			authorized.GET("/dashboard/lecturer", middleware.RoleAuth(lecturer), h.Submission.LecturerDashboard)

			// 公告模块
			announcements := authorized.Group("/announcements")
			{
				announcements.GET("", h.Announcement.ListAnnouncements)
				announcements.POST("", middleware.RoleAuth(coordinator), h.Announcement.CreateAnnouncement)
				announcements.DELETE("/:id", middleware.RoleAuth(coordinator), h.Announcement.DeleteAnnouncement)
			}
		}
	}

	return r
}
