package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"fypcollabor8/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportGroups 小组花名册：组名、状态、导师、评审、组员、题目
	ExportGroups(ctx context.Context) (*bytes.Buffer, string, error)
	// ExportSubmissions 提交记录，deliverableID 为 0 时导出全部
	ExportSubmissions(ctx context.Context, deliverableID uint) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportGroups — 小组花名册
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportGroups(ctx context.Context) (*bytes.Buffer, string, error) {
	groups, err := s.repo.Group.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询小组失败", zap.Error(err))
		return nil, "", err
	}

	headers := []string{"组名", "状态", "导师", "评审", "组长", "组员", "题目", "题目状态"}
	rows := make([][]interface{}, 0, len(groups))
	for i := range groups {
		g := toGroupResponse(&groups[i])

		supervisor, assessor, leader := "-", "-", "-"
		if g.Supervisor != nil {
			supervisor = g.Supervisor.Name
		}
		if g.Assessor != nil {
			assessor = g.Assessor.Name
		}
		members := make([]string, 0, len(g.Members))
		for _, m := range g.Members {
			members = append(members, fmt.Sprintf("%s (%s)", m.Name, m.MatricNo))
			if m.IsLeader {
				leader = m.Name
			}
		}
		title, titleStatus := "-", "-"
		if g.Project != nil {
			titleStatus = g.Project.Status
			if g.Project.Title != "" {
				title = g.Project.Title
			}
		}

		rows = append(rows, []interface{}{
			g.Name, g.Status, supervisor, assessor, leader, strings.Join(members, "\n"), title, titleStatus,
		})
	}

	buf, err := s.writeSheet("小组名单", headers, rows, []float64{14, 10, 20, 20, 16, 36, 40, 16})
	if err != nil {
		return nil, "", err
	}
	return buf, fmt.Sprintf("小组名单_%s.xlsx", time.Now().Format("20060102")), nil
}

// ═══════════════════════════════════════════════════════════
// ExportSubmissions — 提交记录
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportSubmissions(ctx context.Context, deliverableID uint) (*bytes.Buffer, string, error) {
	filter := repository.SubmissionListFilter{DeliverableID: deliverableID}
	submissions, _, err := s.repo.Submission.List(ctx, filter, 0, 0)
	if err != nil {
		s.logger.Error("查询提交记录失败", zap.Error(err))
		return nil, "", err
	}

	headers := []string{"交付物", "小组", "提交人", "文件", "提交时间", "是否逾期"}
	rows := make([][]interface{}, 0, len(submissions))
	for i := range submissions {
		sub := toSubmissionResponse(&submissions[i])
		late := "否"
		if sub.Late {
			late = "是"
		}
		student := sub.StudentName
		if student == "" {
			student = "-"
		}
		rows = append(rows, []interface{}{
			sub.Deliverable, sub.GroupName, student, sub.FilePath, sub.SubmittedAt, late,
		})
	}

	buf, err := s.writeSheet("提交记录", headers, rows, []float64{24, 14, 16, 40, 22, 10})
	if err != nil {
		return nil, "", err
	}
	return buf, fmt.Sprintf("提交记录_%s.xlsx", time.Now().Format("20060102")), nil
}

// writeSheet 生成单 Sheet 表格：首行为加粗表头
func (s *exportService) writeSheet(sheetName string, headers []string, rows [][]interface{}, widths []float64) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	wrapStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})

	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	for r, row := range rows {
		for c, v := range row {
			f.SetCellValue(sheetName, cell(colName(c), r+2), v)
		}
	}
	if len(rows) > 0 {
		f.SetCellStyle(sheetName, "A2", cell(colName(len(headers)-1), len(rows)+1), wrapStyle)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	return buf, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
