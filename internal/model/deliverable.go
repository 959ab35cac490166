package model

import "time"

// 交付物范围
const (
	DeliverableScopeIndividual = "individual"
	DeliverableScopeGroup      = "group"
)

// Deliverable 交付物定义表 — 对应 deliverables
type Deliverable struct {
	ID         uint       `gorm:"primaryKey"                             json:"id"`
	SemesterID uint       `gorm:"not null"                               json:"semester_id"`
	Name       string     `gorm:"type:varchar(150);not null"             json:"name"`
	Scope      string     `gorm:"type:varchar(20);not null;default:'group'" json:"scope"`
	DueDate    *time.Time `                                              json:"due_date,omitempty"`
}

// TableName 指定表名
func (Deliverable) TableName() string { return "deliverables" }

// DeliverableSubmission 提交记录表 — 对应 deliverable_submissions（本服务只读）
type DeliverableSubmission struct {
	ID            uint      `gorm:"primaryKey"                         json:"id"`
	DeliverableID uint      `gorm:"not null"                           json:"deliverable_id"`
	GroupID       uint      `gorm:"not null"                           json:"group_id"`
	StudentID     *uint     `                                          json:"student_id,omitempty"`
	FilePath      string    `gorm:"type:varchar(500);not null"         json:"file_path"`
	SubmittedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"submitted_at"`

	Deliverable *Deliverable `gorm:"foreignKey:DeliverableID" json:"deliverable,omitempty"`
	Group       *Group       `gorm:"foreignKey:GroupID"       json:"group,omitempty"`
	Student     *Student     `gorm:"foreignKey:StudentID"     json:"student,omitempty"`
}

// TableName 指定表名
func (DeliverableSubmission) TableName() string { return "deliverable_submissions" }

// GroupEvaluation 小组评分表 — 对应 group_evaluations（仅参与级联删除）
type GroupEvaluation struct {
	ID            uint      `gorm:"primaryKey"                         json:"id"`
	GroupID       uint      `gorm:"not null"                           json:"group_id"`
	DeliverableID uint      `gorm:"not null"                           json:"deliverable_id"`
	EvaluatorID   uint      `gorm:"not null"                           json:"evaluator_id"`
	TotalScore    float64   `gorm:"type:numeric(6,2);not null"         json:"total_score"`
	Feedback      string    `gorm:"type:text;not null;default:''"      json:"feedback"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (GroupEvaluation) TableName() string { return "group_evaluations" }

// GroupEvaluationRubricScore 评分细项表 — 对应 group_evaluation_rubric_scores
type GroupEvaluationRubricScore struct {
	ID           uint    `gorm:"primaryKey"                 json:"id"`
	EvaluationID uint    `gorm:"not null"                   json:"evaluation_id"`
	RubricID     uint    `gorm:"not null"                   json:"rubric_id"`
	Score        float64 `gorm:"type:numeric(6,2);not null" json:"score"`
}

// TableName 指定表名
func (GroupEvaluationRubricScore) TableName() string { return "group_evaluation_rubric_scores" }
