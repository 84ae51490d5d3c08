// Package domain 求职申请上下文的领域模型
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Status 申请状态
type Status string

const (
	StatusDraft              Status = "DRAFT"
	StatusSubmitted          Status = "SUBMITTED"
	StatusUnderReview        Status = "UNDER_REVIEW"
	StatusInterviewScheduled Status = "INTERVIEW_SCHEDULED"
	StatusInterviewed        Status = "INTERVIEWED"
	StatusOfferExtended      Status = "OFFER_EXTENDED"
	StatusHired              Status = "HIRED"
	StatusRejected           Status = "REJECTED"
	StatusWithdrawn          Status = "WITHDRAWN"
)

// AllStatuses 全部合法状态，顺序固定
var AllStatuses = []Status{
	StatusDraft,
	StatusSubmitted,
	StatusUnderReview,
	StatusInterviewScheduled,
	StatusInterviewed,
	StatusOfferExtended,
	StatusHired,
	StatusRejected,
	StatusWithdrawn,
}

// ParseStatus 解析状态字符串，仅接受九个枚举值
func ParseStatus(s string) (Status, bool) {
	status := Status(s)
	for _, known := range AllStatuses {
		if status == known {
			return status, true
		}
	}
	return "", false
}

// JobApplication 求职申请实体。
// status 必须与最新一条历史记录的 status 一致，该不变量由仓储的合并写入保证。
type JobApplication struct {
	gorm.Model
	// ApplicationID 对外申请 ID（UUID），创建后不可变
	ApplicationID string `gorm:"type:varchar(36);uniqueIndex" json:"application_id"`
	// ApplicationNo 人类可读申请编号，创建后不可变
	ApplicationNo string `gorm:"type:varchar(32);uniqueIndex" json:"application_no"`
	// FullName 申请人姓名
	FullName string `gorm:"type:varchar(128)" json:"full_name"`
	// Email 申请人邮箱
	Email string `gorm:"type:varchar(255)" json:"email"`
	// Locale 申请人语言偏好
	Locale string `gorm:"type:varchar(8)" json:"locale"`
	// AdminNotes 管理端备注，每次状态变更整体覆盖
	AdminNotes string `gorm:"type:text" json:"admin_notes"`
	// Status 当前状态
	Status Status `gorm:"type:varchar(32);index" json:"status"`
	// History 状态历史，倒序（最新在前），由仓储填充
	History []StatusHistoryEntry `gorm:"-" json:"history"`
}

// StatusHistoryEntry 状态历史记录，仅追加、不可变更
type StatusHistoryEntry struct {
	gorm.Model
	// ApplicationID 所属申请的对外 ID
	ApplicationID string `gorm:"type:varchar(36);index" json:"application_id"`
	// Status 记录的状态值
	Status Status `gorm:"type:varchar(32)" json:"status"`
	// Notes 可选备注
	Notes string `gorm:"type:text" json:"notes"`
	// ChangedBy 操作者标签
	ChangedBy string `gorm:"type:varchar(64)" json:"changed_by"`
}

// TableName 指定表名
func (JobApplication) TableName() string {
	return "job_applications"
}

// TableName 指定表名
func (StatusHistoryEntry) TableName() string {
	return "application_status_history"
}

// CurrentEntry 返回最新历史记录，历史为空时返回 nil
func (a *JobApplication) CurrentEntry() *StatusHistoryEntry {
	if len(a.History) == 0 {
		return nil
	}
	return &a.History[0]
}

// Touch 更新修改时间
func (a *JobApplication) Touch() {
	a.UpdatedAt = time.Now()
}
