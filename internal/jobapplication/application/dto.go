package application

import (
	"time"

	"github.com/wyfcoding/recruiting/internal/jobapplication/domain"
)

// SubmitApplicationCommand 提交申请命令
type SubmitApplicationCommand struct {
	FullName string
	Email    string
	Locale   string
}

// TransitionStatusCommand 状态变更命令
type TransitionStatusCommand struct {
	ApplicationID string
	Status        string
	Notes         string
	ChangedBy     string
}

// StatusHistoryDTO 状态历史视图
type StatusHistoryDTO struct {
	Status    domain.Status `json:"status"`
	Notes     string        `json:"notes"`
	ChangedBy string        `json:"changed_by"`
	CreatedAt time.Time     `json:"created_at"`
}

// ApplicationDTO 申请视图，含倒序历史
type ApplicationDTO struct {
	ApplicationID string             `json:"application_id"`
	ApplicationNo string             `json:"application_no"`
	FullName      string             `json:"full_name"`
	Email         string             `json:"email"`
	Locale        string             `json:"locale"`
	AdminNotes    string             `json:"admin_notes"`
	Status        domain.Status      `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	History       []StatusHistoryDTO `json:"history"`
}

// toApplicationDTO 领域实体转视图
func toApplicationDTO(app *domain.JobApplication) *ApplicationDTO {
	history := make([]StatusHistoryDTO, len(app.History))
	for i, entry := range app.History {
		history[i] = StatusHistoryDTO{
			Status:    entry.Status,
			Notes:     entry.Notes,
			ChangedBy: entry.ChangedBy,
			CreatedAt: entry.CreatedAt,
		}
	}
	return &ApplicationDTO{
		ApplicationID: app.ApplicationID,
		ApplicationNo: app.ApplicationNo,
		FullName:      app.FullName,
		Email:         app.Email,
		Locale:        app.Locale,
		AdminNotes:    app.AdminNotes,
		Status:        app.Status,
		CreatedAt:     app.CreatedAt,
		UpdatedAt:     app.UpdatedAt,
		History:       history,
	}
}

// toApplicationDTOs 批量转换，历史是否填充由仓储的读取路径决定
func toApplicationDTOs(apps []*domain.JobApplication) []*ApplicationDTO {
	res := make([]*ApplicationDTO, len(apps))
	for i, app := range apps {
		res[i] = toApplicationDTO(app)
	}
	return res
}
