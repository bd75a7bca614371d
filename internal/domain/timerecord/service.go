package timerecord

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
)

type TimeRecordService interface {
	Store(ctx context.Context, actor user.Actor, req StoreTimeRecordRequest) (TimeRecordResponse, error)
	QuickEntry(ctx context.Context, actor user.Actor) (QuickEntryResponse, error)
	List(ctx context.Context, actor user.Actor, filter TimeRecordFilter) (ListTimeRecordResponse, error)
	GetByID(ctx context.Context, actor user.Actor, id string) (TimeRecordResponse, error)
	HourBank(ctx context.Context, actor user.Actor, filter HourBankFilter) (HourBankResponse, error)
	ExportTimesheet(ctx context.Context, actor user.Actor, filter HourBankFilter) ([]byte, error)

	// Admin
	Audit(ctx context.Context, actor user.Actor, id string) (AuditResponse, error)
	AdminList(ctx context.Context, actor user.Actor, filter TimeRecordFilter) (ListTimeRecordResponse, error)
	AdminUpdate(ctx context.Context, actor user.Actor, id string, req UpdateTimeRecordRequest) (TimeRecordResponse, error)
	AdminDelete(ctx context.Context, actor user.Actor, id string) error
	CompanyHourBank(ctx context.Context, actor user.Actor, filter HourBankFilter) (CompanyHourBankResponse, error)
}
