package resources

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/integrations/scheduleservice"
)

// ScheduleServiceClient интерфейс клиента для ScheduleService
type ScheduleServiceClient interface {
	GetProviderWeekDayIntervals(ctx context.Context, providerID int64, serviceID int64, locationIDs []int64) (map[time.Weekday]scheduleservice.DaySchedule, error)
	GetProviderSpecialDayIntervals(ctx context.Context, providerID int64, serviceID int64, locationIDs []int64) (map[string]scheduleservice.DaySchedule, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
