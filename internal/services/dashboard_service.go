package services

import (
	"fmt"

	"queue-system/internal/dto"
	"queue-system/internal/entities"

	"go.uber.org/zap"
)

type DashboardServiceInterface interface {
	GetStats(snapshot entities.QueueSnapshot) dto.QueueStatsDTO
	GetDisplay(snapshot entities.QueueSnapshot) dto.DisplayDTO
}

type dashboardService struct {
	logger *zap.Logger
}

func NewDashboardService(logger *zap.Logger) DashboardServiceInterface {
	return &dashboardService{logger: logger}
}

func (s *dashboardService) GetStats(snapshot entities.QueueSnapshot) dto.QueueStatsDTO {
	stats := dto.QueueStatsDTO{BusiestService: "-"}

	serviceCounts := make(map[entities.ServiceType]int)
	var waitSum float64
	var finished int

	for _, t := range snapshot {
		switch t.Status {
		case entities.StatusWaiting:
			stats.TotalWaiting++
		case entities.StatusInProgress:
			stats.TotalInProgress++
		case entities.StatusDone:
			stats.TotalServed++
		case entities.StatusCancelled:
			stats.TotalCancelled++
		}
		if t.Priority {
			stats.TotalPriority++
		}
		serviceCounts[t.Service]++

		if t.CompletedAt.Valid {
			waitSum += t.CompletedAt.Time.Sub(t.CreatedAt).Minutes()
			finished++
		}
	}

	if finished > 0 {
		stats.AvgWaitTimeMinutes = int(waitSum / float64(finished))
	}

	// При равенстве побеждает услуга, встретившаяся в снимке раньше.
	best := 0
	for _, t := range snapshot {
		if c := serviceCounts[t.Service]; c > best {
			best = c
			stats.BusiestService = string(t.Service)
		}
	}

	return stats
}

// GetDisplay собирает данные табло: текущий вызов, текст объявления и
// список ожидающих. Воспроизведение звука - забота клиента.
func (s *dashboardService) GetDisplay(snapshot entities.QueueSnapshot) dto.DisplayDTO {
	display := dto.DisplayDTO{
		Waiting: SelectNextWaiting(snapshot),
	}

	if current, ok := CurrentCall(snapshot); ok {
		display.CurrentCall = &current
		display.Announcement = fmt.Sprintf("Senha %s, %s, dirija-se ao %s",
			current.ID, current.Name, current.Desk.String)
	}

	return display
}
