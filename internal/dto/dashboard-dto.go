package dto

import "queue-system/internal/entities"

// QueueStatsDTO: сводка по очереди для панели управления.
type QueueStatsDTO struct {
	TotalWaiting       int    `json:"total_waiting"`
	TotalInProgress    int    `json:"total_in_progress"`
	TotalServed        int    `json:"total_served"`
	TotalCancelled     int    `json:"total_cancelled"`
	TotalPriority      int    `json:"total_priority"`
	AvgWaitTimeMinutes int    `json:"avg_wait_time_minutes"`
	BusiestService     string `json:"busiest_service"`
}

// DisplayDTO: данные для публичного табло. Текст объявления готовится
// сервером - само озвучивание остаётся за клиентом.
type DisplayDTO struct {
	CurrentCall  *entities.Ticket  `json:"current_call,omitempty"`
	Announcement string            `json:"announcement,omitempty"`
	Waiting      []entities.Ticket `json:"waiting"`
}

type InsightsDTO struct {
	Text string `json:"text"`
}
