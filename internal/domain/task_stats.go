package domain

import "math"

// TaskStatistics summarises the tasks a user owns or is assigned.
type TaskStatistics struct {
	TotalTasks      int     `json:"total_tasks"`
	PendingTasks    int     `json:"pending_tasks"`
	InProgressTasks int     `json:"in_progress_tasks"`
	CompletedTasks  int     `json:"completed_tasks"`
	OverdueTasks    int     `json:"overdue_tasks"`
	CompletionRate  float64 `json:"completion_rate"`
}

// NewTaskStatistics builds statistics from raw counts. Statuses missing from
// byStatus count as zero. CompletionRate is the completed share of total as a
// percentage rounded to two decimal places, and 0 when total is 0.
func NewTaskStatistics(total int, byStatus map[TaskStatus]int, overdue int) TaskStatistics {
	stats := TaskStatistics{
		TotalTasks:      total,
		PendingTasks:    byStatus[TaskStatusPending],
		InProgressTasks: byStatus[TaskStatusInProgress],
		CompletedTasks:  byStatus[TaskStatusCompleted],
		OverdueTasks:    overdue,
	}

	if total > 0 {
		rate := float64(stats.CompletedTasks) / float64(total) * 100
		stats.CompletionRate = math.Round(rate*100) / 100
	}

	return stats
}
