package scoring

import (
	"time"

	"github.com/taskhive/taskhive/internal/domain"
)

// calculateDetailedMetrics derives the full metric set from one team's
// task list. The input must already be filtered to a single team.
//
// Rates use the complete team task list as denominator, not just the
// completed subset: a task that was never completed counts against the
// early and on-time rates. previous carries the stored monthly history
// so the current month's entry can be refreshed in place and the trend
// computed against the preceding stored month.
func calculateDetailedMetrics(
	tasks []*domain.TaskRecord,
	previous []domain.MonthlyPerformance,
	now time.Time,
	params *Params,
) domain.PerformanceMetrics {
	metrics := domain.PerformanceMetrics{
		CategoryStats: make(map[string]domain.CategoryStats),
	}

	total := len(tasks)
	if total == 0 {
		metrics.MonthlyHistory = truncateMonthly(previous, params.MonthlyHistoryLimit)
		return metrics
	}

	var (
		completedCount  int
		earlyCount      int
		onTimeCount     int
		overdueCount    int
		completionDays  float64
	)

	for _, task := range tasks {
		switch {
		case task.IsCompleted():
			completedCount++
			completionDays += daysBetween(task.CreatedAt, *task.CompletedAt)
			if task.CompletedAt.Before(task.DueDate) {
				earlyCount++
			}
			if !task.CompletedAt.After(task.DueDate) {
				onTimeCount++
			}
		case task.Status == domain.TaskStatusOverdue:
			overdueCount++
		}

		accumulatePriority(&metrics, task)
		accumulateCategory(&metrics, task)
	}

	if completedCount > 0 {
		metrics.AverageCompletionTime = completionDays / float64(completedCount)
	}
	metrics.EarlyCompletionRate = float64(earlyCount) / float64(total)
	metrics.OnTimeCompletionRate = float64(onTimeCount) / float64(total)
	metrics.OverdueRate = float64(overdueCount) / float64(total)

	metrics.MonthlyHistory = updateMonthlyHistory(tasks, previous, now, params)

	return metrics
}

// accumulatePriority folds one task into its priority bucket.
func accumulatePriority(metrics *domain.PerformanceMetrics, task *domain.TaskRecord) {
	var bucket *domain.PriorityStats
	switch task.Priority {
	case domain.TaskPriorityHigh:
		bucket = &metrics.HighPriority
	case domain.TaskPriorityMedium:
		bucket = &metrics.MediumPriority
	case domain.TaskPriorityLow:
		bucket = &metrics.LowPriority
	default:
		return
	}

	bucket.TotalTasks++
	switch {
	case task.IsCompleted():
		days := daysBetween(task.CreatedAt, *task.CompletedAt)
		// Running average over the completed tasks seen so far.
		bucket.AverageCompletionTime = runningAverage(
			bucket.AverageCompletionTime, bucket.CompletedTasks, days)
		bucket.CompletedTasks++
	case task.Status == domain.TaskStatusOverdue:
		bucket.OverdueTasks++
	}
}

// accumulateCategory folds one task into its dynamic category bucket.
// Tasks with an empty category are skipped.
func accumulateCategory(metrics *domain.PerformanceMetrics, task *domain.TaskRecord) {
	if task.Category == "" {
		return
	}

	bucket := metrics.CategoryStats[task.Category]
	bucket.TotalTasks++
	switch {
	case task.IsCompleted():
		days := daysBetween(task.CreatedAt, *task.CompletedAt)
		bucket.AverageCompletionTime = runningAverage(
			bucket.AverageCompletionTime, bucket.CompletedTasks, days)
		bucket.CompletedTasks++
	case task.Status == domain.TaskStatusOverdue:
		bucket.OverdueTasks++
	}
	metrics.CategoryStats[task.Category] = bucket
}

// runningAverage extends an average over n samples with one more value.
func runningAverage(current float64, n int, value float64) float64 {
	return (current*float64(n) + value) / float64(n+1)
}

// updateMonthlyHistory refreshes the current month's entry from the
// task list and prepends it to the stored history, keeping the list
// ordered by (year, month) descending and bounded by the configured
// limit (the oldest entry is dropped when a new month pushes past it).
func updateMonthlyHistory(
	tasks []*domain.TaskRecord,
	previous []domain.MonthlyPerformance,
	now time.Time,
	params *Params,
) []domain.MonthlyPerformance {
	year, month := now.UTC().Year(), int(now.UTC().Month())

	entry := domain.MonthlyPerformance{Year: year, Month: month}

	var scoreSum float64
	var scored int
	for _, task := range tasks {
		if task.IsCompleted() && inMonth(*task.CompletedAt, year, month) {
			entry.CompletedTasks++
			scoreSum += calculateTaskScore(task, now, params)
			scored++
		}
		if task.Status == domain.TaskStatusOverdue && inMonth(task.DueDate, year, month) {
			entry.OverdueTasks++
		}
	}
	if scored > 0 {
		entry.AverageScore = scoreSum / float64(scored)
	}

	// Trend against the immediately preceding stored month. Zero when
	// there is no prior month or its average is zero.
	for _, prev := range previous {
		if prev.Year == year && prev.Month == month {
			continue
		}
		if prev.AverageScore != 0 {
			entry.ProductivityTrend = (entry.AverageScore - prev.AverageScore) /
				prev.AverageScore * 100
		}
		break
	}

	history := make([]domain.MonthlyPerformance, 0, len(previous)+1)
	history = append(history, entry)
	for _, prev := range previous {
		if prev.Year == year && prev.Month == month {
			continue
		}
		history = append(history, prev)
	}

	return truncateMonthly(history, params.MonthlyHistoryLimit)
}

// truncateMonthly keeps the first limit entries of a most-recent-first
// history, dropping the oldest months.
func truncateMonthly(history []domain.MonthlyPerformance, limit int) []domain.MonthlyPerformance {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	return history[:limit]
}

// inMonth reports whether t falls in the given UTC year and month.
func inMonth(t time.Time, year, month int) bool {
	u := t.UTC()
	return u.Year() == year && int(u.Month()) == month
}
