package core

import (
	"fmt"
	"sort"
	"time"

	"taskmgr-go/internal/models"
)

// Stats 任务统计，Categories 与 CategoryCounts 下标一一对应
type Stats struct {
	TotalTasks     int      `json:"total_tasks"`
	CompletedTasks int      `json:"completed_tasks"`
	PendingTasks   int      `json:"pending_tasks"`
	OverdueTasks   int      `json:"overdue_tasks"`
	Categories     []string `json:"categories"`
	CategoryCounts []int    `json:"category_counts"`
}

// CategoryLabels 分类编号到显示名称
type CategoryLabels map[int]string

// Label 未配置的编号也返回一个名称，保证统计不丢任务
func (l CategoryLabels) Label(code int) string {
	if label, ok := l[code]; ok {
		return label
	}
	return fmt.Sprintf("Category %d", code)
}

// Aggregate 对同一份可见任务切片做一次遍历得出全部统计值
func Aggregate(visible []models.Task, now time.Time, labels CategoryLabels) Stats {
	stats := Stats{
		TotalTasks:     len(visible),
		Categories:     []string{},
		CategoryCounts: []int{},
	}

	counts := make(map[int]int)
	for i := range visible {
		task := &visible[i]
		if task.IsCompleted() {
			stats.CompletedTasks++
		}
		if IsOverdue(task, now) {
			stats.OverdueTasks++
		}
		counts[task.Category]++
	}
	stats.PendingTasks = stats.TotalTasks - stats.CompletedTasks

	codes := make([]int, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		stats.Categories = append(stats.Categories, labels.Label(code))
		stats.CategoryCounts = append(stats.CategoryCounts, counts[code])
	}

	return stats
}
