package core

import (
	"reflect"
	"testing"
	"time"

	"taskmgr-go/internal/models"
)

var defaultLabels = CategoryLabels{1: "Work", 2: "Personal", 3: "Other"}

func TestAggregate_FourDeadlines(t *testing.T) {
	tasks := []models.Task{
		taskDueIn(1, 1, -24*time.Hour, 0),
		taskDueIn(2, 1, 12*time.Hour, 0),
		taskDueIn(3, 1, 48*time.Hour, 0),
		taskDueIn(4, 1, 7*24*time.Hour, 0),
	}

	want := []AlertLevel{AlertOverdue, AlertUrgent, AlertApproaching, AlertNormal}
	c := DefaultAlertClassifier()
	for i := range tasks {
		if got := c.Classify(&tasks[i], testNow); got != want[i] {
			t.Errorf("task %d: got %s, want %s", tasks[i].ID, got, want[i])
		}
	}

	stats := Aggregate(tasks, testNow, defaultLabels)
	if stats.TotalTasks != 4 || stats.CompletedTasks != 0 || stats.PendingTasks != 4 || stats.OverdueTasks != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil, testNow, defaultLabels)
	if stats.TotalTasks != 0 || stats.CompletedTasks != 0 || stats.PendingTasks != 0 || stats.OverdueTasks != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
	if stats.Categories == nil || stats.CategoryCounts == nil {
		t.Fatal("category slices must be non-nil for a stable wire shape")
	}
}

func TestAggregate_MixedStates(t *testing.T) {
	tasks := []models.Task{
		taskDueIn(1, 1, -3*24*time.Hour, 1),
		taskDueIn(2, 1, -24*time.Hour, 0),
		taskDueIn(3, 1, 5*24*time.Hour, 2),
		taskDueIn(4, 1, -2*24*time.Hour, 2),
	}
	tasks[1].Category = 2
	tasks[3].Category = 3

	stats := Aggregate(tasks, testNow, defaultLabels)
	if stats.TotalTasks != 4 || stats.CompletedTasks != 2 || stats.PendingTasks != 2 || stats.OverdueTasks != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.CompletedTasks+stats.PendingTasks != stats.TotalTasks {
		t.Fatal("completed + pending must equal total")
	}
	if stats.OverdueTasks > stats.PendingTasks {
		t.Fatal("overdue must not exceed pending")
	}
}

func TestAggregate_CategoryDistribution(t *testing.T) {
	var tasks []models.Task
	for i, cat := range []int{1, 1, 1, 2, 2, 3, 7} {
		task := taskDueIn(uint(i+1), 1, time.Hour, 0)
		task.Category = cat
		tasks = append(tasks, task)
	}

	stats := Aggregate(tasks, testNow, defaultLabels)
	wantNames := []string{"Work", "Personal", "Other", "Category 7"}
	wantCounts := []int{3, 2, 1, 1}
	if !reflect.DeepEqual(stats.Categories, wantNames) {
		t.Fatalf("categories = %v, want %v", stats.Categories, wantNames)
	}
	if !reflect.DeepEqual(stats.CategoryCounts, wantCounts) {
		t.Fatalf("counts = %v, want %v", stats.CategoryCounts, wantCounts)
	}

	sum := 0
	for _, n := range stats.CategoryCounts {
		sum += n
	}
	if sum != stats.TotalTasks {
		t.Fatalf("category counts sum %d != total %d", sum, stats.TotalTasks)
	}
}
