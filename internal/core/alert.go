package core

import (
	"time"

	"taskmgr-go/internal/models"
)

// AlertLevel 截止时间紧迫程度
type AlertLevel string

const (
	AlertOverdue     AlertLevel = "overdue"
	AlertUrgent      AlertLevel = "urgent"
	AlertApproaching AlertLevel = "approaching"
	AlertNormal      AlertLevel = "normal"
)

// AlertClassifier 按截止时刻与当前时间的距离分级
type AlertClassifier struct {
	Urgent      time.Duration
	Approaching time.Duration
}

// DefaultAlertClassifier 24小时内为紧急，72小时内为临近
func DefaultAlertClassifier() AlertClassifier {
	return AlertClassifier{
		Urgent:      24 * time.Hour,
		Approaching: 72 * time.Hour,
	}
}

// Classify 边界值归入较缓和的一级，例如恰好24小时为 approaching
func (c AlertClassifier) Classify(task *models.Task, now time.Time) AlertLevel {
	if task.IsCompleted() {
		return AlertNormal
	}

	deadline := task.Deadline()
	switch {
	case deadline.Before(now):
		return AlertOverdue
	case deadline.Before(now.Add(c.Urgent)):
		return AlertUrgent
	case deadline.Before(now.Add(c.Approaching)):
		return AlertApproaching
	default:
		return AlertNormal
	}
}
