package shared

// Task type names for asynq.
const (
	TypeSendOverdueReminders = "loan:send_overdue_reminders"
)

// Queue names.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)
