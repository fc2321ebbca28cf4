// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler wires the recurring jobs: the daily payment reminders and the
// hourly overdue sweep.
type Scheduler struct {
	payments  *PaymentService
	reminders *ReminderService
}

func NewScheduler(payments *PaymentService, reminders *ReminderService) *Scheduler {
	return &Scheduler{payments: payments, reminders: reminders}
}

func (s *Scheduler) Start() {
	c := cron.New()

	// Payment reminders every day at 9 AM
	c.AddFunc("0 9 * * *", func() {
		s.reminders.SendDailyReminders(time.Now())
	})

	// Overdue sweep every hour, so sales past their due date pick up the
	// overdue status even when no payment has been touched
	c.AddFunc("0 * * * *", func() {
		count, err := s.payments.MarkOverdueSales(time.Now())
		if err != nil {
			log.Printf("Overdue sweep failed: %v", err)
			return
		}
		if count > 0 {
			log.Printf("Overdue sweep marked %d sales", count)
		}
	})

	c.Start()
	log.Println("Scheduler started")
}
