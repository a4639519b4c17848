package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"goaltracker/config"
	repository "goaltracker/repositories"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// Mailer delivers a single reminder message.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through a plain SMTP endpoint, authenticating
// only when credentials are configured.
type SMTPMailer struct {
	addr     string
	username string
	password string
	from     string
}

func NewSMTPMailer(cfg config.ReminderConfig) *SMTPMailer {
	return &SMTPMailer{
		addr:     cfg.SMTPAddr,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.From,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	var auth sasl.Client
	if m.username != "" {
		auth = sasl.NewPlainClient("", m.username, m.password)
	}

	msg := strings.NewReader(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.from, to, subject, body,
	))

	return smtp.SendMail(m.addr, auth, m.from, []string{to}, msg)
}

// ReminderJob emails owners of goals that have seen no progress update
// for the configured period. Each goal is reminded at most once until
// its next progress update resets the clock. Implements cron.Job.
type ReminderJob struct {
	goals         repository.GoalRepository
	users         repository.UserRepository
	mailer        Mailer
	inactiveAfter time.Duration
}

func NewReminderJob(goals repository.GoalRepository, users repository.UserRepository, mailer Mailer, inactiveAfter time.Duration) *ReminderJob {
	return &ReminderJob{
		goals:         goals,
		users:         users,
		mailer:        mailer,
		inactiveAfter: inactiveAfter,
	}
}

func (j *ReminderJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().Add(-j.inactiveAfter)
	goals, err := j.goals.ListInactive(ctx, cutoff)
	if err != nil {
		log.Printf("reminder sweep failed: %v", err)
		return
	}
	log.Printf("reminder sweep found %d inactive goals", len(goals))

	for _, goal := range goals {
		user, err := j.users.FindByUsername(ctx, goal.Username)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && user.Email == "") {
			continue
		}
		if err != nil {
			log.Printf("reminder lookup for goal %s failed: %v", goal.ID.Hex(), err)
			continue
		}

		body := fmt.Sprintf(
			"Hi %s, you haven't updated your goal %q in over %d days!",
			user.Username, goal.GoalName, int(j.inactiveAfter.Hours()/24),
		)
		if err := j.mailer.Send(user.Email, "Reminder: update your goal progress", body); err != nil {
			log.Printf("reminder send to %s failed: %v", user.Email, err)
			continue
		}

		if err := j.goals.MarkReminderSent(ctx, goal.ID, time.Now().UTC()); err != nil {
			log.Printf("failed to mark reminder sent for goal %s: %v", goal.ID.Hex(), err)
		}
	}
}
