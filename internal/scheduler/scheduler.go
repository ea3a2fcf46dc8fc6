// Package scheduler dispatches due reminders. A cron-driven poll replaces
// the per-reminder job scheduling of classic job frameworks: one sweep per
// minute picks up everything due and fans out per channel.
package scheduler

import (
	"context"
	"time"

	"notesapp/internal/model"
	"notesapp/internal/repo"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// InAppCreator appends an in-app feed entry.
type InAppCreator interface {
	CreateNotification(ctx context.Context, userID, title, message, typ, noteID, noteTitle string) error
}

// PushSender delivers a push notification to all of a user's devices.
type PushSender interface {
	Send(ctx context.Context, userID, title, body string) error
}

// EmailSender delivers the reminder email.
type EmailSender interface {
	SendReminder(ctx context.Context, to, name, noteTitle string, at time.Time) error
}

// Dispatcher polls for due reminders and fires their channels. A failing
// channel is logged and never blocks the others; the reminder is marked
// completed after the fan-out either way, so a broken channel cannot cause
// a redelivery storm.
type Dispatcher struct {
	reminders repo.ReminderRepository
	users     repo.UserRepository
	inApp     InAppCreator
	push      PushSender
	email     EmailSender
	logger    *zap.SugaredLogger
	cron      *cron.Cron
}

// NewDispatcher wires the dispatcher. push and email may be nil when the
// channel is not configured.
func NewDispatcher(
	reminders repo.ReminderRepository,
	users repo.UserRepository,
	inApp InAppCreator,
	push PushSender,
	email EmailSender,
	logger *zap.SugaredLogger,
) *Dispatcher {
	return &Dispatcher{
		reminders: reminders,
		users:     users,
		inApp:     inApp,
		push:      push,
		email:     email,
		logger:    logger,
		cron:      cron.New(),
	}
}

// Run starts the minutely sweep and blocks until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	if _, err := d.cron.AddFunc("* * * * *", func() { d.DispatchDue(ctx) }); err != nil {
		return err
	}
	d.cron.Start()
	<-ctx.Done()
	stopped := d.cron.Stop()
	<-stopped.Done()
	return nil
}

// DispatchDue runs one sweep. Exported so tests and the server can trigger
// a sweep without the cron loop.
func (d *Dispatcher) DispatchDue(ctx context.Context) {
	due, err := d.reminders.DueBefore(ctx, time.Now().UTC())
	if err != nil {
		d.logger.Errorw("reminder sweep failed", "error", err)
		return
	}
	for _, rem := range due {
		d.dispatch(ctx, rem)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, rem model.Reminder) {
	user, err := d.users.GetByID(ctx, rem.UserID)
	if err != nil {
		// Owner gone (deleted account); retire the reminder silently.
		d.logger.Warnw("reminder owner not found", "reminder_id", rem.ID, "user_id", rem.UserID)
		d.complete(ctx, rem)
		return
	}

	if rem.Channels&model.ReminderInApp != 0 {
		msg := "You have a reminder for one of your notes: " + rem.Title
		if err := d.inApp.CreateNotification(ctx, user.ID, "Reminder", msg, "Reminder", rem.NoteID, rem.Title); err != nil {
			d.logger.Warnw("in-app notification failed", "reminder_id", rem.ID, "error", err)
		}
	}

	if rem.Channels&model.ReminderPush != 0 && d.push != nil {
		if err := d.push.Send(ctx, user.ID, "Reminder", "Reminder for note: "+rem.Title); err != nil {
			d.logger.Warnw("push notification failed", "reminder_id", rem.ID, "error", err)
		}
	}

	if rem.Channels&model.ReminderEmail != 0 && d.email != nil && user.Email != "" {
		name := user.FirstName
		if name == "" {
			name = "there"
		}
		if err := d.email.SendReminder(ctx, user.Email, name, rem.Title, rem.RemindAt); err != nil {
			d.logger.Warnw("reminder email failed", "reminder_id", rem.ID, "error", err)
		}
	}

	d.complete(ctx, rem)
}

func (d *Dispatcher) complete(ctx context.Context, rem model.Reminder) {
	if err := d.reminders.MarkCompleted(ctx, rem.ID); err != nil {
		d.logger.Errorw("failed to mark reminder completed", "reminder_id", rem.ID, "error", err)
	}
}
