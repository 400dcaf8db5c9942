package appointment

import (
	"context"
	"log/slog"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/mail"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type ReminderResult struct {
	Due    int
	Sent   int
	Failed int
}

// SendReminders mails every confirmed appointment of the next local day
// once. A failed send is retried on the next run.
type SendReminders struct {
	appointments domain.Store
	services     recurrence.ServiceLookup
	mailer       mail.Mailer
	now          func() time.Time
	loc          *time.Location
	logger       *slog.Logger
}

func NewSendReminders(
	appointments domain.Store,
	services recurrence.ServiceLookup,
	mailer mail.Mailer,
	now func() time.Time,
	loc *time.Location,
	logger *slog.Logger,
) *SendReminders {
	return &SendReminders{
		appointments: appointments,
		services:     services,
		mailer:       mailer,
		now:          now,
		loc:          loc,
		logger:       logging.Default(logger),
	}
}

func (uc *SendReminders) Execute(ctx context.Context) (ReminderResult, error) {
	logger := logging.Service(uc.logger, "Appointments", "SendReminders")

	today := timezone.CivilDateOf(uc.now().In(uc.loc))
	from := today.Midnight(uc.loc).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, 1)

	due, err := uc.appointments.ListReminderDue(ctx, from, to)
	if err != nil {
		return ReminderResult{}, err
	}

	res := ReminderResult{Due: len(due)}
	for i := range due {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		ap := &due[i]

		serviceName := ""
		if svc, err := uc.services.GetService(ctx, ap.TenantID, ap.ServiceID); err == nil {
			serviceName = svc.Name
		}

		local := ap.StartAt.In(uc.loc)
		msg, err := mail.BookingReminder(ap.CustomerEmail, mail.AppointmentDetails{
			CustomerName: ap.CustomerEmail,
			ServiceName:  serviceName,
			Date:         local.Format("02.01.2006"),
			Time:         local.Format("15:04"),
		})
		if err == nil {
			err = uc.mailer.Send(ctx, msg)
		}
		if err != nil {
			res.Failed++
			logger.WarnContext(ctx, "reminder failed", "appointment_id", ap.ID, "error", err)
			continue
		}

		sent := uc.now().UTC()
		ap.ReminderSentAt = &sent
		if err := uc.appointments.Update(ctx, ap); err != nil {
			return res, err
		}
		res.Sent++
	}

	logger.InfoContext(ctx, "reminders sent", "due", res.Due, "sent", res.Sent, "failed", res.Failed)
	return res, nil
}
