package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type Action string

const (
	ActionConfirmed Action = "confirmed"
	ActionUpdated   Action = "updated"
	ActionCanceled  Action = "canceled"
)

// Event is the notification payload for one appointment mutation. Actor and
// ActorRole only shape the wording; authorization happened upstream.
type Event struct {
	CustomerEmail string
	CustomerName  string

	Date        string
	Time        string
	ServiceName string
	StaffNames  []string

	Action    Action
	Actor     string
	ActorRole string
}

type Service struct {
	sender EmailSender
	logger *zap.Logger
}

func NewService(sender EmailSender, logger *zap.Logger) *Service {
	return &Service{sender: sender, logger: logger}
}

// Notify sends the customer email for an appointment mutation. Failure is
// logged and returned so callers can report it separately; it never fails
// the booking operation itself.
func (s *Service) Notify(ctx context.Context, ev Event) error {
	if ev.CustomerEmail == "" {
		return fmt.Errorf("notify: customer email is missing")
	}

	msg := EmailMessage{
		To:      ev.CustomerEmail,
		ToName:  ev.CustomerName,
		Subject: fmt.Sprintf("Your appointment has been %s", ev.Action),
		Body:    buildBody(ev),
		HTML:    buildHTML(ev),
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("appointment notification failed",
			zap.String("action", string(ev.Action)),
			zap.String("to", ev.CustomerEmail),
			zap.Error(err))
		return err
	}
	return nil
}

// roleMessage matches the customer-facing wording: mutations by the business
// owner read "by the admin", everyone else is named.
func roleMessage(ev Event) string {
	if ev.ActorRole == "admin" {
		return "by the admin"
	}
	return fmt.Sprintf("by %s", ev.Actor)
}

func staffLine(ev Event) string {
	if len(ev.StaffNames) == 0 {
		return "Not assigned"
	}
	return strings.Join(ev.StaffNames, ", ")
}

func buildBody(ev Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", ev.CustomerName)
	fmt.Fprintf(&b, "Your appointment has been %s %s.\n\n", ev.Action, roleMessage(ev))
	b.WriteString("Updated details:\n")
	fmt.Fprintf(&b, "  Date: %s\n", ev.Date)
	fmt.Fprintf(&b, "  Time: %s\n", ev.Time)
	fmt.Fprintf(&b, "  Service: %s\n", ev.ServiceName)
	fmt.Fprintf(&b, "  Team Member: %s\n\n", staffLine(ev))
	b.WriteString("If you have any questions, please contact us.\n")
	return b.String()
}

func buildHTML(ev Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>Appointment %s</h1>", ev.Action)
	fmt.Fprintf(&b, "<p>Dear %s,</p>", ev.CustomerName)
	fmt.Fprintf(&b, "<p>Your appointment has been %s %s.</p>", ev.Action, roleMessage(ev))
	b.WriteString("<p>Updated details:</p><ul>")
	fmt.Fprintf(&b, "<li>Date: %s</li>", ev.Date)
	fmt.Fprintf(&b, "<li>Time: %s</li>", ev.Time)
	fmt.Fprintf(&b, "<li>Service: %s</li>", ev.ServiceName)
	fmt.Fprintf(&b, "<li>Team Member: %s</li>", staffLine(ev))
	b.WriteString("</ul><p>If you have any questions, please contact us.</p>")
	return b.String()
}
