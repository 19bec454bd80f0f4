package notify

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/golfworks/fittings/internal/calendar"
	"github.com/golfworks/fittings/internal/events"
)

// ErrUndecodable marks a delivery whose body can never be handled; it is
// dead-lettered instead of requeued.
var ErrUndecodable = errors.New("undecodable event")

// Handler turns domain events into notices.
type Handler struct {
	notifier Notifier
	loc      *time.Location
	log      zerolog.Logger
}

func NewHandler(n Notifier, loc *time.Location, log zerolog.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{notifier: n, loc: loc, log: log}
}

func decode[T any](body []byte) (T, error) {
	v, err := events.Unmarshal[T](body)
	if err != nil {
		return v, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return v, nil
}

// Handle dispatches on the routing key. Unknown keys are acknowledged and
// skipped.
func (h *Handler) Handle(key string, body []byte) error {
	switch key {
	case events.RKFittingCreated:
		ev, err := decode[events.FittingCreated](body)
		if err != nil {
			return err
		}
		return h.notifier.Notify("Fitting Requested",
			fmt.Sprintf("Fitting %s for user %s on %s.", ev.FittingID, ev.UserID, calendar.FormatAppointment(ev.Date, h.loc)))

	case events.RKFittingStatusChanged:
		ev, err := decode[events.StatusChanged](body)
		if err != nil {
			return err
		}
		return h.notifier.Notify("Fitting Status Changed",
			fmt.Sprintf("Fitting %s is now %s.", ev.ID, ev.Status))

	case events.RKFittingRescheduled:
		ev, err := decode[events.FittingRescheduled](body)
		if err != nil {
			return err
		}
		return h.notifier.Notify("Fitting Rescheduled",
			fmt.Sprintf("Fitting %s moved from %s to %s.", ev.FittingID,
				calendar.FormatAppointment(ev.From, h.loc), calendar.FormatAppointment(ev.To, h.loc)))

	case events.RKSwingCreated:
		ev, err := decode[events.SwingCreated](body)
		if err != nil {
			return err
		}
		return h.notifier.Notify("Swing Analysis Requested",
			fmt.Sprintf("Swing analysis %s for user %s on %s.", ev.SwingID, ev.UserID, calendar.FormatAppointment(ev.Date, h.loc)))

	case events.RKSwingStatusChanged:
		ev, err := decode[events.StatusChanged](body)
		if err != nil {
			return err
		}
		return h.notifier.Notify("Swing Analysis Status Changed",
			fmt.Sprintf("Swing analysis %s is now %s.", ev.ID, ev.Status))

	case events.RKGettingStartedActivated:
		ev, err := decode[events.GettingStartedActivated](body)
		if err != nil {
			return err
		}
		return h.notifier.Notify("Getting Started Updated", ev.Message)

	default:
		h.log.Debug().Str("routing_key", key).Msg("skip unknown event")
	}
	return nil
}
