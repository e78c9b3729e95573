package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/wbarraza/barberflow/internal/appointments"
	"github.com/wbarraza/barberflow/internal/schedule"
)

var spanishWeekdays = map[time.Weekday]string{
	time.Sunday:    "domingo",
	time.Monday:    "lunes",
	time.Tuesday:   "martes",
	time.Wednesday: "miércoles",
	time.Thursday:  "jueves",
	time.Friday:    "viernes",
	time.Saturday:  "sábado",
}

func dayLabel(t time.Time) string {
	return fmt.Sprintf("%s %02d/%02d", spanishWeekdays[t.Weekday()], t.Day(), int(t.Month()))
}

// renderAvailability produces the per-day listing shown to clients. Days
// without slots are left out of the text; the raw availability map keeps
// them. An all-empty week renders as "".
func renderAvailability(availability schedule.DayAvailability, loc *time.Location) string {
	var b strings.Builder
	for _, date := range availability.SortedDates() {
		slots := availability[date]
		if len(slots) == 0 {
			continue
		}
		day, err := time.ParseInLocation(schedule.DateLayout, date, loc)
		if err != nil {
			continue
		}

		times := make([]string, len(slots))
		for i, slot := range slots {
			times[i] = slot.Start.In(loc).Format("15:04")
		}
		fmt.Fprintf(&b, "• %s: %s\n", dayLabel(day), strings.Join(times, ", "))
	}
	if b.Len() == 0 {
		return ""
	}
	return "Horarios disponibles:\n" + strings.TrimRight(b.String(), "\n")
}

func renderSlotList(slots []schedule.Slot, loc *time.Location) string {
	lines := make([]string, len(slots))
	for i, slot := range slots {
		lines[i] = "• " + renderSlotMoment(slot, loc)
	}
	return strings.Join(lines, "\n")
}

func renderSlotMoment(slot schedule.Slot, loc *time.Location) string {
	start := slot.Start.In(loc)
	return fmt.Sprintf("%s a las %s", dayLabel(start), start.Format("15:04"))
}

func renderAppointmentMoment(appt appointments.Appointment, loc *time.Location) string {
	start := appt.StartAt.In(loc)
	return fmt.Sprintf("%s a las %s", dayLabel(start), start.Format("15:04"))
}

func renderCancelCandidates(candidates []appointments.Appointment, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("Tienes varias citas agendadas. ¿Cuál quieres cancelar?\n")
	for i, appt := range candidates {
		fmt.Fprintf(&b, "%d) %s\n", i+1, renderAppointmentMoment(appt, loc))
	}
	b.WriteString("Respóndeme con el día y la hora de la cita a cancelar.")
	return b.String()
}
