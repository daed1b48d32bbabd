package models

import "time"

type Urgency struct {
	Level string `json:"level"`
	Color string `json:"color"`
	Label string `json:"label"`
}

const (
	UrgencyOverdue  = "overdue"
	UrgencyCritical = "critical"
	UrgencyWarning  = "warning"
	UrgencyNormal   = "normal"
	UrgencyDistant  = "distant"
)

// DaysRemaining is the whole-day difference between the scheduled date and
// today, both truncated to local calendar dates. Negative when overdue.
func DaysRemaining(scheduled, now time.Time) int {
	y1, m1, d1 := scheduled.Date()
	y2, m2, d2 := now.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b).Hours() / 24)
}

// ClassifyUrgency maps a day count onto a display tier. The bands partition
// the integers; the lowest matching band wins.
func ClassifyUrgency(daysRemaining int) Urgency {
	switch {
	case daysRemaining < 0:
		return Urgency{Level: UrgencyOverdue, Color: "#DC2626", Label: "Gecikmiş"}
	case daysRemaining <= 1:
		return Urgency{Level: UrgencyCritical, Color: "#EF4444", Label: "Kritik"}
	case daysRemaining <= 3:
		return Urgency{Level: UrgencyWarning, Color: "#F59E0B", Label: "Uyarı"}
	case daysRemaining <= 7:
		return Urgency{Level: UrgencyNormal, Color: "#10B981", Label: "Normal"}
	default:
		return Urgency{Level: UrgencyDistant, Color: "#94A3B8", Label: "Uzak"}
	}
}
