package render

import (
	"fmt"
	"strings"
	"time"
)

// Truncation budgets for list/summary context. Detail views show the
// full text untruncated.
const (
	SummaryBudgetInbox  = 200
	SummaryBudgetTicket = 150
)

// Truncate cuts s to at most budget runes and appends an ellipsis when
// anything was cut.
func Truncate(s string, budget int) string {
	r := []rune(s)
	if len(r) <= budget {
		return s
	}
	return string(r[:budget]) + "..."
}

// Initials derives up to two uppercase initials from a display name.
func Initials(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "??"
	}
	parts := strings.Fields(name)
	if len(parts) == 1 {
		r := []rune(parts[0])
		if len(r) > 2 {
			r = r[:2]
		}
		return strings.ToUpper(string(r))
	}
	first := []rune(parts[0])
	last := []rune(parts[len(parts)-1])
	return strings.ToUpper(string(first[0]) + string(last[0]))
}

var initialsPalette = []string{
	"bg-violet-500",
	"bg-blue-500",
	"bg-green-500",
	"bg-yellow-500",
	"bg-red-500",
	"bg-pink-500",
	"bg-indigo-500",
	"bg-purple-500",
}

// InitialsColor picks a palette entry from a character sum, so the same
// initials always get the same color.
func InitialsColor(initials string) string {
	sum := 0
	for _, r := range initials {
		sum += int(r)
	}
	return initialsPalette[sum%len(initialsPalette)]
}

// Stars renders rating filled stars out of five.
func Stars(rating int) string {
	var b strings.Builder
	for i := 1; i <= 5; i++ {
		if i <= rating {
			b.WriteString(`<span class="star star-filled">★</span>`)
		} else {
			b.WriteString(`<span class="star">☆</span>`)
		}
	}
	return b.String()
}

// UnreadBadge is the displayed unread counter, capped at "9+".
func UnreadBadge(unread int) string {
	if unread <= 0 {
		return ""
	}
	if unread > 9 {
		return "9+"
	}
	return fmt.Sprintf("%d", unread)
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}

func FormatMonthYear(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2006")
}

// RelativeTime renders a short "how long ago" label for chat bubbles.
func RelativeTime(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "À l'instant"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "À l'instant"
	case d < time.Hour:
		return fmt.Sprintf("Il y a %d min", int(d.Minutes()))
	case t.Year() == now.Year() && t.YearDay() == now.YearDay():
		return t.Format("15:04")
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days <= 1 {
			return "Il y a 1 jour"
		}
		return fmt.Sprintf("Il y a %d jours", days)
	default:
		return t.Format("02/01/2006")
	}
}
