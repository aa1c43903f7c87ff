package render

import (
	"fmt"

	"github.com/techfix-solutions/desk-service/internal/model"
)

type badge struct {
	label   string
	classes string
}

// Known enum values map to fixed labels and styles. The labels are static
// trusted strings and are embedded verbatim. Any unknown value is escaped
// and rendered as inert plain text, never as markup.
var statusBadges = map[string]badge{
	string(model.InboxStatusNew):         {"🆕 Nouveau", "bg-blue-100 text-blue-800"},
	string(model.TicketStatusInProgress): {"⏳ En cours", "bg-yellow-100 text-yellow-800"},
	string(model.InboxStatusHandled):     {"✅ Traité", "bg-green-100 text-green-800"},
	string(model.TicketStatusOpen):       {"📂 Ouvert", "bg-blue-100 text-blue-800"},
	string(model.TicketStatusResolved):   {"✅ Résolu", "bg-green-100 text-green-800"},
}

var priorityBadges = map[string]badge{
	string(model.PriorityNormal): {"Normal", "bg-gray-100 text-gray-800"},
	string(model.PriorityHigh):   {"⚠️ Haute", "bg-orange-100 text-orange-800"},
	string(model.PriorityUrgent): {"🚨 Urgente", "bg-red-100 text-red-800"},
}

func StatusBadge(status string) string {
	return renderBadge(statusBadges, status)
}

func PriorityBadge(priority string) string {
	return renderBadge(priorityBadges, priority)
}

func renderBadge(known map[string]badge, value string) string {
	b, ok := known[value]
	if !ok {
		return fmt.Sprintf(`<span class="badge badge-unknown">%s</span>`, Escape(value))
	}
	return fmt.Sprintf(`<span class="badge %s">%s</span>`, b.classes, b.label)
}
