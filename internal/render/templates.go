package render

import (
	"fmt"
	"time"

	"github.com/techfix-solutions/desk-service/internal/model"
)

// TicketCard is the list/summary view of a ticket. The description is
// truncated; the detail view shows it in full.
func TicketCard(t model.Ticket) string {
	return fmt.Sprintf(`<div class="ticket-card" data-ticket-id="%s">
<div class="ticket-head"><h3>%s</h3><div class="badges">%s%s</div></div>
<p class="ticket-summary">%s</p>
<div class="ticket-meta"><span>Créé le %s</span><span>Mis à jour le %s</span></div>
</div>`,
		Escape(t.ID),
		Escape(t.Title),
		StatusBadge(string(t.Status)),
		PriorityBadge(string(t.Priority)),
		Escape(Truncate(t.Description, SummaryBudgetTicket)),
		FormatDate(t.CreatedAt),
		FormatDate(t.UpdatedAt))
}

// TicketDetail shows the full description with badges.
func TicketDetail(t model.Ticket) string {
	return fmt.Sprintf(`<div class="ticket-detail" data-ticket-id="%s">
<h2>%s</h2><div class="badges">%s%s</div>
<p class="ticket-author">Par %s • %s</p>
<p class="ticket-description">%s</p>
</div>`,
		Escape(t.ID),
		Escape(t.Title),
		StatusBadge(string(t.Status)),
		PriorityBadge(string(t.Priority)),
		Escape(t.UserName),
		FormatDate(t.CreatedAt),
		Escape(t.Description))
}

func TicketMessageBubble(m model.TicketMessage) string {
	side := "from-user"
	tag := `<span class="tag tag-client">Client</span>`
	if m.IsAdmin {
		side = "from-admin"
		tag = `<span class="tag tag-admin">Admin</span>`
	}
	return fmt.Sprintf(`<div class="message %s">
<div class="message-author"><span>%s</span>%s</div>
<p>%s</p>
<p class="message-time">%s</p>
</div>`,
		side,
		Escape(m.UserName),
		tag,
		Escape(m.Body),
		FormatDate(m.CreatedAt))
}

func ChatMessageBubble(m model.ChatMessage, now time.Time) string {
	side := "from-user"
	if m.IsAdmin {
		side = "from-admin"
	}
	return fmt.Sprintf(`<div class="chat-message %s">
<div class="chat-bubble"><span class="chat-name">%s</span><p>%s</p><span class="chat-time">%s</span></div>
</div>`,
		side,
		Escape(m.UserName),
		Escape(m.Body),
		RelativeTime(m.CreatedAt, now))
}

func ChatSessionRow(s model.ChatSession) string {
	unread := ""
	if b := UnreadBadge(s.UnreadCount); b != "" {
		unread = fmt.Sprintf(`<span class="unread-badge">%s</span>`, b)
	}
	name := s.UserName
	if name == "" {
		name = "Utilisateur"
	}
	return fmt.Sprintf(`<div class="session-row" data-session-id="%s">
<span class="online-dot"></span><span class="session-name">%s</span>%s
<p class="session-seen">%s</p>
</div>`,
		Escape(s.ID),
		Escape(name),
		unread,
		FormatDate(s.LastSeen))
}

// QuoteRow is the back-office list entry for a quote request.
func QuoteRow(q model.QuoteRequest) string {
	return fmt.Sprintf(`<div class="inbox-row" data-quote-id="%s">
<div class="inbox-head"><h3>%s</h3>%s</div>
<p class="inbox-contact">%s • %s</p>
<p class="inbox-service">Service: %s</p>
<p class="inbox-summary">%s</p>
<span class="inbox-date">%s</span>
</div>`,
		Escape(q.ID),
		Escape(q.Name),
		StatusBadge(string(q.Status)),
		Escape(q.Email),
		Escape(q.Phone),
		Escape(q.Service),
		Escape(Truncate(q.Description, SummaryBudgetInbox)),
		FormatDate(q.CreatedAt))
}

func ContactRow(c model.ContactMessage) string {
	return fmt.Sprintf(`<div class="inbox-row" data-contact-id="%s">
<div class="inbox-head"><h3>%s</h3>%s</div>
<p class="inbox-contact">%s • %s</p>
<p class="inbox-subject">Sujet: %s</p>
<p class="inbox-summary">%s</p>
<span class="inbox-date">%s</span>
</div>`,
		Escape(c.ID),
		Escape(c.Name),
		StatusBadge(string(c.Status)),
		Escape(c.Email),
		Escape(c.Phone),
		Escape(c.Subject),
		Escape(Truncate(c.Body, SummaryBudgetInbox)),
		FormatDate(c.CreatedAt))
}

func ReviewCard(r model.Review) string {
	initials := r.Initials
	if initials == "" {
		initials = Initials(r.Name)
	}
	return fmt.Sprintf(`<div class="review-card">
<div class="review-head"><div class="avatar %s"><span>%s</span></div>
<div><h3>%s</h3><div class="stars">%s</div></div></div>
<p class="review-text">"%s"</p>
<div class="review-foot"><span class="review-service">%s</span><span class="review-date">%s</span></div>
</div>`,
		InitialsColor(initials),
		Escape(initials),
		Escape(r.Name),
		Stars(r.Rating),
		Escape(r.Body),
		Escape(r.Service),
		FormatMonthYear(r.CreatedAt))
}

// ReviewSlide wraps one carousel page of review cards.
func ReviewSlide(reviews []model.Review) string {
	return fmt.Sprintf(`<div class="review-slide">%s</div>`,
		List(reviews, ReviewCard, EmptyReviews))
}

// ActivityItem is one merged dashboard feed entry.
type ActivityItem struct {
	Icon   string
	Text   string // pre-escaped by the builder
	Status model.InboxStatus
	Time   time.Time
}

func ActivityRow(a ActivityItem) string {
	return fmt.Sprintf(`<div class="activity-row">
<span class="activity-icon">%s</span>
<div class="activity-body"><p>%s</p><p class="activity-time">%s</p></div>
%s
</div>`,
		a.Icon,
		a.Text,
		FormatDate(a.Time),
		StatusBadge(string(a.Status)))
}
