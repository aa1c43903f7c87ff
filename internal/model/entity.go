package model

import "time"

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "ouvert"
	TicketStatusInProgress TicketStatus = "en_cours"
	TicketStatusResolved   TicketStatus = "resolu"
)

func (s TicketStatus) Valid() bool {
	return s == TicketStatusOpen || s == TicketStatusInProgress || s == TicketStatusResolved
}

type TicketPriority string

const (
	PriorityNormal TicketPriority = "normale"
	PriorityHigh   TicketPriority = "haute"
	PriorityUrgent TicketPriority = "urgente"
)

func (p TicketPriority) Valid() bool {
	return p == PriorityNormal || p == PriorityHigh || p == PriorityUrgent
}

// InboxStatus is shared by quote requests and contact messages.
type InboxStatus string

const (
	InboxStatusNew        InboxStatus = "nouveau"
	InboxStatusInProgress InboxStatus = "en_cours"
	InboxStatusHandled    InboxStatus = "traite"
)

func (s InboxStatus) Valid() bool {
	return s == InboxStatusNew || s == InboxStatusInProgress || s == InboxStatusHandled
}

type Ticket struct {
	ID          string         `gorm:"type:varchar(64);primaryKey" json:"id"`
	UserID      string         `gorm:"type:varchar(64);index;not null" json:"user_id"`
	UserName    string         `gorm:"type:varchar(100)" json:"user_name"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      TicketStatus   `gorm:"type:varchar(32);index;not null" json:"status"`
	Priority    TicketPriority `gorm:"type:varchar(32);index" json:"priority"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`

	Messages []TicketMessage `gorm:"foreignKey:TicketID" json:"messages,omitempty"`
}

// TicketMessage is immutable after creation.
type TicketMessage struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	TicketID  string    `gorm:"type:varchar(64);index;not null" json:"ticket_id"`
	UserID    string    `gorm:"type:varchar(64);not null" json:"user_id"`
	UserName  string    `gorm:"type:varchar(100)" json:"user_name"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	IsAdmin   bool      `gorm:"not null" json:"is_admin"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// ChatSession id equals the participant id: one session per visitor.
type ChatSession struct {
	ID          string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	UserName    string    `gorm:"type:varchar(100)" json:"user_name"`
	UserEmail   string    `gorm:"type:varchar(254)" json:"user_email"`
	IsOnline    bool      `gorm:"index" json:"is_online"`
	LastSeen    time.Time `json:"last_seen"`
	UnreadCount int       `gorm:"not null;default:0" json:"unread_count"`
	CreatedAt   time.Time `json:"created_at"`

	Messages []ChatMessage `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
}

// ChatMessage is immutable after creation.
type ChatMessage struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	SessionID string    `gorm:"type:varchar(64);index;not null" json:"session_id"`
	UserID    string    `gorm:"type:varchar(64);not null" json:"user_id"`
	UserName  string    `gorm:"type:varchar(100)" json:"user_name"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	IsAdmin   bool      `gorm:"not null" json:"is_admin"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// QuoteRequest comes from the public quote form.
type QuoteRequest struct {
	ID          string      `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name        string      `gorm:"type:varchar(100);not null" json:"name"`
	Email       string      `gorm:"type:varchar(254)" json:"email"`
	Phone       string      `gorm:"type:varchar(32)" json:"phone"`
	City        string      `gorm:"type:varchar(100)" json:"city,omitempty"`
	Service     string      `gorm:"type:varchar(100)" json:"service"`
	Urgency     string      `gorm:"type:varchar(64)" json:"urgency,omitempty"`
	Budget      string      `gorm:"type:varchar(64)" json:"budget,omitempty"`
	Description string      `gorm:"type:text" json:"description"`
	Status      InboxStatus `gorm:"type:varchar(32);index;not null" json:"status"`
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ContactMessage comes from the public contact form.
type ContactMessage struct {
	ID        string      `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name      string      `gorm:"type:varchar(100);not null" json:"name"`
	Email     string      `gorm:"type:varchar(254)" json:"email"`
	Phone     string      `gorm:"type:varchar(32)" json:"phone"`
	Subject   string      `gorm:"type:varchar(255)" json:"subject"`
	Body      string      `gorm:"type:text" json:"body"`
	Status    InboxStatus `gorm:"type:varchar(32);index;not null" json:"status"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Review is created externally; only approved reviews are ever rendered.
type Review struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Initials  string    `gorm:"type:varchar(8)" json:"initials"`
	Rating    int       `gorm:"not null" json:"rating"`
	Body      string    `gorm:"type:text" json:"body"`
	Service   string    `gorm:"type:varchar(100)" json:"service"`
	Approved  bool      `gorm:"index;not null" json:"approved"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

type UserProfile struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(254);uniqueIndex" json:"email"`
	Name      string    `gorm:"type:varchar(100)" json:"name"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// Collection names double as changefeed topics.
const (
	CollectionTickets        = "tickets"
	CollectionTicketMessages = "ticket_messages"
	CollectionChatSessions   = "chat_sessions"
	CollectionChatMessages   = "chat_messages"
	CollectionQuotes         = "quote_requests"
	CollectionContacts       = "contact_messages"
	CollectionReviews        = "reviews"
	CollectionUsers          = "user_profiles"
)
