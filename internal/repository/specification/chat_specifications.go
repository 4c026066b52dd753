package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.ChatSessionID)
}

// MessageIndexFrom matches messages at or after Index.
type MessageIndexFrom struct {
	Index int
}

func (s MessageIndexFrom) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("message_index >= ?", s.Index)
}

type ByMessageIndex struct {
	Index int
}

func (s ByMessageIndex) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("message_index = ?", s.Index)
}

type ByRole struct {
	Role string
}

func (s ByRole) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("role = ?", s.Role)
}

// VisibleSessions hides private sessions unless IncludePrivate is set.
type VisibleSessions struct {
	IncludePrivate bool
}

func (s VisibleSessions) Apply(db *gorm.DB) *gorm.DB {
	if s.IncludePrivate {
		return db
	}
	return db.Where("sessions.is_private = ?", false)
}

// LastActiveBetween bounds sessions.last_active; zero times are open ends.
type LastActiveBetween struct {
	From time.Time
	To   time.Time
}

func (s LastActiveBetween) Apply(db *gorm.DB) *gorm.DB {
	if !s.From.IsZero() {
		db = db.Where("sessions.last_active >= ?", s.From.UTC())
	}
	if !s.To.IsZero() {
		db = db.Where("sessions.last_active <= ?", s.To.UTC())
	}
	return db
}

// ActiveBetween keeps sessions with at least one message inside the window
// and orders them by their latest message in it. Zero times are open ends.
type ActiveBetween struct {
	From time.Time
	To   time.Time
}

func (s ActiveBetween) Apply(db *gorm.DB) *gorm.DB {
	windowSQL, windowArgs := messageWindow(s.From, s.To)
	db = db.Where("EXISTS (SELECT 1 FROM messages m WHERE m.session_id = sessions.id"+windowSQL+")", windowArgs...)
	return db.Clauses(clause.OrderBy{Expression: clause.Expr{
		SQL:                "(SELECT MAX(m.created_at) FROM messages m WHERE m.session_id = sessions.id" + windowSQL + ") DESC",
		Vars:               windowArgs,
		WithoutParentheses: true,
	}})
}

func RecentFirst() Specification {
	return OrderBy{Field: "sessions.last_active", Desc: true}
}

func ByMessageOrder() Specification {
	return OrderBy{Field: "message_index"}
}
