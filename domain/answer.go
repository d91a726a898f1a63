package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Answer is the kind of a raw questionnaire answer.
type Answer string

const (
	AnswerYes         Answer = "yes"
	AnswerNo          Answer = "no"
	AnswerUnknown     Answer = "unknown"
	AnswerIndependent Answer = "independent"
)

func (a Answer) Valid() bool {
	switch a {
	case AnswerYes, AnswerNo, AnswerUnknown, AnswerIndependent:
		return true
	}
	return false
}

// ParseAnswer maps a wire string to an Answer kind.
func ParseAnswer(s string) (Answer, bool) {
	a := Answer(s)
	return a, a.Valid()
}

// AnswerRecord is one entry of a profile's append-only answer log.
type AnswerRecord struct {
	NeedID    string    `json:"need_id"`
	Answer    Answer    `json:"answer"`
	Question  string    `json:"question,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// ProfileDoc is the portable profile document, version 1. The aggregate and
// the independent set are recomputed on load and never persisted. The ext
// areas are the only places where unknown fields are tolerated.
type ProfileDoc struct {
	Version int            `json:"version"`
	Answers []AnswerDoc    `json:"answers"`
	Ext     map[string]any `json:"ext,omitempty"`
}

type AnswerDoc struct {
	NeedID    string         `json:"need_id"`
	Answer    Answer         `json:"answer"`
	Question  string         `json:"question,omitempty"`
	Timestamp *time.Time     `json:"timestamp,omitempty"`
	Ext       map[string]any `json:"ext,omitempty"`
}

// AnswerEvent is the persisted form of one answer within a session.
type AnswerEvent struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	SessionID string            `gorm:"column:session_id;not null;index" json:"session_id"`
	NeedID    string            `gorm:"column:need_id;not null" json:"need_id"`
	Answer    string            `gorm:"column:answer;not null" json:"answer"`
	Question  string            `gorm:"column:question" json:"question"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Context   datatypes.JSONMap `gorm:"column:context;type:jsonb" json:"context"`
}

// Session is one interview session. ProfileJSON holds the latest profile
// document snapshot so a session can be rehydrated after a restart.
type Session struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	ProfileJSON []byte    `gorm:"column:profile_json" json:"-"`
}
