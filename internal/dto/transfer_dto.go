package dto

import (
	"encoding/json"
	"errors"
	"time"

	"rocktalk-be/internal/entity"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// ChatExport is the portable JSON document for one session.
type ChatExport struct {
	Session    SessionExport   `json:"session"`
	Messages   []MessageExport `json:"messages"`
	ExportedAt time.Time       `json:"exported_at"`
}

type SessionExport struct {
	Id         uuid.UUID        `json:"id"`
	Title      string           `json:"title"`
	CreatedAt  time.Time        `json:"created_at"`
	LastActive time.Time        `json:"last_active"`
	IsPrivate  bool             `json:"is_private"`
	Config     entity.LLMConfig `json:"config"`
}

type MessageExport struct {
	Role      string               `json:"role"`
	Content   []entity.ContentItem `json:"content"`
	Index     int                  `json:"index"`
	Version   int                  `json:"version"`
	CreatedAt time.Time            `json:"created_at"`
}

type ImportResponse struct {
	Imported []*SessionResponse `json:"imported"`
}

var ErrInvalidDocument = errors.New("invalid JSON document")

// DecodeChatExports accepts a single ChatExport document or an array of them.
func DecodeChatExports(data []byte) ([]*ChatExport, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidDocument
	}

	if gjson.ParseBytes(data).IsArray() {
		var docs []*ChatExport
		if err := json.Unmarshal(data, &docs); err != nil {
			return nil, err
		}
		return docs, nil
	}

	var doc ChatExport
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return []*ChatExport{&doc}, nil
}
