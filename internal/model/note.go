package model

import (
	"io"
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID          uuid.UUID
	UserID      string
	Title       string
	Subject     string
	FileName    string
	ContentType string
	Size        int64
	StorageKey  string
	CreatedAt   time.Time
}

type NoteUpload struct {
	UserID      string
	Title       string
	Subject     string
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}
