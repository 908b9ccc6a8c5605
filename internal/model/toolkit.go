package model

import (
	"time"

	"github.com/google/uuid"
)

type Attendance struct {
	Attended  int
	Conducted int
	Target    int
}

type AttendanceOutlook struct {
	Percentage float64
	Needed     int
	Skippable  int
}

type AttendanceQuery struct {
	ID        uuid.UUID
	UserID    string
	Question  string
	Context   map[string]any
	Response  map[string]any
	CreatedAt time.Time
}

type SurvivalInput struct {
	Skills        []string
	StressLevel   int
	TimeAvailable string
	ExamDates     []string
	Goals         []string
}

type Doubt struct {
	ID           uuid.UUID
	UserID       string
	Question     string
	ContextNotes string
	Answer       string
	Sources      []string
	CreatedAt    time.Time
}

type QuestionRequest struct {
	Subject    string
	Topic      string
	Difficulty string
	Count      int
}

type QuestionSet struct {
	ID         uuid.UUID
	UserID     string
	Subject    string
	Topic      string
	Difficulty string
	Questions  []string
	CreatedAt  time.Time
}
