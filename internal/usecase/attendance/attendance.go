package usecase_attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ShivanshCoding36/college-companion/internal/model"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrAIRequestFailed = errors.New("ai request failed")
	ErrPersistence     = errors.New("persistence error")
)

const (
	DefaultTarget = 75

	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

const systemPrompt = `You are an attendance advisor for college students.
Use the numbers you are given, do not recompute them.
Answer in at most five short sentences.`

//go:generate mockery --name=QueryRepository --output=./mocks/attendance/repository --filename=repository.go
type QueryRepository interface {
	Save(ctx context.Context, query model.AttendanceQuery) error
	History(ctx context.Context, userID string, limit int) ([]model.AttendanceQuery, error)
}

//go:generate mockery --name=Completer --output=./mocks/llm/completer --filename=completer.go
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type Usecase struct {
	repo QueryRepository
	llm  Completer
	now  func() time.Time
}

func New(repo QueryRepository, llm Completer) *Usecase {
	return &Usecase{
		repo: repo,
		llm:  llm,
		now:  time.Now,
	}
}

// Outlook computes the current percentage, how many consecutive classes
// must be attended to reach the target, and how many can be skipped while
// staying at or above it. A zero target means DefaultTarget.
func Outlook(a model.Attendance) (model.AttendanceOutlook, error) {
	if a.Target == 0 {
		a.Target = DefaultTarget
	}
	if a.Conducted <= 0 || a.Attended < 0 || a.Attended > a.Conducted || a.Target < 1 || a.Target > 99 {
		return model.AttendanceOutlook{}, ErrInvalidInput
	}

	out := model.AttendanceOutlook{
		Percentage: math.Round(float64(a.Attended)*10000/float64(a.Conducted)) / 100,
	}

	// (A+x)/(C+x) >= T/100  <=>  x >= (T*C - 100*A) / (100 - T)
	if deficit := a.Target*a.Conducted - 100*a.Attended; deficit > 0 {
		out.Needed = (deficit + 100 - a.Target - 1) / (100 - a.Target)
	} else {
		// A/(C+y) >= T/100  <=>  y <= (100*A - T*C) / T
		out.Skippable = -deficit / a.Target
	}
	return out, nil
}

func (u *Usecase) Ask(ctx context.Context, userID, question string, a model.Attendance) (model.AttendanceQuery, error) {
	question = strings.TrimSpace(question)
	if userID == "" || question == "" {
		return model.AttendanceQuery{}, ErrInvalidInput
	}
	if a.Target == 0 {
		a.Target = DefaultTarget
	}

	outlook, err := Outlook(a)
	if err != nil {
		return model.AttendanceQuery{}, err
	}

	answer, err := u.llm.Complete(ctx, systemPrompt, buildPrompt(question, a, outlook))
	if err != nil {
		return model.AttendanceQuery{}, errors.Join(ErrAIRequestFailed, err)
	}

	query := model.AttendanceQuery{
		ID:       uuid.New(),
		UserID:   userID,
		Question: question,
		Context: map[string]any{
			"attended":  a.Attended,
			"conducted": a.Conducted,
			"target":    a.Target,
		},
		Response: map[string]any{
			"answer":     strings.TrimSpace(answer),
			"percentage": outlook.Percentage,
			"needed":     outlook.Needed,
			"skippable":  outlook.Skippable,
		},
		CreatedAt: u.now().UTC(),
	}

	if err := u.repo.Save(ctx, query); err != nil {
		return model.AttendanceQuery{}, errors.Join(ErrPersistence, err)
	}
	return query, nil
}

// History returns the user's past queries, most recent first.
func (u *Usecase) History(ctx context.Context, userID string, limit int) ([]model.AttendanceQuery, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}

	queries, err := u.repo.History(ctx, userID, limit)
	if err != nil {
		return nil, errors.Join(ErrPersistence, err)
	}
	return queries, nil
}

func buildPrompt(question string, a model.Attendance, o model.AttendanceOutlook) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Attended %d of %d classes (%.2f%%). Target is %d%%.\n", a.Attended, a.Conducted, o.Percentage, a.Target)
	switch {
	case o.Needed > 0:
		fmt.Fprintf(&b, "The student must attend the next %d classes in a row to reach the target.\n", o.Needed)
	case o.Skippable > 0:
		fmt.Fprintf(&b, "The student can skip %d classes and stay at or above the target.\n", o.Skippable)
	default:
		b.WriteString("The student cannot skip any class without dropping below the target.\n")
	}
	fmt.Fprintf(&b, "Question: %s", question)
	return b.String()
}
