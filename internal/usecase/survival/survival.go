package usecase_survival

import (
	"context"
	"errors"
	"fmt"
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
	defaultQuestionCount = 5
	maxQuestionCount     = 20
	defaultDifficulty    = "medium"

	defaultHistoryLimit = 20
	maxHistoryLimit     = 100

	sourcesMarker = "Sources:"
)

var difficulties = map[string]bool{"easy": true, "medium": true, "hard": true}

const (
	planSystemPrompt = `You help college students survive the semester.
Write a day-by-day plan as a short bulleted list, grounded in the student's
skills, time and exam dates. Keep it realistic for the stress level given.`

	doubtSystemPrompt = `You are a patient tutor. Explain the answer step by step.
If you rely on references, end with a line "Sources:" followed by one
reference per line.`

	questionsSystemPrompt = `You write practice questions for college exams.
Reply with a numbered list, one question per line, nothing else.`
)

//go:generate mockery --name=Repository --output=./mocks/survival/repository --filename=repository.go
type Repository interface {
	SaveDoubt(ctx context.Context, doubt model.Doubt) error
	Doubts(ctx context.Context, userID string, limit int) ([]model.Doubt, error)
	SaveQuestionSet(ctx context.Context, set model.QuestionSet) error
}

//go:generate mockery --name=Completer --output=./mocks/llm/completer --filename=completer.go
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type Usecase struct {
	repo Repository
	llm  Completer
	now  func() time.Time
}

func New(repo Repository, llm Completer) *Usecase {
	return &Usecase{
		repo: repo,
		llm:  llm,
		now:  time.Now,
	}
}

// Plan is not stored, the student regenerates it when the input changes.
func (u *Usecase) Plan(ctx context.Context, in model.SurvivalInput) (string, error) {
	if in.StressLevel < 1 || in.StressLevel > 10 || strings.TrimSpace(in.TimeAvailable) == "" {
		return "", ErrInvalidInput
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Stress level: %d/10\n", in.StressLevel)
	fmt.Fprintf(&b, "Time available: %s\n", strings.TrimSpace(in.TimeAvailable))
	writeList(&b, "Skills", in.Skills)
	writeList(&b, "Exam dates", in.ExamDates)
	writeList(&b, "Goals", in.Goals)

	plan, err := u.complete(ctx, planSystemPrompt, b.String())
	if err != nil {
		return "", err
	}
	return plan, nil
}

func (u *Usecase) SolveDoubt(ctx context.Context, userID, question, contextNotes string) (model.Doubt, error) {
	question = strings.TrimSpace(question)
	if userID == "" || question == "" {
		return model.Doubt{}, ErrInvalidInput
	}

	prompt := "Question: " + question
	if notes := strings.TrimSpace(contextNotes); notes != "" {
		prompt += "\nNotes from the student:\n" + notes
	}

	reply, err := u.complete(ctx, doubtSystemPrompt, prompt)
	if err != nil {
		return model.Doubt{}, err
	}
	answer, sources := splitSources(reply)

	doubt := model.Doubt{
		ID:           uuid.New(),
		UserID:       userID,
		Question:     question,
		ContextNotes: strings.TrimSpace(contextNotes),
		Answer:       answer,
		Sources:      sources,
		CreatedAt:    u.now().UTC(),
	}
	if err := u.repo.SaveDoubt(ctx, doubt); err != nil {
		return model.Doubt{}, errors.Join(ErrPersistence, err)
	}
	return doubt, nil
}

// Doubts returns the user's solved doubts, most recent first.
func (u *Usecase) Doubts(ctx context.Context, userID string, limit int) ([]model.Doubt, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}

	doubts, err := u.repo.Doubts(ctx, userID, limit)
	if err != nil {
		return nil, errors.Join(ErrPersistence, err)
	}
	return doubts, nil
}

func (u *Usecase) GenerateQuestions(ctx context.Context, userID string, req model.QuestionRequest) (model.QuestionSet, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	req.Topic = strings.TrimSpace(req.Topic)
	req.Difficulty = strings.ToLower(strings.TrimSpace(req.Difficulty))
	if req.Difficulty == "" {
		req.Difficulty = defaultDifficulty
	}
	if req.Count == 0 {
		req.Count = defaultQuestionCount
	}
	if userID == "" || req.Subject == "" || !difficulties[req.Difficulty] || req.Count < 1 || req.Count > maxQuestionCount {
		return model.QuestionSet{}, ErrInvalidInput
	}

	prompt := fmt.Sprintf("Write %d %s questions on %s", req.Count, req.Difficulty, req.Subject)
	if req.Topic != "" {
		prompt += ", topic: " + req.Topic
	}

	reply, err := u.complete(ctx, questionsSystemPrompt, prompt)
	if err != nil {
		return model.QuestionSet{}, err
	}
	questions := parseQuestions(reply)
	if len(questions) > req.Count {
		questions = questions[:req.Count]
	}
	if len(questions) == 0 {
		return model.QuestionSet{}, errors.Join(ErrAIRequestFailed, errors.New("no questions in reply"))
	}

	set := model.QuestionSet{
		ID:         uuid.New(),
		UserID:     userID,
		Subject:    req.Subject,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		Questions:  questions,
		CreatedAt:  u.now().UTC(),
	}
	if err := u.repo.SaveQuestionSet(ctx, set); err != nil {
		return model.QuestionSet{}, errors.Join(ErrPersistence, err)
	}
	return set, nil
}

func (u *Usecase) complete(ctx context.Context, system, prompt string) (string, error) {
	reply, err := u.llm.Complete(ctx, system, prompt)
	if err != nil {
		return "", errors.Join(ErrAIRequestFailed, err)
	}
	return strings.TrimSpace(reply), nil
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", title, strings.Join(items, ", "))
}

// splitSources cuts a trailing "Sources:" block off the reply.
func splitSources(reply string) (string, []string) {
	idx := strings.LastIndex(reply, sourcesMarker)
	if idx < 0 {
		return reply, nil
	}

	var sources []string
	for _, line := range strings.Split(reply[idx+len(sourcesMarker):], "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*"))
		if line != "" {
			sources = append(sources, line)
		}
	}
	return strings.TrimSpace(reply[:idx]), sources
}

// parseQuestions reads one question per non-empty line, dropping list
// numbering like "1." or "2)".
func parseQuestions(reply string) []string {
	var out []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		trimmed := strings.TrimLeft(line, "0123456789")
		if trimmed != line && (strings.HasPrefix(trimmed, ".") || strings.HasPrefix(trimmed, ")")) {
			line = strings.TrimSpace(trimmed[1:])
		}
		line = strings.TrimSpace(strings.TrimLeft(line, "-*"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
