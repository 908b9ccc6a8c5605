package usecase_notes

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ShivanshCoding36/college-companion/internal/model"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNoteNotFound    = errors.New("note not found")
	ErrTooLarge        = errors.New("note file too large")
	ErrLinkUnsupported = errors.New("file storage cannot share links")
	ErrStorage         = errors.New("file storage error")
	ErrPersistence     = errors.New("persistence error")
)

const (
	MaxFileSize = 10 << 20
	LinkTTL     = 15 * time.Minute

	defaultContentType  = "application/octet-stream"
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
	maxTitleLen         = 200
)

//go:generate mockery --name=Repository --output=./mocks/notes/repository --filename=repository.go
type Repository interface {
	Save(ctx context.Context, note model.Note) error
	List(ctx context.Context, userID, subject string, limit int) ([]model.Note, error)
	ByID(ctx context.Context, id uuid.UUID) (model.Note, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// FileStorage keeps note files by key. Load reports a missing object as
// ErrNoteNotFound.
//
//go:generate mockery --name=FileStorage --output=./mocks/notes/storage --filename=storage.go
type FileStorage interface {
	Save(ctx context.Context, key string, content io.Reader, size int64, contentType string) error
	Load(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Presigner is implemented by storages that can hand out time-limited
// download links.
type Presigner interface {
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Usecase struct {
	repo    Repository
	storage FileStorage
	now     func() time.Time
	logger  *slog.Logger
}

func New(repo Repository, storage FileStorage) *Usecase {
	return &Usecase{
		repo:    repo,
		storage: storage,
		now:     time.Now,
		logger:  slog.Default(),
	}
}

// Upload stores the file first and the metadata second, so a listed note
// always has a file behind it.
func (u *Usecase) Upload(ctx context.Context, in model.NoteUpload) (model.Note, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Subject = strings.TrimSpace(in.Subject)
	in.FileName = filepath.Base(strings.TrimSpace(in.FileName))
	if in.Title == "" {
		in.Title = in.FileName
	}
	if in.ContentType == "" {
		in.ContentType = defaultContentType
	}
	if in.UserID == "" || in.Content == nil || in.Size <= 0 ||
		in.FileName == "." || in.FileName == "/" || len(in.Title) > maxTitleLen {
		return model.Note{}, ErrInvalidInput
	}
	if in.Size > MaxFileSize {
		return model.Note{}, ErrTooLarge
	}

	id := uuid.New()
	note := model.Note{
		ID:          id,
		UserID:      in.UserID,
		Title:       in.Title,
		Subject:     in.Subject,
		FileName:    in.FileName,
		ContentType: in.ContentType,
		Size:        in.Size,
		StorageKey:  path.Join(url.PathEscape(in.UserID), id.String()),
		CreatedAt:   u.now().UTC(),
	}

	if err := u.storage.Save(ctx, note.StorageKey, in.Content, in.Size, in.ContentType); err != nil {
		return model.Note{}, errors.Join(ErrStorage, err)
	}
	if err := u.repo.Save(ctx, note); err != nil {
		if delErr := u.storage.Delete(ctx, note.StorageKey); delErr != nil {
			u.logger.Warn("orphaned note file",
				slog.String("key", note.StorageKey),
				slog.String("error", delErr.Error()),
			)
		}
		return model.Note{}, errors.Join(ErrPersistence, err)
	}
	return note, nil
}

// List returns the user's notes, most recent first. An empty subject
// matches every note.
func (u *Usecase) List(ctx context.Context, userID, subject string, limit int) ([]model.Note, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}

	notes, err := u.repo.List(ctx, userID, strings.TrimSpace(subject), limit)
	if err != nil {
		return nil, errors.Join(ErrPersistence, err)
	}
	return notes, nil
}

// Open returns the note and its content. The caller closes the reader.
func (u *Usecase) Open(ctx context.Context, userID string, id uuid.UUID) (model.Note, io.ReadCloser, error) {
	note, err := u.owned(ctx, userID, id)
	if err != nil {
		return model.Note{}, nil, err
	}

	content, err := u.storage.Load(ctx, note.StorageKey)
	if errors.Is(err, ErrNoteNotFound) {
		return model.Note{}, nil, ErrNoteNotFound
	}
	if err != nil {
		return model.Note{}, nil, errors.Join(ErrStorage, err)
	}
	return note, content, nil
}

// ShareLink returns a download link valid for LinkTTL.
func (u *Usecase) ShareLink(ctx context.Context, userID string, id uuid.UUID) (string, time.Time, error) {
	presigner, ok := u.storage.(Presigner)
	if !ok {
		return "", time.Time{}, ErrLinkUnsupported
	}

	note, err := u.owned(ctx, userID, id)
	if err != nil {
		return "", time.Time{}, err
	}

	expires := u.now().UTC().Add(LinkTTL)
	link, err := presigner.PresignedURL(ctx, note.StorageKey, LinkTTL)
	if err != nil {
		return "", time.Time{}, errors.Join(ErrStorage, err)
	}
	return link, expires, nil
}

// Delete removes the metadata and then the file. A file left behind is
// only logged since nothing can reach it anymore.
func (u *Usecase) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	note, err := u.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := u.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return ErrNoteNotFound
		}
		return errors.Join(ErrPersistence, err)
	}
	if err := u.storage.Delete(ctx, note.StorageKey); err != nil {
		u.logger.Warn("orphaned note file",
			slog.String("key", note.StorageKey),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// Notes of other users look missing rather than forbidden.
func (u *Usecase) owned(ctx context.Context, userID string, id uuid.UUID) (model.Note, error) {
	if userID == "" || id == uuid.Nil {
		return model.Note{}, ErrInvalidInput
	}

	note, err := u.repo.ByID(ctx, id)
	if errors.Is(err, ErrNoteNotFound) {
		return model.Note{}, ErrNoteNotFound
	}
	if err != nil {
		return model.Note{}, errors.Join(ErrPersistence, err)
	}
	if note.UserID != userID {
		return model.Note{}, ErrNoteNotFound
	}
	return note, nil
}
