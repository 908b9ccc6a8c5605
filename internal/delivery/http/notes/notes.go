package http_notes

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	http_common "github.com/ShivanshCoding36/college-companion/internal/delivery/http/common"
	http_identity_middleware "github.com/ShivanshCoding36/college-companion/internal/delivery/http/middleware/identity"
	"github.com/ShivanshCoding36/college-companion/internal/model"
	usecase_notes "github.com/ShivanshCoding36/college-companion/internal/usecase/notes"
)

// Room for the multipart framing and text fields around the file.
const formOverhead = 1 << 20

type Controller struct {
	uc       *usecase_notes.Usecase
	identity *http_identity_middleware.Middleware
	logger   *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(
	uc *usecase_notes.Usecase,
	identity *http_identity_middleware.Middleware,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		uc:       uc,
		identity: identity,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	notes := router.Group("/notes", c.identity.IdentityRequired())
	{
		notes.POST("", c.upload)
		notes.GET("", c.list)
		notes.GET("/:note_id", c.download)
		notes.GET("/:note_id/link", c.link)
		notes.DELETE("/:note_id", c.delete)
	}
}

// NoteDTO
type NoteDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Subject     string    `json:"subject,omitempty"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// LinkDTO
type LinkDTO struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toNoteDTO(n model.Note) NoteDTO {
	return NoteDTO{
		ID:          n.ID.String(),
		Title:       n.Title,
		Subject:     n.Subject,
		FileName:    n.FileName,
		ContentType: n.ContentType,
		Size:        n.Size,
		CreatedAt:   n.CreatedAt,
	}
}

// Upload
// @Summary Upload a note
// @Tags Notes
// @Accept multipart/form-data
// @Produce json
// @Param X-user-id header string true "Caller id"
// @Param file formData file true "Note file, up to 10 MiB"
// @Param title formData string false "Title, defaults to the file name"
// @Param subject formData string false "Subject"
// @Success 201 {object} NoteDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 401 {object} http_common.ErrorResponse
// @Failure 413 {object} http_common.ErrorResponse
// @Failure 502 {object} http_common.ErrorResponse "File storage failed"
// @Failure 500 {object} http_common.ErrorResponse
// @Router /notes [post]
func (c *Controller) upload(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, usecase_notes.MaxFileSize+formOverhead)

	header, err := ctx.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.fail(ctx, "note upload too large", usecase_notes.ErrTooLarge)
			return
		}
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "file is required",
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.fail(ctx, "failed to open uploaded note", err)
		return
	}
	defer file.Close()

	note, err := c.uc.Upload(ctx, model.NoteUpload{
		UserID:      http_identity_middleware.UserID(ctx),
		Title:       ctx.PostForm("title"),
		Subject:     ctx.PostForm("subject"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	})
	if err != nil {
		c.fail(ctx, "failed to upload note", err)
		return
	}

	ctx.JSON(http.StatusCreated, toNoteDTO(note))
}

// List
// @Summary List notes
// @Description Most recent first
// @Tags Notes
// @Produce json
// @Param X-user-id header string true "Caller id"
// @Param subject query string false "Only notes of this subject"
// @Param limit query int false "Max entries (default 20, max 100)"
// @Success 200 {array} NoteDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 401 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /notes [get]
func (c *Controller) list(ctx *gin.Context) {
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: "limit must be a number",
			})
			return
		}
		limit = n
	}

	notes, err := c.uc.List(ctx, http_identity_middleware.UserID(ctx), ctx.Query("subject"), limit)
	if err != nil {
		c.fail(ctx, "failed to list notes", err)
		return
	}

	out := make([]NoteDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteDTO(n))
	}
	ctx.JSON(http.StatusOK, out)
}

// Download
// @Summary Download a note file
// @Tags Notes
// @Produce octet-stream
// @Param X-user-id header string true "Caller id"
// @Param note_id path string true "Note id"
// @Success 200 {file} file
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 401 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 502 {object} http_common.ErrorResponse "File storage failed"
// @Router /notes/{note_id} [get]
func (c *Controller) download(ctx *gin.Context) {
	noteID, ok := c.noteID(ctx)
	if !ok {
		return
	}

	note, content, err := c.uc.Open(ctx, http_identity_middleware.UserID(ctx), noteID)
	if err != nil {
		c.fail(ctx, "failed to open note", err)
		return
	}
	defer content.Close()

	ctx.DataFromReader(http.StatusOK, note.Size, note.ContentType, content, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": note.FileName}),
	})
}

// Link
// @Summary Get a temporary download link
// @Description Only available when notes are kept in a bucket
// @Tags Notes
// @Produce json
// @Param X-user-id header string true "Caller id"
// @Param note_id path string true "Note id"
// @Success 200 {object} LinkDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 401 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 501 {object} http_common.ErrorResponse "Storage cannot share links"
// @Router /notes/{note_id}/link [get]
func (c *Controller) link(ctx *gin.Context) {
	noteID, ok := c.noteID(ctx)
	if !ok {
		return
	}

	url, expires, err := c.uc.ShareLink(ctx, http_identity_middleware.UserID(ctx), noteID)
	if err != nil {
		c.fail(ctx, "failed to share note", err)
		return
	}

	ctx.JSON(http.StatusOK, LinkDTO{URL: url, ExpiresAt: expires})
}

// Delete
// @Summary Delete a note
// @Tags Notes
// @Param X-user-id header string true "Caller id"
// @Param note_id path string true "Note id"
// @Success 204
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 401 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /notes/{note_id} [delete]
func (c *Controller) delete(ctx *gin.Context) {
	noteID, ok := c.noteID(ctx)
	if !ok {
		return
	}

	if err := c.uc.Delete(ctx, http_identity_middleware.UserID(ctx), noteID); err != nil {
		c.fail(ctx, "failed to delete note", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (c *Controller) noteID(ctx *gin.Context) (uuid.UUID, bool) {
	idParam := ctx.Param("note_id")
	noteID, err := uuid.Parse(idParam)
	if err != nil {
		c.logger.Warn("invalid note ID",
			slog.String("id", idParam),
			slog.String("error", err.Error()),
		)
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid note id",
		})
		return uuid.Nil, false
	}
	return noteID, true
}

func (c *Controller) fail(ctx *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, usecase_notes.ErrInvalidInput):
		c.logger.Warn(msg, slog.String("error", err.Error()))
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid input",
		})
	case errors.Is(err, usecase_notes.ErrTooLarge):
		c.logger.Warn(msg, slog.String("error", err.Error()))
		ctx.JSON(http.StatusRequestEntityTooLarge, http_common.ErrorResponse{
			Message: "note file is larger than 10 MiB",
		})
	case errors.Is(err, usecase_notes.ErrNoteNotFound):
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
			Message: "note not found",
		})
	case errors.Is(err, usecase_notes.ErrLinkUnsupported):
		ctx.JSON(http.StatusNotImplemented, http_common.ErrorResponse{
			Message: "download links are not available",
		})
	case errors.Is(err, usecase_notes.ErrStorage):
		c.logger.Error(msg, slog.String("error", err.Error()))
		ctx.JSON(http.StatusBadGateway, http_common.ErrorResponse{
			Message: "file storage is unavailable",
		})
	default:
		c.logger.Error(msg, slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
	}
}
