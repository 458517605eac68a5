package httpapi

import (
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/domain"
	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadHandler is the HTTP surface of the upload gate.
type UploadHandler struct {
	uploads ports.UploadUseCase
}

func NewUploadHandler(uploads ports.UploadUseCase) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

func (h *UploadHandler) Register(router *gin.Engine) {
	router.POST("/v1/uploads", h.SubmitUpload)
	router.GET("/v1/media/:id", h.GetMedia)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// SubmitUpload accepts a multipart upload, runs it through verification and
// maps the outcome: approved 201, live 202, under review / rejected 403 with
// distinct body status, moderation failure 422. Validation failures are
// rejected before the pipeline is entered.
func (h *UploadHandler) SubmitUpload(c *gin.Context) {
	ownerID := c.GetHeader("X-User-ID")
	if ownerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing user identity"})
		return
	}

	title := c.PostForm("title")
	contentType := c.PostForm("content_type")
	if title == "" || !isSupportedContentType(contentType) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title and a valid content_type are required"})
		return
	}

	sub := domain.UploadSubmission{
		UploadID:    c.PostForm("upload_id"),
		OwnerID:     ownerID,
		Title:       title,
		Description: c.PostForm("description"),
		ContentType: contentType,
		MimeType:    c.PostForm("mime_type"),
	}
	if sub.UploadID == "" {
		sub.UploadID = uuid.NewString()
	}

	if domain.IsPlayableContentType(contentType) {
		file, fileHeader, err := readFormFile(c, "file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "a file is required for this content type"})
			return
		}
		sub.File = file
		if sub.MimeType == "" && fileHeader != nil {
			sub.MimeType = fileHeader.Header.Get("Content-Type")
		}

		thumbnail, _, err := readFormFile(c, "thumbnail")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "a thumbnail is required for this content type"})
			return
		}
		sub.Thumbnail = thumbnail
	}

	result, err := h.uploads.SubmitUpload(c.Request.Context(), sub)
	if err != nil {
		log.Printf("❌ Upload %s failed verification: %v", sub.UploadID, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "content verification failed, please try again",
		})
		return
	}

	body := gin.H{
		"id":     result.Media.ID,
		"status": strings.ToLower(result.Status),
	}
	if result.Verdict != nil {
		body["reason"] = result.Verdict.Reason
		body["flags"] = result.Verdict.Flags
		body["confidence"] = result.Verdict.Confidence
	}

	switch result.Status {
	case domain.StatusApproved:
		c.JSON(http.StatusCreated, body)
	case domain.StatusPending:
		c.JSON(http.StatusAccepted, body)
	default:
		// Under review and rejected are both non-approved at the HTTP level;
		// the body status keeps the distinction.
		c.JSON(http.StatusForbidden, body)
	}
}

func (h *UploadHandler) GetMedia(c *gin.Context) {
	media, err := h.uploads.GetMedia(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "fetching media failed"})
		return
	}
	if media == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "media not found"})
		return
	}
	c.JSON(http.StatusOK, media)
}

func readFormFile(c *gin.Context, field string) ([]byte, *multipart.FileHeader, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil, err
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}
	return data, fileHeader, nil
}

func isSupportedContentType(contentType string) bool {
	return domain.IsPlayableContentType(contentType) || contentType == domain.ContentTypeLive
}
