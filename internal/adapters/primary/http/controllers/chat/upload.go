package chat

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/admin/cosmic-connect/internal/adapters/primary/http/middlewares"
	"github.com/admin/cosmic-connect/internal/adapters/primary/http/response"
	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	// запас на поля формы и границы multipart
	multipartOverhead = 64 << 10
	multipartMemory   = 8 << 20
)

// submitProof multipart: amount + файл proof
func (c *Controller) submitProof(ctx *gin.Context) {
	id, ok := chatID(ctx)
	if !ok {
		return
	}
	log := logger.FromContext(ctx.Request.Context(), c.Log)
	session := middlewares.SessionFrom(ctx)

	if c.MaxUploadBytes > 0 {
		limit := c.MaxUploadBytes + multipartOverhead
		if ctx.Request.ContentLength > limit {
			response.TooLarge(ctx, "proof file is too large")
			return
		}
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, limit)
	}

	// PostForm глотает ошибку разбора, поэтому форма разбирается явно
	if err := ctx.Request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.TooLarge(ctx, "proof file is too large")
			return
		}
		response.BadRequest(ctx, "multipart form with amount and proof is required")
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(ctx.Request.PostFormValue("amount")))
	if err != nil {
		response.BadRequest(ctx, "amount must be a decimal number")
		return
	}

	file, header, err := ctx.Request.FormFile("proof")
	if err != nil {
		response.BadRequest(ctx, "proof file is required")
		return
	}
	defer file.Close()

	contentType, err := detectContentType(header.Header.Get("Content-Type"), file)
	if err != nil {
		log.Warn("failed to read proof file", "error", err)
		response.BadRequest(ctx, "proof file is unreadable")
		return
	}

	payment, err := c.ChatService.SubmitProof(ctx.Request.Context(), domain.ProofSubmission{
		ChatID:      id,
		UserID:      session.ProfileID,
		Amount:      amount,
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		response.Error(ctx, log, err)
		return
	}
	response.Created(ctx, payment)
}

// detectContentType тип определяется по первым байтам; заголовок части учитывается,
// только если содержимое не распознано (например, HEIC)
func detectContentType(declared string, file io.ReadSeeker) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(head[:n]))
	if sniffed != octetStream || declared == "" {
		return sniffed, nil
	}

	if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
		return mediaType, nil
	}
	return sniffed, nil
}

const octetStream = "application/octet-stream"
