package chat

import (
	"bytes"
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/admin/cosmic-connect/internal/adapters/primary/http/middlewares"
	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type chatMock struct {
	mock.Mock
}

func (m *chatMock) GetChat(ctx context.Context, chatID, viewerID uuid.UUID) (*domain.ChatDetails, error) {
	args := m.Called(ctx, chatID, viewerID)
	d, _ := args.Get(0).(*domain.ChatDetails)
	return d, args.Error(1)
}

func (m *chatMock) SendMessage(ctx context.Context, chatID, senderID uuid.UUID, text string) (*domain.Message, error) {
	args := m.Called(ctx, chatID, senderID, text)
	msg, _ := args.Get(0).(*domain.Message)
	return msg, args.Error(1)
}

func (m *chatMock) ListMessages(ctx context.Context, chatID, viewerID uuid.UUID) ([]domain.Message, error) {
	args := m.Called(ctx, chatID, viewerID)
	msgs, _ := args.Get(0).([]domain.Message)
	return msgs, args.Error(1)
}

func (m *chatMock) MarkRead(ctx context.Context, chatID, readerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, chatID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *chatMock) Subscribe(ctx context.Context, chatID, viewerID uuid.UUID, afterSeq int64) (<-chan domain.Message, error) {
	args := m.Called(ctx, chatID, viewerID, afterSeq)
	ch, _ := args.Get(0).(<-chan domain.Message)
	return ch, args.Error(1)
}

func (m *chatMock) SubmitProof(ctx context.Context, in domain.ProofSubmission) (*domain.Payment, error) {
	args := m.Called(ctx, in)
	p, _ := args.Get(0).(*domain.Payment)
	return p, args.Error(1)
}

// streamRecorder ResponseRecorder с CloseNotify, которого требует gin Stream
type streamRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newStreamRecorder() *streamRecorder {
	return &streamRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
}

func (r *streamRecorder) CloseNotify() <-chan bool { return r.closed }

func newRouter(svc *chatMock, session *domain.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if session != nil {
			middlewares.SetSession(c, session)
		}
	})
	New(svc, 1024, logger.Discard()).RegisterRoutes(r)
	return r
}

func userSession() *domain.Session {
	id := uuid.New()
	return &domain.Session{ProfileID: id, Profile: &domain.Profile{ID: id, Role: domain.RoleUser}}
}

func TestSendMessageStatusCodes(t *testing.T) {
	session := userSession()
	chatID := uuid.New()

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"inactive chat", domain.ErrChatInactive, http.StatusConflict},
		{"empty message", domain.ErrEmptyMessage, http.StatusBadRequest},
		{"stranger", domain.ErrNotParticipant, http.StatusForbidden},
		{"no chat", domain.ErrNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &chatMock{}
			svc.On("SendMessage", mock.Anything, chatID, session.ProfileID, "hi").Return(nil, tc.err).Once()
			r := newRouter(svc, session)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/chats/"+chatID.String()+"/messages",
				strings.NewReader(`{"message":"hi"}`)))
			assert.Equal(t, tc.status, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestChatRoutesRequireSession(t *testing.T) {
	r := newRouter(&chatMock{}, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/chats/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r = newRouter(&chatMock{}, userSession())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/chats/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStreamWritesEventsWithSeqIDs(t *testing.T) {
	session := userSession()
	chatID := uuid.New()

	ch := make(chan domain.Message, 2)
	ch <- domain.Message{ID: uuid.New(), ChatID: chatID, Seq: 8, Message: "hello"}
	ch <- domain.Message{ID: uuid.New(), ChatID: chatID, Seq: 9, Message: "again"}
	close(ch)

	svc := &chatMock{}
	svc.On("Subscribe", mock.Anything, chatID, session.ProfileID, int64(7)).
		Return((<-chan domain.Message)(ch), nil).Once()
	r := newRouter(svc, session)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chats/"+chatID.String()+"/stream", nil)
	req.Header.Set("Last-Event-ID", "7")
	w := newStreamRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mediaType, params, err := mime.ParseMediaType(w.Header().Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "text/event-stream", mediaType)
	assert.Equal(t, "utf-8", params["charset"])
	body := w.Body.String()
	assert.Contains(t, body, "id:8\n")
	assert.Contains(t, body, "id:9\n")
	assert.Contains(t, body, `"message":"hello"`)
	assert.Less(t, strings.Index(body, "id:8"), strings.Index(body, "id:9"))
	svc.AssertExpectations(t)
}

func TestStreamRejectsBadCursor(t *testing.T) {
	r := newRouter(&chatMock{}, userSession())
	w := newStreamRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/chats/"+uuid.NewString()+"/stream?after=-3", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func multipartProof(t *testing.T, amount, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	require.NoError(t, mw.WriteField("amount", amount))

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="proof"; filename="receipt.png"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestSubmitProofUpload(t *testing.T) {
	session := userSession()
	chatID := uuid.New()
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

	svc := &chatMock{}
	svc.On("SubmitProof", mock.Anything, mock.MatchedBy(func(in domain.ProofSubmission) bool {
		if seeker, ok := in.Body.(io.Seeker); ok {
			_, _ = seeker.Seek(0, io.SeekStart)
		}
		body, _ := io.ReadAll(in.Body)
		return in.ChatID == chatID &&
			in.UserID == session.ProfileID &&
			in.Amount.Equal(decimal.RequireFromString("49.90")) &&
			in.ContentType == "image/png" &&
			in.Size == int64(len(png)) &&
			bytes.Equal(body, png)
	})).Return(&domain.Payment{ID: uuid.New(), Status: domain.PaymentStatusPending}, nil).Once()
	r := newRouter(svc, session)

	// тип не указан в части, определяется по содержимому
	body, ct := multipartProof(t, "49.90", "", png)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chats/"+chatID.String()+"/payments", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestSubmitProofBadForm(t *testing.T) {
	session := userSession()
	r := newRouter(&chatMock{}, session)

	body, ct := multipartProof(t, "lots", "image/png", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chats/"+uuid.NewString()+"/payments", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitProofTooLarge(t *testing.T) {
	r := newRouter(&chatMock{}, userSession())

	body, ct := multipartProof(t, "49.90", "image/png", bytes.Repeat([]byte{0xff}, 128<<10))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chats/"+uuid.NewString()+"/payments", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "proof file is too large")
}

func TestSubmitProofTooLargeWithoutContentLength(t *testing.T) {
	r := newRouter(&chatMock{}, userSession())

	body, ct := multipartProof(t, "49.90", "image/png", bytes.Repeat([]byte{0xff}, 128<<10))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chats/"+uuid.NewString()+"/payments", io.NopCloser(body))
	req.ContentLength = -1
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestDetectContentType(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	heic := append([]byte{0, 0, 0, 0x18}, []byte("ftypheic")...)

	tests := []struct {
		name     string
		declared string
		data     []byte
		want     string
	}{
		{"sniffed without declared type", "", png, "image/png"},
		{"declared type cannot override content", "image/png", []byte("<html><script>alert(1)</script></html>"), "text/html"},
		{"plain text labelled as image", "image/jpeg", []byte("just some text"), "text/plain"},
		{"pdf", "application/pdf", []byte("%PDF-1.7\n"), "application/pdf"},
		{"unrecognised bytes fall back to declared", "image/heic", heic, "image/heic"},
		{"unrecognised bytes without declared type", "", heic, "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := bytes.NewReader(tt.data)
			got, err := detectContentType(tt.declared, file)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			rest, err := io.ReadAll(file)
			require.NoError(t, err)
			assert.Equal(t, tt.data, rest, "reader must be rewound")
		})
	}
}
