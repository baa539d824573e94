package routes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"volunteer-intake-api/config"
	"volunteer-intake-api/controllers"
	"volunteer-intake-api/services"
)

// ==========================
// Test Doubles
// ==========================

type sentMessage struct {
	msg              *services.Message
	attachmentExists []bool
}

type recordingProvider struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (p *recordingProvider) Name() string { return "recording" }

func (p *recordingProvider) Send(_ context.Context, msg *services.Message) (services.Receipt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	exists := make([]bool, len(msg.Attachments))
	for i, a := range msg.Attachments {
		_, err := os.Stat(a.Path)
		exists[i] = err == nil
	}
	p.sent = append(p.sent, sentMessage{msg: msg, attachmentExists: exists})
	if p.err != nil {
		return services.Receipt{}, p.err
	}
	return services.Receipt{Provider: p.Name(), MessageID: fmt.Sprintf("msg-%d", len(p.sent))}, nil
}

func (p *recordingProvider) messages() []sentMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]sentMessage(nil), p.sent...)
}

type recordingAlerter struct {
	mu      sync.Mutex
	channel string
	got     []string
}

func (a *recordingAlerter) Channel() string { return a.channel }

func (a *recordingAlerter) Alert(_ context.Context, recipient, text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.got = append(a.got, recipient+"|"+text)
	return nil
}

type testServer struct {
	router   *gin.Engine
	cfg      *config.Config
	provider *recordingProvider
	sms      *recordingAlerter
	admin    *recordingAlerter
}

func sequentialIDs(ids ...string) services.DisplayIDFunc {
	var mu sync.Mutex
	i := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func newTestServer(t *testing.T, mutate func(cfg *config.Config), displayID services.DisplayIDFunc) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmp := t.TempDir()
	cfg := &config.Config{
		Server: config.ServerConfig{
			PublicBaseURL:  "https://intake.example.org",
			UploadDir:      filepath.Join(tmp, "uploads"),
			MaxUploadBytes: 1 << 20,
			MaxBodyBytes:   2 << 20,
			AllowedOrigins: "*",
		},
		Approval: config.ApprovalConfig{Token: "s3cret"},
		Mail: config.MailConfig{
			From:           "no-reply@example.org",
			AdminRecipient: "admin@example.org",
			Timeout:        time.Second,
		},
		Branding: config.BrandingConfig{
			OrgName:  "Onakpa Emmanuel Foundation",
			Motto:    "...we split the seas, so you can walk right through it",
			IDPrefix: "OEF",
		},
		Card:    config.CardConfig{QRAPIURL: "https://qr.example.org/?data="},
		Logging: config.LoggingConfig{File: filepath.Join(tmp, "api.log")},
	}
	if mutate != nil {
		mutate(cfg)
	}

	provider := &recordingProvider{}
	sms := &recordingAlerter{channel: "sms"}
	admin := &recordingAlerter{channel: "discord"}
	logger := zap.NewNop()

	notifier := services.NewNotifier(provider, cfg.Mail.SenderIdentity(), cfg.Mail.Timeout, services.Branding{
		OrgName: cfg.Branding.OrgName,
		Motto:   cfg.Branding.Motto,
	}, logger)

	vc := controllers.NewVolunteerController(controllers.Dependencies{
		Config:    cfg,
		Notifier:  notifier,
		Alerts:    services.NewAlertsWith([]services.Alerter{sms}, []services.Alerter{admin}, logger),
		DisplayID: displayID,
		Logger:    logger,
	})

	router := gin.New()
	SetupRoutes(router, cfg, vc, logger)

	return &testServer{router: router, cfg: cfg, provider: provider, sms: sms, admin: admin}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) uploadedFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(s.cfg.Server.UploadDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func validFields() map[string]string {
	return map[string]string{
		"fullName":        "Jane Doe",
		"dob":             "1990-04-12",
		"email":           "jane@example.com",
		"phone":           "+234 803 123 4567",
		"nationality":     "Nigerian",
		"language":        "English",
		"interest":        "Medical Outreach",
		"motivation":      "I want to help my community.",
		"transport":       "Yes",
		"criminal_record": "No",
	}
}

func multipartRequest(t *testing.T, fields map[string]string, photoName string, photo []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if photoName != "" {
		part, err := mw.CreateFormFile("passport", photoName)
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/submit-volunteer", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF fake image")

// ==========================
// Submission
// ==========================

func TestSubmitVolunteer_Success(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(multipartRequest(t, validFields(), "me.JPG", jpegBytes))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"status":"success","message":"Application received"}`, w.Body.String())

	sent := s.provider.messages()
	require.Len(t, sent, 1)
	msg := sent[0].msg
	assert.Equal(t, []string{"admin@example.org"}, msg.To)
	assert.Equal(t, "New Volunteer Credentials: Jane Doe", msg.Subject)
	assert.Contains(t, msg.HTML, "Jane Doe")
	assert.Contains(t, msg.HTML, "Medical Outreach")
	assert.Contains(t, msg.HTML, "&quot;I want to help my community.&quot;")
	assert.Contains(t, msg.HTML, "https://intake.example.org/approve?email=jane%40example.com&amp;")
	assert.Contains(t, msg.HTML, "token=s3cret")
	assert.Contains(t, msg.HTML, "Approve Volunteer")

	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "passport.jpg", msg.Attachments[0].Name)
	assert.True(t, sent[0].attachmentExists[0], "photo must exist while the message is sent")
	assert.Regexp(t, `volunteer-\d+-[0-9a-f]{8}\.jpg$`, msg.Attachments[0].Path)

	assert.Empty(t, s.uploadedFiles(t), "temp photo must be removed after the request")
	assert.Equal(t, []string{"+234 803 123 4567|Onakpa Emmanuel Foundation: we received your volunteer application and will be in touch by email."}, s.sms.got)
	require.Len(t, s.admin.got, 1)
	assert.Contains(t, s.admin.got[0], "Jane Doe <jane@example.com>")
}

func TestSubmitVolunteer_EmptyOptionalFieldsRenderNA(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(multipartRequest(t, map[string]string{"email": "jane@example.com"}, "me.png", jpegBytes))

	require.Equal(t, http.StatusOK, w.Code)
	sent := s.provider.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "New Volunteer Credentials: jane@example.com", sent[0].msg.Subject)
	assert.Contains(t, sent[0].msg.HTML, ">N/A<")
	assert.Empty(t, s.sms.got)
}

func TestSubmitVolunteer_Rejections(t *testing.T) {
	withoutEmail := validFields()
	delete(withoutEmail, "email")
	badEmail := validFields()
	badEmail["email"] = "not-an-email"

	tests := []struct {
		name        string
		req         func(t *testing.T) *http.Request
		wantMessage string
	}{
		{
			name:        "missing photo",
			req:         func(t *testing.T) *http.Request { return multipartRequest(t, validFields(), "", nil) },
			wantMessage: "No passport photo uploaded.",
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/submit-volunteer", strings.NewReader(`{"email":"jane@example.com"}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			wantMessage: "No passport photo uploaded.",
		},
		{
			name:        "wrong photo type",
			req:         func(t *testing.T) *http.Request { return multipartRequest(t, validFields(), "cv.pdf", jpegBytes) },
			wantMessage: "Photo must be a JPG, PNG or WEBP image.",
		},
		{
			name: "photo too large",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, validFields(), "me.jpg", bytes.Repeat([]byte("x"), (1<<20)+1))
			},
			wantMessage: "Photo exceeds the 1 MB limit.",
		},
		{
			name: "body too large",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, validFields(), "me.jpg", bytes.Repeat([]byte("x"), 3<<20))
			},
			wantMessage: "Request body is too large.",
		},
		{
			name:        "missing email",
			req:         func(t *testing.T) *http.Request { return multipartRequest(t, withoutEmail, "me.jpg", jpegBytes) },
			wantMessage: "Email is required.",
		},
		{
			name:        "invalid email",
			req:         func(t *testing.T) *http.Request { return multipartRequest(t, badEmail, "me.jpg", jpegBytes) },
			wantMessage: "Invalid email format.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil, nil)

			w := s.do(tt.req(t))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"status":"error","message":%q}`, tt.wantMessage), w.Body.String())
			assert.Empty(t, s.provider.messages(), "nothing may be sent for a rejected submission")
			assert.Empty(t, s.uploadedFiles(t), "nothing may be written for a rejected submission")
			assert.Empty(t, s.admin.got)
		})
	}
}

func TestSubmitVolunteer_DeliveryFailure(t *testing.T) {
	s := newTestServer(t, nil, nil)
	s.provider.err = errors.New("535 5.7.8 authentication failed")

	w := s.do(multipartRequest(t, validFields(), "me.jpg", jpegBytes))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"Email failed to send."}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "535")
	assert.Len(t, s.provider.messages(), 1)
	assert.Empty(t, s.uploadedFiles(t), "temp photo must be removed on failure too")
	assert.Empty(t, s.sms.got)
	assert.Empty(t, s.admin.got)
}

func TestSubmitVolunteer_ForwardedBaseURL(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.Server.PublicBaseURL = "" }, nil)

	req := multipartRequest(t, validFields(), "me.jpg", jpegBytes)
	req.Host = "internal:8080"
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "volunteer.example.org")

	w := s.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, s.provider.messages()[0].msg.HTML, "https://volunteer.example.org/approve?")
}

// ==========================
// Approval
// ==========================

func TestApprove_Success(t *testing.T) {
	s := newTestServer(t, nil, sequentialIDs("OEF-4821"))

	w := s.do(httptest.NewRequest(http.MethodGet, "/approve?email=jane%40example.com&token=s3cret&name=Jane+Doe&interest=Medical+Outreach", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := w.Body.String()
	assert.Contains(t, body, "Volunteer Approved Successfully")
	assert.Contains(t, body, "jane@example.com")
	assert.Contains(t, body, "OEF-4821")

	sent := s.provider.messages()
	require.Len(t, sent, 2)

	assert.Equal(t, []string{"jane@example.com"}, sent[0].msg.To)
	assert.Equal(t, "Congratulations! Your Application has been Approved", sent[0].msg.Subject)
	assert.Contains(t, sent[0].msg.HTML, "Dear Jane Doe,")
	assert.Contains(t, sent[0].msg.HTML, "<strong>APPROVED</strong>")

	assert.Equal(t, []string{"jane@example.com"}, sent[1].msg.To)
	assert.Equal(t, "Your Digital Volunteer ID: OEF-4821", sent[1].msg.Subject)
	assert.Contains(t, sent[1].msg.HTML, "https://intake.example.org/download-id?email=jane%40example.com&amp;id=OEF-4821")
}

func TestApprove_GeneratedIDFormat(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(httptest.NewRequest(http.MethodGet, "/approve?email=jane%40example.com&token=s3cret", nil))

	require.Equal(t, http.StatusOK, w.Code)
	sent := s.provider.messages()
	require.Len(t, sent, 2)
	assert.Regexp(t, regexp.MustCompile(`^Your Digital Volunteer ID: OEF-\d{4}$`), sent[1].msg.Subject)
	assert.Contains(t, sent[0].msg.HTML, "Dear Volunteer,")
}

func TestApprove_RepeatVisitIssuesNewID(t *testing.T) {
	s := newTestServer(t, nil, sequentialIDs("OEF-1111", "OEF-2222"))
	target := "/approve?email=jane%40example.com&token=s3cret"

	first := s.do(httptest.NewRequest(http.MethodGet, target, nil))
	second := s.do(httptest.NewRequest(http.MethodGet, target, nil))

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Contains(t, first.Body.String(), "OEF-1111")
	assert.Contains(t, second.Body.String(), "OEF-2222")
	assert.Len(t, s.provider.messages(), 4)
}

func TestApprove_WrongToken(t *testing.T) {
	for _, target := range []string{
		"/approve?email=jane%40example.com&token=guess",
		"/approve?email=jane%40example.com",
	} {
		t.Run(target, func(t *testing.T) {
			s := newTestServer(t, nil, nil)

			w := s.do(httptest.NewRequest(http.MethodGet, target, nil))

			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.Equal(t, "Invalid approval token.", w.Body.String())
			assert.Empty(t, s.provider.messages())
		})
	}
}

func TestApprove_MissingEmail(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(httptest.NewRequest(http.MethodGet, "/approve?token=s3cret", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, s.provider.messages())
}

func TestApprove_UnknownEmailStillProceeds(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(httptest.NewRequest(http.MethodGet, "/approve?email=never-applied%40example.com&token=s3cret", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, s.provider.messages(), 2)
}

func TestApprove_RecipientOverride(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Approval.RecipientOverride = "qa@example.org"
	}, nil)

	w := s.do(httptest.NewRequest(http.MethodGet, "/approve?email=jane%40example.com&token=s3cret", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "redirected to qa@example.org")
	for _, m := range s.provider.messages() {
		assert.Equal(t, []string{"qa@example.org"}, m.msg.To)
	}
}

func TestApprove_DeliveryFailure(t *testing.T) {
	s := newTestServer(t, nil, nil)
	s.provider.err = errors.New("connection reset")

	w := s.do(httptest.NewRequest(http.MethodGet, "/approve?email=jane%40example.com&token=s3cret", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Admin approved, but failed to notify the applicant.", w.Body.String())
	assert.Len(t, s.provider.messages(), 1, "the ID mail is not attempted after the first failure")
}

// ==========================
// ID card
// ==========================

func TestDownloadID(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(httptest.NewRequest(http.MethodGet, "/download-id?email=jane%40example.com&id=OEF-4821&name=Jane+Doe&interest=Logistics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, body, "Logistics")
	assert.Contains(t, body, "jane@example.com")
	assert.Contains(t, body, "OEF-4821")
	assert.Contains(t, body, `src="https://qr.example.org/?data=OEF-4821"`)
	assert.Contains(t, body, "Print ID Card")
	assert.Empty(t, s.provider.messages())
}

func TestDownloadID_EscapesInput(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(httptest.NewRequest(http.MethodGet, "/download-id?email=x&id=OEF-1&name=%3Cscript%3Ealert(1)%3C%2Fscript%3E", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<script>alert(1)</script>")
	assert.Contains(t, w.Body.String(), "&lt;script&gt;")
}

func TestDownloadID_GeneratesMissingID(t *testing.T) {
	s := newTestServer(t, nil, sequentialIDs("OEF-7777"))

	w := s.do(httptest.NewRequest(http.MethodGet, "/download-id?email=jane%40example.com", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "OEF-7777")
	assert.Contains(t, w.Body.String(), ">Volunteer<")
}

// ==========================
// Ambient routes
// ==========================

func TestHealthAndSecurityHeaders(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
