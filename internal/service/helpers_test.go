package service

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"eventdesk/cmd/middleware"
	"eventdesk/internal/auth"
	"eventdesk/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testLogger = zerolog.Nop()

func newTestService(r *mockRepo) *service {
	return &service{
		repo:   r,
		log:    &testLogger,
		tokens: auth.NewManager("test-secret", time.Hour),
	}
}

func testContext(t *testing.T, method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func setIDParam(c *gin.Context, id int64) {
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatInt(id, 10)}}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}

func asAdmin(c *gin.Context, userID int64) {
	middleware.SetIdentity(c, userID, model.RoleAdmin)
}

func asParticipant(c *gin.Context, userID int64) {
	middleware.SetIdentity(c, userID, model.RoleParticipant)
}

func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }
