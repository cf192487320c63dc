// internal/pkg/response/response_test.go
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	xerrors "kilofit-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	handler(c)

	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return w, body
}

func TestFromErrorValidation(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		FromError(c, "fallback", xerrors.NewValidation("plan_id", "plan is not active"))
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if body.Message != "plan is not active" {
		t.Errorf("message = %q, want the validation message", body.Message)
	}
}

func TestFromErrorNetworkReportsPossibleSuccess(t *testing.T) {
	netErr := &xerrors.NetworkError{Op: "subscriptions.create", Err: errors.New("connection reset")}

	w, body := serve(t, func(c *gin.Context) {
		FromError(c, "failed to renew subscription", netErr)
	})

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
	// The message must never claim the mutation definitely failed.
	if !strings.Contains(body.Message, "may have completed") {
		t.Errorf("message = %q, want the verify-before-retrying phrasing", body.Message)
	}
}

func TestFromErrorUpstreamDetail(t *testing.T) {
	upErr := &xerrors.UpstreamError{Code: "23505", Detail: "duplicate key value"}

	w, body := serve(t, func(c *gin.Context) {
		FromError(c, "fallback", upErr)
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if body.Message != "duplicate key value" {
		t.Errorf("message = %q, want the upstream detail", body.Message)
	}
}

func TestFromErrorSentinels(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{xerrors.ErrNotFound, http.StatusNotFound},
		{xerrors.ErrUnauthorized, http.StatusUnauthorized},
		{xerrors.ErrForbidden, http.StatusForbidden},
		{xerrors.ErrConflict, http.StatusConflict},
		{errors.New("anything else"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		w, _ := serve(t, func(c *gin.Context) {
			FromError(c, "fallback", tt.err)
		})
		if w.Code != tt.code {
			t.Errorf("%v: status = %d, want %d", tt.err, w.Code, tt.code)
		}
	}
}

func TestSuccessWithWarning(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		SuccessWithWarning(c, "subscription renewed successfully", "reward could not be marked as applied", nil)
	})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !body.Success {
		t.Error("a warning outcome is still a success")
	}
	if body.Warning == "" {
		t.Error("warning must be present in the body")
	}
}
