package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/collabtrack/collabtrack/internal/services"
	"github.com/collabtrack/collabtrack/pkg/response"
	"github.com/gin-gonic/gin"
)

func failWith(t *testing.T, err error) (int, response.Response) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/test", nil)

	fail(c, err)

	var body response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return w.Code, body
}

func TestFail_NotFound(t *testing.T) {
	status, body := failWith(t, services.ErrNotFound)

	if status != http.StatusNotFound {
		t.Errorf("status = %d, expected 404", status)
	}
	if body.Message != "record not found" {
		t.Errorf("message = %q, expected %q", body.Message, "record not found")
	}
}

func TestFail_KnownErrorsAreBadRequests(t *testing.T) {
	for _, err := range []error{
		services.ErrEmailTaken,
		services.ErrAlreadyMember,
		services.ErrCannotRemoveCreator,
	} {
		status, body := failWith(t, err)
		if status != http.StatusBadRequest {
			t.Errorf("%v: status = %d, expected 400", err, status)
		}
		if body.Message != err.Error() {
			t.Errorf("%v: message = %q, expected the error text", err, body.Message)
		}
	}
}

func TestFail_UnexpectedErrorIsGeneric(t *testing.T) {
	status, body := failWith(t, errors.New("dial tcp 10.0.0.5:3306: connection refused"))

	if status != http.StatusInternalServerError {
		t.Errorf("status = %d, expected 500", status)
	}
	// Internal details stay in the server log
	if body.Message != "internal server error" {
		t.Errorf("message = %q, expected %q", body.Message, "internal server error")
	}
}
