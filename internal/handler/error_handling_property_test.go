package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/internal/service"
)

// All error responses follow the standard structure with code, message and
// optional details, regardless of which endpoint produced them.
func TestProperty_ErrorResponseStructure(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	logger := zap.NewNop()

	properties.Property("bind errors produce a structured validation response", prop.ForAll(
		func(errorScenario string) bool {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			_, router := gin.CreateTestContext(w)

			var body string
			switch errorScenario {
			case "invalid_json_mood":
				handler := &MoodHandler{logger: logger}
				router.POST("/test", handler.Create)
				body = "{invalid json"
			case "invalid_json_chat":
				handler := &ChatHandler{logger: logger}
				router.POST("/test", handler.SendMessage)
				body = `{"message": }`
			case "malformed_json_array":
				handler := &RecommendationHandler{logger: logger}
				router.POST("/test", handler.Generate)
				body = `[1,2,3`
			case "wrong_type_feedback":
				handler := &RecommendationHandler{logger: logger}
				router.POST("/test", handler.UpdateFeedback)
				body = `{"was_helpful": "yes"}`
			default:
				return true
			}

			req := httptest.NewRequest("POST", "/test", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Logf("scenario %s: expected status 400, got %d", errorScenario, w.Code)
				return false
			}

			var errorResp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &errorResp); err != nil {
				t.Logf("scenario %s: failed to parse error response: %v, body: %s", errorScenario, err, w.Body.String())
				return false
			}

			if errorResp.Code != "VALIDATION_ERROR" {
				t.Logf("scenario %s: expected code VALIDATION_ERROR, got %q", errorScenario, errorResp.Code)
				return false
			}
			if errorResp.Message == "" {
				t.Logf("scenario %s: error response missing message", errorScenario)
				return false
			}

			return true
		},
		gen.OneConstOf(
			"invalid_json_mood",
			"invalid_json_chat",
			"malformed_json_array",
			"wrong_type_feedback",
		),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	cases := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"invalid request", fmt.Errorf("%w: bad input", service.ErrInvalidRequest), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unauthorized", fmt.Errorf("%w: bad credentials", service.ErrUnauthorized), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", fmt.Errorf("%w: consent required", service.ErrForbidden), http.StatusForbidden, "FORBIDDEN"},
		{"not found", fmt.Errorf("%w: mood entry", service.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", fmt.Errorf("%w: duplicate entry", service.ErrConflict), http.StatusConflict, "CONFLICT"},
		{"unknown error", errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, logger, tc.err, "Something failed")

			assert.Equal(t, tc.expectedStatus, w.Code)

			var errorResp ErrorResponse
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &errorResp))
			assert.Equal(t, tc.expectedCode, errorResp.Code)
			assert.NotEmpty(t, errorResp.Message)
		})
	}
}

func TestRespondError_HidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, zap.NewNop(), errors.New("pq: password authentication failed"), "Failed to load data")

	var errorResp ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &errorResp))
	assert.Equal(t, "Failed to load data", errorResp.Message)
	assert.NotContains(t, w.Body.String(), "password")
}
