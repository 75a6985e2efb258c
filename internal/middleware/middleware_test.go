package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/expense_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

const testSecret = "test-secret-key-that-is-long-enough"

type MiddlewareTestSuite struct {
	suite.Suite
	router *gin.Engine
	logBuf *bytes.Buffer
}

func (s *MiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.logBuf = new(bytes.Buffer)
	logger := slog.New(slog.NewJSONHandler(s.logBuf, nil))

	s.router = gin.New()
	s.router.Use(middleware.StructuredLoggingMiddleware(logger))

	s.router.GET("/open", func(c *gin.Context) {
		_, ok := middleware.GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})
	secured := s.router.Group("/secure", middleware.AuthMiddleware(testSecret))
	secured.GET("/whoami", func(c *gin.Context) {
		userID, _ := middleware.GetUserIDFromContext(c)
		ctxUserID, _ := middleware.UserIDFromCtx(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"userId": userID, "ctxUserId": ctxUserID})
	})
}

func (s *MiddlewareTestSuite) token(subject string, expiresIn time.Duration, secret string) string {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	s.Require().NoError(err)
	return signed
}

func (s *MiddlewareTestSuite) do(path, authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *MiddlewareTestSuite) TestLogging_SetsRequestIDAndLogsCompletion() {
	w := s.do("/open", "")

	s.Equal(http.StatusOK, w.Code)
	s.NotEmpty(w.Header().Get("X-Request-ID"))
	s.Contains(s.logBuf.String(), `"msg":"Request completed"`)
	s.Contains(s.logBuf.String(), `"status":200`)
}

func (s *MiddlewareTestSuite) TestLogging_KeepsIncomingRequestID() {
	req, _ := http.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal("abc-123", w.Header().Get("X-Request-ID"))
}

func (s *MiddlewareTestSuite) TestAuth_ValidToken() {
	w := s.do("/secure/whoami", "Bearer "+s.token("user-1", time.Hour, testSecret))

	s.Require().Equal(http.StatusOK, w.Code)
	var body map[string]string
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal("user-1", body["userId"])
	s.Equal("user-1", body["ctxUserId"])
	s.Contains(s.logBuf.String(), `"user_id":"user-1"`)
}

func (s *MiddlewareTestSuite) TestAuth_Rejections() {
	tests := []struct {
		name   string
		header string
		msg    string
	}{
		{name: "missing header", header: "", msg: "Authorization header required"},
		{name: "wrong scheme", header: "Basic abc", msg: "Authorization header format must be Bearer {token}"},
		{name: "bad signature", header: "Bearer " + s.token("user-1", time.Hour, "other-secret"), msg: "Invalid token"},
		{name: "expired", header: "Bearer " + s.token("user-1", -time.Minute, testSecret), msg: "Token has expired"},
		{name: "no subject", header: "Bearer " + s.token("", time.Hour, testSecret), msg: "Invalid token claims"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do("/secure/whoami", tt.header)
			s.Equal(http.StatusUnauthorized, w.Code)
			var body map[string]any
			s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
			s.Equal(false, body["success"])
			s.Equal(tt.msg, body["error"])
		})
	}
}

func (s *MiddlewareTestSuite) TestOpenRoute_NotAuthenticated() {
	w := s.do("/open", "")
	s.JSONEq(`{"authenticated": false}`, w.Body.String())
}

func (s *MiddlewareTestSuite) TestRateLimit() {
	limiterInstance, err := middleware.NewRateLimiter("2-M")
	s.Require().NoError(err)

	r := gin.New()
	r.Use(middleware.RateLimit(limiterInstance))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	s.Equal([]int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func (s *MiddlewareTestSuite) TestNewRateLimiter_InvalidFormat() {
	_, err := middleware.NewRateLimiter("lots")
	s.Error(err)
}

func TestMiddleware(t *testing.T) {
	suite.Run(t, new(MiddlewareTestSuite))
}
