package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"queue-system/internal/sync"
	"queue-system/pkg/config"
	"queue-system/pkg/database/sqlite"
	"queue-system/pkg/service"
	"queue-system/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// QueueAPITestSuite гоняет полный цикл работы стойки через HTTP:
// киоск -> логин -> вызов -> завершение -> табло и статистика.
type QueueAPITestSuite struct {
	suite.Suite
	Echo      *echo.Echo
	AuthToken string
}

func (suite *QueueAPITestSuite) SetupSuite() {
	e := echo.New()
	e.Validator = utils.NewValidator(validator.New())

	nopLogger := zap.NewNop()

	dbConn, err := sqlite.Open(filepath.Join(suite.T().TempDir(), "queue_api_test.db"))
	suite.Require().NoError(err, "тестовая БД должна открываться")
	suite.T().Cleanup(func() { dbConn.Close() })

	cfg := &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: time.Hour,
		},
		Auth:  config.AuthConfig{AdminPIN: "1234"},
		Queue: config.QueueConfig{DefaultDesk: "Guichê 01"},
	}
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)

	// Одиночный контекст: шина синхронизации не нужна.
	_, err = InitRouter(context.Background(), e, dbConn, sync.NoopBus{}, jwtSvc, nopLogger, cfg)
	suite.Require().NoError(err)

	suite.Echo = e
}

func (suite *QueueAPITestSuite) request(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	suite.Echo.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	body, _ := response["body"].(map[string]interface{})
	return body
}

func (suite *QueueAPITestSuite) TestQueueAPI() {
	var ticketID string

	// --- ШАГ 1: Киоск выдаёт талон без авторизации ---
	suite.T().Run("CreateTicket from kiosk", func(t *testing.T) {
		rec := suite.request(http.MethodPost, "/api/tickets", "", map[string]interface{}{
			"name":     "Maria",
			"service":  "Suporte",
			"priority": true,
		})
		assert.Equal(t, http.StatusCreated, rec.Code, "Body: %s", rec.Body.String())

		body := decodeBody(t, rec)
		ticketID, _ = body["id"].(string)
		assert.Equal(t, "S001", ticketID)
		assert.Equal(t, "AGUARDANDO", body["status"])
	})

	suite.T().Run("CreateTicket rejects empty name", func(t *testing.T) {
		rec := suite.request(http.MethodPost, "/api/tickets", "", map[string]interface{}{
			"service": "Vendas",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	// --- ШАГ 2: Управление очередью закрыто без токена ---
	suite.T().Run("Queue requires auth", func(t *testing.T) {
		rec := suite.request(http.MethodGet, "/api/queue", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	// --- ШАГ 3: Вход по PIN ---
	suite.T().Run("Login with wrong PIN fails", func(t *testing.T) {
		rec := suite.request(http.MethodPost, "/api/auth/login", "", map[string]interface{}{"pin": "0000"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	suite.T().Run("Login with correct PIN", func(t *testing.T) {
		rec := suite.request(http.MethodPost, "/api/auth/login", "", map[string]interface{}{"pin": "1234"})
		assert.Equal(t, http.StatusOK, rec.Code, "Body: %s", rec.Body.String())

		body := decodeBody(t, rec)
		token, _ := body["access_token"].(string)
		assert.NotEmpty(t, token)
		suite.AuthToken = token
	})

	suite.Require().NotEmpty(suite.AuthToken, "Без токена дальнейшие шаги бессмысленны.")
	suite.Require().NotEmpty(ticketID)

	// --- ШАГ 4: Стойка видит очередь и вызывает талон ---
	suite.T().Run("GetQueue returns the ticket", func(t *testing.T) {
		rec := suite.request(http.MethodGet, "/api/queue", suite.AuthToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		tickets, _ := response["body"].([]interface{})
		assert.Len(t, tickets, 1)
	})

	suite.T().Run("CallTicket uses default desk", func(t *testing.T) {
		rec := suite.request(http.MethodPut, "/api/tickets/"+ticketID+"/status", suite.AuthToken, map[string]interface{}{
			"status": "EM ATENDIMENTO",
		})
		assert.Equal(t, http.StatusOK, rec.Code, "Body: %s", rec.Body.String())

		body := decodeBody(t, rec)
		assert.Equal(t, "EM ATENDIMENTO", body["status"])
		assert.Equal(t, "Guichê 01", body["desk"])
	})

	// --- ШАГ 5: Табло публично и объявляет вызов ---
	suite.T().Run("Display shows current call", func(t *testing.T) {
		rec := suite.request(http.MethodGet, "/api/display", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		currentCall, _ := body["current_call"].(map[string]interface{})
		assert.Equal(t, ticketID, currentCall["id"])
		assert.Equal(t, "Senha S001, Maria, dirija-se ao Guichê 01", body["announcement"])
	})

	// --- ШАГ 6: Недопустимый переход отклоняется ---
	suite.T().Run("Invalid transition rejected", func(t *testing.T) {
		rec := suite.request(http.MethodPut, "/api/tickets/"+ticketID+"/status", suite.AuthToken, map[string]interface{}{
			"status": "CANCELADO",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "Body: %s", rec.Body.String())
	})

	// --- ШАГ 7: Завершение и статистика ---
	suite.T().Run("CompleteTicket and stats", func(t *testing.T) {
		rec := suite.request(http.MethodPut, "/api/tickets/"+ticketID+"/status", suite.AuthToken, map[string]interface{}{
			"status": "CONCLUÍDO",
		})
		assert.Equal(t, http.StatusOK, rec.Code, "Body: %s", rec.Body.String())

		recStats := suite.request(http.MethodGet, "/api/dashboard/stats", suite.AuthToken, nil)
		assert.Equal(t, http.StatusOK, recStats.Code)

		stats := decodeBody(t, recStats)
		assert.Equal(t, float64(1), stats["total_served"]) // JSON числа всегда float64
		assert.Equal(t, float64(0), stats["total_waiting"])
		assert.Equal(t, "Suporte", stats["busiest_service"])
	})

	// --- ШАГ 8: Конфиг оператора ---
	suite.T().Run("Operator config round-trip", func(t *testing.T) {
		desk := "Mesa 07"
		rec := suite.request(http.MethodPut, "/api/config", suite.AuthToken, map[string]interface{}{
			"desk_id": desk,
		})
		assert.Equal(t, http.StatusOK, rec.Code, "Body: %s", rec.Body.String())

		recGet := suite.request(http.MethodGet, "/api/config", suite.AuthToken, nil)
		assert.Equal(t, http.StatusOK, recGet.Code)
		body := decodeBody(t, recGet)
		assert.Equal(t, desk, body["desk_id"])
	})

	// --- ШАГ 9: Отчёт по талонам ---
	suite.T().Run("XLSX report", func(t *testing.T) {
		rec := suite.request(http.MethodGet, "/api/reports/tickets.xlsx", suite.AuthToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "spreadsheet")
	})

	// --- ШАГ 10: Полный сброс очереди ---
	suite.T().Run("ResetQueue empties everything", func(t *testing.T) {
		rec := suite.request(http.MethodPost, "/api/queue/reset", suite.AuthToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		recNext := suite.request(http.MethodGet, "/api/queue/next", suite.AuthToken, nil)
		assert.Equal(t, http.StatusOK, recNext.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(recNext.Body.Bytes(), &response))
		waiting, _ := response["body"].([]interface{})
		assert.Empty(t, waiting)
	})
}

func TestQueueAPITestSuite(t *testing.T) {
	suite.Run(t, new(QueueAPITestSuite))
}
