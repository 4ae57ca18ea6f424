package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	nurl "net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/suchimauz/hospital-booking-engine/internal/config"
	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
	"github.com/suchimauz/hospital-booking-engine/internal/core/ports/out"
)

// BookingAPIAdapter ходит в удаленный сервис бронирования по HTTP.
// Таймаут считается сетевой ошибкой, автоповторов нет.
type BookingAPIAdapter struct {
	client   *http.Client
	baseURL  string
	username string
	password string
	logger   out.LoggerPort
}

func NewBookingAPIAdapter(cfg *config.Config, logger out.LoggerPort) *BookingAPIAdapter {
	return &BookingAPIAdapter{
		client:   &http.Client{Timeout: cfg.BookingAPI.Timeout},
		baseURL:  strings.TrimRight(cfg.BookingAPI.URL, "/"),
		username: cfg.BookingAPI.Username,
		password: cfg.BookingAPI.Password,
		logger:   logger,
	}
}

func (a *BookingAPIAdapter) getJSON(ctx context.Context, path string, query nurl.Values, dest interface{}) error {
	return a.send(ctx, http.MethodGet, path, query, nil, dest, false)
}

func (a *BookingAPIAdapter) send(ctx context.Context, method, path string, query nurl.Values, body, dest interface{}, write bool) error {
	url := a.baseURL + path

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("bookingapi.encode_request_failed: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("bookingapi.build_request_failed: %w", err)
	}

	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	req.SetBasicAuth(a.username, a.password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if write {
		// Одна сетевая запись на подтверждение: ключ идемпотентности
		// защищает от дублей на сетевых ретраях инфраструктуры
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("bookingapi.request_failed", out.LogFields{
			"method": method,
			"path":   path,
			"error":  err.Error(),
		})
		return fmt.Errorf("bookingapi.request_failed: %w", domain.NewNetworkError(err.Error()))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := decodeErrorMessage(resp.Body)
		a.logger.Error("bookingapi.rejected", out.LogFields{
			"method":  method,
			"path":    path,
			"status":  resp.StatusCode,
			"message": message,
		})
		return fmt.Errorf("bookingapi.rejected: %w", domain.NewServerRejectionError(resp.StatusCode, message))
	}

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		a.logger.Error("bookingapi.decode_response_failed", out.LogFields{
			"method": method,
			"path":   path,
			"error":  err.Error(),
		})
		return fmt.Errorf("bookingapi.decode_response_failed: %w", domain.NewNetworkError(err.Error()))
	}

	return nil
}

// decodeErrorMessage - бэкенд отдает ошибку либо строкой,
// либо JSON с полем message/error
func decodeErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "unexpected status code"
	}

	var structured struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &structured); err == nil {
		if structured.Message != "" {
			return structured.Message
		}
		if structured.Error != "" {
			return structured.Error
		}
	}

	return strings.TrimSpace(strings.Trim(string(raw), "\""))
}

func formatID(id int64) string {
	return fmt.Sprintf("%d", id)
}
