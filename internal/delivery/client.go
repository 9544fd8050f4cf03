// Package delivery реализует HTTP-клиент удаленного API операций доставки.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/waybill_ops.git/internal/models"
)

const (
	singleGIPath     = "/api/flow/single-gi"
	bulkDispatchPath = "/api/dispatch/bulk-dispatch"

	actionAddPackages = "add_packages"
	contentTypeJSON   = "application/json"
)

// ErrDispatchRejected возвращается, когда API ответил 2xx, но без "success": true
var ErrDispatchRejected = errors.New("failed to add packages")

// Client определяет операции удаленного API, используемые консолью
type Client interface {
	GateIn(ctx context.Context, refID string) (models.OperationResult, error)
	AddPackagesToDispatch(ctx context.Context, dispatchID int, wbns []string) (models.OperationResult, error)
}

// HTTPClient реализует Client поверх net/http
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPClient создает клиент. timeout ограничивает каждый запрос целиком.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type gateInRequest struct {
	RefIDs string `json:"ref_ids"`
}

// GateIn создает Gate In для одной накладной
func (c *HTTPClient) GateIn(ctx context.Context, refID string) (models.OperationResult, error) {
	return c.post(ctx, singleGIPath, gateInRequest{RefIDs: refID})
}

// AddPackagesToDispatch добавляет накладные в существующий диспатч одним запросом
func (c *HTTPClient) AddPackagesToDispatch(ctx context.Context, dispatchID int, wbns []string) (models.OperationResult, error) {
	res, err := c.post(ctx, bulkDispatchPath, models.DispatchRequest{
		DispatchID: dispatchID,
		Action:     actionAddPackages,
		Wbns:       wbns,
	})
	if err != nil {
		return res, err
	}

	if success, _ := res.Payload["success"].(bool); !success {
		res.OK = false
		return res, ErrDispatchRejected
	}
	return res, nil
}

// post отправляет JSON и разбирает ответ в OperationResult.
// Ответ не из диапазона 2xx возвращается вместе с ошибкой.
func (c *HTTPClient) post(ctx context.Context, path string, payload any) (models.OperationResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return models.OperationResult{}, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return models.OperationResult{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Delivery API request failed", zap.String("path", path), zap.Error(err))
		return models.OperationResult{}, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("Error closing response body", zap.Error(err))
		}
	}()

	res := models.OperationResult{
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		res.OK = false
		return res, fmt.Errorf("error reading response body: %w", err)
	}
	decodeBody(raw, &res)

	if !res.OK {
		return res, fmt.Errorf("request failed with status code %d", resp.StatusCode)
	}
	return res, nil
}

// decodeBody заполняет Payload, Message и ErrorMessage, если тело ответа - JSON-объект
func decodeBody(raw []byte, res *models.OperationResult) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return
	}

	res.Payload = payload
	if msg, ok := payload["message"].(string); ok {
		res.Message = msg
	}
	if msg, ok := payload["error"].(string); ok {
		res.ErrorMessage = msg
	}
}
