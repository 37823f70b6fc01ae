package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/studentdesk/internal/config"
	"github.com/mamadbah2/studentdesk/internal/domain/models"
)

const (
	studentsPath   = "/students"
	fallbackDetail = "Request failed"
)

// Client exposes the record API operations used by the dashboard.
type Client interface {
	List(ctx context.Context) ([]models.Student, error)
	Create(ctx context.Context, payload models.StudentPayload) (*models.Student, error)
	Update(ctx context.Context, id models.StudentID, payload models.StudentPayload) (*models.Student, error)
	Delete(ctx context.Context, id models.StudentID) error
}

// RequestError is the only error kind returned by the client. Message is
// safe to show to the user as-is.
type RequestError struct {
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Message extracts the user-facing message of err. Errors that did not come
// from the client fall back to their own text.
func Message(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient builds a record API client rooted at cfg.BaseURL. No timeout
// and no retries are configured: every failure surfaces immediately.
func NewClient(cfg config.RecordsAPIConfig, logger *zap.Logger) *APIClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetLogger(logger.Sugar())

	return &APIClient{httpClient: restyClient, logger: logger}
}

// errorBody is the error payload shape of the record API. Detail is usually
// a string but validation failures carry a list of {msg} objects, so it is
// kept raw and read by detailText.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (c *APIClient) List(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	resp, err := c.request(ctx).
		SetResult(&students).
		Get(studentsPath)
	if err := c.check(resp, err, "list students"); err != nil {
		return nil, err
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}

func (c *APIClient) Create(ctx context.Context, payload models.StudentPayload) (*models.Student, error) {
	result := new(models.Student)
	resp, err := c.request(ctx).
		SetBody(payload).
		SetResult(result).
		Post(studentsPath)
	if err := c.check(resp, err, "create student"); err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNoContent {
		return nil, nil
	}
	return result, nil
}

func (c *APIClient) Update(ctx context.Context, id models.StudentID, payload models.StudentPayload) (*models.Student, error) {
	result := new(models.Student)
	resp, err := c.request(ctx).
		SetBody(payload).
		SetResult(result).
		Put(studentPath(id))
	if err := c.check(resp, err, "update student"); err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNoContent {
		return nil, nil
	}
	return result, nil
}

func (c *APIClient) Delete(ctx context.Context, id models.StudentID) error {
	resp, err := c.request(ctx).Delete(studentPath(id))
	return c.check(resp, err, "delete student")
}

func (c *APIClient) request(ctx context.Context) *resty.Request {
	return c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString()).
		SetError(&errorBody{}).
		ForceContentType("application/json")
}

func (c *APIClient) check(resp *resty.Response, err error, op string) error {
	if err != nil {
		c.logger.Warn("record api unreachable", zap.String("op", op), zap.Error(err))
		return &RequestError{Message: fallbackDetail, Err: fmt.Errorf("%s: %w", op, err)}
	}

	if resp.IsSuccess() {
		return nil
	}

	payload, _ := resp.Error().(*errorBody)
	message := errorMessage(resp.StatusCode(), resp.Status(), payload)
	c.logger.Debug("record api error",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode()),
		zap.String("message", message))
	return &RequestError{Status: resp.StatusCode(), Message: message}
}

// errorMessage picks the server detail, then the reason phrase the server
// sent, then the canonical status text, then a generic message.
func errorMessage(status int, statusLine string, payload *errorBody) string {
	if payload != nil {
		if detail := detailText(payload.Detail); detail != "" {
			return detail
		}
	}
	if reason := reasonPhrase(status, statusLine); reason != "" {
		return reason
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fallbackDetail
}

// reasonPhrase strips the code from a status line such as "404 Not Found".
func reasonPhrase(status int, statusLine string) string {
	return strings.TrimSpace(strings.TrimPrefix(statusLine, strconv.Itoa(status)))
}

func detailText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}

func studentPath(id models.StudentID) string {
	return studentsPath + "/" + url.PathEscape(string(id))
}
