package chatgpt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"
	"github.com/go-resty/resty/v2"
	"vestibot/internal/components/assert"
	"vestibot/internal/components/telemetry"
)

const (
	report_client_answer  = "client.answer"
	report_client_breaker = "client.breaker"
)

const (
	DefaultBaseUrl = "https://api.openai.com"
	DefaultModel   = "gpt-3.5-turbo"
)

var ErrEmptyAnswer = errors.New("chatgpt: response has no choices")

// StatusError is returned when the completions endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chatgpt: API error (status %d): %s", e.StatusCode, e.Body)
}

type Options struct {
	Token string
	// BaseUrl defaults to DefaultBaseUrl.
	BaseUrl string
	// Model defaults to DefaultModel.
	Model string
	// Timeout bounds a single attempt, defaults to 60 seconds.
	Timeout time.Duration
	// Attempts is how many times a retryable failure is tried, defaults to 3.
	Attempts int
	// RetryDelay is the backoff before the second attempt, defaults to 1 second.
	RetryDelay time.Duration
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Choices []struct {
		Message      message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}

// Client asks the chat completions endpoint a single question at a time.
type Client struct {
	http    *resty.Client
	model   string
	retrier retry.Retry[string]
	breaker circuitbreaker.CircuitBreaker[string]
	tel     telemetry.API
}

func NewClient(tel telemetry.API, opts Options) *Client {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.Token)

	tel = telemetry.NewScopedAPI("chatgpt", tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(opts.BaseUrl, "/"))
	client.SetTimeout(opts.Timeout)
	client.SetAuthToken(opts.Token)
	telemetry.InstrumentResty(client, tel)

	c := &Client{
		http:  client,
		model: opts.Model,
		tel:   tel,
	}

	c.retrier = retry.New[string](retry.Config{
		MaxAttempts:   opts.Attempts,
		InitialDelay:  opts.RetryDelay,
		MaxDelay:      30 * time.Second,
		Multiplier:    2.0,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        true,
		IsRetryable:   isRetryable,
	})
	c.breaker = circuitbreaker.New[string](circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			tel.ReportWarning(report_client_breaker, from.String(), to.String())
		},
	})

	return c
}

// Answer sends question as the only user message and returns the content of the first choice.
func (c *Client) Answer(ctx context.Context, question string) (string, error) {
	var last error
	answer, err := c.breaker.Execute(ctx, func(ctx context.Context) (string, error) {
		return c.retrier.Do(ctx, func(ctx context.Context) (string, error) {
			answer, err := c.complete(ctx, question)
			last = err
			return answer, err
		})
	})
	if err != nil {
		c.tel.ReportBroken(report_client_answer, err)
		if last != nil && ctx.Err() == nil {
			var status *StatusError
			if errors.As(last, &status) || errors.Is(last, ErrEmptyAnswer) {
				return "", last
			}
		}
		return "", fmt.Errorf("answer: %w", err)
	}
	return answer, nil
}

func (c *Client) complete(ctx context.Context, question string) (string, error) {
	var result completionResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(completionRequest{
			Model: c.model,
			Messages: []message{
				{Role: "user", Content: question},
			},
		}).
		SetResult(&result).
		Post("/v1/chat/completions")
	if err != nil {
		return "", fmt.Errorf("post completion: %w", err)
	}
	if res.IsError() {
		return "", &StatusError{StatusCode: res.StatusCode(), Body: res.String()}
	}
	if len(result.Choices) == 0 {
		return "", ErrEmptyAnswer
	}
	return result.Choices[0].Message.Content, nil
}

func isRetryable(err error) bool {
	var status *StatusError
	if !errors.As(err, &status) {
		return false
	}
	return status.StatusCode == http.StatusTooManyRequests || status.StatusCode >= 500
}
