package chatgpt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"vestibot/internal/components/telemetry"
)

const testAnswer = `{
	"id": "chatcmpl-1",
	"choices": [
		{"index": 0, "message": {"role": "assistant", "content": "Brasília é a capital."}, "finish_reason": "stop"}
	]
}`

func newTestClient(t testing.TB, handler http.HandlerFunc) (*Client, *telemetry.RecordingAPI) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tel := &telemetry.RecordingAPI{}
	return NewClient(tel, Options{
		Token:      "sk-test",
		BaseUrl:    server.URL + "/",
		RetryDelay: time.Millisecond,
	}), tel
}

func writeJson(w http.ResponseWriter, status int, body string) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func TestAnswer(t *testing.T) {
	var received completionRequest
	var authorization, path string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		authorization = r.Header.Get("authorization")
		path = r.URL.Path
		err := json.NewDecoder(r.Body).Decode(&received)
		if err != nil {
			writeJson(w, http.StatusBadRequest, `{}`)
			return
		}
		writeJson(w, http.StatusOK, testAnswer)
	})

	answer, err := client.Answer(context.Background(), "Qual é a capital do Brasil?")
	require.NoError(t, err)
	require.Equal(t, "Brasília é a capital.", answer)

	require.Equal(t, "Bearer sk-test", authorization)
	require.Equal(t, "/v1/chat/completions", path)

	expected := completionRequest{
		Model: DefaultModel,
		Messages: []message{
			{Role: "user", Content: "Qual é a capital do Brasil?"},
		},
	}
	if diff := cmp.Diff(expected, received); diff != "" {
		t.Fatal(diff)
	}
}

func TestAnswerRetriesServerErrors(t *testing.T) {
	var hits atomic.Int64
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch hits.Add(1) {
		case 1:
			writeJson(w, http.StatusTooManyRequests, `{"error": {"message": "slow down"}}`)
		case 2:
			writeJson(w, http.StatusBadGateway, `{}`)
		default:
			writeJson(w, http.StatusOK, testAnswer)
		}
	})

	answer, err := client.Answer(context.Background(), "oi")
	require.NoError(t, err)
	require.Equal(t, "Brasília é a capital.", answer)
	require.Equal(t, int64(3), hits.Load())
}

func TestAnswerFailures(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
		hits   int64
		check  func(t *testing.T, err error)
	}{
		{
			name:   "client error is not retried",
			status: http.StatusUnauthorized,
			body:   `{"error": {"message": "bad key"}}`,
			hits:   1,
			check: func(t *testing.T, err error) {
				var status *StatusError
				require.True(t, errors.As(err, &status))
				require.Equal(t, http.StatusUnauthorized, status.StatusCode)
				require.Contains(t, err.Error(), "status 401")
			},
		},
		{
			name:   "no choices",
			status: http.StatusOK,
			body:   `{"choices": []}`,
			hits:   1,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrEmptyAnswer)
			},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			var hits atomic.Int64
			client, tel := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				writeJson(w, test.status, test.body)
			})

			_, err := client.Answer(context.Background(), "oi")
			require.Error(t, err)
			test.check(t, err)
			require.Equal(t, test.hits, hits.Load())
			require.NotEmpty(t, tel.Reports(telemetry.KindBroken))
		})
	}
}

func TestAnswerBreakerOpens(t *testing.T) {
	var hits atomic.Int64
	client, tel := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJson(w, http.StatusBadRequest, `{}`)
	})

	for range 3 {
		_, err := client.Answer(context.Background(), "oi")
		require.Error(t, err)
	}
	require.Equal(t, int64(3), hits.Load())

	_, err := client.Answer(context.Background(), "oi")
	require.Error(t, err)
	require.Equal(t, int64(3), hits.Load())
	require.Len(t, tel.Reports(telemetry.KindBroken), 4)
}

func TestIsRetryable(t *testing.T) {
	testCases := []struct {
		err      error
		expected bool
	}{
		{err: &StatusError{StatusCode: 429}, expected: true},
		{err: &StatusError{StatusCode: 500}, expected: true},
		{err: &StatusError{StatusCode: 503}, expected: true},
		{err: &StatusError{StatusCode: 400}, expected: false},
		{err: ErrEmptyAnswer, expected: false},
		{err: context.Canceled, expected: false},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, isRetryable(test.err), test.err.Error())
	}
}
