package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := &RecordingAPI{}
	scoped := NewScopedAPI("outer", NewScopedAPI("inner", rec))

	scoped.ReportBroken("catalog.load", "a", 1)
	scoped.ReportWarning("catalog.load", "b")
	scoped.ReportDebug("hello")
	scoped.ReportCount("catalog.size", 3)

	require.Equal(t, []Report{
		{Kind: KindBroken, Id: "inner: outer: catalog.load", Params: []any{"a", 1}},
		{Kind: KindWarning, Id: "inner: outer: catalog.load", Params: []any{"b"}},
		{Kind: KindDebug, Id: "inner: outer: hello", Params: nil},
		{Kind: KindCount, Id: "inner: outer: catalog.size", Params: []any{int64(3)}},
	}, rec.Reports(""))

	require.Len(t, rec.Reports(KindCount), 1)
}

func TestInstrumentResty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	rec := &RecordingAPI{}
	client := resty.New()
	InstrumentResty(client, rec)

	res, err := client.R().SetContext(context.Background()).Get(server.URL)
	require.NoError(t, err)
	require.Equal(t, "ok", res.String())

	res, err = client.R().SetContext(context.Background()).Get(server.URL + "/missing")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, res.StatusCode())

	debug := rec.Reports(KindDebug)
	require.Len(t, debug, 4)
	require.Equal(t, report_resty_request, debug[0].Id)
	require.Equal(t, uint64(1), debug[0].Params[0])
	require.Equal(t, report_resty_response, debug[1].Id)
	require.Equal(t, uint64(1), debug[1].Params[0])
	require.Equal(t, uint64(2), debug[2].Params[0])

	require.Empty(t, rec.Reports(KindBroken))
}

func TestInstrumentRestyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	rec := &RecordingAPI{}
	client := resty.New()
	InstrumentResty(client, rec)

	_, err := client.R().Get(url)
	require.Error(t, err)

	broken := rec.Reports(KindBroken)
	require.Len(t, broken, 1)
	require.Equal(t, report_resty_response, broken[0].Id)
}

func TestSetupWithoutEndpoint(t *testing.T) {
	tel, err := Setup(context.Background(), "vestibot-test", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}
