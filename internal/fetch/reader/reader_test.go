package reader

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"pagewatch/internal/fetch"
)

type step struct {
	res *fetch.Response
	err error
}

type scriptedClient struct {
	urls  []string
	steps []step
}

func (c *scriptedClient) Get(_ context.Context, url string, _ http.Header) (*fetch.Response, error) {
	c.urls = append(c.urls, url)
	idx := len(c.urls) - 1
	if idx >= len(c.steps) {
		idx = len(c.steps) - 1
	}
	return c.steps[idx].res, c.steps[idx].err
}

func TestExtractFirstCandidateSucceeds(t *testing.T) {
	t.Parallel()

	stub := &scriptedClient{steps: []step{
		{res: &fetch.Response{StatusCode: http.StatusOK, Body: []byte("Fee: 7%")}},
	}}
	client := New("https://reader.example", stub)

	text, err := client.Extract(context.Background(), "https://docs.ozon.ru/fees")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if text != "Fee: 7%" {
		t.Fatalf("text = %q", text)
	}
	if len(stub.urls) != 1 {
		t.Fatalf("calls = %d, want 1", len(stub.urls))
	}
	if stub.urls[0] != "https://reader.example/https://docs.ozon.ru/fees" {
		t.Fatalf("queried %q", stub.urls[0])
	}
}

func TestExtractFallsBackToSchemelessForm(t *testing.T) {
	t.Parallel()

	stub := &scriptedClient{steps: []step{
		{res: &fetch.Response{StatusCode: http.StatusNotFound, Body: []byte("nope")}},
		{res: &fetch.Response{StatusCode: http.StatusOK, Body: []byte("Fee: 7%")}},
	}}
	client := New("https://reader.example/", stub)

	text, err := client.Extract(context.Background(), "https://docs.ozon.ru/fees")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if text != "Fee: 7%" {
		t.Fatalf("text = %q", text)
	}
	if len(stub.urls) != 2 {
		t.Fatalf("calls = %d, want 2", len(stub.urls))
	}
	if stub.urls[1] != "https://reader.example/docs.ozon.ru/fees" {
		t.Fatalf("second candidate = %q", stub.urls[1])
	}
}

func TestExtractReportsLastError(t *testing.T) {
	t.Parallel()

	transport := errors.New("dial tcp: connection refused")
	stub := &scriptedClient{steps: []step{
		{res: &fetch.Response{StatusCode: http.StatusBadGateway, Body: []byte("x")}},
		{err: transport},
	}}
	client := New("", stub)

	_, err := client.Extract(context.Background(), "https://docs.ozon.ru/fees")
	if err == nil {
		t.Fatalf("expected error when every candidate fails")
	}
	if !errors.Is(err, transport) {
		t.Fatalf("error %v must wrap the last failure", err)
	}
	if !strings.HasPrefix(stub.urls[0], DefaultEndpoint+"/") {
		t.Fatalf("empty endpoint must fall back to default, queried %q", stub.urls[0])
	}
}

func TestExtractEmptyBodyIsFailure(t *testing.T) {
	t.Parallel()

	stub := &scriptedClient{steps: []step{
		{res: &fetch.Response{StatusCode: http.StatusOK}},
		{res: &fetch.Response{StatusCode: http.StatusOK}},
	}}
	client := New("https://reader.example", stub)

	_, err := client.Extract(context.Background(), "https://docs.ozon.ru/fees")
	if err == nil || !strings.Contains(err.Error(), "empty body") {
		t.Fatalf("expected empty-body failure, got %v", err)
	}
}

func TestExtractSchemelessURLQueriedOnce(t *testing.T) {
	t.Parallel()

	stub := &scriptedClient{steps: []step{
		{res: &fetch.Response{StatusCode: http.StatusServiceUnavailable, Body: []byte("x")}},
	}}
	client := New("https://reader.example", stub)

	_, err := client.Extract(context.Background(), "docs.ozon.ru/fees")
	if err == nil {
		t.Fatalf("expected failure")
	}
	if len(stub.urls) != 1 {
		t.Fatalf("calls = %d, want 1 (no second form without a scheme)", len(stub.urls))
	}
}
