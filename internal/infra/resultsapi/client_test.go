package resultsapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quiz-attempt-service/internal/domain"
)

func TestRecordResultPostsPayload(t *testing.T) {
	var got domain.ResultSubmission
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/results" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		writeJSON(w, http.StatusOK, `{"success":true}`)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL + "/api", Token: "secret", Timeout: time.Second})
	err := client.RecordResult(context.Background(), domain.ResultSubmission{
		UserID:         "u1",
		Score:          20,
		MaxScore:       25,
		TotalQuestions: 5,
		Percentage:     80,
		Remark:         "Very Good",
	})
	if err != nil {
		t.Fatalf("record result: %v", err)
	}
	if got.UserID != "u1" || got.Percentage != 80 || got.Remark != "Very Good" {
		t.Fatalf("unexpected payload %+v", got)
	}
	if auth != "Bearer secret" {
		t.Fatalf("expected bearer token, got %q", auth)
	}
}

func TestRecordResultRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":false,"message":"duplicate result"}`)
	}))
	defer server.Close()

	err := New(Config{BaseURL: server.URL}).RecordResult(context.Background(), domain.ResultSubmission{UserID: "u1"})
	if err == nil || !strings.Contains(err.Error(), "duplicate result") {
		t.Fatalf("expected rejection error, got %v", err)
	}
}

func TestRecordResultHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"success":false,"message":"db down"}`)
	}))
	defer server.Close()

	err := New(Config{BaseURL: server.URL}).RecordResult(context.Background(), domain.ResultSubmission{UserID: "u1"})
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected http error, got %v", err)
	}
}

func TestListResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("userId") != "u1" {
			t.Errorf("expected userId query, got %q", r.URL.RawQuery)
		}
		writeJSON(w, http.StatusOK, `{"success":true,"results":[{"id":"r1","userId":"u1","score":15,"maxScore":25,"percentage":60}]}`)
	}))
	defer server.Close()

	records, err := New(Config{BaseURL: server.URL}).ListResults(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(records) != 1 || records[0].ID != "r1" || records[0].Percentage != 60 {
		t.Fatalf("unexpected records %+v", records)
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
