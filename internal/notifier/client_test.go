package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/calpick/internal/picker"
)

func TestManageData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization = %q", got)
		}
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		_ = json.NewEncoder(w).Encode(picker.Result{Date: req.SelectedDate, Weekday: "Wednesday", Count: 4})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("secret"))
	res, err := c.ManageData(context.Background(), "2024-07-10")
	if err != nil {
		t.Fatalf("ManageData: %v", err)
	}
	if res.Date != "2024-07-10" || res.Count != 4 || res.Weekday != "Wednesday" {
		t.Errorf("result = %+v", res)
	}
}

func TestManageData_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad date", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ManageData(context.Background(), "2024-07-10")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "status 400") || !strings.Contains(err.Error(), "bad date") {
		t.Errorf("error = %v", err)
	}
}

func TestManageData_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := New(url).ManageData(context.Background(), "2024-07-10"); err == nil {
		t.Fatal("expected error for closed server")
	}
}

type countingTransport struct {
	calls int
}

func (t *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.calls++
	return http.DefaultTransport.RoundTrip(r)
}

func TestManageData_CustomHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(picker.Result{Date: "2024-07-10", Count: 1})
	}))
	defer srv.Close()

	tr := &countingTransport{}
	c := New(srv.URL, WithHTTPClient(&http.Client{Transport: tr}))
	if _, err := c.ManageData(context.Background(), "2024-07-10"); err != nil {
		t.Fatalf("ManageData: %v", err)
	}
	if tr.calls != 1 {
		t.Errorf("transport calls = %d, want 1", tr.calls)
	}
}
