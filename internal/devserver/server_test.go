package devserver_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"todolist/internal/devserver"
)

func newTestServer(t *testing.T) (*httptest.Server, *devserver.Store) {
	t.Helper()
	store := devserver.NewStore()
	srv := httptest.NewServer(devserver.NewRouter(store, nil))
	t.Cleanup(srv.Close)
	return srv, store
}

func doRequest(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, string(data)
}

func TestGetAll_EmptyIsArray(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doRequest(t, http.MethodGet, srv.URL+devserver.BasePath+"/getall", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if strings.TrimSpace(body) != "[]" {
		t.Errorf("body = %q, want []", body)
	}
}

func TestSave_AssignsSequentialIDs(t *testing.T) {
	srv, store := newTestServer(t)
	base := srv.URL + devserver.BasePath

	_, first := doRequest(t, http.MethodPost, base+"/save", `{"todoName":"buy milk","completed":false}`)
	_, second := doRequest(t, http.MethodPost, base+"/save", `{"todoName":"write report","completed":false}`)

	var a, b map[string]any
	json.Unmarshal([]byte(first), &a)
	json.Unmarshal([]byte(second), &b)
	if a["id"] != float64(1) || b["id"] != float64(2) {
		t.Errorf("ids = %v, %v; want 1, 2", a["id"], b["id"])
	}
	if a["todoName"] != "buy milk" {
		t.Errorf("todoName = %v", a["todoName"])
	}
	if got := len(store.All()); got != 2 {
		t.Errorf("store has %d tasks, want 2", got)
	}
}

func TestSave_RejectsBlankName(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doRequest(t, http.MethodPost, srv.URL+devserver.BasePath+"/save", `{"todoName":"   "}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if !strings.Contains(body, `"message"`) {
		t.Errorf("error body should carry a message: %q", body)
	}
}

func TestUpdate(t *testing.T) {
	srv, store := newTestServer(t)
	store.Save("buy milk", false)
	base := srv.URL + devserver.BasePath

	resp, _ := doRequest(t, http.MethodPut, base+"/update/1?completed=true", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !store.All()[0].Completed {
		t.Error("task should be completed")
	}

	resp, _ = doRequest(t, http.MethodPut, base+"/update/1?completed=maybe", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad flag status = %d, want 400", resp.StatusCode)
	}

	resp, body := doRequest(t, http.MethodPut, base+"/update/99?completed=true", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", resp.StatusCode)
	}
	if !strings.Contains(body, "Todo not found with id: 99") {
		t.Errorf("body = %q", body)
	}
}

func TestDelete(t *testing.T) {
	srv, store := newTestServer(t)
	store.Save("a", false)
	store.Save("b", true)
	base := srv.URL + devserver.BasePath

	resp, _ := doRequest(t, http.MethodDelete, base+"/delete/1", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	all := store.All()
	if len(all) != 1 || all[0].Name != "b" {
		t.Errorf("remaining = %+v", all)
	}

	resp, _ = doRequest(t, http.MethodDelete, base+"/delete/1", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}
