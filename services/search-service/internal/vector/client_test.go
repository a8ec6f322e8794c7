package vector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateCollectionAlreadyExistsIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":{"error":"collection listings already exists"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.CreateCollection(context.Background(), "listings", 384); err != nil {
		t.Fatalf("expected already-exists to be treated as success, got %v", err)
	}
}

func TestCreateCollectionOtherErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":{"error":"disk full"}}`))
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).CreateCollection(context.Background(), "listings", 384); err == nil {
		t.Fatal("expected error")
	}
}

func TestUpsertPointRequestShape(t *testing.T) {
	var got struct {
		Points []struct {
			ID      string         `json:"id"`
			Vector  []float32      `json:"vector"`
			Payload map[string]any `json:"payload"`
		} `json:"points"`
	}
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.UpsertPoint(context.Background(), "listings", "L1", []float32{0.1, 0.2}, map[string]any{"entityId": "L1"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if method != http.MethodPut || path != "/collections/listings/points" {
		t.Fatalf("request = %s %s", method, path)
	}
	if len(got.Points) != 1 || got.Points[0].ID != "L1" || len(got.Points[0].Vector) != 2 {
		t.Fatalf("points body = %+v", got.Points)
	}
	if got.Points[0].Payload["entityId"] != "L1" {
		t.Fatalf("payload = %v", got.Points[0].Payload)
	}
}

func TestSearchSendsPayloadFlagsAndDecodesHits(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"result":[
			{"id":"L1","score":0.91,"payload":{"entityId":"L1","price":3100}},
			{"id":"L2","score":0.42,"payload":{"entityId":"L2"}}
		]}`))
	}))
	defer srv.Close()

	hits, err := NewClient(srv.URL).Search(context.Background(), "listings", []float32{1, 0}, 50)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got["with_payload"] != true || got["with_vector"] != false {
		t.Fatalf("flags = with_payload=%v with_vector=%v", got["with_payload"], got["with_vector"])
	}
	if got["limit"] != float64(50) {
		t.Fatalf("limit = %v", got["limit"])
	}
	if len(hits) != 2 || hits[0].ID != "L1" || hits[0].Score != 0.91 {
		t.Fatalf("hits = %+v", hits)
	}
	if hits[0].Payload["entityId"] != "L1" {
		t.Fatalf("payload = %v", hits[0].Payload)
	}
}
