package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCountryFor_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json/203.0.113.7" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","country":"Germany"}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second)
	result := client.CountryFor(context.Background(), "203.0.113.7")
	if !result.Resolved {
		t.Fatalf("expected resolved result, got %+v", result)
	}
	if result.Country != "Germany" {
		t.Errorf("Country = %q; expected Germany", result.Country)
	}
}

func TestCountryFor_ServiceFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second)
	if result := client.CountryFor(context.Background(), "10.0.0.1"); result.Resolved {
		t.Fatalf("expected unresolved result, got %+v", result)
	}
}

func TestCountryFor_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second)
	if result := client.CountryFor(context.Background(), "203.0.113.7"); result.Resolved {
		t.Fatalf("expected unresolved result, got %+v", result)
	}
}

func TestCountryFor_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second)
	if result := client.CountryFor(context.Background(), "203.0.113.7"); result.Resolved {
		t.Fatalf("expected unresolved result, got %+v", result)
	}
}

func TestCountryFor_NetworkError(t *testing.T) {
	// Closed server simulates an unreachable geolocation service.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, time.Second)
	if result := client.CountryFor(context.Background(), "203.0.113.7"); result.Resolved {
		t.Fatalf("expected unresolved result, got %+v", result)
	}
}

func TestCountryFor_EmptyIP(t *testing.T) {
	client := NewClient("http://ip-api.com", time.Second)
	if result := client.CountryFor(context.Background(), ""); result.Resolved {
		t.Fatalf("expected unresolved result for empty ip, got %+v", result)
	}
}
