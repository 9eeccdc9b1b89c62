// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func largeBody(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", "9999")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(strings.Repeat(`{"movie_id":"tt0111161"},`, 100)))
}

func TestCompression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		acceptEncoding string
		wantGzip       bool
	}{
		{name: "gzip accepted", method: http.MethodGet, acceptEncoding: "gzip", wantGzip: true},
		{name: "gzip among others", method: http.MethodGet, acceptEncoding: "br, gzip;q=0.8, deflate", wantGzip: true},
		{name: "uppercase token", method: http.MethodGet, acceptEncoding: "GZIP", wantGzip: true},
		{name: "no accept header", method: http.MethodGet},
		{name: "only brotli", method: http.MethodGet, acceptEncoding: "br"},
		{name: "x-gzip is not gzip", method: http.MethodGet, acceptEncoding: "x-gzip-ish"},
		{name: "HEAD passes through", method: http.MethodHead, acceptEncoding: "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, "/api/v1/recommendations/1", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rec := httptest.NewRecorder()
			Compression(http.HandlerFunc(largeBody)).ServeHTTP(rec, req)

			gotGzip := rec.Header().Get("Content-Encoding") == "gzip"
			if gotGzip != tt.wantGzip {
				t.Fatalf("Content-Encoding gzip = %v, want %v", gotGzip, tt.wantGzip)
			}
			if !tt.wantGzip {
				return
			}
			if rec.Header().Get("Content-Length") != "" {
				t.Error("Content-Length must be dropped from compressed responses")
			}
			if rec.Header().Get("Vary") != "Accept-Encoding" {
				t.Errorf("Vary = %q", rec.Header().Get("Vary"))
			}

			reader, err := gzip.NewReader(rec.Body)
			if err != nil {
				t.Fatalf("gzip.NewReader: %v", err)
			}
			defer reader.Close()
			body, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if !strings.HasPrefix(string(body), `{"movie_id":"tt0111161"}`) {
				t.Errorf("decompressed body = %.40q", body)
			}
		})
	}
}

func TestCompression_ImplicitStatus(t *testing.T) {
	t.Parallel()

	handler := Compression(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	reader, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	body, _ := io.ReadAll(reader)
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}
}
