package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

func testConnection() ConnectionConfig {
	return ConnectionConfig{
		BaseURL:     "https://blog.example.com",
		Username:    "publisher",
		AppPassword: "app-pass",
		PostType:    "posts",
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestWordPressGatewayPublish(t *testing.T) {
	gateway := NewWordPressGateway()
	gateway.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if r.URL.String() != "https://blog.example.com/wp-json/wp/v2/posts" {
			t.Fatalf("unexpected url %s", r.URL.String())
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "publisher" || pass != "app-pass" {
			t.Fatalf("unexpected basic auth %s/%s", user, pass)
		}

		var payload PublishPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload.Title != "Hello" || payload.Status != "publish" || payload.Slug != "hello" {
			t.Fatalf("unexpected payload %+v", payload)
		}

		return jsonResponse(http.StatusCreated, `{"id": 321, "link": "https://blog.example.com/hello"}`), nil
	}})

	confirmation, err := gateway.Publish(context.Background(), testConnection(), PublishPayload{
		Title: "Hello", Content: "<p>hi</p>", Status: "publish", Slug: "hello",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if confirmation.RemoteID != "321" {
		t.Fatalf("unexpected remote id %q", confirmation.RemoteID)
	}
	if confirmation.Link != "https://blog.example.com/hello" {
		t.Fatalf("unexpected link %q", confirmation.Link)
	}
}

func TestWordPressGatewayPublishCustomPostType(t *testing.T) {
	gateway := NewWordPressGateway()
	gateway.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		if !strings.HasSuffix(r.URL.Path, "/wp-json/wp/v2/landing_pages") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		return jsonResponse(http.StatusCreated, `{"id": 9, "link": "https://blog.example.com/lp"}`), nil
	}})

	conn := testConnection()
	conn.PostType = "landing_pages"
	if _, err := gateway.Publish(context.Background(), conn, PublishPayload{Title: "LP", Status: "publish"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWordPressGatewayPublishHTTPError(t *testing.T) {
	gateway := NewWordPressGateway()
	gateway.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusForbidden, `{"message": "Sorry, you are not allowed to create posts."}`), nil
	}})

	_, err := gateway.Publish(context.Background(), testConnection(), PublishPayload{Title: "x", Status: "publish"})
	if err == nil {
		t.Fatal("expected error on http 403")
	}
	if !strings.Contains(err.Error(), "not allowed to create posts") {
		t.Fatalf("expected remote message in error, got %v", err)
	}
}

func TestWordPressGatewayPublishIncompleteConnection(t *testing.T) {
	gateway := NewWordPressGateway()
	conn := testConnection()
	conn.AppPassword = ""

	_, err := gateway.Publish(context.Background(), conn, PublishPayload{Title: "x"})
	if !errors.Is(err, ErrPublishTargetIncomplete) {
		t.Fatalf("expected ErrPublishTargetIncomplete, got %v", err)
	}
}

func TestWordPressGatewayPartialConfirmationIsReturnedAsIs(t *testing.T) {
	// 网关只负责转述远端应答，half-open 响应的裁决在编排层
	gateway := NewWordPressGateway()
	gateway.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusCreated, `{"id": 0, "link": ""}`), nil
	}})

	confirmation, err := gateway.Publish(context.Background(), testConnection(), PublishPayload{Title: "x", Status: "publish"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if confirmation.RemoteID != "" || confirmation.Link != "" {
		t.Fatalf("expected empty confirmation fields, got %+v", confirmation)
	}
}

func TestWordPressGatewayUploadImage(t *testing.T) {
	// 1x1 PNG
	pngData := []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
		0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
		0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
		0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
		0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
	}

	var uploaded []byte
	gateway := NewWordPressGateway()
	gateway.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		switch {
		case r.Method == http.MethodGet:
			resp := &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewReader(pngData)),
				Header:     make(http.Header),
			}
			resp.Header.Set("Content-Type", "image/png")
			return resp, nil
		case r.Method == http.MethodPost:
			if !strings.HasSuffix(r.URL.Path, "/wp-json/wp/v2/media") {
				t.Fatalf("unexpected media path %s", r.URL.Path)
			}
			if ct := r.Header.Get("Content-Type"); ct != "image/png" {
				t.Fatalf("unexpected content type %s", ct)
			}
			if cd := r.Header.Get("Content-Disposition"); !strings.Contains(cd, `filename="cover.png"`) {
				t.Fatalf("unexpected content disposition %s", cd)
			}
			var err error
			uploaded, err = io.ReadAll(r.Body)
			if err != nil {
				t.Fatalf("failed to read upload body: %v", err)
			}
			return jsonResponse(http.StatusCreated, `{"id": 77}`), nil
		}
		return nil, errors.New("unexpected request")
	}})

	mediaID, err := gateway.UploadImage(context.Background(), testConnection(), "https://cdn.example.com/cover.png?v=2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mediaID != 77 {
		t.Fatalf("unexpected media id %d", mediaID)
	}
	if !bytes.Equal(uploaded, pngData) {
		t.Fatal("uploaded bytes differ from source image")
	}
}

func TestWordPressGatewayUploadImageSourceError(t *testing.T) {
	gateway := NewWordPressGateway()
	gateway.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, "not found"), nil
	}})

	if _, err := gateway.UploadImage(context.Background(), testConnection(), "https://cdn.example.com/missing.png"); err == nil {
		t.Fatal("expected error when image download fails")
	}
}
