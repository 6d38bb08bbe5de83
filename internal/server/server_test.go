package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pagedeps/pagedeps/pkg/cache"
	"github.com/pagedeps/pagedeps/pkg/web"
)

func testFactory(t *testing.T) web.Factory {
	t.Helper()
	wd := web.NewWebDeps()
	if err := wd.Lib("jquery", web.Asset{URL: "http://jquery"}); err != nil {
		t.Fatal(err)
	}
	if err := wd.Lib("deform", web.Asset{Deps: "jquery", URL: "http://deform"}); err != nil {
		t.Fatal(err)
	}
	if err := wd.CSS("deform.css", web.Asset{URL: "http://deform.css"}); err != nil {
		t.Fatal(err)
	}
	if err := wd.Package("forms", web.Bundle{Libs: "deform", CSS: "deform.css", Script: "alert('forms');"}); err != nil {
		t.Fatal(err)
	}
	factory, err := wd.Close()
	if err != nil {
		t.Fatal(err)
	}
	return factory
}

func testServer(t *testing.T, c cache.Cache) *httptest.Server {
	t.Helper()
	srv := New(Config{Factory: testFactory(t), Profile: "test", Cache: c})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestHealthz(t *testing.T) {
	ts := testServer(t, nil)
	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body != "ok" {
		t.Errorf("body = %q, want ok", body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestResolve(t *testing.T) {
	ts := testServer(t, nil)
	resp, body := get(t, ts.URL+"/resolve?lib=deform&css=deform.css")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, body)
	}

	var got resolveResponse
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	wantLibs := []string{"http://jquery", "http://deform"}
	if len(got.LibURLs) != len(wantLibs) {
		t.Fatalf("lib_urls = %v, want %v", got.LibURLs, wantLibs)
	}
	for i, url := range wantLibs {
		if got.LibURLs[i] != url {
			t.Errorf("lib_urls[%d] = %q, want %q", i, got.LibURLs[i], url)
		}
	}
	if len(got.CSSURLs) != 1 || got.CSSURLs[0] != "http://deform.css" {
		t.Errorf("css_urls = %v, want [http://deform.css]", got.CSSURLs)
	}
}

func TestResolveUnknownHandle(t *testing.T) {
	ts := testServer(t, nil)
	resp, _ := get(t, ts.URL+"/resolve?lib=bogus")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPreview(t *testing.T) {
	ts := testServer(t, nil)
	resp, body := get(t, ts.URL+"/preview?package=forms")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, body)
	}
	for _, want := range []string{
		`<link rel="stylesheet" type="text/css" href="http://deform.css" />`,
		`<script type="text/javascript" src="http://jquery"></script>`,
		`<script type="text/javascript" src="http://deform"></script>`,
		"alert('forms');",
		"<li>package:forms</li>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	// Scripts load after stylesheets.
	if strings.Index(body, "http://deform.css") > strings.Index(body, "http://jquery") {
		t.Error("stylesheets should precede scripts")
	}
}

func TestPreviewCaching(t *testing.T) {
	c := cache.NewMemory()
	defer c.Close()
	ts := testServer(t, c)

	resp1, body1 := get(t, ts.URL+"/preview?package=forms")
	if got := resp1.Header.Get("X-Cache"); got != "miss" {
		t.Fatalf("first X-Cache = %q, want miss", got)
	}
	resp2, body2 := get(t, ts.URL+"/preview?package=forms")
	if got := resp2.Header.Get("X-Cache"); got != "hit" {
		t.Fatalf("second X-Cache = %q, want hit", got)
	}
	if body1 != body2 {
		t.Error("cached body differs from rendered body")
	}

	// A different requirement set renders fresh.
	resp3, _ := get(t, ts.URL+"/preview?lib=jquery")
	if got := resp3.Header.Get("X-Cache"); got != "miss" {
		t.Fatalf("third X-Cache = %q, want miss", got)
	}
}
