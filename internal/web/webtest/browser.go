// Package webtest drives console routes in tests the way a browser would,
// carrying the session cookie from one request to the next.
package webtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type Browser struct {
	t       testing.TB
	handler http.Handler
	cookies map[string]*http.Cookie
}

func NewBrowser(t testing.TB, handler http.Handler) *Browser {
	return &Browser{t: t, handler: handler, cookies: make(map[string]*http.Cookie)}
}

// Envelope mirrors response.ApiEnvelope with a raw payload.
type Envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (b *Browser) Get(target string) *httptest.ResponseRecorder {
	return b.Do(http.MethodGet, target, nil, gin.MIMEHTML)
}

func (b *Browser) Post(target string, form url.Values) *httptest.ResponseRecorder {
	return b.Do(http.MethodPost, target, form, gin.MIMEHTML)
}

// GetJSON requests the JSON envelope and decodes its data into out.
func (b *Browser) GetJSON(target string, out any) *httptest.ResponseRecorder {
	w := b.Do(http.MethodGet, target, nil, gin.MIMEJSON)
	b.Decode(w, out)
	return w
}

func (b *Browser) PostJSON(target string, form url.Values, out any) *httptest.ResponseRecorder {
	w := b.Do(http.MethodPost, target, form, gin.MIMEJSON)
	b.Decode(w, out)
	return w
}

func (b *Browser) Decode(w *httptest.ResponseRecorder, out any) Envelope {
	b.t.Helper()
	var env Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		b.t.Fatalf("decode envelope: %v: %s", err, w.Body.String())
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			b.t.Fatalf("decode data: %v", err)
		}
	}
	return env
}

func (b *Browser) Do(method, target string, form url.Values, accept string) *httptest.ResponseRecorder {
	b.t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Accept", accept)
	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return w
}
