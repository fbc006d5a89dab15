// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/studio-go/internal/auth"
	"github.com/olegiv/studio-go/internal/content"
	"github.com/olegiv/studio-go/internal/i18n"
	"github.com/olegiv/studio-go/internal/mailer"
	"github.com/olegiv/studio-go/internal/middleware"
	"github.com/olegiv/studio-go/internal/model"
	"github.com/olegiv/studio-go/internal/scheduler"
	"github.com/olegiv/studio-go/internal/service"
	"github.com/olegiv/studio-go/internal/session"
	"github.com/olegiv/studio-go/internal/storage"
	"github.com/olegiv/studio-go/internal/testutil"
	"github.com/olegiv/studio-go/internal/version"
)

const testPassword = "correct horse battery staple"

var testHash string

func TestMain(m *testing.M) {
	if err := i18n.Init(nil); err != nil {
		panic(err)
	}
	h, err := auth.HashPassword(testPassword)
	if err != nil {
		panic(err)
	}
	testHash = h
	os.Exit(m.Run())
}

type captureMailer struct {
	sent []mailer.Message
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type testEnv struct {
	router    http.Handler
	db        *sql.DB
	portfolio *service.Portfolio
	bucket    *storage.Bucket
	mail      *captureMailer
	scheduler *scheduler.Scheduler
}

type envOption func(*Deps)

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	logger := testutil.TestLoggerSilent()
	db := testutil.TestDB(t)

	bucket, err := storage.NewBucket(t.TempDir())
	require.NoError(t, err)

	portfolio := service.NewPortfolio(content.NewRemote(db), service.Options{
		Logger: logger,
		Bucket: bucket,
	})
	mail := &captureMailer{}
	admin, err := auth.NewAdmin(testHash)
	require.NoError(t, err)

	sched := scheduler.New(logger)
	require.NoError(t, sched.Add("refresh-listings", "Reload cached listings", "@every 1h", portfolio.Refresh))

	d := Deps{
		Logger:    logger,
		DB:        db,
		Portfolio: portfolio,
		Contact:   service.NewContact(mail, "from@example.com", "studio@example.com", logger),
		Sessions:  session.New(db, true),
		Admin:     admin,
		LoginProtection: middleware.NewLoginProtection(middleware.LoginProtectionConfig{
			IPRateLimit: 1000,
			IPBurst:     1000,
		}),
		Scheduler: sched,
		Bucket:    bucket,
		Version:   version.Info{Version: "v1.0.0", GitCommit: "abc1234"},
		CSRFKey:   []byte("12345678901234567890123456789012"),
	}
	for _, opt := range opts {
		opt(&d)
	}

	return &testEnv{
		router:    NewRouter(d),
		db:        db,
		portfolio: d.Portfolio,
		bucket:    bucket,
		mail:      mail,
		scheduler: sched,
	}
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	headers     map[string]string
	cookies     []*http.Cookie
}

func (e *testEnv) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(req.method, req.path, req.body)
	if req.contentType != "" {
		r.Header.Set("Content-Type", req.contentType)
	}
	for k, v := range req.headers {
		r.Header.Set(k, v)
	}
	for _, c := range req.cookies {
		r.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, r)
	return rec
}

func (e *testEnv) get(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, request{method: http.MethodGet, path: path, cookies: cookies})
}

func (e *testEnv) sendJSON(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return e.do(t, request{
		method:      method,
		path:        path,
		body:        bytes.NewReader(data),
		contentType: "application/json",
		cookies:     cookies,
	})
}

// login returns the admin session cookie.
func (e *testEnv) login(t *testing.T) []*http.Cookie {
	t.Helper()
	rec := e.sendJSON(t, http.MethodPost, "/api/admin/login", LoginRequest{Password: testPassword})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	var out []*http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "studio_session" {
			out = append(out, c)
		}
	}
	require.NotEmpty(t, out, "login must set the session cookie")
	return out
}

func (e *testEnv) upload(t *testing.T, path, filename, content string, fields map[string]string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return e.do(t, request{
		method:      http.MethodPost,
		path:        path,
		body:        &buf,
		contentType: mw.FormDataContentType(),
		cookies:     cookies,
	})
}

func (e *testEnv) project(t *testing.T, in model.ProjectInput) model.Project {
	t.Helper()
	p, err := e.portfolio.CreateProject(context.Background(), in)
	require.NoError(t, err)
	return p
}

type envelope[T any] struct {
	Data T               `json:"data"`
	Meta json.RawMessage `json:"meta"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) (T, json.RawMessage) {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Data, env.Meta
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) middleware.ErrorResponse {
	t.Helper()
	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
