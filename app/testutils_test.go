package main

import (
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/cleanblog/internal/blogservice"
	"github.com/sushihentaime/cleanblog/internal/common/commontest"
	"github.com/sushihentaime/cleanblog/internal/mailservice"
	"github.com/sushihentaime/cleanblog/internal/userservice"
)

func newTestApplication(t *testing.T) (*application, *sql.DB, *mailservice.MockMailer) {
	t.Helper()

	db := commontest.DB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &Config{
		Port:          ":0",
		Environment:   "development",
		SecretKey:     testSecretKey,
		DatabaseURL:   "sqlite3://test.db",
		MailPort:      587,
		MailRecipient: "owner@example.com",
		Version:       version,
	}

	userService, err := userservice.NewUserService(db, []byte(cfg.SecretKey))
	require.NoError(t, err)

	templateCache, err := newTemplateCache(gravatarURL)
	require.NoError(t, err)

	mailer := new(mailservice.MockMailer)
	mailService := mailservice.NewMockMailService(mailer, cfg.MailRecipient, logger)
	t.Cleanup(mailService.Close)

	app := &application{
		config:        cfg,
		logger:        logger,
		userService:   userService,
		blogService:   blogservice.NewBlogService(db),
		mailService:   mailService,
		templateCache: templateCache,
		metrics:       newMetrics(db),
	}

	return app, db, mailer
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

// testClient is a browser: it keeps cookies and does not follow redirects.
type testClient struct {
	*http.Client
	baseURL *url.URL
}

func (ts *testServer) newClient(t *testing.T) *testClient {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	u, err := url.Parse(ts.URL)
	require.NoError(t, err)

	return &testClient{
		Client: &http.Client{
			Transport: ts.Client().Transport,
			Jar:       jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		baseURL: u,
	}
}

func readBody(t *testing.T, res *http.Response) (int, http.Header, string) {
	t.Helper()
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res.StatusCode, res.Header, string(body)
}

func (c *testClient) do(t *testing.T, method, path string, form url.Values) (int, http.Header, string) {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequest(method, c.baseURL.String()+path, body)
	require.NoError(t, err)

	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	res, err := c.Do(req)
	require.NoError(t, err)

	return readBody(t, res)
}

func doRequest(t *testing.T, c *testClient, req *http.Request) *http.Response {
	t.Helper()

	res, err := c.Do(req)
	require.NoError(t, err)

	return res
}

func (c *testClient) get(t *testing.T, path string) (int, http.Header, string) {
	return c.do(t, http.MethodGet, path, nil)
}

func (c *testClient) postForm(t *testing.T, path string, form url.Values) (int, http.Header, string) {
	return c.do(t, http.MethodPost, path, form)
}

func (c *testClient) cookie(name string) *http.Cookie {
	for _, cookie := range c.Jar.Cookies(c.baseURL) {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func (c *testClient) register(t *testing.T, name, email, password string) {
	t.Helper()

	code, header, _ := c.postForm(t, "/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {password},
	})
	require.Equal(t, http.StatusSeeOther, code)
	require.Equal(t, "/", header.Get("Location"))
}

func (c *testClient) login(t *testing.T, email, password string) {
	t.Helper()

	code, header, _ := c.postForm(t, "/login", url.Values{
		"email":    {email},
		"password": {password},
	})
	require.Equal(t, http.StatusSeeOther, code)
	require.Equal(t, "/", header.Get("Location"))
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow(query, args...).Scan(&n))

	return n
}

func testPostForm(title string) url.Values {
	return url.Values{
		"title":    {title},
		"subtitle": {"A subtitle"},
		"author":   {"Jane Doe"},
		"img_url":  {"https://images.example.com/cover.jpg"},
		"body":     {"<p>Some words.</p>"},
	}
}
