package server_test

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pdpkitchen/dashboard/apiclient"
	"github.com/pdpkitchen/dashboard/internal/config"
	"github.com/pdpkitchen/dashboard/query"
	"github.com/pdpkitchen/dashboard/server"
	"github.com/pdpkitchen/dashboard/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	config.EnvVars
	config.API
	config.Session
	config.Cache
	config.Security

	loginsPerMinute int
	trustProxy      bool
}

func (testConfig) GetEnv() string { return "TEST" }

func (testConfig) GetCookieSecret() string { return "a test secret that is long enough" }

func (c testConfig) GetEnableRateLimiting() bool { return c.loginsPerMinute > 0 }

func (c testConfig) GetLoginRatePerMinute() int { return c.loginsPerMinute }

func (c testConfig) GetTrustProxy() bool { return c.trustProxy }

// fakeAPI plays the meal tracking API with a roster of 23 students
type fakeAPI struct {
	mu          sync.Mutex
	ids         []int
	listHits    int
	statsHits   int
	expired     bool // every authenticated call answers 401 and refresh fails
	lastCreate  map[string]string
	notEatingRQ string
}

func newFakeAPI() *fakeAPI {
	f := &fakeAPI{}
	for i := 1; i <= 23; i++ {
		f.ids = append(f.ids, i)
	}
	return f
}

func (f *fakeAPI) hits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listHits
}

func (f *fakeAPI) overviewHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statsHits
}

func (f *fakeAPI) created() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastCreate
}

func (f *fakeAPI) notEatingQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notEatingRQ
}

func accessToken(t *testing.T) string {
	t.Helper()
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("api-secret"))
	require.NoError(t, err)
	return raw
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	access := accessToken(t)
	authorised := func(w http.ResponseWriter, r *http.Request) bool {
		f.mu.Lock()
		expired := f.expired
		f.mu.Unlock()
		if expired || r.Header.Get("Authorization") != "Bearer "+access {
			writeJSON(w, http.StatusUnauthorized, `{"detail":"Given token not valid for any token type"}`)
			return false
		}
		return true
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login/", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"password":"secret"`) {
			writeJSON(w, http.StatusUnauthorized, `{"detail":"Invalid credentials"}`)
			return
		}
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"access":%q,"refresh":"r1"}`, access))
	})
	mux.HandleFunc("POST /api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"detail":"Token is blacklisted"}`)
	})
	mux.HandleFunc("GET /api/students/", func(w http.ResponseWriter, r *http.Request) {
		if !authorised(w, r) {
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		f.listHits++

		page, size := 1, 10
		fmt.Sscan(r.URL.Query().Get("page"), &page)
		fmt.Sscan(r.URL.Query().Get("page_size"), &size)
		start := min((page-1)*size, len(f.ids))
		end := min(start+size, len(f.ids))

		rows := []string{}
		for _, id := range f.ids[start:end] {
			rows = append(rows, fmt.Sprintf(`{"id":%d,"pinfl":"%08d","first_name":"Talaba","last_name":"No%d","student_type":"SCHOLARSHIP","course":1,"is_active":true}`, id, id, id))
		}
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"count":%d,"next":null,"previous":null,"results":[%s]}`, len(f.ids), strings.Join(rows, ",")))
	})
	mux.HandleFunc("POST /api/students/", func(w http.ResponseWriter, r *http.Request) {
		if !authorised(w, r) {
			return
		}
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f.mu.Lock()
		f.lastCreate = map[string]string{}
		for key, values := range r.MultipartForm.Value {
			f.lastCreate[key] = values[0]
		}
		f.ids = append(f.ids, 24)
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, `{"id":24,"first_name":"Ali","last_name":"Valiyev"}`)
	})
	mux.HandleFunc("GET /api/students/{id}/", func(w http.ResponseWriter, r *http.Request) {
		if !authorised(w, r) {
			return
		}
		if r.PathValue("id") != "7" {
			writeJSON(w, http.StatusNotFound, `{"detail":"No Student matches the given query."}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"id":7,"pinfl":"12345678","first_name":"Ali","last_name":"Valiyev","student_type":"CONTRACT","course":2,"until_date":"2027-06-30","is_active":true,"basis_document_number":"B-9"}`)
	})
	mux.HandleFunc("DELETE /api/students/{id}/", func(w http.ResponseWriter, r *http.Request) {
		if !authorised(w, r) {
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		var id int
		fmt.Sscan(r.PathValue("id"), &id)
		for i, v := range f.ids {
			if v == id {
				f.ids = append(f.ids[:i], f.ids[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, `{"detail":"Not found."}`)
	})
	mux.HandleFunc("GET /api/stats/overview/", func(w http.ResponseWriter, r *http.Request) {
		if !authorised(w, r) {
			return
		}
		f.mu.Lock()
		f.statsHits++
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, `{
			"timestamp":"2026-10-19T12:00:00",
			"total_active_students":1250,
			"today":{"total_meals":1500,"unique_students":700,"average_meals_per_student":2.1},
			"this_week":{"total_meals":9000,"unique_students":1000,"average_meals_per_student":9.0},
			"this_month":{"total_meals":30000,"unique_students":1200,"average_meals_per_student":25.0}
		}`)
	})
	mux.HandleFunc("GET /api/stats/students-not-eating/", func(w http.ResponseWriter, r *http.Request) {
		if !authorised(w, r) {
			return
		}
		f.mu.Lock()
		f.notEatingRQ = r.URL.RawQuery
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, `{
			"total_active_students":40,"students_never_ate":1,"students_inactive_days":2,
			"filters":{"days":5,"course":2,"student_type":"CONTRACT"},
			"students":[
				{"id":3,"pinfl":"00000003","name":"Hech Qachon","course":2,"student_type":"CONTRACT","days_since_last_meal":null,"last_meal_date":null,"total_meals":0},
				{"id":4,"pinfl":"00000004","name":"Kech Qolgan","course":2,"student_type":"CONTRACT","days_since_last_meal":6,"last_meal_date":"2026-10-13","total_meals":12}
			]
		}`)
	})
	return mux
}

type harness struct {
	api    *fakeAPI
	url    string
	client *http.Client
}

func newHarness(t *testing.T, cfg testConfig) *harness {
	t.Helper()
	api := newFakeAPI()
	apiSrv := httptest.NewServer(api.handler(t))
	t.Cleanup(apiSrv.Close)

	client, err := apiclient.New(apiSrv.URL + "/api/")
	require.NoError(t, err)

	srv, err := server.New(cfg, client, query.NewMemoryCache(time.Minute))
	require.NoError(t, err)
	dashboard := httptest.NewServer(srv)
	t.Cleanup(dashboard.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &harness{
		api: api,
		url: dashboard.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (h *harness) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := h.client.Get(h.url + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (h *harness) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := h.client.PostForm(h.url+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (h *harness) signIn(t *testing.T) {
	t.Helper()
	resp, _ := h.postForm(t, server.RouteSignIn, url.Values{"username": {"admin"}, "password": {"secret"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteDashboard, resp.Header.Get("Location"))
}

func (h *harness) cookie(t *testing.T, name string) string {
	t.Helper()
	u, err := url.Parse(h.url)
	require.NoError(t, err)
	for _, c := range h.client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRedirectGate(t *testing.T) {
	h := newHarness(t, testConfig{})

	resp, _ := h.get(t, server.RouteOverview)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteSignIn, resp.Header.Get("Location"))

	resp, body := h.get(t, server.RouteSignIn)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `name="username"`)

	resp, body = h.get(t, server.RouteHealth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body)

	resp, _ = h.get(t, "/css/app.css")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/css")

	h.signIn(t)
	resp, _ = h.get(t, server.RouteSignIn)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteDashboard, resp.Header.Get("Location"))

	resp, _ = h.get(t, "/")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteDashboard, resp.Header.Get("Location"))

	resp, _ = h.get(t, server.RouteDashboard)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteOverview, resp.Header.Get("Location"))
}

func TestStaticAssets_Revalidation(t *testing.T) {
	h := newHarness(t, testConfig{})
	fetch := func(etag string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, h.url+"/css/app.css", nil)
		require.NoError(t, err)
		// set explicitly so the transport hands back the raw encoding
		req.Header.Set("Accept-Encoding", "gzip")
		if etag != "" {
			req.Header.Set("If-None-Match", etag)
		}
		resp, err := h.client.Do(req)
		require.NoError(t, err)
		return resp
	}

	resp := fetch("")
	body := readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
	require.Equal(t, "Accept-Encoding", resp.Header.Get("Vary"))
	require.NotEmpty(t, body)
	etag := resp.Header.Get("ETag")
	require.True(t, strings.HasPrefix(etag, `W/"`))

	resp = fetch(etag)
	body = readBody(t, resp)
	require.Equal(t, http.StatusNotModified, resp.StatusCode)
	require.Empty(t, resp.Header.Get("Content-Encoding"))
	require.Empty(t, body)
}

func TestSignIn(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		h := newHarness(t, testConfig{})
		resp, body := h.postForm(t, server.RouteSignIn, url.Values{"username": {"admin"}})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Contains(t, body, "Login va parol majburiy")
	})

	t.Run("rejected credentials show the API message", func(t *testing.T) {
		h := newHarness(t, testConfig{})
		resp, body := h.postForm(t, server.RouteSignIn, url.Values{"username": {"admin"}, "password": {"wrong"}})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Contains(t, body, "Invalid credentials")
		require.Contains(t, body, `value="admin"`)
		require.Empty(t, h.cookie(t, sessions.AccessTokenCookie))
	})

	t.Run("success stores the token pair in cookies", func(t *testing.T) {
		h := newHarness(t, testConfig{})
		h.signIn(t)
		require.NotEmpty(t, h.cookie(t, sessions.AccessTokenCookie))
		require.NotEmpty(t, h.cookie(t, sessions.SessionIDCookie))
		refresh := h.cookie(t, sessions.RefreshTokenCookie)
		require.NotEmpty(t, refresh)
		require.NotEqual(t, "r1", refresh, "refresh token cookie is sealed")
	})

	t.Run("logout clears the session", func(t *testing.T) {
		h := newHarness(t, testConfig{})
		h.signIn(t)
		resp, _ := h.get(t, server.RouteLogout)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, server.RouteSignIn, resp.Header.Get("Location"))
		require.Empty(t, h.cookie(t, sessions.AccessTokenCookie))

		resp, _ = h.get(t, server.RouteOverview)
		require.Equal(t, server.RouteSignIn, resp.Header.Get("Location"))
	})
}

func TestSignIn_RateLimited(t *testing.T) {
	h := newHarness(t, testConfig{loginsPerMinute: 2})
	wrong := url.Values{"username": {"admin"}, "password": {"wrong"}}

	for range 2 {
		resp, _ := h.postForm(t, server.RouteSignIn, wrong)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp, body := h.postForm(t, server.RouteSignIn, wrong)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Contains(t, body, "Juda ko&#39;p urinish")
}

func (h *harness) signInFrom(t *testing.T, forwardedFor string) int {
	t.Helper()
	form := url.Values{"username": {"admin"}, "password": {"wrong"}}
	req, err := http.NewRequest(http.MethodPost, h.url+server.RouteSignIn, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	resp, err := h.client.Do(req)
	require.NoError(t, err)
	readBody(t, resp)
	return resp.StatusCode
}

func TestSignIn_RateLimitIgnoresForwardedFor(t *testing.T) {
	h := newHarness(t, testConfig{loginsPerMinute: 2})

	throttled := 0
	for i := range 20 {
		if h.signInFrom(t, fmt.Sprintf("10.0.0.%d", i)) == http.StatusTooManyRequests {
			throttled++
		}
	}
	require.Equal(t, 18, throttled)
}

func TestSignIn_RateLimitBehindTrustedProxy(t *testing.T) {
	h := newHarness(t, testConfig{loginsPerMinute: 2, trustProxy: true})

	// the client controls every hop but the last one
	for i := range 2 {
		require.Equal(t, http.StatusUnauthorized, h.signInFrom(t, fmt.Sprintf("10.0.0.%d, 203.0.113.7", i)))
	}
	require.Equal(t, http.StatusTooManyRequests, h.signInFrom(t, "10.0.0.99, 203.0.113.7"))

	require.Equal(t, http.StatusUnauthorized, h.signInFrom(t, "203.0.113.8"))
}

func TestOverview(t *testing.T) {
	h := newHarness(t, testConfig{})
	h.signIn(t)

	resp, body := h.get(t, server.RouteOverview)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Bugungi ovqatlar")
	assert.Contains(t, body, "1 500")
	assert.Contains(t, body, "1 200")
	assert.Contains(t, body, `class="active"`)
}

func TestNoEating(t *testing.T) {
	h := newHarness(t, testConfig{})
	h.signIn(t)

	resp, body := h.get(t, server.RouteNoEating+"?days=5&course=2&student_type=contract")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "course=2&days=5&student_type=CONTRACT", h.api.notEatingQuery())
	assert.Contains(t, body, "Hech Qachon")
	assert.Contains(t, body, "never-ate")
	assert.Contains(t, body, "2026-10-13")

	resp, _ = h.get(t, server.RouteNoEating+"?days=abc")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "course=1&days=10&student_type=SCHOLARSHIP", h.api.notEatingQuery())
}

func TestStudentList(t *testing.T) {
	h := newHarness(t, testConfig{})
	h.signIn(t)

	resp, body := h.get(t, server.RouteStudents+"?page=3")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "(23)")
	assert.Contains(t, body, "Talaba No21")
	assert.Contains(t, body, "Talaba No23")
	assert.NotContains(t, body, "Talaba No20")
	assert.Contains(t, body, "3 / 3")

	resp, body = h.get(t, server.RouteStudents+"?perPage=50")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "1 / 1")
}

func TestStudentDelete_RefetchesListing(t *testing.T) {
	h := newHarness(t, testConfig{})
	h.signIn(t)

	h.get(t, server.RouteStudents)
	h.get(t, server.RouteStudents)
	require.Equal(t, 1, h.api.hits(), "second visit is served from the cache")

	resp, _ := h.postForm(t, "/dashboard/student/5/delete", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, server.RouteStudents, location.Path)
	require.Equal(t, "Talaba muvaffaqiyatli o'chirildi!", location.Query().Get("success"))

	_, body := h.get(t, server.RouteStudents)
	require.Equal(t, 2, h.api.hits())
	assert.Contains(t, body, "(22)")
	assert.NotContains(t, body, "Talaba No5<")
}

func TestStudentDelete_RefetchesOverview(t *testing.T) {
	h := newHarness(t, testConfig{})
	h.signIn(t)

	h.get(t, server.RouteOverview)
	h.get(t, server.RouteOverview)
	require.Equal(t, 1, h.api.overviewHits())

	resp, _ := h.postForm(t, "/dashboard/student/5/delete", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	h.get(t, server.RouteOverview)
	require.Equal(t, 2, h.api.overviewHits(), "active student totals are read again")
}

func TestStudentDelete_NotFound(t *testing.T) {
	h := newHarness(t, testConfig{})
	h.signIn(t)

	resp, _ := h.postForm(t, "/dashboard/student/99/delete", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "Xatolik: Not found.", location.Query().Get("error"))
}

func TestProfile(t *testing.T) {
	h := newHarness(t, testConfig{})
	h.signIn(t)

	resp, body := h.get(t, "/dashboard/profile/7")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Ali Valiyev")
	assert.Contains(t, body, "Kontrakt")
	assert.Contains(t, body, "B-9")

	resp, body = h.get(t, "/dashboard/profile/8")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "No Student matches the given query.")

	resp, _ = h.get(t, "/dashboard/profile/abc")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStudentEditForm(t *testing.T) {
	h := newHarness(t, testConfig{})
	h.signIn(t)

	resp, body := h.get(t, "/dashboard/student/7")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="12345678"`)
	assert.Contains(t, body, `value="2027-06-30"`)
	assert.Contains(t, body, `action="/dashboard/student/7"`)
}

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, mw.WriteField(key, value))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestStudentCreate(t *testing.T) {
	h := newHarness(t, testConfig{})
	h.signIn(t)

	t.Run("invalid form is shown again", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{
			"pinfl":        "123",
			"first_name":   "A",
			"last_name":    "Valiyev",
			"student_type": "SCHOLARSHIP",
			"course":       "1",
			"until_date":   "2027-06-30",
		})
		resp, err := h.client.Post(h.url+server.RouteStudents, contentType, body)
		require.NoError(t, err)
		page := readBody(t, resp)
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, page, "PINFL kamida 6 ta belgidan iborat")
		assert.Contains(t, page, "Ism kamida 2 ta belgidan iborat")
		assert.Contains(t, page, `value="Valiyev"`)
		assert.Nil(t, h.api.created())
	})

	t.Run("valid form is posted and invalidates the listing", func(t *testing.T) {
		h.get(t, server.RouteStudents)
		hits := h.api.hits()

		body, contentType := multipartBody(t, map[string]string{
			"pinfl":        "12345678901234",
			"first_name":   "Ali",
			"last_name":    "Valiyev",
			"student_type": "CONTRACT",
			"course":       "2",
			"until_date":   "2027-06-30",
			"is_active":    "on",
		})
		resp, err := h.client.Post(h.url+server.RouteStudents, contentType, body)
		require.NoError(t, err)
		readBody(t, resp)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "CONTRACT", h.api.created()["student_type"])
		require.Equal(t, "true", h.api.created()["is_active"])
		_, hasMiddle := h.api.created()["middle_name"]
		require.False(t, hasMiddle)

		h.get(t, server.RouteStudents)
		require.Equal(t, hits+1, h.api.hits())
	})
}

func TestExpiredSession_RedirectsToSignIn(t *testing.T) {
	h := newHarness(t, testConfig{})
	h.signIn(t)

	h.api.mu.Lock()
	h.api.expired = true
	h.api.mu.Unlock()

	resp, _ := h.get(t, server.RouteStudents)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, server.RouteSignIn, location.Path)
	require.NotEmpty(t, location.Query().Get("error"))
	require.Empty(t, h.cookie(t, sessions.AccessTokenCookie))
}
