package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blog_api/internal/auth"
	"blog_api/internal/calendar"
	"blog_api/internal/config"
	"blog_api/internal/db"
	"blog_api/internal/observability"
	"blog_api/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-handler"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	DB     *sql.DB
	Router *gin.Engine
}

// setupTestEnv wires the real router to an in-memory SQLite database seeded
// with alice and bob.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.Open(&config.DBConfig{Driver: db.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.Migrate(database, db.DriverSQLite))

	users := user.NewUserService(user.NewUserRepository(nil), database, nil)
	for _, u := range []struct{ name, password string }{
		{"alice", "secret123"},
		{"bob", "hunter22"},
	} {
		_, err := users.CreateUser(u.name, u.password)
		require.NoError(t, err)
	}

	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	router := SetupHandler(database, cfg, &calendar.Formatter{Location: time.UTC}, metrics)

	return &testEnv{DB: database, Router: router}
}

func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()

	w := env.do(t, "POST", "/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["token"]
}

func TestBlogFlow(t *testing.T) {
	env := setupTestEnv(t)

	var token string

	t.Run("Login_Success", func(t *testing.T) {
		w := env.do(t, "POST", "/login", "", map[string]string{"username": "alice", "password": "secret123"})

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Login successful", resp["message"])
		require.IsType(t, "", resp["token"])
		token = resp["token"].(string)

		claims, err := auth.ValidateToken(token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, 1, claims.ID)
		assert.Equal(t, "alice", claims.Username)
	})

	t.Run("CreatePost", func(t *testing.T) {
		w := env.do(t, "POST", "/posts", token, map[string]string{"title": "Hi", "content": "World"})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"message":"Post created successfully!"}`, w.Body.String())
	})

	t.Run("MyPosts", func(t *testing.T) {
		w := env.do(t, "GET", "/myposts", token, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var posts []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
		require.Len(t, posts, 1)
		assert.Equal(t, "alice", posts[0]["username"])
		assert.Equal(t, "Hi", posts[0]["title"])
		assert.Equal(t, "World", posts[0]["content"])
		assert.Regexp(t, `^14\d{2}/\d{2}/\d{2} \d{2}:\d{2}$`, posts[0]["created_at"])
	})

	t.Run("AllPosts_KeepsTimestamp", func(t *testing.T) {
		w := env.do(t, "GET", "/posts", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var posts []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
		require.Len(t, posts, 1)

		_, err := time.Parse(time.RFC3339Nano, posts[0]["created_at"].(string))
		assert.NoError(t, err)
	})
}

func TestLogin_Failures(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		name     string
		body     interface{}
		status   int
		errorMsg string
	}{
		{
			name:     "Unknown user",
			body:     map[string]string{"username": "carol", "password": "secret123"},
			status:   http.StatusNotFound,
			errorMsg: "User not found",
		},
		{
			name:     "Wrong password",
			body:     map[string]string{"username": "alice", "password": "secret124"},
			status:   http.StatusUnauthorized,
			errorMsg: "Invalid credentials",
		},
		{
			name:     "Missing password",
			body:     map[string]string{"username": "alice"},
			status:   http.StatusUnauthorized,
			errorMsg: "Invalid credentials",
		},
		{
			name:     "Empty body",
			body:     nil,
			status:   http.StatusNotFound,
			errorMsg: "User not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, "POST", "/login", "", tt.body)

			assert.Equal(t, tt.status, w.Code)

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.errorMsg, resp["error"])
		})
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	env := setupTestEnv(t)

	issued := time.Now().Add(-2 * time.Hour)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		ID:       1,
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(auth.TokenTTL)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	routes := []struct{ method, path string }{
		{"POST", "/posts"},
		{"GET", "/myposts"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path+" without header", func(t *testing.T) {
			w := env.do(t, route.method, route.path, "", map[string]string{"title": "x"})

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"Access Denied"}`, w.Body.String())
		})

		t.Run(route.method+" "+route.path+" with expired token", func(t *testing.T) {
			w := env.do(t, route.method, route.path, expired, map[string]string{"title": "x"})

			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.JSONEq(t, `{"error":"Invalid Token"}`, w.Body.String())
		})
	}

	var count int
	require.NoError(t, env.DB.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count))
	assert.Equal(t, 0, count, "rejected requests must not write")
}

func TestMyPosts_IsolatedPerUser(t *testing.T) {
	env := setupTestEnv(t)

	aliceToken := env.login(t, "alice", "secret123")
	bobToken := env.login(t, "bob", "hunter22")

	for _, title := range []string{"a1", "a2"} {
		w := env.do(t, "POST", "/posts", aliceToken, map[string]string{"title": title, "content": "by alice"})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w := env.do(t, "POST", "/posts", bobToken, map[string]string{"title": "b1", "content": "by bob"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, "GET", "/myposts", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var posts []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "b1", posts[0]["title"])
	for _, p := range posts {
		assert.Equal(t, "bob", p["username"])
	}
}

func TestPosts_NewestFirst(t *testing.T) {
	env := setupTestEnv(t)

	t1 := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)

	// Inserted out of order so ids do not match creation order.
	for _, p := range []struct {
		title string
		at    time.Time
	}{
		{"middle", t2},
		{"oldest", t1},
		{"newest", t3},
	} {
		_, err := env.DB.Exec(`INSERT INTO posts (username, title, content, created_at) VALUES ($1, $2, $3, $4)`,
			"alice", p.title, "c", p.at)
		require.NoError(t, err)
	}

	w := env.do(t, "GET", "/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var posts []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 3)
	assert.Equal(t, "newest", posts[0]["title"])
	assert.Equal(t, "middle", posts[1]["title"])
	assert.Equal(t, "oldest", posts[2]["title"])
}

func TestCreatePost_MissingFieldsStoredAsNull(t *testing.T) {
	env := setupTestEnv(t)
	token := env.login(t, "alice", "secret123")

	w := env.do(t, "POST", "/posts", token, map[string]string{})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, "GET", "/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var posts []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Nil(t, posts[0]["title"])
	assert.Nil(t, posts[0]["content"])
	assert.Equal(t, "alice", posts[0]["username"])
}

func TestPosts_EmptyList(t *testing.T) {
	env := setupTestEnv(t)
	token := env.login(t, "alice", "secret123")

	w := env.do(t, "GET", "/posts", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = env.do(t, "GET", "/myposts", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestStorageFailure_Returns500(t *testing.T) {
	env := setupTestEnv(t)
	token := env.login(t, "alice", "secret123")

	require.NoError(t, env.DB.Close())

	tests := []struct {
		method, path, token string
		body                interface{}
	}{
		{"POST", "/login", "", map[string]string{"username": "alice", "password": "secret123"}},
		{"POST", "/posts", token, map[string]string{"title": "Hi", "content": "World"}},
		{"GET", "/posts", "", nil},
		{"GET", "/myposts", token, nil},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, tt.token, tt.body)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, `{"error":"Database error"}`, w.Body.String())
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	env.do(t, "GET", "/posts", "", nil)

	w := env.do(t, "GET", "/metrics", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `http_requests_total{endpoint="/posts",method="GET",status="200"} 1`), body)
	assert.Contains(t, body, "db_query_duration_seconds")
}

func TestSetupHandler_WithoutMetrics(t *testing.T) {
	database, err := db.Open(&config.DBConfig{Driver: db.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	defer database.Close()
	require.NoError(t, db.Migrate(database, db.DriverSQLite))

	router := SetupHandler(database, &config.Config{JWT: config.JWTConfig{Secret: testSecret}}, &calendar.Formatter{Location: time.UTC}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/posts", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
