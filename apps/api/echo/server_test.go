package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studentcoin/core"
	"github.com/trezcool/studentcoin/core/access"
	"github.com/trezcool/studentcoin/core/account"
	"github.com/trezcool/studentcoin/core/taxid"
	inmemkv "github.com/trezcool/studentcoin/storage/kv/inmem"
)

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	deviceID string
	wantCode int
	wantData []byte
}

type recLogger struct {
	mu     sync.Mutex
	errors [][]interface{}
}

func (l *recLogger) Debug(string, ...interface{}) {}
func (l *recLogger) Info(string, ...interface{})  {}
func (l *recLogger) Warn(string, ...interface{})  {}
func (l *recLogger) Fatal(string, ...interface{}) {}
func (l *recLogger) Error(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, append([]interface{}{msg}, args...))
}

type testApp struct {
	*Server
	store    *inmemkv.Store
	sessions *access.Sessions
	logger   *recLogger
}

func newTestApp(t *testing.T, store ...*inmemkv.Store) *testApp {
	t.Helper()

	conf := &core.Config{
		Env:      "TEST",
		TestMode: true,
		Server:   core.ServerConfig{Address: ":0", DisableReqLogs: true},
		Store:    core.StoreConfig{KeyPrefix: "userRole", Timeout: time.Second},
	}
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	taxid.InitValidators(validate, translator)
	account.InitValidators(validate, translator)

	app := &testApp{store: inmemkv.NewStore(), logger: &recLogger{}}
	if len(store) > 0 {
		app.store = store[0]
	}
	app.sessions = access.NewSessions(app.store, app.logger, conf.Store.KeyPrefix, conf.Store.Timeout, conf.Store.MaxSessions)
	app.Server = NewServer(conf, app.logger, app.sessions, access.DefaultRegistry(), validate, translator)
	return app
}

func (app *testApp) do(tt httpTest) *httptest.ResponseRecorder {
	req := httptest.NewRequest(tt.method, tt.path, bytes.NewReader(tt.body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if tt.deviceID != "" {
		req.Header.Set(deviceIDHeader, tt.deviceID)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

// newDevice opens a session and sets its role.
func (app *testApp) newDevice(t *testing.T, role access.Role) string {
	t.Helper()
	deviceID := app.sessions.NewDeviceID()
	ctrl, err := app.sessions.Get(context.Background(), deviceID)
	require.NoError(t, err)
	ctrl.SetRole(context.Background(), role)
	return deviceID
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj(): %v", err)
	}
	return data
}

func runHTTPTests(t *testing.T, app *testApp, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt)
			assert.Equal(t, tt.wantCode, rec.Code, "body: %s", rec.Body.String())
			if tt.wantData != nil {
				assert.JSONEq(t, string(tt.wantData), rec.Body.String())
			}
		})
	}
}

func TestServer_home(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(httpTest{method: http.MethodGet, path: "/"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to StudentCoin API!", rec.Body.String())
}

func TestServer_internalErrors(t *testing.T) {
	app := newTestApp(t)
	teacher := app.newDevice(t, access.Teacher)

	app.app.GET("/v1/boom", func(echo.Context) error {
		return errors.Wrap(core.NewShutdownError("integrity issue"), "boom")
	}, sessionMiddleware(app.sessions))

	rec := app.do(httpTest{method: http.MethodGet, path: "/v1/boom", deviceID: teacher})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, string(marshalObj(t, httpErr{Error: "Internal Server Error"})), rec.Body.String())

	require.Len(t, app.logger.errors, 1)
	assert.Equal(t, access.Teacher, app.logger.errors[0][2])

	select {
	case <-app.ShutdownSignal():
	default:
		t.Error("shutdown was not signaled")
	}
}
