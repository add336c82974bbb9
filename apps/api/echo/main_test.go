package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hometuition/portal/core"
	"github.com/hometuition/portal/core/session"
	"github.com/hometuition/portal/core/tuition"
	"github.com/hometuition/portal/core/user"
	emailsvc "github.com/hometuition/portal/services/email"
	logsvc "github.com/hometuition/portal/services/logger"
	msgsvc "github.com/hometuition/portal/services/messaging"
	"github.com/hometuition/portal/services/notify"
	inmemdb "github.com/hometuition/portal/storage/database/inmem"
	inmemstore "github.com/hometuition/portal/storage/sessions/inmem"
	testutil "github.com/hometuition/portal/tests"
)

const pwd = "Tuition#2024"

type testApp struct {
	Server
	usrRepo  user.Repository
	store    *inmemstore.Store
	auth     *authenticator
	mailSvc  *emailsvc.ConsoleService
	msgSvc   *msgsvc.ConsoleService
	logger   *logsvc.RecorderLogger
	registry *prometheus.Registry
}

func setup(t *testing.T, extraChannels ...core.NotificationChannel) *testApp {
	t.Helper()
	conf := core.NewTestConfig()
	validate, translator := testutil.NewValidator()
	logger := logsvc.NewRecorderLogger()
	registry := prometheus.NewRegistry()

	// set up DB & repos
	db := inmemdb.NewDB()
	usrRepo := inmemdb.NewUserRepository(db)
	tuitionRepo := inmemdb.NewTuitionRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	msgSvc := msgsvc.NewConsoleServiceMock(conf)
	channels := append([]core.NotificationChannel{
		notify.NewEmailChannel(mailSvc, conf.Email.DefaultFromAddress(conf.AppName), conf.Email.AdminAddress()),
		notify.NewMessagingChannel(msgSvc, conf.Messaging.AdminTo),
	}, extraChannels...)
	dispatcher := notify.NewSyncDispatcher(logger, notify.NewMetrics(registry), conf.NotifyTimeout, channels...)
	store := inmemstore.NewStore()
	sessions := session.NewManager(store, conf.Server.SessionTTL)

	// set up server
	app := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		UserSvc:        user.NewService(usrRepo, validate),
		TuitionSvc:     tuition.NewService(tuitionRepo, dispatcher, validate),
		Sessions:       sessions,
		Validate:       validate,
		Translator:     translator,
		Registry:       registry,
		Gatherer:       registry,
		DisableReqLogs: true,
	})

	return &testApp{
		Server:   app,
		usrRepo:  usrRepo,
		store:    store,
		auth:     newAuthenticator(conf, sessions),
		mailSvc:  mailSvc,
		msgSvc:   msgSvc,
		logger:   logger,
		registry: registry,
	}
}

// login opens a session for usr and returns its token.
func (app *testApp) login(t *testing.T, usr user.User) string {
	t.Helper()
	sess, err := app.auth.sessions.Create(context.Background(), usr)
	if err != nil {
		t.Fatalf("login() failed: %v", err)
	}
	token, err := app.auth.GenerateToken(sess)
	if err != nil {
		t.Fatalf("login() failed: %v", err)
	}
	return token
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func unmarshalBody(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("unmarshalBody() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app *testApp, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
