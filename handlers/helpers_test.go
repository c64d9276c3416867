package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fenilmodi00/planillas-dashboard/models"
	"github.com/fenilmodi00/planillas-dashboard/services"
	"github.com/fenilmodi00/planillas-dashboard/shared"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const planillasPage = `{
	"content": [
		{"id": 11, "cedulaDirigente": "999", "nombreDirigente": "Juan Perez", "cedulaPlanillero": "555", "nombrePlanillero": "Ana Gomez",
		 "fechaCreacion": "2024-03-05T10:00:00Z", "totalEnviados": 2, "totalValidos": 1, "totalNoExistentes": 1,
		 "votantes": [{"cedula_votante": 111, "nombre": "Maria", "apellido": "Lopez", "direccion": "Calle 1, Asuncion", "voto_plra": "SI"}]},
		{"id": 12, "cedulaDirigente": "888", "nombreDirigente": "Pedro Ruiz", "totalEnviados": 1}
	],
	"page": 2,
	"size": 10,
	"totalElements": 12,
	"totalPages": 2
}`

// fakeBackend answers the REST calls the dashboard makes
type fakeBackend struct {
	mu           sync.Mutex
	status       map[string]int
	bodies       map[string]string
	created      []models.AddPlanillaRequest
	lastQuery    map[string]string
	requestCount map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		status: map[string]int{},
		bodies: map[string]string{
			"/access/login":                       `{"data":{"token":"jwt","result":{"cedulaPlanillero":1234567,"nombreCompleto":"Ana Gomez","isAdmin":false}}}`,
			"/planilla/obtenerPlanillas":          planillasPage,
			"/dirigente":                          `{"data":[{"cedulaDirigente":"999","nombreDirigente":"Juan Perez"},{"cedulaDirigente":"888","nombreDirigente":"Pedro Ruiz"}]}`,
			"/planilla/create":                    `{"success":true,"data":{"planillaId":40,"cedulasRepetidas":[],"totalInsertados":3}}`,
			"/planilla/obtenerEstadisticas":       `{"data":{"totalPlanillas":4,"totalEnviados":40,"totalValidos":30,"totalNoEncontrados":10}}`,
			"/planilla/obtenerPlanillasProblemas": `{"data":[{"cedulaDirigente":"999","nombreDirigente":"Juan Perez","totalPlanillas":7,"totalEnviados":140,"totalNoEncontrados":90,"planillas":[{"planillaId":1,"totalNoEncontrados":12},{"planillaId":2,"totalNoEncontrados":30},{"planillaId":3},{"planillaId":4},{"planillaId":5},{"planillaId":6},{"planillaId":7}]}]}`,
		},
		requestCount: map[string]int{},
	}
}

func (b *fakeBackend) respond(path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status[path] = status
	b.bodies[path] = body
}

func (b *fakeBackend) count(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requestCount[path]
}

// totalRequests counts every call the backend received
func (b *fakeBackend) totalRequests() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, n := range b.requestCount {
		total += n
	}
	return total
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.requestCount[r.URL.Path]++
	b.lastQuery = map[string]string{}
	for key := range r.URL.Query() {
		b.lastQuery[key] = r.URL.Query().Get(key)
	}
	if r.URL.Path == "/planilla/create" {
		var request models.AddPlanillaRequest
		_ = json.NewDecoder(r.Body).Decode(&request)
		b.created = append(b.created, request)
	}

	body, ok := b.bodies[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	status := b.status[r.URL.Path]
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

type testDashboard struct {
	app      *fiber.App
	backend  *fakeBackend
	sessions *services.SessionManager
	cookie   string
}

func newTestDashboard(t *testing.T, configure ...func(*shared.UnifiedConfiguration)) *testDashboard {
	t.Helper()

	backend := newFakeBackend()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	unified := shared.NewDefaultUnifiedConfiguration()
	unified.Gateway.BaseURL = server.URL
	for _, apply := range configure {
		apply(unified)
	}

	sessions := services.NewSessionManager(services.NewMemorySessionStore(100), time.Hour, 5*time.Second)
	api := services.NewAPIClient(unified.Gateway, shared.NewHTTPClientFactory(5*time.Second), sessions, shared.NewHTTPMetrics())

	planillas := services.NewPlanillaService(api)
	workflow := services.NewSubmissionWorkflow(planillas)
	views, err := NewViews()
	require.NoError(t, err)

	validate := validator.New()
	middleware := NewSessionMiddleware(sessions, unified.Session)

	app := NewApp(Handlers{
		Views:     views,
		Sessions:  middleware,
		Auth:      NewAuthHandler(services.NewAuthService(api, sessions), middleware, views, validate),
		Planillas: NewPlanillaHandler(planillas, services.NewDirigenteService(api), workflow, sessions, views, validate),
		Admin:     NewAdminHandler(planillas, sessions, views, unified.Dashboard),
		Exports:   NewExportHandler(planillas, services.NewExportService(nil), validate),
		Health:    NewHealthHandler(api.Metrics(), workflow.Metrics(), unified.Session.Backend, nil),
	}, false)

	return &testDashboard{
		app:      app,
		backend:  backend,
		sessions: sessions,
		cookie:   unified.Session.CookieName,
	}
}

// signIn opens a session directly and returns its id
func (d *testDashboard) signIn(t *testing.T, user models.User) *models.Session {
	t.Helper()
	session, err := d.sessions.Create(context.Background(), user, "jwt")
	require.NoError(t, err)
	return session
}

func (d *testDashboard) request(t *testing.T, method, target string, session *models.Session, body io.Reader, contentType string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if session != nil {
		req.AddCookie(&http.Cookie{Name: d.cookie, Value: session.ID})
	}

	resp, err := d.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (d *testDashboard) get(t *testing.T, target string, session *models.Session) *http.Response {
	return d.request(t, http.MethodGet, target, session, nil, "")
}

func (d *testDashboard) postForm(t *testing.T, target string, session *models.Session, form string) *http.Response {
	return d.request(t, http.MethodPost, target, session, strings.NewReader(form), fiber.MIMEApplicationForm)
}

func parseHTML(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

func (b *fakeBackend) query(key string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastQuery[key]
}

func (b *fakeBackend) createdRequests() []models.AddPlanillaRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.AddPlanillaRequest(nil), b.created...)
}
