package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smartcafe/cafeteria-portal/internal/middleware"
	"github.com/smartcafe/cafeteria-portal/internal/models"
	"github.com/smartcafe/cafeteria-portal/internal/services"
	"github.com/smartcafe/cafeteria-portal/pkg/session"
	"github.com/smartcafe/cafeteria-portal/web"
	"github.com/stretchr/testify/require"
)

const testCookie = "test_session"

// ---- fakes ----

type fakeAuthz struct {
	admin   bool
	granted map[string]bool
	removed bool
}

func (f *fakeAuthz) HasPermission(_ context.Context, identity services.Identity, name string) bool {
	if identity.StaffID == 0 {
		return false
	}
	return f.admin || f.granted[name]
}

func (f *fakeAuthz) CurrentRole(_ context.Context, identity services.Identity) (string, error) {
	if f.removed {
		return "", nil
	}
	return identity.RoleID, nil
}

func (f *fakeAuthz) IsAdmin(identity services.Identity) bool {
	return identity.StaffID != 0 && f.admin
}

func (f *fakeAuthz) PermissionSet(_ context.Context, identity services.Identity) map[string]bool {
	set := map[string]bool{}
	for name, ok := range f.granted {
		set[name] = ok
	}
	if f.admin {
		for _, p := range models.DefaultPermissions {
			set[p.Name] = true
		}
	}
	return set
}

type fakeAuth struct {
	staff      *models.Staff
	staffErr   error
	student    *models.Student
	studentErr error
	recent     []models.Student
}

func (f *fakeAuth) StaffLogin(context.Context, string, string) (*models.Staff, error) {
	return f.staff, f.staffErr
}

func (f *fakeAuth) StudentLogin(context.Context, string) (*models.Student, error) {
	return f.student, f.studentErr
}

func (f *fakeAuth) RecentStudents(context.Context, int) []models.Student {
	return f.recent
}

type fakeCheckout struct {
	page       *services.OrderPage
	cart       *session.Cart
	cartItems  []models.Item
	confirmErr error
	confirmed  []int
	methods    []models.PaymentMethod
	receipt    *session.Receipt
	payErr     error
	paidMethod string
}

func (f *fakeCheckout) OrderPage(context.Context) *services.OrderPage {
	if f.page == nil {
		return &services.OrderPage{}
	}
	return f.page
}

func (f *fakeCheckout) Confirm(_ context.Context, ids []int) (*session.Cart, []models.Item, error) {
	f.confirmed = ids
	return f.cart, f.cartItems, f.confirmErr
}

func (f *fakeCheckout) CartItems(context.Context, *session.Cart) []models.Item {
	return f.cartItems
}

func (f *fakeCheckout) PaymentMethods(context.Context) []models.PaymentMethod {
	return f.methods
}

func (f *fakeCheckout) Pay(_ context.Context, _ string, _ *session.Cart, methodID string) (*session.Receipt, error) {
	f.paidMethod = methodID
	return f.receipt, f.payErr
}

type fakeCatalog struct {
	cafeterias   []models.Cafeteria
	items        []models.Item
	roles        []models.Role
	staff        []models.StaffDetail
	err          error
	lastSearch   string
	lastID       string
	lastItemID   int
	lastStaffID  int
	cafeteriaReq *models.CafeteriaRequest
	itemReq      *models.ItemRequest
	roleReq      *models.RoleRequest
	staffReq     *models.UpdateStaffRequest
}

func (f *fakeCatalog) ListCafeterias(_ context.Context, search string) []models.Cafeteria {
	f.lastSearch = search
	return f.cafeterias
}

func (f *fakeCatalog) AddCafeteria(_ context.Context, req *models.CafeteriaRequest) (*models.Cafeteria, error) {
	f.cafeteriaReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Cafeteria{CafeteriaID: "C009", Name: req.Name, Location: req.Location}, nil
}

func (f *fakeCatalog) UpdateCafeteria(_ context.Context, id string, req *models.CafeteriaRequest) error {
	f.lastID, f.cafeteriaReq = id, req
	return f.err
}

func (f *fakeCatalog) DeleteCafeteria(_ context.Context, id string) error {
	f.lastID = id
	return f.err
}

func (f *fakeCatalog) ListItems(_ context.Context, search string) []models.Item {
	f.lastSearch = search
	return f.items
}

func (f *fakeCatalog) AddItem(_ context.Context, req *models.ItemRequest) (*models.Item, error) {
	f.itemReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Item{ItemID: 9, Name: req.Name}, nil
}

func (f *fakeCatalog) UpdateItem(_ context.Context, id int, req *models.ItemRequest) error {
	f.lastItemID, f.itemReq = id, req
	return f.err
}

func (f *fakeCatalog) DeleteItem(_ context.Context, id int) error {
	f.lastItemID = id
	return f.err
}

func (f *fakeCatalog) ListRoles(_ context.Context, search string) []models.Role {
	f.lastSearch = search
	return f.roles
}

func (f *fakeCatalog) AddRole(_ context.Context, req *models.RoleRequest) (*models.Role, error) {
	f.roleReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Role{RoleID: "R009", RoleName: req.RoleName}, nil
}

func (f *fakeCatalog) UpdateRole(_ context.Context, id string, req *models.RoleRequest) error {
	f.lastID, f.roleReq = id, req
	return f.err
}

func (f *fakeCatalog) DeleteRole(_ context.Context, id string) error {
	f.lastID = id
	return f.err
}

func (f *fakeCatalog) ListStaff(context.Context) []models.StaffDetail {
	return f.staff
}

func (f *fakeCatalog) UpdateStaffAssignment(_ context.Context, id int, req *models.UpdateStaffRequest) error {
	f.lastStaffID, f.staffReq = id, req
	return f.err
}

type fakePermissions struct {
	all         []models.Permission
	granted     []models.Permission
	diagnostics *models.PermissionDiagnostics
	err         error
	ensured     bool
	setupAdmin  bool
	updatedRole string
	updatedIDs  []int
	debugAsked  bool
}

func (f *fakePermissions) EnsurePermissionTables(context.Context) error {
	f.ensured = true
	return f.err
}

func (f *fakePermissions) GetAllPermissions(context.Context) []models.Permission {
	return f.all
}

func (f *fakePermissions) GetRolePermissions(context.Context, string) []models.Permission {
	return f.granted
}

func (f *fakePermissions) UpdateRolePermissions(_ context.Context, roleID string, ids []int) error {
	f.updatedRole, f.updatedIDs = roleID, ids
	return f.err
}

func (f *fakePermissions) SetupAdminPermissions(context.Context) error {
	f.setupAdmin = true
	return f.err
}

func (f *fakePermissions) Diagnostics(_ context.Context, showDebug bool) *models.PermissionDiagnostics {
	f.debugAsked = showDebug
	if f.diagnostics == nil {
		return &models.PermissionDiagnostics{}
	}
	return f.diagnostics
}

type fakeOrderBook struct {
	orders  []models.OrderSummary
	receipt *models.OrderReceipt
	err     error
	limit   int
}

func (f *fakeOrderBook) RecentOrders(_ context.Context, limit int) []models.OrderSummary {
	f.limit = limit
	return f.orders
}

func (f *fakeOrderBook) OrderReceipt(context.Context, int) (*models.OrderReceipt, error) {
	return f.receipt, f.err
}

type fakeDashboard struct {
	dashboard *services.Dashboard
	identity  services.Identity
}

func (f *fakeDashboard) Build(_ context.Context, identity services.Identity) *services.Dashboard {
	f.identity = identity
	if f.dashboard == nil {
		return &services.Dashboard{CafeteriaName: "N/A"}
	}
	return f.dashboard
}

// ---- harness ----

type testServer struct {
	t           *testing.T
	router      *gin.Engine
	codec       *session.Codec
	authz       *fakeAuthz
	auth        *fakeAuth
	checkout    *fakeCheckout
	catalog     *fakeCatalog
	permissions *fakePermissions
	orders      *fakeOrderBook
	dashboard   *fakeDashboard
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	templates, err := web.Templates()
	require.NoError(t, err)

	s := &testServer{
		t:           t,
		codec:       session.NewCodec("handler-test-session-secret-0123456789", time.Hour),
		authz:       &fakeAuthz{granted: map[string]bool{}},
		auth:        &fakeAuth{},
		checkout:    &fakeCheckout{},
		catalog:     &fakeCatalog{},
		permissions: &fakePermissions{},
		orders:      &fakeOrderBook{},
		dashboard:   &fakeDashboard{},
	}

	logger := testLogger()
	pages := NewPages(Site{Name: "Test Cafe", Currency: "Ksh", ReceiptRedirectSeconds: 5, ShowDebug: true}, s.authz, logger)
	h := Handlers{
		Pages:       pages,
		Auth:        NewAuthHandler(pages, s.auth, logger),
		Orders:      NewOrderHandler(pages, s.checkout, logger),
		Dashboard:   NewDashboardHandler(pages, s.dashboard),
		Catalog:     NewCatalogHandler(pages, s.catalog, logger),
		Permissions: NewPermissionHandler(pages, s.permissions, s.catalog, logger),
		StaffOrders: NewStaffOrderHandler(pages, s.orders, logger),
	}

	s.router = gin.New()
	s.router.SetHTMLTemplate(templates)
	s.router.Use(middleware.LoadSession(middleware.NewSessionStore(s.codec, testCookie, false, logger)))
	RegisterRoutes(s.router, h, s.authz)
	return s
}

// do sends a request carrying sess (may be nil) and returns the recorder
func (s *testServer) do(method, target string, form url.Values, sess *session.Session) *httptest.ResponseRecorder {
	s.t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if sess != nil {
		token, err := s.codec.Encode(sess)
		require.NoError(s.t, err)
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// savedSession decodes the session cookie written by the response
func (s *testServer) savedSession(rec *httptest.ResponseRecorder) *session.Session {
	s.t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == testCookie {
			sess, err := s.codec.Decode(cookie.Value)
			require.NoError(s.t, err)
			return sess
		}
	}
	s.t.Fatalf("response did not set %s", testCookie)
	return nil
}

func flashTexts(sess *session.Session) []string {
	texts := make([]string, 0, len(sess.Flash))
	for _, m := range sess.Flash {
		texts = append(texts, m.Text)
	}
	return texts
}

func staffSession(roleID string) *session.Session {
	sess := session.New()
	sess.SignInStaff(session.StaffIdentity{StaffID: 7, Username: "mary", RoleID: roleID})
	return sess
}

func studentSession() *session.Session {
	sess := session.New()
	sess.SignInStudent(session.StudentIdentity{RegNo: "S001", FirstName: "John", LastName: "Doe", Phone: "0712345678"})
	return sess
}
