package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/smartcafe/cafeteria-portal/internal/models"
	"github.com/smartcafe/cafeteria-portal/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCafeterias_RequiresPermission(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/admin/cafeterias", nil, staffSession("R002"))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/unauthorized", rec.Header().Get("Location"))
}

func TestListCafeterias_Search(t *testing.T) {
	s := newTestServer(t)
	s.authz.granted["manage_cafeterias"] = true
	s.catalog.cafeterias = []models.Cafeteria{{CafeteriaID: "C001", Name: "Main Cafeteria", Location: "Block A"}}

	rec := s.do(http.MethodGet, "/admin/cafeterias?search=+main+", nil, staffSession("R003"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "main", s.catalog.lastSearch)
	assert.Contains(t, rec.Body.String(), "Main Cafeteria")
	assert.Contains(t, rec.Body.String(), "/admin/cafeterias/C001/delete")
}

func TestCafeteriaMutations(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		form    url.Values
		message string
	}{
		{"add", "/admin/cafeterias", url.Values{"name": {"Annex"}, "location": {"Block B"}}, "Cafeteria added successfully!"},
		{"update", "/admin/cafeterias/C002/update", url.Values{"name": {"Annex"}, "location": {"Block C"}}, "Cafeteria updated successfully!"},
		{"delete", "/admin/cafeterias/C002/delete", url.Values{}, "Cafeteria deleted successfully!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.authz.admin = true

			rec := s.do(http.MethodPost, tt.path, tt.form, staffSession("R001"))

			assert.Equal(t, "/admin/cafeterias", rec.Header().Get("Location"))
			assert.Equal(t, []string{tt.message}, flashTexts(s.savedSession(rec)))
		})
	}
}

func TestDeleteCafeteria_PassesID(t *testing.T) {
	s := newTestServer(t)
	s.authz.admin = true

	s.do(http.MethodPost, "/admin/cafeterias/C004/delete", url.Values{}, staffSession("R001"))

	assert.Equal(t, "C004", s.catalog.lastID)
}

func TestAddItem_BindsForm(t *testing.T) {
	s := newTestServer(t)
	s.authz.granted["manage_menu"] = true

	rec := s.do(http.MethodPost, "/admin/items", url.Values{
		"name":         {"Samosa"},
		"price":        {"40.50"},
		"availability": {"true"},
		"cafeteria_id": {"C001"},
	}, staffSession("R003"))

	assert.Equal(t, "/admin/items", rec.Header().Get("Location"))
	require.NotNil(t, s.catalog.itemReq)
	assert.Equal(t, "Samosa", s.catalog.itemReq.Name)
	assert.Equal(t, 40.5, s.catalog.itemReq.Price)
	assert.True(t, s.catalog.itemReq.Availability)
	assert.Equal(t, "C001", s.catalog.itemReq.CafeteriaID)
	assert.Equal(t, []string{"Menu item added successfully!"}, flashTexts(s.savedSession(rec)))
}

func TestAddItem_InvalidPrice(t *testing.T) {
	s := newTestServer(t)
	s.authz.granted["manage_menu"] = true

	rec := s.do(http.MethodPost, "/admin/items", url.Values{"name": {"Samosa"}, "price": {"cheap"}}, staffSession("R003"))

	assert.Nil(t, s.catalog.itemReq)
	assert.Equal(t, []string{"Please enter a valid price."}, flashTexts(s.savedSession(rec)))
}

func TestUpdateItem_UncheckedAvailability(t *testing.T) {
	s := newTestServer(t)
	s.authz.granted["manage_menu"] = true

	s.do(http.MethodPost, "/admin/items/5/update", url.Values{
		"name":         {"Samosa"},
		"price":        {"45"},
		"cafeteria_id": {"C001"},
	}, staffSession("R003"))

	assert.Equal(t, 5, s.catalog.lastItemID)
	require.NotNil(t, s.catalog.itemReq)
	assert.False(t, s.catalog.itemReq.Availability)
}

func TestDeleteItem_Referenced(t *testing.T) {
	s := newTestServer(t)
	s.authz.granted["manage_menu"] = true
	s.catalog.err = &services.ReferencedError{Entity: services.EntityMenuItem, Count: 2}

	rec := s.do(http.MethodPost, "/admin/items/5/delete", url.Values{}, staffSession("R003"))

	assert.Equal(t, "/admin/items", rec.Header().Get("Location"))
	assert.Equal(t, []string{"Cannot delete menu item. It is referenced in 2 order(s)."}, flashTexts(s.savedSession(rec)))
}

func TestDeleteItem_BadID(t *testing.T) {
	s := newTestServer(t)
	s.authz.granted["manage_menu"] = true

	rec := s.do(http.MethodPost, "/admin/items/abc/delete", url.Values{}, staffSession("R003"))

	assert.Zero(t, s.catalog.lastItemID)
	assert.Equal(t, []string{"Invalid menu item."}, flashTexts(s.savedSession(rec)))
}

func TestListItems_ShowsCafeteriaChoices(t *testing.T) {
	s := newTestServer(t)
	s.authz.granted["manage_menu"] = true
	s.catalog.items = []models.Item{{ItemID: 1, Name: "Chapati", Price: 50, CafeteriaID: "C002", CafeteriaName: sql.NullString{String: "Annex", Valid: true}}}
	s.catalog.cafeterias = []models.Cafeteria{{CafeteriaID: "C001", Name: "Main"}, {CafeteriaID: "C002", Name: "Annex"}}

	rec := s.do(http.MethodGet, "/admin/items", nil, staffSession("R003"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<option value="C002" selected>Annex</option>`)
}

func TestDeleteRole_Blocked(t *testing.T) {
	s := newTestServer(t)
	s.authz.admin = true
	s.catalog.err = &services.ReferencedError{Entity: services.EntityRole, Count: 3}

	rec := s.do(http.MethodPost, "/admin/roles/R002/delete", url.Values{}, staffSession("R001"))

	assert.Equal(t, "R002", s.catalog.lastID)
	assert.Equal(t, []string{"Cannot delete role. It is currently assigned to 3 staff member(s)."}, flashTexts(s.savedSession(rec)))
}

func TestAddRole_InternalErrorUsesFallback(t *testing.T) {
	s := newTestServer(t)
	s.authz.admin = true
	s.catalog.err = errors.New("connection reset")

	rec := s.do(http.MethodPost, "/admin/roles", url.Values{"role_name": {"Chef"}}, staffSession("R001"))

	assert.Equal(t, "/admin/roles", rec.Header().Get("Location"))
	assert.Equal(t, []string{"Failed to add role."}, flashTexts(s.savedSession(rec)))
}

func TestUpdateStaff(t *testing.T) {
	s := newTestServer(t)
	s.authz.granted["manage_staff"] = true

	rec := s.do(http.MethodPost, "/admin/staff/12/update", url.Values{"role_id": {"R003"}, "cafeteria_id": {""}}, staffSession("R004"))

	assert.Equal(t, "/admin/staff", rec.Header().Get("Location"))
	assert.Equal(t, 12, s.catalog.lastStaffID)
	require.NotNil(t, s.catalog.staffReq)
	assert.Equal(t, "R003", s.catalog.staffReq.RoleID)
	assert.Equal(t, []string{"Staff member updated successfully!"}, flashTexts(s.savedSession(rec)))
}

func TestUpdateStaff_RequiresPermission(t *testing.T) {
	s := newTestServer(t)
	s.authz.granted["manage_menu"] = true

	rec := s.do(http.MethodPost, "/admin/staff/12/update", url.Values{"role_id": {"R001"}}, staffSession("R003"))

	assert.Equal(t, "/unauthorized", rec.Header().Get("Location"))
	assert.Nil(t, s.catalog.staffReq)
}
