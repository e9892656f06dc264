package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleAdminLoginRendersForm(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	HandleAdminLogin(srv)(rec, httptest.NewRequest(http.MethodGet, "/admin/login", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Contraseña")
}

func TestHandleAdminLoginRedirectsWhenAuthenticated(t *testing.T) {
	srv, _ := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	r.AddCookie(sessionCookie(t, srv))
	rec := httptest.NewRecorder()
	HandleAdminLogin(srv)(rec, r)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
}

func TestHandleAdminLoginWrongPassword(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	HandleAdminLogin(srv)(rec, postForm("/admin/login", url.Values{"password": {"wrong"}}, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Contraseña incorrecta")
}

func TestHandleAdminLoginSuccess(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	HandleAdminLogin(srv)(rec, postForm("/admin/login", url.Values{"password": {testPassword}}, nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "admin_session", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestHandleAdminLogout(t *testing.T) {
	srv, _ := newTestServer(t)

	r := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	r.AddCookie(sessionCookie(t, srv))
	rec := httptest.NewRecorder()
	HandleAdminLogout(srv)(rec, r)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestHandleAdminDashboardRequiresSession(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	HandleAdminDashboard(srv)(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
}

func TestHandleAdminDashboard(t *testing.T) {
	srv, mock := newTestServer(t)
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// The two stores are queried concurrently.
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM rsvp_responses ORDER BY created_at DESC")).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "created_at", "name", "whatsapp", "dietary_requirements",
			"comment", "needs_transfer", "return_time", "is_minor", "link_id",
		}).
			AddRow(int64(1), createdAt, "Ana Pérez", "+5491123456789", "sin gluten", nil, true, "temprano", false, "abc12345").
			AddRow(int64(2), createdAt, "Tomás Pérez", nil, nil, nil, false, nil, true, "abc12345").
			AddRow(int64(3), createdAt, "Juan Gómez", "+5491198765432", nil, nil, true, "tarde", false, nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM invitation_links ORDER BY created_at DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "label", "created_at", "created_by"}).
			AddRow("abc12345", "Familia García", createdAt, "admin"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT link_id FROM rsvp_responses")).
		WillReturnRows(sqlmock.NewRows([]string{"link_id"}).AddRow("abc12345").AddRow("abc12345").AddRow(nil))

	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.AddCookie(sessionCookie(t, srv))
	rec := httptest.NewRecorder()
	HandleAdminDashboard(srv)(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Confirmaciones: 3")
	assert.Contains(t, body, "Traslados: 2")
	assert.Contains(t, body, "Vuelta temprano: 1")
	assert.Contains(t, body, "Vuelta tarde: 1")
	assert.Contains(t, body, "Con restricciones: 1")
	assert.Contains(t, body, "Menores: 1")
	assert.Contains(t, body, "Ana Pérez")
	assert.Contains(t, body, "http://localhost:8080/?invite=abc12345")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleAdminDeleteRSVPRequiresSession(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	HandleAdminDeleteRSVP(srv)(rec, postForm("/admin/rsvps/delete", url.Values{"id": {"5"}}, nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No autorizado", decodeResult(t, rec).Message)
}

func TestHandleAdminDeleteRSVP(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM rsvp_responses WHERE id = $1 RETURNING *")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	rec := httptest.NewRecorder()
	HandleAdminDeleteRSVP(srv)(rec, postForm("/admin/rsvps/delete", url.Values{"id": {"5"}}, sessionCookie(t, srv)))

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	assert.True(t, result.Success)
	assert.Equal(t, "Confirmación eliminada exitosamente.", result.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleAdminDeleteRSVPBadID(t *testing.T) {
	srv, mock := newTestServer(t)

	for _, id := range []string{"abc", "-3", "0", ""} {
		rec := httptest.NewRecorder()
		HandleAdminDeleteRSVP(srv)(rec, postForm("/admin/rsvps/delete", url.Values{"id": {id}}, sessionCookie(t, srv)))

		assert.Equal(t, http.StatusBadRequest, rec.Code, "id %q", id)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleAdminCreateLinkRequiresLabel(t *testing.T) {
	srv, mock := newTestServer(t)

	rec := httptest.NewRecorder()
	HandleAdminCreateLink(srv)(rec, postForm("/admin/links/create", url.Values{"label": {"   "}}, sessionCookie(t, srv)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "La etiqueta es requerida", decodeResult(t, rec).Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleAdminCreateLink(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM invitation_links WHERE id = $1")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("INSERT INTO invitation_links").
		WithArgs("admin", sqlmock.AnyArg(), "Familia García").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("abc12345"))

	rec := httptest.NewRecorder()
	HandleAdminCreateLink(srv)(rec, postForm("/admin/links/create", url.Values{"label": {"Familia García"}}, sessionCookie(t, srv)))

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	assert.True(t, result.Success)
	assert.Equal(t, "Enlace de invitación creado exitosamente", result.Message)
	assert.Regexp(t, "^[a-z0-9]{8}$", result.LinkID)
}

func TestHandleAdminCreateLinkCollisionExhaustion(t *testing.T) {
	srv, mock := newTestServer(t)

	for i := 0; i < 5; i++ {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM invitation_links WHERE id = $1")).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("taken123"))
	}

	rec := httptest.NewRecorder()
	HandleAdminCreateLink(srv)(rec, postForm("/admin/links/create", url.Values{"label": {"Amigos"}}, sessionCookie(t, srv)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error generando ID único. Intenta nuevamente.", decodeResult(t, rec).Message)
}

func TestHandleAdminUpdateLink(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE invitation_links SET label = $1 WHERE id = $2 RETURNING *")).
		WithArgs("Nuevo nombre", "abc12345").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("abc12345"))

	form := url.Values{"id": {"abc12345"}, "label": {"Nuevo nombre"}}
	rec := httptest.NewRecorder()
	HandleAdminUpdateLink(srv)(rec, postForm("/admin/links/update", form, sessionCookie(t, srv)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Enlace actualizado exitosamente", decodeResult(t, rec).Message)
}

func TestHandleAdminDeleteLinkInUse(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM rsvp_responses WHERE link_id = $1 LIMIT 1")).
		WithArgs("abc12345").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	rec := httptest.NewRecorder()
	HandleAdminDeleteLink(srv)(rec, postForm("/admin/links/delete", url.Values{"id": {"abc12345"}}, sessionCookie(t, srv)))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "No se puede eliminar un enlace con confirmaciones asociadas", decodeResult(t, rec).Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleAdminDeleteLink(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM rsvp_responses WHERE link_id = $1 LIMIT 1")).
		WithArgs("abc12345").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM invitation_links WHERE id = $1 RETURNING *")).
		WithArgs("abc12345").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("abc12345"))

	rec := httptest.NewRecorder()
	HandleAdminDeleteLink(srv)(rec, postForm("/admin/links/delete", url.Values{"id": {"abc12345"}}, sessionCookie(t, srv)))

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	assert.True(t, result.Success)
	assert.Equal(t, "Enlace eliminado exitosamente", result.Message)
}
