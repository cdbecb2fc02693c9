// AngelaMos | 2026
// handler_test.go

package product

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront-api/internal/core"
	"github.com/carterperez-dev/storefront-api/internal/middleware"
)

type staticVerifier struct{}

func (staticVerifier) Verify(_ context.Context, token string) (*middleware.Identity, error) {
	if token != "valid" {
		return nil, core.ErrTokenInvalid
	}
	return &middleware.Identity{ID: 1, Email: "a@b.com"}, nil
}

func newTestRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	h := NewHandler(NewService(NewRepository(sqlx.NewDb(db, "sqlmock"))))
	r := chi.NewRouter()
	h.RegisterRoutes(r, middleware.Authenticator(staticVerifier{}))
	return r, mock
}

func request(router http.Handler, method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer valid")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPopularResponseHasNoAggregate(t *testing.T) {
	router, mock := newTestRouter(t)

	rows := sqlmock.NewRows(append(append([]string{}, productRowColumns...), "total_sold")).
		AddRow(2, "XX59", "899.99", "headphones", nil, "xx59.jpg", nil, nil, 12).
		AddRow(1, "YX1", "599.00", "earphones", nil, "yx1.jpg", nil, nil, 3)
	mock.ExpectQuery(`total_sold`).WillReturnRows(rows)

	rec := request(router, http.MethodGet, "/products/popular", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "total_sold")

	var body []ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "899.99", body[0].Price.StringFixed(2))
}

func TestCategoryRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := request(router, http.MethodGet, "/products/category/invalid-category", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestShowMissingProduct(t *testing.T) {
	router, mock := newTestRouter(t)

	mock.ExpectQuery(`FROM products WHERE id = \$1`).WillReturnRows(productRows())

	rec := request(router, http.MethodGet, "/products/77", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "product not found")
}

func TestShowInvalidID(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := request(router, http.MethodGet, "/products/abc", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchRequiresTerm(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := request(router, http.MethodGet, "/products/search?q=%20", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "search term is required")
}

func TestSearchRoute(t *testing.T) {
	router, mock := newTestRouter(t)

	mock.ExpectQuery(`ILIKE`).
		WithArgs("%speak%").
		WillReturnRows(productRows().AddRow(3, "ZX7", "3500", "speakers", nil, "zx7.jpg", nil, nil))

	rec := request(router, http.MethodGet, "/products/search?q=speak", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ZX7")
}

func TestCreateRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := request(router, http.MethodPost, "/products", `{}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateValidatesBody(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"price":"10","category":"speakers","image_name":"a.jpg"}`},
		{"zero price", `{"product_name":"a","price":"0","category":"speakers","image_name":"a.jpg"}`},
		{"negative price", `{"product_name":"a","price":-5,"category":"speakers","image_name":"a.jpg"}`},
		{"sub-cent price", `{"product_name":"a","price":"0.001","category":"speakers","image_name":"a.jpg"}`},
		{"price too large", `{"product_name":"a","price":100000000,"category":"speakers","image_name":"a.jpg"}`},
		{"bad category", `{"product_name":"a","price":"10","category":"tv","image_name":"a.jpg"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := request(router, http.MethodPost, "/products", tt.body, true)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateProduct(t *testing.T) {
	router, mock := newTestRouter(t)

	mock.ExpectQuery(`INSERT INTO products`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	rec := request(router, http.MethodPost, "/products",
		`{"product_name":"ZX9","price":"4500.00","category":"speakers","image_name":"zx9.jpg","product_features":["bluetooth"]}`,
		true)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(11), body.ID)
	assert.Equal(t, []string{"bluetooth"}, body.Features)
}

func TestUpdateRejectsUnstorablePrice(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, body := range []string{`{"price":"19.999"}`, `{"price":"123456789"}`} {
		rec := request(router, http.MethodPut, "/products/1", body, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, rec.Body.String(), "at most 2 decimal places")
	}
}

func TestCreateCheckViolationIsBadRequest(t *testing.T) {
	router, mock := newTestRouter(t)

	mock.ExpectQuery(`INSERT INTO products`).
		WillReturnError(&pgconn.PgError{Code: "23514"})

	rec := request(router, http.MethodPost, "/products",
		`{"product_name":"ZX9","price":"4500.00","category":"speakers","image_name":"zx9.jpg"}`,
		true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "value is out of range")
}

func TestUpdateWithoutFields(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := request(router, http.MethodPut, "/products/1", `{}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no valid updates provided")
}

func TestDeleteProduct(t *testing.T) {
	router, mock := newTestRouter(t)

	mock.ExpectExec(`DELETE FROM products`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := request(router, http.MethodDelete, "/products/5", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product deleted successfully")
}
