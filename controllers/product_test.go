package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"
)

const (
	selectProductsSQL = "SELECT (.+) FROM `products`"
	countProductsSQL  = "SELECT count(.+) FROM `products`"
)

func TestGetProductsEmptyCatalog(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	mock.ExpectQuery(selectProductsSQL).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "category", "price", "stock", "status"}))
	mock.ExpectQuery(countProductsSQL).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodGet, "/product?category=sunglasses&search=aviator", nil)
	GetProducts(ctx)

	// No matches is an empty page, not an error.
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Products []json.RawMessage `json:"products"`
		Metadata struct {
			Total int `json:"total"`
		} `json:"metadata"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Products)
	assert.Equal(t, 0, resp.Metadata.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductsCapsPageSize(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	mock.ExpectQuery(selectProductsSQL).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "category", "price", "stock", "status"}))
	mock.ExpectQuery(countProductsSQL).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodGet, "/product?limit=5000", nil)
	GetProducts(ctx)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Metadata struct {
			Limit int `json:"limit"`
		} `json:"metadata"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, maxCatalogPageSize, resp.Metadata.Limit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductErrorsStayGeneric(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	mock.ExpectQuery(selectProductSQL).
		WillReturnError(errors.New("dial tcp 10.0.0.5:3306: connect: connection refused"))

	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodGet, "/product/3", nil)
	ctx.Params = gin.Params{{Key: "id", Value: "3"}}
	GetProduct(ctx)

	// Driver internals must not reach the client.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Unable to retrieve product")
	assert.NotContains(t, w.Body.String(), "dial tcp")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProductKeepsOmittedFields(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	mock.ExpectQuery(selectProductSQL).WillReturnRows(productRow(3, "Premium Cotton T-Shirt", 29.99, 7))
	mock.ExpectBegin()
	// Only name and updated_at in SET, product id in WHERE; stock and colors
	// stay untouched.
	mock.ExpectExec("UPDATE `products` SET (.+)").
		WithArgs("Fresh Name", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body, _ := json.Marshal(map[string]string{"name": "Fresh Name"})
	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodPut, "/product/3", body)
	ctx.Params = gin.Params{{Key: "id", Value: "3"}}
	UpdateProduct(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProductRejectsNegativeStock(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	mock.ExpectQuery(selectProductSQL).WillReturnRows(productRow(3, "Premium Cotton T-Shirt", 29.99, 7))

	body, _ := json.Marshal(map[string]int{"stock": -2})
	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodPut, "/product/3", body)
	ctx.Params = gin.Params{{Key: "id", Value: "3"}}
	UpdateProduct(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProductSoftDeletes(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `products` SET (.+)").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodDelete, "/product/3", nil)
	ctx.Params = gin.Params{{Key: "id", Value: "3"}}
	DeleteProduct(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "removed from catalog")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProductNotFound(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `products` SET (.+)").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodDelete, "/product/99", nil)
	ctx.Params = gin.Params{{Key: "id", Value: "99"}}
	DeleteProduct(ctx)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
