package controllers

import (
	"bytes"
	"database/sql"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/alhurwear/alhurwear-api/initializers"
	"github.com/gin-gonic/gin"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// dbMock wires a sqlmock connection behind the global gorm handle so
// handlers can be driven without a real database.
func dbMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}

	gormdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqldb,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}

	initializers.DB = gormdb
	return sqldb, mock
}

func testContext(w *httptest.ResponseRecorder, method, target string, body []byte) *gin.Context {
	ctx, _ := gin.CreateTestContext(w)
	var reader io.Reader
	if body != nil {
		reader = bytes.NewBuffer(body)
	}
	ctx.Request = httptest.NewRequest(method, target, reader)
	ctx.Request.Header.Set("Content-Type", "application/json")
	return ctx
}
