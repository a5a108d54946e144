package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"planner/config"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	return gormDB, mock, func() { sqlDB.Close() }
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host: "127.0.0.1", Port: "3306", Username: "root", Password: "secret",
		DBName: "planner", Charset: "utf8mb4",
	})
	assert.Equal(t, "root:secret@tcp(127.0.0.1:3306)/planner?charset=utf8mb4&parseTime=True&loc=Local", dsn)
}

func TestSeed_OnlyEmptyTables(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 支出类别为空 → 写入默认类别
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `expense_categories`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expense_categories`").
		WillReturnResult(sqlmock.NewResult(1, 8))
	mock.ExpectCommit()

	// 任务标签已有数据 → 跳过
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `task_categories`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `payment_methods`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `payment_methods`").
		WillReturnResult(sqlmock.NewResult(1, 4))
	mock.ExpectCommit()

	require.NoError(t, Seed(db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParseGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, parseGormLevel("silent"))
	assert.Equal(t, gormlogger.Info, parseGormLevel("INFO"))
	assert.Equal(t, gormlogger.Warn, parseGormLevel(""))
}
