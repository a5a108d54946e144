package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"planner/models"
	"planner/tracker"
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

func TestTranslate(t *testing.T) {
	assert.Nil(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(fmt.Errorf("wrap: %w", &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})), ErrConflict)
	assert.ErrorIs(t, translate(&mysqldriver.MySQLError{Number: 1452}), ErrInvalidReference)
	assert.ErrorIs(t, translate(&mysqldriver.MySQLError{Number: 1451}), ErrInvalidReference)
	assert.ErrorIs(t, translate(&mysqldriver.MySQLError{Number: 1048}), ErrValidation)

	other := errors.New("connection refused")
	assert.Equal(t, other, translate(other))
	assert.ErrorIs(t, Validation("金额必须大于 %d", 0), ErrValidation)
}

func TestHabitRepository_ToggleAdded(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `id` FROM `habits`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec("DELETE FROM `habit_completions` WHERE habit_id = \\? AND completed_date = \\?").
		WithArgs(1, "2025-03-10").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO `habit_completions`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	action, err := NewHabitRepository(db).ToggleCompletion(context.Background(), 1, tracker.MustParseDate("2025-03-10"))
	require.NoError(t, err)
	assert.Equal(t, tracker.ActionAdded, action)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHabitRepository_ToggleRemoved(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `id` FROM `habits`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec("DELETE FROM `habit_completions`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	action, err := NewHabitRepository(db).ToggleCompletion(context.Background(), 1, tracker.MustParseDate("2025-03-10"))
	require.NoError(t, err)
	assert.Equal(t, tracker.ActionRemoved, action)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHabitRepository_ToggleMissingHabit(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `id` FROM `habits`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := NewHabitRepository(db).ToggleCompletion(context.Background(), 99, tracker.MustParseDate("2025-03-10"))
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHabitRepository_ToggleInsertFailureRollsBack(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `id` FROM `habits`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec("DELETE FROM `habit_completions`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO `habit_completions`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	_, err := NewHabitRepository(db).ToggleCompletion(context.Background(), 1, tracker.MustParseDate("2025-03-10"))
	assert.ErrorIs(t, err, ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHabitRepository_Ledgers(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT `habit_id`,`completed_date` FROM `habit_completions` WHERE habit_id IN").
		WillReturnRows(sqlmock.NewRows([]string{"habit_id", "completed_date"}).
			AddRow(1, time.Date(2025, 3, 9, 0, 0, 0, 0, time.Local)).
			AddRow(1, time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)))

	ledgers, err := NewHabitRepository(db).Ledgers(context.Background(), []uint{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-09", "2025-03-10"}, ledgers[1].Strings())
	assert.Equal(t, 0, ledgers[2].Len())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalRepository_DeleteDetachesTasks(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `tasks` SET `goal_id`=\\?").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `goals`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewGoalRepository(db).Delete(context.Background(), 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalRepository_DeleteNotFound(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `tasks`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM `goals`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := NewGoalRepository(db).Delete(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalRepository_TaskStates(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT `id`,`goal_id`,`is_completed` FROM `tasks` WHERE goal_id = \\?").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "goal_id", "is_completed"}).
			AddRow(1, 5, true).
			AddRow(2, 5, false).
			AddRow(3, 5, true))

	states, err := NewGoalRepository(db).TaskStates(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{1: true, 2: false, 3: true}, states)

	p := tracker.AggregateProgress([]uint{1, 2, 3}, states)
	assert.Equal(t, 67, p.ProgressPercentage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_CreateWithSubTasks(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `tasks`").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec("INSERT INTO `subtasks`").
		WillReturnResult(sqlmock.NewResult(20, 2))
	mock.ExpectCommit()

	task := &models.Task{
		Text:     "写周报",
		SubTasks: []models.SubTask{{Text: "整理数据"}, {Text: "发送邮件"}},
	}
	require.NoError(t, NewTaskRepository(db).Create(context.Background(), task))
	assert.Equal(t, uint(10), task.ID)
	assert.Equal(t, uint(10), task.SubTasks[1].TaskID)
	assert.Equal(t, 1, task.SubTasks[1].Position)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_CreateSubTaskFailureRollsBack(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `tasks`").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec("INSERT INTO `subtasks`").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	task := &models.Task{Text: "写周报", SubTasks: []models.SubTask{{Text: "整理数据"}}}
	assert.Error(t, NewTaskRepository(db).Create(context.Background(), task))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_UpdateReplacesSubTasks(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `id` FROM `tasks`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectExec("UPDATE `tasks` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `subtasks` WHERE task_id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO `subtasks`").
		WillReturnResult(sqlmock.NewResult(30, 1))
	mock.ExpectCommit()

	task := &models.Task{ID: 10, Text: "写周报", SubTasks: []models.SubTask{{Text: "只剩一项"}}}
	require.NoError(t, NewTaskRepository(db).Update(context.Background(), task, true))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_DeleteCascadesSubTasks(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `subtasks` WHERE task_id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM `tasks`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewTaskRepository(db).Delete(context.Background(), 10))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetRepository_Upsert(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `budgets` .* ON DUPLICATE KEY UPDATE `amount`=VALUES\\(`amount`\\)").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("SELECT \\* FROM `budgets` WHERE category_id = \\? AND period = \\? AND start_date = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "category_id", "amount", "period", "start_date", "created_at", "updated_at"}).
			AddRow(4, 2, "800.00", "monthly", "2025-03-01", now, now))
	mock.ExpectCommit()

	b := &models.Budget{
		CategoryID: 2,
		Amount:     decimal.NewFromInt(800),
		Period:     "monthly",
		StartDate:  tracker.MustParseDate("2025-03-01"),
	}
	require.NoError(t, NewBudgetRepository(db).Upsert(context.Background(), b))
	assert.Equal(t, uint(4), b.ID)
	assert.True(t, b.Amount.Equal(decimal.NewFromInt(800)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_DeleteCategoryInUse(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `expenses` WHERE category_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	err := NewCatalogRepository(db).DeleteExpenseCategory(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInUse)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_DeleteUnusedCategory(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("DELETE FROM `expense_categories`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewCatalogRepository(db).DeleteExpenseCategory(context.Background(), 1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecurringRepository_Materialize(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(100, 2))
	mock.ExpectExec("UPDATE `recurring_expenses` SET `last_generated`=\\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	item := &models.RecurringExpense{ID: 3, Amount: decimal.NewFromInt(30), CategoryID: 1, Frequency: "weekly"}
	dates := []tracker.Date{tracker.MustParseDate("2025-03-01"), tracker.MustParseDate("2025-03-08")}

	expenses, err := NewRecurringRepository(db).Materialize(context.Background(), item, dates)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, uint(3), *expenses[0].RecurringID)
	assert.Equal(t, "2025-03-08", item.LastGenerated.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseRepository_TotalsByCategory(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT category_id, SUM\\(amount\\) AS total, COUNT\\(\\*\\) AS count FROM `expenses`").
		WithArgs("2025-03-01", "2025-03-31").
		WillReturnRows(sqlmock.NewRows([]string{"category_id", "total", "count"}).
			AddRow(2, "120.50", 3).
			AddRow(1, "30.00", 1))

	w, err := tracker.PeriodWindow(tracker.PeriodMonthly, tracker.MustParseDate("2025-03-15"))
	require.NoError(t, err)

	totals, err := NewExpenseRepository(db).TotalsByCategory(context.Background(), w)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, uint(2), totals[0].CategoryID)
	assert.Equal(t, "120.5", totals[0].Total.String())
	assert.Equal(t, int64(3), totals[0].Count)
	require.NoError(t, mock.ExpectationsWereMet())
}
