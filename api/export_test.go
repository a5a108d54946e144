package api

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newExportRouter(t *testing.T) *gin.Engine {
	t.Helper()
	svc := newMemoryServices()
	router := gin.New()
	router.POST("/expenses", NewExpenseHandler(svc.Expenses, svc.Insights, testClock).Create)
	h := NewExportHandler(svc.Expenses, svc.Catalog)
	router.GET("/export/csv", h.ExportCSV)
	router.GET("/export/xlsx", h.ExportXLSX)

	// 内存仓储的默认数据：类别 1-8、任务标签 9-12、支付方式 13-16
	for _, body := range []string{
		`{"amount":"12.5","category_id":2,"date":"2025-03-01","description":"早餐","payment_method_id":13,"tags":["工作日"]}`,
		`{"amount":30,"category_id":3,"date":"2025-03-05","description":"打车"}`,
		`{"amount":99,"category_id":2,"date":"2025-02-20","description":"不在范围内"}`,
	} {
		require.Equal(t, 200, doJSON(router, "POST", "/expenses", body).Code)
	}
	return router
}

func TestExportHandler_ExportCSV(t *testing.T) {
	router := newExportRouter(t)

	w := doJSON(router, "GET", "/export/csv?start_date=2025-03-01&end_date=2025-03-31", "")
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "expenses_2025-03-01_2025-03-31.csv")

	body := w.Body.String()
	require.True(t, strings.HasPrefix(body, "\xEF\xBB\xBF"))
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(body, "\xEF\xBB\xBF")), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,日期,时间,金额,类别,支付方式,描述,标签,周期模板", lines[0])
	assert.Contains(t, lines[1], "2025-03-05")
	assert.Contains(t, lines[1], "交通")
	assert.Contains(t, lines[2], "12.50")
	assert.Contains(t, lines[2], "现金")
	assert.Contains(t, lines[2], "工作日")
	assert.NotContains(t, body, "不在范围内")
}

func TestExportHandler_ExportCSV_MissingParams(t *testing.T) {
	router := newExportRouter(t)

	assert.Equal(t, 400, doJSON(router, "GET", "/export/csv", "").Code)
	assert.Equal(t, 400, doJSON(router, "GET", "/export/csv?start_date=2025-03-01&end_date=bad", "").Code)
	assert.Equal(t, 400, doJSON(router, "GET", "/export/csv?start_date=2025-03-31&end_date=2025-03-01", "").Code)
}

func TestExportHandler_ExportXLSX(t *testing.T) {
	router := newExportRouter(t)

	w := doJSON(router, "GET", "/export/xlsx?start_date=2025-03-01&end_date=2025-03-31", "")
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "金额", rows[0][3])
	assert.Equal(t, "餐饮", rows[2][4])
	assert.Equal(t, "合计", rows[3][0])
	assert.Equal(t, "42.5", rows[3][3])
	assert.Equal(t, "共 2 条记录", rows[3][4])
}
