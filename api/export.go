package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"planner/models"
	"planner/repository"
	"planner/service"
	"planner/tracker"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	expenses *service.ExpenseService
	catalog  *service.CatalogService
}

// NewExportHandler 创建导出处理器
func NewExportHandler(expenses *service.ExpenseService, catalog *service.CatalogService) *ExportHandler {
	return &ExportHandler{expenses: expenses, catalog: catalog}
}

var exportHeaders = []string{"ID", "日期", "时间", "金额", "类别", "支付方式", "描述", "标签", "周期模板"}

// exportRange 读取导出的日期范围，失败时已写入 400 响应
func exportRange(c *gin.Context) (tracker.Date, tracker.Date, bool) {
	from, ok := queryDate(c, "start_date")
	if !ok {
		return tracker.Date{}, tracker.Date{}, false
	}
	to, ok := queryDate(c, "end_date")
	if !ok {
		return tracker.Date{}, tracker.Date{}, false
	}
	if from == nil || to == nil {
		BadRequest(c, "请提供开始日期和结束日期")
		return tracker.Date{}, tracker.Date{}, false
	}
	return *from, *to, true
}

// exportRows 查询范围内的支出并转换为表格行，最后一个返回值为金额合计
func (h *ExportHandler) exportRows(ctx context.Context, from, to tracker.Date) ([][]string, decimal.Decimal, error) {
	expenses, _, err := h.expenses.List(ctx, repository.ExpenseFilter{From: &from, To: &to})
	if err != nil {
		return nil, decimal.Zero, err
	}
	cats, err := h.catalog.ExpenseCategories(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}
	methods, err := h.catalog.PaymentMethods(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}
	catNames := make(map[uint]string, len(cats))
	for _, cat := range cats {
		catNames[cat.ID] = cat.Name
	}
	methodNames := make(map[uint]string, len(methods))
	for _, m := range methods {
		methodNames[m.ID] = m.Name
	}

	total := decimal.Zero
	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		total = total.Add(e.Amount)
		rows = append(rows, expenseRow(e, catNames, methodNames))
	}
	return rows, total, nil
}

func expenseRow(e models.Expense, catNames, methodNames map[uint]string) []string {
	method := ""
	if e.PaymentMethodID != nil {
		method = methodNames[*e.PaymentMethodID]
	}
	recurring := ""
	if e.RecurringID != nil {
		recurring = fmt.Sprintf("%d", *e.RecurringID)
	}
	return []string{
		fmt.Sprintf("%d", e.ID),
		e.Date.String(),
		e.Time,
		e.Amount.StringFixed(2),
		catNames[e.CategoryID],
		method,
		e.Description,
		strings.Join(e.Tags, ","),
		recurring,
	}
}

// ExportCSV 导出支出记录为 CSV
// @Summary 导出支出记录为 CSV
// @Description 根据日期范围导出支出记录，文件带 BOM 以便 Excel 正确显示中文
// @Tags 导出
// @Produce text/csv
// @Param start_date query string true "开始日期 (2025-03-01)"
// @Param end_date query string true "结束日期 (2025-03-31)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	from, to, ok := exportRange(c)
	if !ok {
		return
	}
	rows, _, err := h.exportRows(c.Request.Context(), from, to)
	if err != nil {
		Fail(c, err, "查询数据失败")
		return
	}

	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write(exportHeaders); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}
	if err := writer.WriteAll(rows); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("expenses_%s_%s.csv", from, to)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX 导出支出记录为 Excel
// @Summary 导出支出记录为 Excel
// @Description 根据日期范围导出支出记录，末行为合计
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param start_date query string true "开始日期 (2025-03-01)"
// @Param end_date query string true "结束日期 (2025-03-31)"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/xlsx [get]
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	from, to, ok := exportRange(c)
	if !ok {
		return
	}
	rows, total, err := h.exportRows(c.Request.Context(), from, to)
	if err != nil {
		Fail(c, err, "查询数据失败")
		return
	}

	f, err := buildWorkbook(rows, total)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "生成 Excel 失败"))
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("expenses_%s_%s.xlsx", from, to)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

const sheetName = "支出记录"

func cellBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
}

// buildWorkbook 金额列写入数值以便在 Excel 中继续计算
func buildWorkbook(rows [][]string, total decimal.Decimal) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    cellBorder(),
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    cellBorder(),
	})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    cellBorder(),
	})

	widths := []float64{8, 12, 8, 12, 12, 12, 30, 20, 10}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheetName, col, col, w)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}
	_ = f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle)

	for i, row := range rows {
		r := i + 2
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, r)
			if j == 3 {
				amount, _ := decimal.NewFromString(v)
				_ = f.SetCellValue(sheetName, cell, amount.InexactFloat64())
				continue
			}
			_ = f.SetCellValue(sheetName, cell, v)
		}
		_ = f.SetCellStyle(sheetName, fmt.Sprintf("A%d", r), fmt.Sprintf("%s%d", lastCol, r), dataStyle)
	}

	// 添加汇总行
	summaryRow := len(rows) + 2
	_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "合计")
	_ = f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("C%d", summaryRow))
	_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", summaryRow), total.InexactFloat64())
	_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", summaryRow), fmt.Sprintf("共 %d 条记录", len(rows)))
	_ = f.MergeCell(sheetName, fmt.Sprintf("E%d", summaryRow), fmt.Sprintf("%s%d", lastCol, summaryRow))
	_ = f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("%s%d", lastCol, summaryRow), summaryStyle)

	return f, nil
}
