package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"planner/tracker"
)

// parseID 解析路径参数中的 ID，失败时已写入 400 响应
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

// queryDate 解析可选的日期查询参数，未传时返回 nil
func queryDate(c *gin.Context, name string) (*tracker.Date, bool) {
	v := c.Query(name)
	if v == "" {
		return nil, true
	}
	d, err := tracker.ParseDate(v)
	if err != nil {
		BadRequest(c, name+" 格式错误，应为: 2006-01-02")
		return nil, false
	}
	return &d, true
}

// queryDateOrToday 未传时取今天
func queryDateOrToday(c *gin.Context, name string, clock tracker.Clock) (tracker.Date, bool) {
	d, ok := queryDate(c, name)
	if !ok {
		return tracker.Date{}, false
	}
	if d == nil {
		return tracker.Today(clock), true
	}
	return *d, true
}

// queryPeriod 解析 period 参数，默认 monthly
func queryPeriod(c *gin.Context) (tracker.Period, bool) {
	p, err := tracker.ParsePeriod(c.DefaultQuery("period", string(tracker.PeriodMonthly)))
	if err != nil {
		BadRequest(c, err.Error())
		return "", false
	}
	return p, true
}
