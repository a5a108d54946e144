package api

import (
	"github.com/gin-gonic/gin"

	"planner/tracker"
)

// PeriodHandler 周期窗口计算
type PeriodHandler struct {
	clock tracker.Clock
}

func NewPeriodHandler(clock tracker.Clock) *PeriodHandler {
	return &PeriodHandler{clock: clock}
}

// Window 计算 date 所在周期的起止日期
// @Summary 计算周期起止日期
// @Description 周从周一开始
// @Tags 周期
// @Produce json
// @Param period query string false "周期 daily/weekly/monthly/yearly" default(monthly)
// @Param date query string false "参考日期，默认今天"
// @Success 200 {object} Response{data=tracker.Window} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/periods/window [get]
func (h *PeriodHandler) Window(c *gin.Context) {
	period, ok := queryPeriod(c)
	if !ok {
		return
	}
	ref, ok := queryDateOrToday(c, "date", h.clock)
	if !ok {
		return
	}
	w, err := tracker.PeriodWindow(period, ref)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, w)
}
