package main

import (
	_ "time/tzdata"

	"planner/cmd"
)

// @title 个人计划 API
// @version 1.0
// @description 习惯打卡、目标与任务、支出与预算管理
// @host localhost:8080
// @BasePath /

func main() {
	cmd.Execute()
}
