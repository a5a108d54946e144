package tracker

import "time"

// Clock 当前时间提供者，"今天"只从这里取
type Clock interface {
	Now() time.Time
}

// ClockFunc 函数适配器
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct {
	loc *time.Location
}

// SystemClock 返回指定时区的系统时钟，loc 为空时使用本地时区
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// FixedClock 固定时刻的时钟
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Today 按时钟所在时区取当天日期
func Today(c Clock) Date {
	return DateOf(c.Now())
}

// LoadLocation 解析时区名，空串或 Local 表示本地时区
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
