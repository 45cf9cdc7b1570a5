package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/draftpress/internal/db"
)

const defaultWeeklyCadence = 3

var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

// parsePublishDays 解析逗号分隔的三字母星期名，空值或全部非法时放开所有工作日。
func parsePublishDays(raw string) map[time.Weekday]bool {
	allowed := map[time.Weekday]bool{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if len(part) > 3 {
			part = part[:3]
		}
		if day, ok := weekdayNames[part]; ok {
			allowed[day] = true
		}
	}
	if len(allowed) == 0 {
		for _, day := range weekdayNames {
			allowed[day] = true
		}
	}
	return allowed
}

// NextScheduleSlot 根据发布节奏推算下一个可用排期日。
// 规则：从 from 的次日起，取第一个满足发布日限制、当天未被占用、
// 且所在 ISO 周内已排数量未达 weeklyCadence 的日期。
func NextScheduleSlot(setting *db.PublishSetting, from time.Time, taken []time.Time) time.Time {
	allowed := parsePublishDays(setting.PublishDays)
	cadence := setting.WeeklyCadence
	if cadence <= 0 {
		cadence = defaultWeeklyCadence
	}

	perWeek := map[string]int{}
	takenDays := map[string]bool{}
	for _, d := range taken {
		d = d.UTC()
		takenDays[d.Format("2006-01-02")] = true
		year, week := d.ISOWeek()
		perWeek[fmt.Sprintf("%d-%02d", year, week)]++
	}

	day := from.UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	for i := 0; i < 366; i++ {
		if allowed[day.Weekday()] && !takenDays[day.Format("2006-01-02")] {
			year, week := day.ISOWeek()
			if perWeek[fmt.Sprintf("%d-%02d", year, week)] < cadence {
				return day
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return day
}
