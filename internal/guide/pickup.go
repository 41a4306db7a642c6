package guide

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/myevertour/guide-server-go/internal/domain/itinerary"
)

// PickupLeadTime 은 항공편 출발 기준 픽업 선행 시간이다.
const PickupLeadTime = 4 * time.Hour

// FallbackPickupLocation 은 픽업 장소 미입력 시의 표시 문구다.
const FallbackPickupLocation = "[고객 요청 장소]"

// 추출된 날짜 문자열에서 YYYY.MM.DD 또는 YYYY-MM-DD 를 찾는다.
var departureDatePattern = regexp.MustCompile(`(\d{4})[.-](\d{1,2})[.-](\d{1,2})`)

// ResolveDepartureDate 는 레코드의 출발 날짜를 확정한다.
// 형식이 인식되지 않거나 달력상 불가능한 날짜면 오늘 날짜로 대체하고
// 경고 문구를 함께 반환한다.
func ResolveDepartureDate(record itinerary.Record, now time.Time) (time.Time, string) {
	raw := strings.TrimSpace(record.DepartureFlight.Date)
	if raw == "" {
		return now, ""
	}

	match := departureDatePattern.FindStringSubmatch(raw)
	if match == nil {
		return now, fmt.Sprintf("날짜 형식이 인식되지 않아 오늘 날짜로 대체합니다. (%s)", raw)
	}

	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	day, _ := strconv.Atoi(match[3])

	resolved := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	// time.Date 는 13월 같은 값을 다음 해로 넘겨 버리므로 역검증한다.
	if resolved.Year() != year || resolved.Month() != time.Month(month) || resolved.Day() != day {
		return now, fmt.Sprintf("날짜 형식이 올바르지 않아 오늘 날짜로 대체합니다. (%s)", raw)
	}
	return resolved, ""
}

// PickupTime 은 항공편 출발 4시간 전을 반환한다.
// 자정 이전으로 넘어가는 경우의 날짜 이월은 time.Time 이 처리한다.
func PickupTime(departure time.Time) time.Time {
	return departure.Add(-PickupLeadTime)
}

// departureClock 은 출발 시각(HH:MM)을 결정한다.
// 호출자 입력이 우선이고, 없으면 레코드의 출발편 시각을 쓴다.
func departureClock(inputs TripInputs, record itinerary.Record) (int, int) {
	for _, candidate := range []string{inputs.FlightDepartureTime, record.DepartureFlight.Time} {
		if hour, minute, ok := parseClock(candidate); ok {
			return hour, minute
		}
	}
	return 10, 0
}

func parseClock(value string) (int, int, bool) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, 0, false
	}
	return parsed.Hour(), parsed.Minute(), true
}
