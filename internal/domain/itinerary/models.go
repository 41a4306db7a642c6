package itinerary

import (
	"fmt"
	"strings"
)

// 플레이스홀더 날짜 토큰. 모델이 모르는 값을 지어낼 때 나타난다.
var datePlaceholderTokens = []string{"YYYY", "확인"}

const (
	// FallbackMissingFlight 는 항공편 번호가 없을 때의 표시 문구다.
	FallbackMissingFlight = "항공편 정보 확인 필요 ✈️"
	// FallbackSuspectFlight 는 날짜가 플레이스홀더였을 때의 표시 문구다.
	FallbackSuspectFlight = "항공편 정보 AI 추출 실패 (일정표 확인 필요) ✈️"
	// NoNotesSentinel 는 필터링 후 남은 특이사항이 없을 때의 표시 문구다.
	NoNotesSentinel = "특이사항 없음"
)

// 필드별 기본 문구. 추출 실패 시 안내문에 그대로 들어간다.
const (
	DefaultTourTitle    = "여행 제목 (일정표 확인 필요)"
	DefaultAgencyName   = "여행사"
	DefaultMeetingInfo  = "출발 3시간 전 공항 미팅"
	DefaultHotelInfo    = "호텔 정보 확인 필요"
	DefaultWeatherInfo  = "평균 기온 및 강수 정보 확인"
	DefaultCurrencyInfo = "현지 통화 환전 필요"
	DefaultVoltageInfo  = "멀티어댑터 준비를 권장합니다."
	DefaultTipsInfo     = "📌 상품 포함/불포함 여부를 일정표에서 꼭 확인해주세요."
	DefaultShoppingInfo = "쇼핑 일정 확인 필요"
	DefaultVisaInfo     = "방문국 비자 필요 여부 확인"
	DefaultLuggageInfo  = "1인당 23kg (이용하시는 항공사 규정을 꼭 확인하세요)"
	DefaultTimezoneDiff = "현지 시차 확인 필요"
	DefaultProTips      = "현지 문화를 존중하는 매너있는 여행 되세요."
	DefaultInsurance    = "여행자 보험 가입 여부 확인"
)

// FlightLeg 는 항공편 한 구간이다.
type FlightLeg struct {
	Date         string `json:"date"`
	Time         string `json:"time"`
	ArrivalDate  string `json:"arrival_date"`
	ArrivalTime  string `json:"arrival_time"`
	FlightNumber string `json:"flight_num"`
	// DateSuspect 는 추출된 날짜가 플레이스홀더였음을 표시한다.
	DateSuspect bool `json:"date_suspect,omitempty"`
}

// Present 는 구간 정보가 실제로 존재하는지 반환한다.
// 항공편 번호가 있어야만 존재하는 것으로 본다.
func (l FlightLeg) Present() bool {
	return l.FlightNumber != ""
}

// Format 은 구간을 안내문용 한 줄로 만든다.
// 플레이스홀더 날짜는 원문 대신 확인 요청 문구로 대체된다.
func (l FlightLeg) Format() string {
	if !l.Present() {
		return FallbackMissingFlight
	}
	if l.DateSuspect || hasDatePlaceholder(l.Date) || hasDatePlaceholder(l.ArrivalDate) {
		return FallbackSuspectFlight
	}
	return fmt.Sprintf("%s %s 출발 → %s %s 도착 (%s)",
		l.Date, l.Time, l.ArrivalDate, l.ArrivalTime, l.FlightNumber)
}

// Record 는 일정표에서 추출·정규화된 구조화 결과다.
// 정규화 이후에는 수정하지 않고 읽기만 한다.
type Record struct {
	TourTitle         string    `json:"tour_title"`
	AgencyName        string    `json:"agency_name"`
	DepartureFlight   FlightLeg `json:"flight_dep"`
	ReturnFlight      FlightLeg `json:"flight_arr"`
	MeetingInfo       string    `json:"meeting_info"`
	HotelInfo         string    `json:"hotel_info"`
	WeatherInfo       string    `json:"weather_info"`
	CurrencyInfo      string    `json:"currency"`
	VoltageInfo       string    `json:"voltage"`
	TipsInfo          string    `json:"tips_info"`
	ShoppingInfo      string    `json:"shopping_info"`
	VisaInfo          string    `json:"visa_info"`
	LuggageInfo       string    `json:"luggage_info"`
	AirlineCheckinURL string    `json:"airline_checkin_url"`
	TimezoneDiff      string    `json:"timezone_diff"`
	ProTips           string    `json:"pro_tips"`
	InsuranceInfo     string    `json:"insurance_info"`
	SpecialNotes      []string  `json:"special_notes"`
}

// hasDatePlaceholder 는 날짜 문자열에 플레이스홀더 토큰이 있는지 검사한다.
func hasDatePlaceholder(date string) bool {
	for _, token := range datePlaceholderTokens {
		if strings.Contains(date, token) {
			return true
		}
	}
	return false
}
