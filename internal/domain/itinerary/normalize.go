package itinerary

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/myevertour/guide-server-go/internal/noisefilter"
)

// rawRecord 는 모델 응답 JSON 의 느슨한 형태다.
// special_notes 는 문자열 하나로 오기도 하고 배열로 오기도 한다.
type rawRecord struct {
	TourTitle         string    `mapstructure:"tour_title"`
	AgencyName        string    `mapstructure:"agency_name"`
	DepartureFlight   rawFlight `mapstructure:"flight_dep"`
	ReturnFlight      rawFlight `mapstructure:"flight_arr"`
	MeetingInfo       string    `mapstructure:"meeting_info"`
	HotelInfo         string    `mapstructure:"hotel_info"`
	WeatherInfo       string    `mapstructure:"weather_info"`
	CurrencyInfo      string    `mapstructure:"currency"`
	VoltageInfo       string    `mapstructure:"voltage"`
	TipsInfo          string    `mapstructure:"tips_info"`
	ShoppingInfo      string    `mapstructure:"shopping_info"`
	VisaInfo          string    `mapstructure:"visa_info"`
	LuggageInfo       string    `mapstructure:"luggage_info"`
	AirlineCheckinURL string    `mapstructure:"airline_checkin_url"`
	TimezoneDiff      string    `mapstructure:"timezone_diff"`
	ProTips           string    `mapstructure:"pro_tips"`
	InsuranceInfo     string    `mapstructure:"insurance_info"`
	SpecialNotes      any       `mapstructure:"special_notes"`
}

type rawFlight struct {
	Date         string `mapstructure:"date"`
	Time         string `mapstructure:"time"`
	ArrivalDate  string `mapstructure:"arrival_date"`
	ArrivalTime  string `mapstructure:"arrival_time"`
	FlightNumber string `mapstructure:"flight_num"`
}

// Normalizer 는 모델 응답을 검증 가능한 Record 로 확정한다.
type Normalizer struct {
	filter *noisefilter.Filter
}

func NewNormalizer(filter *noisefilter.Filter) *Normalizer {
	return &Normalizer{filter: filter}
}

// Normalize 는 모델 응답 맵을 Record 로 변환한다.
// 비어 있는 필드는 기본 문구로 채우고, 특이사항은 노이즈 필터를 거친다.
func (n *Normalizer) Normalize(payload map[string]any) (Record, error) {
	var raw rawRecord
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &raw,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Record{}, fmt.Errorf("응답 디코더 생성 실패: %w", err)
	}
	if err := decoder.Decode(payload); err != nil {
		return Record{}, fmt.Errorf("응답 구조 해석 실패: %w", err)
	}

	record := Record{
		TourTitle:         fallback(raw.TourTitle, DefaultTourTitle),
		AgencyName:        fallback(raw.AgencyName, DefaultAgencyName),
		DepartureFlight:   normalizeLeg(raw.DepartureFlight),
		ReturnFlight:      normalizeLeg(raw.ReturnFlight),
		MeetingInfo:       fallback(raw.MeetingInfo, DefaultMeetingInfo),
		HotelInfo:         fallback(raw.HotelInfo, DefaultHotelInfo),
		WeatherInfo:       fallback(raw.WeatherInfo, DefaultWeatherInfo),
		CurrencyInfo:      fallback(raw.CurrencyInfo, DefaultCurrencyInfo),
		VoltageInfo:       fallback(raw.VoltageInfo, DefaultVoltageInfo),
		TipsInfo:          fallback(raw.TipsInfo, DefaultTipsInfo),
		ShoppingInfo:      fallback(raw.ShoppingInfo, DefaultShoppingInfo),
		VisaInfo:          fallback(raw.VisaInfo, DefaultVisaInfo),
		LuggageInfo:       fallback(raw.LuggageInfo, DefaultLuggageInfo),
		AirlineCheckinURL: strings.TrimSpace(raw.AirlineCheckinURL),
		TimezoneDiff:      fallback(raw.TimezoneDiff, DefaultTimezoneDiff),
		ProTips:           fallback(raw.ProTips, DefaultProTips),
		InsuranceInfo:     fallback(raw.InsuranceInfo, DefaultInsurance),
		SpecialNotes:      n.filter.Apply(coerceNotes(raw.SpecialNotes)),
	}
	return record, nil
}

// Sanitize 는 외부에서 이미 디코딩된 Record 에 Normalize 와 같은 확정 규칙을
// 다시 적용한다. 안내문 생성 요청이 들고 오는 레코드가 정규화를 거치지 않았을
// 수 있기 때문이다.
func (n *Normalizer) Sanitize(record Record) Record {
	record.TourTitle = fallback(record.TourTitle, DefaultTourTitle)
	record.AgencyName = fallback(record.AgencyName, DefaultAgencyName)
	record.DepartureFlight = sanitizeLeg(record.DepartureFlight)
	record.ReturnFlight = sanitizeLeg(record.ReturnFlight)
	record.MeetingInfo = fallback(record.MeetingInfo, DefaultMeetingInfo)
	record.HotelInfo = fallback(record.HotelInfo, DefaultHotelInfo)
	record.WeatherInfo = fallback(record.WeatherInfo, DefaultWeatherInfo)
	record.CurrencyInfo = fallback(record.CurrencyInfo, DefaultCurrencyInfo)
	record.VoltageInfo = fallback(record.VoltageInfo, DefaultVoltageInfo)
	record.TipsInfo = fallback(record.TipsInfo, DefaultTipsInfo)
	record.ShoppingInfo = fallback(record.ShoppingInfo, DefaultShoppingInfo)
	record.VisaInfo = fallback(record.VisaInfo, DefaultVisaInfo)
	record.LuggageInfo = fallback(record.LuggageInfo, DefaultLuggageInfo)
	record.AirlineCheckinURL = strings.TrimSpace(record.AirlineCheckinURL)
	record.TimezoneDiff = fallback(record.TimezoneDiff, DefaultTimezoneDiff)
	record.ProTips = fallback(record.ProTips, DefaultProTips)
	record.InsuranceInfo = fallback(record.InsuranceInfo, DefaultInsurance)
	record.SpecialNotes = n.filter.Apply(record.SpecialNotes)
	return record
}

// normalizeLeg 는 플레이스홀더 날짜를 비우고 의심 표시를 남긴다.
func normalizeLeg(raw rawFlight) FlightLeg {
	return sanitizeLeg(FlightLeg{
		Date:         raw.Date,
		Time:         raw.Time,
		ArrivalDate:  raw.ArrivalDate,
		ArrivalTime:  raw.ArrivalTime,
		FlightNumber: raw.FlightNumber,
	})
}

func sanitizeLeg(leg FlightLeg) FlightLeg {
	leg.Date = strings.TrimSpace(leg.Date)
	leg.Time = strings.TrimSpace(leg.Time)
	leg.ArrivalDate = strings.TrimSpace(leg.ArrivalDate)
	leg.ArrivalTime = strings.TrimSpace(leg.ArrivalTime)
	leg.FlightNumber = strings.TrimSpace(leg.FlightNumber)
	if hasDatePlaceholder(leg.Date) || hasDatePlaceholder(leg.ArrivalDate) {
		leg.DateSuspect = true
		leg.Date = ""
		leg.ArrivalDate = ""
	}
	return leg
}

// coerceNotes 는 special_notes 의 여러 표현을 문자열 목록으로 맞춘다.
func coerceNotes(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		notes := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				notes = append(notes, s)
			}
		}
		return notes
	default:
		return nil
	}
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}
