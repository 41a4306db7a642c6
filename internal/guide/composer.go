package guide

import (
	"embed"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/myevertour/guide-server-go/internal/domain/itinerary"
	"github.com/myevertour/guide-server-go/internal/prompt"
)

//go:embed templates/guide.yml
var templateFS embed.FS

// DefaultCheckinURL 은 레코드에 체크인 안내 주소가 없을 때 쓰는 블로그 주소다.
const DefaultCheckinURL = "https://blog.naver.com/myevertour/223721451477"

const defaultManagerName = "담당자"

// TripInputs 는 안내문 생성 시 담당자가 직접 입력하는 값들이다.
type TripInputs struct {
	ManagerName         string `json:"manager_name"`
	TourURL             string `json:"tour_url"`
	RoomCount           int    `json:"room_count"`
	PickupRequested     bool   `json:"pickup_requested"`
	FlightDepartureTime string `json:"flight_departure_time"`
	PickupLocation      string `json:"pickup_location"`
}

// Document 는 완성된 안내문과 생성 중 발생한 경고다.
type Document struct {
	Text     string   `json:"text"`
	Warnings []string `json:"warnings"`
}

// Composer 는 추출 레코드를 고객 안내문으로 조립한다.
type Composer struct {
	guideTemplate  string
	pickupTemplate string
}

// NewComposer 는 내장 안내문 템플릿을 로드한다.
func NewComposer() (*Composer, error) {
	mapping, err := prompt.LoadYAMLMapping(templateFS, "templates/guide.yml")
	if err != nil {
		return nil, fmt.Errorf("안내문 템플릿 로드 실패: %w", err)
	}

	guideTemplate, err := prompt.Field(mapping, "guide", "안내문 본문")
	if err != nil {
		return nil, err
	}
	pickupTemplate, err := prompt.Field(mapping, "pickup", "픽업 섹션")
	if err != nil {
		return nil, err
	}

	return &Composer{
		guideTemplate:  guideTemplate,
		pickupTemplate: pickupTemplate,
	}, nil
}

// Compose 는 레코드와 입력값으로 안내문을 만든다.
// 같은 now 에 대해 결과는 항상 동일하며, 레코드 내용 때문에 실패하지 않는다.
func (c *Composer) Compose(inputs TripInputs, record itinerary.Record, now time.Time) (Document, error) {
	var warnings []string

	departureDate, warning := ResolveDepartureDate(record, now)
	if warning != "" {
		warnings = append(warnings, warning)
	}

	pickupSection, err := c.pickupSection(inputs, record, departureDate)
	if err != nil {
		return Document{}, err
	}

	roomCount := inputs.RoomCount
	if roomCount < 1 {
		roomCount = 1
	}

	managerName := strings.TrimSpace(inputs.ManagerName)
	if managerName == "" {
		managerName = defaultManagerName
	}

	checkinURL := record.AirlineCheckinURL
	if checkinURL == "" {
		checkinURL = DefaultCheckinURL
	}

	values := map[string]string{
		"manager_name":   managerName,
		"formatted_date": departureDate.Format("2006년 01월 02일 (Mon)"),
		"tour_title":     record.TourTitle,
		"timezone_diff":  record.TimezoneDiff,
		"tour_url":       inputs.TourURL,
		"dep_flight":     record.DepartureFlight.Format(),
		"arr_flight":     record.ReturnFlight.Format(),
		"checkin_url":    checkinURL,
		"agency_name":    record.AgencyName,
		"pickup_section": pickupSection,
		"tips_info":      record.TipsInfo,
		"room_count":     strconv.Itoa(roomCount),
		"voltage":        record.VoltageInfo,
		"currency":       record.CurrencyInfo,
		"luggage_info":   record.LuggageInfo,
		"visa_info":      record.VisaInfo,
		"weather_info":   record.WeatherInfo,
		"pro_tips":       record.ProTips,
		"insurance_info": record.InsuranceInfo,
		"notes":          formatNotes(record.SpecialNotes),
	}

	text, err := prompt.FormatTemplate(c.guideTemplate, values)
	if err != nil {
		return Document{}, fmt.Errorf("안내문 렌더링 실패: %w", err)
	}

	return Document{
		Text:     strings.TrimSpace(text) + "\n",
		Warnings: warnings,
	}, nil
}

// pickupSection 은 픽업 요청이 있을 때만 채워지는 섹션 본문을 만든다.
func (c *Composer) pickupSection(inputs TripInputs, record itinerary.Record, departureDate time.Time) (string, error) {
	if !inputs.PickupRequested {
		return "", nil
	}

	hour, minute := departureClock(inputs, record)
	departure := time.Date(departureDate.Year(), departureDate.Month(), departureDate.Day(),
		hour, minute, 0, 0, departureDate.Location())
	pickup := PickupTime(departure)

	location := strings.TrimSpace(inputs.PickupLocation)
	if location == "" {
		location = FallbackPickupLocation
	}

	section, err := prompt.FormatTemplate(c.pickupTemplate, map[string]string{
		"pickup_time":     pickup.Format("01월 02일 15:04"),
		"pickup_location": location,
	})
	if err != nil {
		return "", fmt.Errorf("픽업 섹션 렌더링 실패: %w", err)
	}
	return strings.TrimSpace(section), nil
}

// formatNotes 는 특이사항 목록을 글머리표 줄로 바꾼다.
func formatNotes(notes []string) string {
	if len(notes) == 0 {
		return itinerary.NoNotesSentinel
	}
	lines := make([]string, 0, len(notes))
	for _, note := range notes {
		lines = append(lines, "• "+note)
	}
	return strings.Join(lines, "\n")
}
