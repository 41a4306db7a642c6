package guide

import (
	"strings"
	"testing"
	"time"

	"github.com/myevertour/guide-server-go/internal/domain/itinerary"
)

func testComposer(t *testing.T) *Composer {
	t.Helper()
	composer, err := NewComposer()
	if err != nil {
		t.Fatalf("NewComposer failed: %v", err)
	}
	return composer
}

func testRecord() itinerary.Record {
	return itinerary.Record{
		TourTitle:  "다낭 프리미엄 5일",
		AgencyName: "모두투어",
		DepartureFlight: itinerary.FlightLeg{
			Date: "2026.05.14", Time: "12:20",
			ArrivalDate: "2026.05.14", ArrivalTime: "15:05",
			FlightNumber: "KE463",
		},
		ReturnFlight: itinerary.FlightLeg{
			Date: "2026.05.18", Time: "16:30",
			ArrivalDate: "2026.05.18", ArrivalTime: "22:55",
			FlightNumber: "KE464",
		},
		TimezoneDiff: "한국보다 2시간 느림",
		SpecialNotes: []string{"여권 유효기간 6개월 이상 필요"},
	}
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
}

func TestResolveDepartureDate(t *testing.T) {
	now := fixedNow()
	tests := []struct {
		name    string
		date    string
		want    time.Time
		warning bool
	}{
		{"점 구분", "2026.05.14", time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC), false},
		{"대시 구분", "2026-5-4", time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), false},
		{"문장 속 날짜", "출발: 2026.05.14 (목)", time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC), false},
		{"형식 불일치", "5월 중순", now, true},
		{"불가능한 달", "2026.13.01", now, true},
		{"빈 문자열", "", now, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := itinerary.Record{DepartureFlight: itinerary.FlightLeg{Date: tt.date}}
			got, warning := ResolveDepartureDate(record, now)
			if !got.Equal(tt.want) {
				t.Errorf("resolved = %v, want %v", got, tt.want)
			}
			if (warning != "") != tt.warning {
				t.Errorf("warning = %q, want warning=%v", warning, tt.warning)
			}
		})
	}
}

func TestPickupTimeFourHoursBefore(t *testing.T) {
	departure := time.Date(2026, 5, 14, 12, 20, 0, 0, time.UTC)
	pickup := PickupTime(departure)
	if got := pickup.Format("01월 02일 15:04"); got != "05월 14일 08:20" {
		t.Errorf("pickup = %q, want 05월 14일 08:20", got)
	}
}

func TestPickupTimeDayRollover(t *testing.T) {
	// 새벽 출발은 전날 심야 픽업이 된다.
	departure := time.Date(2026, 5, 14, 2, 0, 0, 0, time.UTC)
	pickup := PickupTime(departure)
	if got := pickup.Format("01월 02일 15:04"); got != "05월 13일 22:00" {
		t.Errorf("pickup = %q, want 05월 13일 22:00", got)
	}
}

func TestComposeWithPickup(t *testing.T) {
	composer := testComposer(t)

	doc, err := composer.Compose(TripInputs{
		ManagerName:     "김이름 팀장",
		TourURL:         "https://example.com/tour/123",
		RoomCount:       2,
		PickupRequested: true,
	}, testRecord(), fixedNow())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	for _, want := range []string{
		"김이름 팀장입니다",
		"2026년 05월 14일 (Thu)",
		"2026.05.14 12:20 출발 → 2026.05.14 15:05 도착 (KE463)",
		"05월 14일 08:20에 고객님께서 지정하신 [고객 요청 장소]에서 기사가 대기합니다",
		"[모두투어] 피켓을 찾아주세요",
		"총 2개 객실 기준",
		"• 여권 유효기간 6개월 이상 필요",
		DefaultCheckinURL,
	} {
		if !strings.Contains(doc.Text, want) {
			t.Errorf("안내문에 %q 이(가) 없음", want)
		}
	}
	if len(doc.Warnings) != 0 {
		t.Errorf("경고가 없어야 함: %v", doc.Warnings)
	}
}

func TestComposeWithoutPickup(t *testing.T) {
	composer := testComposer(t)

	doc, err := composer.Compose(TripInputs{ManagerName: "담당"}, testRecord(), fixedNow())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if strings.Contains(doc.Text, "픽업 안내") {
		t.Error("픽업 미요청인데 픽업 섹션이 포함됨")
	}
}

func TestComposeNotesSentinel(t *testing.T) {
	composer := testComposer(t)

	record := testRecord()
	record.SpecialNotes = nil

	doc, err := composer.Compose(TripInputs{}, record, fixedNow())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !strings.Contains(doc.Text, itinerary.NoNotesSentinel) {
		t.Error("특이사항이 없으면 안내 문구가 있어야 함")
	}
}

func TestComposeDateFallbackWarning(t *testing.T) {
	composer := testComposer(t)

	record := testRecord()
	record.DepartureFlight.Date = "5월 중순 출발"

	doc, err := composer.Compose(TripInputs{}, record, fixedNow())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if len(doc.Warnings) != 1 {
		t.Fatalf("경고 1건이 있어야 함: %v", doc.Warnings)
	}
	if !strings.Contains(doc.Warnings[0], "오늘 날짜로 대체") {
		t.Errorf("경고 문구가 다름: %q", doc.Warnings[0])
	}
	if !strings.Contains(doc.Text, "2026년 03월 02일") {
		t.Error("오늘 날짜 대체가 본문에 반영되지 않음")
	}
}

func TestComposeDeterministic(t *testing.T) {
	composer := testComposer(t)

	inputs := TripInputs{ManagerName: "담당", PickupRequested: true, PickupLocation: "강남구 도곡동"}
	record := testRecord()
	now := fixedNow()

	first, err := composer.Compose(inputs, record, now)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	second, err := composer.Compose(inputs, record, now)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if first.Text != second.Text {
		t.Error("같은 입력에 대해 결과가 달라짐")
	}
}

func TestComposeUsesRecordCheckinURL(t *testing.T) {
	composer := testComposer(t)

	record := testRecord()
	record.AirlineCheckinURL = "https://www.koreanair.com/checkin"

	doc, err := composer.Compose(TripInputs{}, record, fixedNow())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !strings.Contains(doc.Text, "https://www.koreanair.com/checkin") {
		t.Error("레코드의 체크인 주소가 쓰이지 않음")
	}
}
