package scheduleservice

import (
	"encoding/json"
	"fmt"
)

// FreeInterval свободное окно провайдера: [Start, End) в секундах от полуночи
// плюс локации, на которых окно действует
//
// Wire-формат: массив [startSec, endSec, [locationIds...]]
type FreeInterval struct {
	Start       int
	End         int
	LocationIDs []int64
}

// UnmarshalJSON декодирует тройку [start, end, [locationIds]]
func (f *FreeInterval) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("scheduleservice: free interval must be an array: %w", err)
	}
	if len(raw) < 2 {
		return fmt.Errorf("scheduleservice: free interval needs at least [start, end], got %d elements", len(raw))
	}

	if err := json.Unmarshal(raw[0], &f.Start); err != nil {
		return fmt.Errorf("scheduleservice: invalid interval start: %w", err)
	}
	if err := json.Unmarshal(raw[1], &f.End); err != nil {
		return fmt.Errorf("scheduleservice: invalid interval end: %w", err)
	}

	f.LocationIDs = nil
	if len(raw) >= 3 {
		if err := json.Unmarshal(raw[2], &f.LocationIDs); err != nil {
			return fmt.Errorf("scheduleservice: invalid interval location ids: %w", err)
		}
	}
	return nil
}

// MarshalJSON кодирует тройку [start, end, [locationIds]]
func (f FreeInterval) MarshalJSON() ([]byte, error) {
	locations := f.LocationIDs
	if locations == nil {
		locations = []int64{}
	}
	return json.Marshal([]interface{}{f.Start, f.End, locations})
}

// CoversLocation возвращает true, если окно действует на указанной локации
// Окно без локаций действует везде
func (f *FreeInterval) CoversLocation(locationID int64) bool {
	if len(f.LocationIDs) == 0 {
		return true
	}
	for _, id := range f.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}

// DaySchedule свободные окна провайдера на один день
type DaySchedule struct {
	Free []FreeInterval `json:"free"`
}

// weekDayIntervalsResponse ответ на запрос недельного расписания
// Ключи weekDays - индексы дней недели (0 = воскресенье, как time.Weekday)
type weekDayIntervalsResponse struct {
	WeekDays map[string]DaySchedule `json:"weekDays"`
}

// specialDayIntervalsResponse ответ на запрос расписания особых дней
// Ключи days - даты YYYY-MM-DD
type specialDayIntervalsResponse struct {
	Days map[string]DaySchedule `json:"days"`
}
