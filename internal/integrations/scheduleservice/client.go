package scheduleservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с ScheduleService
// Поставляет свободные окна провайдеров: недельное расписание и особые дни
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента ScheduleService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetProviderWeekDayIntervals получает недельное расписание провайдера:
// свободные окна по дням недели, отфильтрованные по услуге и локациям
func (c *Client) GetProviderWeekDayIntervals(
	ctx context.Context,
	providerID int64,
	serviceID int64,
	locationIDs []int64,
) (map[time.Weekday]DaySchedule, error) {
	endpoint := fmt.Sprintf("%s/internal/providers/%d/schedule/weekdays", c.baseURL, providerID)

	body, err := c.get(ctx, endpoint, serviceID, locationIDs)
	if err != nil {
		return nil, err
	}

	var resp weekDayIntervalsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode weekday intervals: %v", ErrInvalidResponse, err)
	}

	result := make(map[time.Weekday]DaySchedule, len(resp.WeekDays))
	for key, schedule := range resp.WeekDays {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx > 6 {
			return nil, fmt.Errorf("%w: invalid weekday index %q", ErrInvalidResponse, key)
		}
		result[time.Weekday(idx)] = schedule
	}

	return result, nil
}

// GetProviderSpecialDayIntervals получает расписание особых дней провайдера
// Ключи результата - даты YYYY-MM-DD; особый день перекрывает недельное расписание
func (c *Client) GetProviderSpecialDayIntervals(
	ctx context.Context,
	providerID int64,
	serviceID int64,
	locationIDs []int64,
) (map[string]DaySchedule, error) {
	endpoint := fmt.Sprintf("%s/internal/providers/%d/schedule/special-days", c.baseURL, providerID)

	body, err := c.get(ctx, endpoint, serviceID, locationIDs)
	if err != nil {
		return nil, err
	}

	var resp specialDayIntervalsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode special day intervals: %v", ErrInvalidResponse, err)
	}

	if resp.Days == nil {
		return map[string]DaySchedule{}, nil
	}
	return resp.Days, nil
}

func (c *Client) get(ctx context.Context, endpoint string, serviceID int64, locationIDs []int64) ([]byte, error) {
	query := url.Values{}
	query.Set("serviceId", strconv.FormatInt(serviceID, 10))
	if len(locationIDs) > 0 {
		ids := make([]string, len(locationIDs))
		for i, id := range locationIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		query.Set("locationIds", strings.Join(ids, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrProviderNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrInvalidResponse, err)
	}
	return body, nil
}
