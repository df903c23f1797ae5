package usecase

import (
	"context"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

// MockTrackerRepository is a mock implementation of domain.TrackerRepository
type MockTrackerRepository struct {
	products      []domain.TrackedProduct
	alertsEnabled bool

	addErr    error
	listErr   error
	deleteErr error
	alertsErr error

	deletedIDs []int64
	setAlerts  []bool
}

func NewMockTrackerRepository() *MockTrackerRepository {
	return &MockTrackerRepository{alertsEnabled: true}
}

func (m *MockTrackerRepository) Add(ctx context.Context, url, source string) (int64, error) {
	if m.addErr != nil {
		return 0, m.addErr
	}
	for _, p := range m.products {
		if p.URL == url {
			return 0, domain.ErrDuplicateURL
		}
	}
	id := int64(len(m.products) + 1)
	m.products = append(m.products, domain.TrackedProduct{
		ID: id, URL: url, Source: source, CreatedAt: time.Now(),
	})
	return id, nil
}

func (m *MockTrackerRepository) List(ctx context.Context) ([]domain.TrackedProduct, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.products, nil
}

func (m *MockTrackerRepository) Get(ctx context.Context, id int64) (*domain.TrackedProduct, error) {
	for _, p := range m.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (m *MockTrackerRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i, p := range m.products {
		if p.ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			m.deletedIDs = append(m.deletedIDs, id)
			return nil
		}
	}
	return domain.ErrProductNotFound
}

func (m *MockTrackerRepository) EmailAlertsEnabled(ctx context.Context) (bool, error) {
	if m.alertsErr != nil {
		return false, m.alertsErr
	}
	return m.alertsEnabled, nil
}

func (m *MockTrackerRepository) SetEmailAlerts(ctx context.Context, enabled bool) error {
	m.alertsEnabled = enabled
	m.setAlerts = append(m.setAlerts, enabled)
	return nil
}

// MockPriceRepository is a mock implementation of domain.PriceRepository
type MockPriceRepository struct {
	products map[string]int64 // url -> id
	names    map[int64]string
	history  map[int64][]domain.PricePoint
	records  []domain.PriceRecord
	nextID   int64

	upsertErr  error
	insertErr  error
	historyErr error
	deleteErr  error

	deletedURLs  []string
	cleanupCalls [][]string
}

func NewMockPriceRepository() *MockPriceRepository {
	return &MockPriceRepository{
		products: make(map[string]int64),
		names:    make(map[int64]string),
		history:  make(map[int64][]domain.PricePoint),
		nextID:   1,
	}
}

func (m *MockPriceRepository) UpsertProduct(ctx context.Context, name, url string) (int64, error) {
	if m.upsertErr != nil {
		return 0, m.upsertErr
	}
	id, ok := m.products[url]
	if !ok {
		id = m.nextID
		m.nextID++
		m.products[url] = id
	}
	m.names[id] = name
	return id, nil
}

func (m *MockPriceRepository) InsertPricePoint(ctx context.Context, productID int64, date time.Time, price *float64, availability string) (bool, error) {
	if m.insertErr != nil {
		return false, m.insertErr
	}
	for _, p := range m.history[productID] {
		if p.Date.Equal(date) {
			return false, nil
		}
	}
	m.history[productID] = append(m.history[productID], domain.PricePoint{
		ProductID: productID, Date: date, Price: price, Availability: availability,
	})
	return true, nil
}

func (m *MockPriceRepository) LatestBefore(ctx context.Context, productID int64, date time.Time) (*domain.PricePoint, error) {
	var latest *domain.PricePoint
	for i, p := range m.history[productID] {
		if !p.Date.Before(date) {
			continue
		}
		if latest == nil || p.Date.After(latest.Date) {
			latest = &m.history[productID][i]
		}
	}
	return latest, nil
}

func (m *MockPriceRepository) DeleteByURL(ctx context.Context, url string) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	m.deletedURLs = append(m.deletedURLs, url)
	id, ok := m.products[url]
	if !ok {
		return 0, nil
	}
	removed := int64(len(m.history[id]))
	delete(m.history, id)
	delete(m.names, id)
	delete(m.products, url)
	return removed, nil
}

func (m *MockPriceRepository) CleanupOrphans(ctx context.Context, trackedURLs []string) (int, error) {
	m.cleanupCalls = append(m.cleanupCalls, trackedURLs)
	return 0, nil
}

func (m *MockPriceRepository) History(ctx context.Context, trackedURLs []string) ([]domain.PriceRecord, error) {
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	tracked := make(map[string]struct{}, len(trackedURLs))
	for _, u := range trackedURLs {
		tracked[u] = struct{}{}
	}
	var out []domain.PriceRecord
	for _, rec := range m.records {
		if _, ok := tracked[rec.URL]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// MockProductScraper returns canned observations keyed by URL.
type MockProductScraper struct {
	observations map[string]domain.Observation
	scraped      []string
}

func NewMockProductScraper() *MockProductScraper {
	return &MockProductScraper{observations: make(map[string]domain.Observation)}
}

func (m *MockProductScraper) Scrape(ctx context.Context, url, source string) domain.Observation {
	m.scraped = append(m.scraped, url)
	if obs, ok := m.observations[url]; ok {
		return obs
	}
	return domain.Observation{
		Date: time.Now(), Name: "Error", Price: domain.PriceNA,
		Availability: "Unknown", URL: url,
	}
}

// MockAlertSender records sent alerts.
type MockAlertSender struct {
	sent    []string
	sendErr error
}

func NewMockAlertSender() *MockAlertSender {
	return &MockAlertSender{}
}

func (m *MockAlertSender) SendPriceDrop(productName string, oldPrice, newPrice float64, url string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, productName)
	return nil
}
