package stats

import (
	"GreenChoice-Backend/domain"
	"GreenChoice-Backend/entities"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeScanRepository struct {
	records []*entities.ScanRecord
}

func (r *fakeScanRepository) AddScanRecord(_ context.Context, record *entities.ScanRecord) error {
	r.records = append(r.records, record)
	return nil
}

func (r *fakeScanRepository) GetScanRecords(_ context.Context, _ string) ([]*entities.ScanRecord, error) {
	return r.records, nil
}

func (r *fakeScanRepository) CountScanRecords(_ context.Context, _ string) (int64, error) {
	return int64(len(r.records)), nil
}

func scanWithPreference(preferred string, tags ...string) *entities.ScanRecord {
	record := &entities.ScanRecord{
		ID:        uuid.New(),
		Packaging: datatypes.NewJSONSlice(tags),
	}
	if preferred != "" {
		record.Preferred = &preferred
	}
	return record
}

func TestGreenChoiceRate(t *testing.T) {
	assert.Equal(t, float64(0), GreenChoiceRate(0, 0))
	assert.Equal(t, float64(100), GreenChoiceRate(4, 4))
	assert.Equal(t, float64(50), GreenChoiceRate(2, 4))
	assert.Equal(t, float64(25), GreenChoiceRate(1, 4))
}

func TestTallyPackaging(t *testing.T) {
	records := []*entities.ScanRecord{
		scanWithPreference("", "Plastic bottle", "plastic film"),
		scanWithPreference("", "Glass jar", "Metal lid"),
		scanWithPreference("", "CARDBOARD box"),
		scanWithPreference(""),
	}

	tally := TallyPackaging(records)

	// Every category is present even at zero.
	require.Len(t, tally, len(PackagingCategories))
	// Two plastic tags on one scan still count once.
	assert.Equal(t, 1, tally["plastic"])
	assert.Equal(t, 1, tally["glass"])
	assert.Equal(t, 1, tally["metal"])
	assert.Equal(t, 1, tally["cardboard"])
	assert.Equal(t, 0, tally["paper"])
	assert.Equal(t, 0, tally["compostable"])
}

func TestEarnedBadgesThresholds(t *testing.T) {
	badgeIDs := func(badges []domain.Badge) []string {
		ids := make([]string, 0, len(badges))
		for _, badge := range badges {
			ids = append(ids, badge.ID)
		}
		return ids
	}

	assert.Empty(t, EarnedBadges(0, 0))
	assert.Equal(t, []string{"first_scan"}, badgeIDs(EarnedBadges(1, 0)))
	assert.Equal(t,
		[]string{"first_scan", "eco_explorer", "green_starter", "green_committed"},
		badgeIDs(EarnedBadges(10, 50)))
	assert.Equal(t,
		[]string{"first_scan", "eco_explorer", "scan_veteran", "green_starter", "green_committed", "green_champion"},
		badgeIDs(EarnedBadges(50, 100)))
}

func TestEarnedBadgesNeverShrink(t *testing.T) {
	previous := 0
	for scans := 0; scans <= 60; scans += 5 {
		earned := len(EarnedBadges(scans, 0))
		assert.GreaterOrEqual(t, earned, previous)
		previous = earned
	}

	previous = 0
	for rate := 0.0; rate <= 100; rate += 10 {
		earned := len(EarnedBadges(1, rate))
		assert.GreaterOrEqual(t, earned, previous)
		previous = earned
	}
}

func TestGetHomeStats(t *testing.T) {
	now := time.Now()
	records := []*entities.ScanRecord{
		scanWithPreference(domain.PreferredAlternative, "plastic"),
		scanWithPreference(domain.PreferredProduct, "glass"),
		scanWithPreference("", "plastic wrapper"),
		scanWithPreference(domain.PreferredAlternative, "cardboard"),
	}
	for i, record := range records {
		record.ProductImageURL = "https://cdn.test/scans/" + record.ID.String() + ".jpg"
		record.CreatedAt = now.Add(-time.Duration(i) * time.Hour)
	}

	service := NewStatsService(&fakeScanRepository{records: records})
	stats, err := service.GetHomeStats(context.Background(), uuid.New().String())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalScans)
	assert.Equal(t, 2, stats.GreenChoices)
	assert.Equal(t, float64(50), stats.GreenChoiceRate)
	assert.Equal(t, 2, stats.PackagingCategories["plastic"])
	assert.Equal(t, 1, stats.PackagingCategories["glass"])

	require.Len(t, stats.RecentUploads, 4)
	// Newest first.
	assert.Equal(t, records[0].ProductImageURL, stats.RecentUploads[0].ImageURL)
	assert.Equal(t, now.Format("02 Jan"), stats.RecentUploads[0].Date)

	badgeIDs := make([]string, 0, len(stats.Badges))
	for _, badge := range stats.Badges {
		badgeIDs = append(badgeIDs, badge.ID)
	}
	assert.Contains(t, badgeIDs, "first_scan")
	assert.Contains(t, badgeIDs, "green_committed")
	assert.NotContains(t, badgeIDs, "green_champion")
}
