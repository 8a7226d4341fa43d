package stats

import (
	"GreenChoice-Backend/domain"
	"GreenChoice-Backend/entities"
	"GreenChoice-Backend/pkg/scan"
	"context"
	"sort"
	"strings"
)

// PackagingCategories is the fixed category list tags are tallied against.
var PackagingCategories = []string{
	"plastic",
	"glass",
	"metal",
	"cardboard",
	"paper",
	"compostable",
}

const maxRecentUploads = 5

type (
	StatsService interface {
		GetHomeStats(ctx context.Context, userID string) (domain.HomeStatsResponse, error)
	}

	statsService struct {
		scanRepository scan.ScanRepository
	}
)

func NewStatsService(scanRepository scan.ScanRepository) StatsService {
	return &statsService{scanRepository: scanRepository}
}

// GetHomeStats projects the user's full scan set into the home screen
// aggregates. Everything here is recomputed wholesale on each call; nothing
// derived is ever stored.
func (s *statsService) GetHomeStats(ctx context.Context, userID string) (domain.HomeStatsResponse, error) {
	records, err := s.scanRepository.GetScanRecords(ctx, userID)
	if err != nil {
		return domain.HomeStatsResponse{}, err
	}

	totalScans := len(records)
	greenChoices := 0
	for _, record := range records {
		if record.Preferred != nil && *record.Preferred == domain.PreferredAlternative {
			greenChoices++
		}
	}

	rate := GreenChoiceRate(greenChoices, totalScans)

	return domain.HomeStatsResponse{
		TotalScans:          totalScans,
		GreenChoices:        greenChoices,
		GreenChoiceRate:     rate,
		PackagingCategories: TallyPackaging(records),
		RecentUploads:       recentUploads(records),
		Badges:              EarnedBadges(totalScans, rate),
	}, nil
}

// GreenChoiceRate is the percentage of scans where the user preferred the
// greener alternative. Zero scans means rate zero, not a division by zero.
func GreenChoiceRate(greenChoices, totalScans int) float64 {
	if totalScans == 0 {
		return 0
	}
	return float64(greenChoices) / float64(totalScans) * 100
}

// TallyPackaging counts scans per packaging category. Tags match a category
// by case-insensitive substring, and one scan can land in several categories
// when several of its tags match, but never twice in the same category.
func TallyPackaging(records []*entities.ScanRecord) map[string]int {
	tally := make(map[string]int, len(PackagingCategories))
	for _, category := range PackagingCategories {
		tally[category] = 0
	}

	for _, record := range records {
		matched := make(map[string]bool)
		for _, tag := range record.Packaging {
			lowered := strings.ToLower(tag)
			for _, category := range PackagingCategories {
				if strings.Contains(lowered, category) {
					matched[category] = true
				}
			}
		}
		for category := range matched {
			tally[category]++
		}
	}
	return tally
}

func recentUploads(records []*entities.ScanRecord) []domain.RecentUpload {
	sorted := make([]*entities.ScanRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	uploads := make([]domain.RecentUpload, 0, maxRecentUploads)
	for _, record := range sorted {
		if len(uploads) == maxRecentUploads {
			break
		}
		uploads = append(uploads, domain.RecentUpload{
			ImageURL: record.ProductImageURL,
			Date:     record.CreatedAt.Format("02 Jan"),
		})
	}
	return uploads
}
