package domain

const (
	BadgeTypeRate      = "rate"
	BadgeTypeScanCount = "scan_count"
)

var (
	MessageSuccessGetHomeStats = "home statistics retrieved successfully"
	MessageFailedGetHomeStats  = "failed to retrieve home statistics"
)

type (
	Badge struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Icon        string  `json:"icon"`
		Color       string  `json:"color"`
		Description string  `json:"description"`
		Requirement string  `json:"requirement"`
		Type        string  `json:"type"` // "rate" or "scan_count"
		Threshold   float64 `json:"threshold"`
	}

	RecentUpload struct {
		ImageURL string `json:"image_url"`
		Date     string `json:"date"`
	}

	HomeStatsResponse struct {
		TotalScans          int            `json:"total_scans"`
		GreenChoices        int            `json:"green_choices"`
		GreenChoiceRate     float64        `json:"green_choice_rate"`
		PackagingCategories map[string]int `json:"packaging_categories"`
		RecentUploads       []RecentUpload `json:"recent_uploads"`
		Badges              []Badge        `json:"badges"`
	}
)
