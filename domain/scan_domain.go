package domain

import (
	"errors"
	"fmt"
	"mime/multipart"
)

const (
	PreferredProduct     = "product"
	PreferredAlternative = "alternative"
)

var (
	MessageSuccessPredict    = "product analyzed successfully"
	MessageSuccessSaveScan   = "scan saved successfully"
	MessageSuccessGetHistory = "scan history retrieved successfully"

	MessageFailedPredict         = "failed to analyze product"
	MessageFailedPredictTimeout  = "analysis timed out, please try again"
	MessageFailedSaveScan        = "failed to save scan, please try again"
	MessageFailedGetHistory      = "failed to retrieve scan history"
	MessageWarningLimitedProduct = "limited product information available"

	ErrImageRequired      = errors.New("no image provided")
	ErrPredictTimeout     = errors.New("prediction request timed out")
	ErrMalformedResponse  = errors.New("no prediction data returned")
	ErrNotFoodProduct     = errors.New("image does not look like a food product")
	ErrSaveScanFailed     = errors.New("saving scan failed")
	ErrInvalidPreference  = errors.New("preference must be product or alternative")
	ErrInvalidImageFormat = errors.New("invalid image format")
)

// APIError is returned when the inference endpoint answers with a non-2xx
// status. It keeps status and body so the caller can distinguish it from a
// timeout or a malformed payload.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("prediction API error: status %d - %s", e.StatusCode, e.Body)
}

type (
	PredictionInfo struct {
		Category  string   `json:"category"`
		EcoScore  string   `json:"eco_score"`
		Packaging []string `json:"packaging"`
	}

	AlternativeInfo struct {
		Brand     string `json:"brand"`
		EcoScore  string `json:"eco_score"`
		Packaging string `json:"packaging"`
		ImageURL  string `json:"image_url,omitempty"`
	}

	PredictResponse struct {
		Prediction         PredictionInfo   `json:"prediction"`
		GreenerAlternative *AlternativeInfo `json:"greener_alternative,omitempty"`
		Warning            string           `json:"warning,omitempty"`
	}

	SaveScanRequest struct {
		Image        *multipart.FileHeader `json:"image" form:"image" validate:"required"`
		Category     string                `json:"category" form:"category"`
		EcoScore     string                `json:"eco_score" form:"eco_score"`
		Packaging    []string              `json:"packaging" form:"packaging"`
		AltBrand     string                `json:"alt_brand" form:"alt_brand"`
		AltEcoScore  string                `json:"alt_eco_score" form:"alt_eco_score"`
		AltPackaging string                `json:"alt_packaging" form:"alt_packaging"`
		AltImageURL  string                `json:"alt_image_url" form:"alt_image_url"`
		Preferred    string                `json:"preferred" form:"preferred" validate:"omitempty,oneof=product alternative"`
	}

	SaveScanResponse struct {
		ScanID          string `json:"scan_id"`
		ProductImageURL string `json:"product_image_url"`
		AltImageURL     string `json:"alt_image_url,omitempty"`
	}

	ScanRecordResponse struct {
		ID                 string           `json:"id"`
		ProductImageURL    string           `json:"product_image_url"`
		Prediction         PredictionInfo   `json:"prediction"`
		GreenerAlternative *AlternativeInfo `json:"greener_alternative,omitempty"`
		Preferred          *string          `json:"preferred,omitempty"`
		Timestamp          int64            `json:"timestamp"` // unix millis, 0 while unresolved
	}
)
