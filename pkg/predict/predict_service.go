package predict

import (
	"GreenChoice-Backend/domain"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	ValidationBlock = "block"
	ValidationWarn  = "warn"

	DefaultTimeout = 30 * time.Second
)

var ecoScoreGrades = []string{"A+", "A", "B", "C", "D", "E", "F"}

type (
	PredictService interface {
		Predict(ctx context.Context, imagePath string) (domain.PredictResponse, error)
	}

	predictService struct {
		apiURL  string
		timeout time.Duration
		policy  string
		client  *http.Client
	}
)

func NewPredictService(apiURL string, timeout time.Duration, policy string) PredictService {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if policy != ValidationBlock {
		policy = ValidationWarn
	}
	return &predictService{
		apiURL:  apiURL,
		timeout: timeout,
		policy:  policy,
		client:  &http.Client{},
	}
}

// stringList accepts either a JSON string or a JSON array of strings.
// The model payload is inconsistent about which one it sends for packaging.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*s = []string{}
		} else {
			*s = []string{single}
		}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*s = list
	return nil
}

type (
	rawPrediction struct {
		MainCategoryEn          string     `json:"main_category_en"`
		EnvironmentalScoreGrade string     `json:"environmental_score_grade"`
		PackagingEn             stringList `json:"packaging_en"`
	}

	rawAlternative struct {
		BrandsEn                string     `json:"brands_en"`
		EnvironmentalScoreGrade string     `json:"environmental_score_grade"`
		PackagingEn             stringList `json:"packaging_en"`
		ImageURL                string     `json:"image_url"`
	}

	rawPredictResponse struct {
		Prediction         *rawPrediction  `json:"prediction"`
		GreenerAlternative *rawAlternative `json:"greener_alternative"`
	}
)

func (s *predictService) Predict(ctx context.Context, imagePath string) (domain.PredictResponse, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return domain.PredictResponse{}, err
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filepath.Base(imagePath)))
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	if err != nil {
		return domain.PredictResponse{}, err
	}

	if _, err := io.Copy(part, file); err != nil {
		return domain.PredictResponse{}, err
	}

	if err := writer.Close(); err != nil {
		return domain.PredictResponse{}, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, s.apiURL, body)
	if err != nil {
		return domain.PredictResponse{}, err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || reqCtx.Err() == context.DeadlineExceeded {
			return domain.PredictResponse{}, domain.ErrPredictTimeout
		}
		return domain.PredictResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.PredictResponse{}, &domain.APIError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
		}
	}

	var raw rawPredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return domain.PredictResponse{}, domain.ErrMalformedResponse
	}

	if raw.Prediction == nil {
		return domain.PredictResponse{}, domain.ErrMalformedResponse
	}

	result := domain.PredictResponse{
		Prediction: domain.PredictionInfo{
			Category:  defaultString(raw.Prediction.MainCategoryEn, "Unknown"),
			EcoScore:  defaultString(raw.Prediction.EnvironmentalScoreGrade, "N/A"),
			Packaging: raw.Prediction.PackagingEn,
		},
	}
	if result.Prediction.Packaging == nil {
		result.Prediction.Packaging = []string{}
	}

	if raw.GreenerAlternative != nil {
		result.GreenerAlternative = &domain.AlternativeInfo{
			Brand:     raw.GreenerAlternative.BrandsEn,
			EcoScore:  defaultString(raw.GreenerAlternative.EnvironmentalScoreGrade, "N/A"),
			Packaging: defaultString(strings.Join(raw.GreenerAlternative.PackagingEn, ", "), "Unknown"),
			ImageURL:  raw.GreenerAlternative.ImageURL,
		}
	}

	if !isFoodProduct(raw.Prediction) {
		if s.policy == ValidationBlock {
			return domain.PredictResponse{}, domain.ErrNotFoodProduct
		}
		result.Warning = domain.MessageWarningLimitedProduct
	}

	return result, nil
}

// isFoodProduct is a heuristic gate: a known food category substring, or any
// packaging tag, or an eco score counts as evidence of a real food product.
func isFoodProduct(p *rawPrediction) bool {
	category := strings.ToLower(p.MainCategoryEn)
	if category != "" {
		for _, known := range FoodCategories {
			if strings.Contains(category, known) || strings.Contains(known, category) {
				return true
			}
		}
	}
	if len(p.PackagingEn) > 0 {
		return true
	}
	return p.EnvironmentalScoreGrade != ""
}

// NormalizeGrade maps a stored eco-score token to its display form. Grades
// are case-insensitive at rest; anything outside the known set becomes "N/A".
func NormalizeGrade(score string) string {
	grade := strings.ToUpper(strings.TrimSpace(score))
	if grade == "A-PLUS" {
		grade = "A+"
	}
	for _, g := range ecoScoreGrades {
		if grade == g {
			return grade
		}
	}
	return "N/A"
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
