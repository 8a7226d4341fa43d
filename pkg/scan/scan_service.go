package scan

import (
	"GreenChoice-Backend/domain"
	"GreenChoice-Backend/entities"
	"GreenChoice-Backend/internal/realtime"
	"GreenChoice-Backend/internal/utils/imaging"
	"GreenChoice-Backend/internal/utils/storage"
	"GreenChoice-Backend/pkg/predict"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// rehost downloads are bounded so a slow alternative image can never hold
// up the save path for long.
const rehostTimeout = 15 * time.Second

type (
	ScanService interface {
		Analyze(ctx context.Context, image *multipart.FileHeader) (domain.PredictResponse, error)
		SaveScan(ctx context.Context, req domain.SaveScanRequest, userID string) (domain.SaveScanResponse, error)
		GetHistory(ctx context.Context, userID string) ([]domain.ScanRecordResponse, error)
	}

	scanService struct {
		scanRepository ScanRepository
		predictService predict.PredictService
		s3             storage.AwsS3
		normalizer     *imaging.Normalizer
		hub            *realtime.Hub
		rehostClient   *http.Client
	}
)

func NewScanService(
	scanRepository ScanRepository,
	predictService predict.PredictService,
	s3 storage.AwsS3,
	normalizer *imaging.Normalizer,
	hub *realtime.Hub,
) ScanService {
	return &scanService{
		scanRepository: scanRepository,
		predictService: predictService,
		s3:             s3,
		normalizer:     normalizer,
		hub:            hub,
		rehostClient:   &http.Client{Timeout: rehostTimeout},
	}
}

// Analyze prepares the uploaded image and submits it to the eco-score model.
func (s *scanService) Analyze(ctx context.Context, image *multipart.FileHeader) (domain.PredictResponse, error) {
	if image == nil {
		return domain.PredictResponse{}, domain.ErrImageRequired
	}

	localPath, err := s.stageUpload(image)
	if err != nil {
		return domain.PredictResponse{}, err
	}
	defer os.Remove(localPath)

	normalized, err := s.normalizer.Normalize(localPath)
	if err != nil {
		return domain.PredictResponse{}, err
	}
	defer s.normalizer.Cleanup(normalized)

	return s.predictService.Predict(ctx, normalized)
}

// SaveScan durably records one completed scan: primary image to object
// storage first, then the append-only database write that references it.
// The alternative image re-host is best effort and never blocks the save.
func (s *scanService) SaveScan(ctx context.Context, req domain.SaveScanRequest, userID string) (domain.SaveScanResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.SaveScanResponse{}, domain.ErrParseUUID
	}

	if req.Image == nil {
		return domain.SaveScanResponse{}, domain.ErrImageRequired
	}

	localPath, err := s.stageUpload(req.Image)
	if err != nil {
		return domain.SaveScanResponse{}, domain.ErrSaveScanFailed
	}
	defer os.Remove(localPath)

	normalized, err := s.normalizer.Normalize(localPath)
	if err != nil {
		return domain.SaveScanResponse{}, domain.ErrSaveScanFailed
	}
	defer s.normalizer.Cleanup(normalized)

	data, err := os.ReadFile(normalized)
	if err != nil {
		return domain.SaveScanResponse{}, domain.ErrSaveScanFailed
	}

	ts := time.Now().UnixMilli()
	objectKey, err := s.s3.UploadBytes(fmt.Sprintf("scans/%s/%d.jpg", userID, ts), data, "image/jpeg")
	if err != nil {
		log.Printf("Error uploading scan image: %v", err)
		return domain.SaveScanResponse{}, domain.ErrSaveScanFailed
	}
	productImageURL := s.s3.GetPublicLinkKey(objectKey)

	altImageURL := req.AltImageURL
	if altImageURL != "" {
		altImageURL = s.rehostAlternative(ctx, altImageURL, userID, ts)
	}

	hasAlternative := req.AltBrand != "" || req.AltEcoScore != "" || req.AltPackaging != "" || req.AltImageURL != ""

	var preferred *string
	if req.Preferred != "" {
		if req.Preferred != domain.PreferredProduct && req.Preferred != domain.PreferredAlternative {
			return domain.SaveScanResponse{}, domain.ErrInvalidPreference
		}
		p := req.Preferred
		preferred = &p
	}

	packaging := req.Packaging
	if packaging == nil {
		packaging = []string{}
	}

	record := &entities.ScanRecord{
		ID:              uuid.New(),
		UserID:          userUUID,
		ProductImageURL: productImageURL,
		Category:        defaultString(req.Category, "Unknown"),
		EcoScore:        defaultString(req.EcoScore, "N/A"),
		Packaging:       datatypes.NewJSONSlice(packaging),
		HasAlternative:  hasAlternative,
		AltBrand:        req.AltBrand,
		AltEcoScore:     req.AltEcoScore,
		AltPackaging:    req.AltPackaging,
		AltImageURL:     altImageURL,
		Preferred:       preferred,
	}

	if err := s.scanRepository.AddScanRecord(ctx, record); err != nil {
		log.Printf("Error appending scan record: %v", err)
		return domain.SaveScanResponse{}, domain.ErrSaveScanFailed
	}

	s.publishSnapshot(ctx, userID)

	return domain.SaveScanResponse{
		ScanID:          record.ID.String(),
		ProductImageURL: productImageURL,
		AltImageURL:     altImageURL,
	}, nil
}

// GetHistory returns the user's scans newest first. Records whose write
// timestamp has not resolved sort as time zero, i.e. last.
func (s *scanService) GetHistory(ctx context.Context, userID string) ([]domain.ScanRecordResponse, error) {
	records, err := s.scanRepository.GetScanRecords(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := make([]domain.ScanRecordResponse, 0, len(records))
	for _, record := range records {
		response = append(response, toScanRecordResponse(record))
	}

	SortHistoryDescending(response)
	return response, nil
}

func toScanRecordResponse(record *entities.ScanRecord) domain.ScanRecordResponse {
	item := domain.ScanRecordResponse{
		ID:              record.ID.String(),
		ProductImageURL: record.ProductImageURL,
		Prediction: domain.PredictionInfo{
			Category:  record.Category,
			EcoScore:  predict.NormalizeGrade(record.EcoScore),
			Packaging: record.Packaging,
		},
		Preferred: record.Preferred,
	}
	if item.Prediction.Packaging == nil {
		item.Prediction.Packaging = []string{}
	}
	if !record.CreatedAt.IsZero() {
		item.Timestamp = record.CreatedAt.UnixMilli()
	}
	if record.HasAlternative {
		item.GreenerAlternative = &domain.AlternativeInfo{
			Brand:     record.AltBrand,
			EcoScore:  predict.NormalizeGrade(record.AltEcoScore),
			Packaging: defaultString(record.AltPackaging, "Unknown"),
			ImageURL:  record.AltImageURL,
		}
	}
	return item
}

// SortHistoryDescending orders scans newest first. The sort is stable so
// duplicate timestamps keep their relative order, and zero timestamps
// (unresolved server time) end up last.
func SortHistoryDescending(items []domain.ScanRecordResponse) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp > items[j].Timestamp
	})
}

// stageUpload copies the multipart upload into the image cache so the
// normalization and upload steps work from a real file path.
func (s *scanService) stageUpload(image *multipart.FileHeader) (string, error) {
	src, err := image.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := fmt.Sprintf("upload_%d%s", time.Now().UnixNano(), filepath.Ext(image.Filename))
	localPath := filepath.Join(s.normalizer.CacheDir, name)

	dst, err := os.Create(localPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(localPath)
		return "", err
	}
	return localPath, nil
}

// rehostAlternative copies the suggested product's image into the user's
// own storage namespace. On any failure the upstream URL is kept verbatim.
func (s *scanService) rehostAlternative(ctx context.Context, imageURL, userID string, ts int64) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return imageURL
	}

	resp, err := s.rehostClient.Do(req)
	if err != nil {
		return imageURL
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return imageURL
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil || len(data) == 0 {
		return imageURL
	}

	objectKey, err := s.s3.UploadBytes(
		fmt.Sprintf("scans/%s/alternative_%d.jpg", userID, ts),
		data,
		resp.Header.Get("Content-Type"),
	)
	if err != nil {
		return imageURL
	}
	return s.s3.GetPublicLinkKey(objectKey)
}

func (s *scanService) publishSnapshot(ctx context.Context, userID string) {
	if s.hub == nil {
		return
	}
	history, err := s.GetHistory(ctx, userID)
	if err != nil {
		log.Printf("Error refreshing history snapshot: %v", err)
		return
	}
	s.hub.PublishSnapshot(userID, history)
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
