package scan

import (
	"GreenChoice-Backend/domain"
	"GreenChoice-Backend/entities"
	"GreenChoice-Backend/internal/utils/imaging"
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeScanRepository struct {
	records []*entities.ScanRecord
	addErr  error
}

func (r *fakeScanRepository) AddScanRecord(_ context.Context, record *entities.ScanRecord) error {
	if r.addErr != nil {
		return r.addErr
	}
	r.records = append(r.records, record)
	return nil
}

func (r *fakeScanRepository) GetScanRecords(_ context.Context, userID string) ([]*entities.ScanRecord, error) {
	var out []*entities.ScanRecord
	for _, record := range r.records {
		if record.UserID.String() == userID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *fakeScanRepository) CountScanRecords(_ context.Context, userID string) (int64, error) {
	records, _ := r.GetScanRecords(context.Background(), userID)
	return int64(len(records)), nil
}

type fakeStorage struct {
	objects   map[string][]byte
	uploadErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) UploadFile(fileName string, file *multipart.FileHeader, dir string, allowedTypes ...string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(src); err != nil {
		return "", err
	}
	return f.UploadBytes(dir+"/"+fileName, buf.Bytes(), file.Header.Get("Content-Type"))
}

func (f *fakeStorage) UploadBytes(objectKey string, data []byte, _ string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.objects[objectKey] = data
	return objectKey, nil
}

func (f *fakeStorage) DeleteFile(objectKey string) error {
	delete(f.objects, objectKey)
	return nil
}

func (f *fakeStorage) GetPublicLinkKey(objectKey string) string {
	return "https://cdn.test/" + objectKey
}

func (f *fakeStorage) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://cdn.test/")
}

func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["image"][0]
}

func newTestScanService(t *testing.T, repo ScanRepository, s3 *fakeStorage) ScanService {
	t.Helper()
	return NewScanService(repo, nil, s3, imaging.NewNormalizer(t.TempDir()), nil)
}

func TestSaveScanPersistsRecord(t *testing.T) {
	altServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("alternative-image-bytes"))
	}))
	defer altServer.Close()

	repo := &fakeScanRepository{}
	s3 := newFakeStorage()
	service := newTestScanService(t, repo, s3)

	userID := uuid.New().String()
	req := domain.SaveScanRequest{
		Image:        makeFileHeader(t, "product.jpg", []byte("product-image-bytes")),
		Category:     "snacks",
		EcoScore:     "c",
		Packaging:    []string{"plastic"},
		AltBrand:     "EcoBrand",
		AltEcoScore:  "a",
		AltPackaging: "cardboard",
		AltImageURL:  altServer.URL + "/alt.jpg",
		Preferred:    domain.PreferredAlternative,
	}

	res, err := service.SaveScan(context.Background(), req, userID)
	require.NoError(t, err)

	require.Len(t, repo.records, 1)
	record := repo.records[0]
	assert.Equal(t, "snacks", record.Category)
	assert.Equal(t, "c", record.EcoScore)
	assert.Equal(t, datatypes.NewJSONSlice([]string{"plastic"}), record.Packaging)
	assert.True(t, record.HasAlternative)
	assert.Equal(t, "EcoBrand", record.AltBrand)
	assert.Equal(t, "a", record.AltEcoScore)
	assert.Equal(t, "cardboard", record.AltPackaging)
	require.NotNil(t, record.Preferred)
	assert.Equal(t, domain.PreferredAlternative, *record.Preferred)

	assert.Contains(t, res.ProductImageURL, "https://cdn.test/scans/"+userID+"/")
	assert.Contains(t, res.AltImageURL, "https://cdn.test/scans/"+userID+"/alternative_")
	assert.Equal(t, record.ProductImageURL, res.ProductImageURL)
	assert.Equal(t, record.AltImageURL, res.AltImageURL)

	// Both images landed in storage under the user's namespace.
	assert.Len(t, s3.objects, 2)
	assert.Equal(t, []byte("alternative-image-bytes"), s3.objects[s3.GetObjectKeyFromLink(res.AltImageURL)])
}

func TestSaveScanRehostFallsBackToOriginalURL(t *testing.T) {
	altServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer altServer.Close()

	repo := &fakeScanRepository{}
	service := newTestScanService(t, repo, newFakeStorage())

	altURL := altServer.URL + "/alt.jpg"
	req := domain.SaveScanRequest{
		Image:       makeFileHeader(t, "product.jpg", []byte("product")),
		Category:    "snacks",
		AltBrand:    "EcoBrand",
		AltImageURL: altURL,
	}

	res, err := service.SaveScan(context.Background(), req, uuid.New().String())
	require.NoError(t, err)
	assert.Equal(t, altURL, res.AltImageURL)
	require.Len(t, repo.records, 1)
	assert.Equal(t, altURL, repo.records[0].AltImageURL)
}

func TestSaveScanUploadFailureAbortsBeforeWrite(t *testing.T) {
	repo := &fakeScanRepository{}
	s3 := newFakeStorage()
	s3.uploadErr = errors.New("bucket unavailable")
	service := newTestScanService(t, repo, s3)

	req := domain.SaveScanRequest{
		Image:    makeFileHeader(t, "product.jpg", []byte("product")),
		Category: "snacks",
	}

	_, err := service.SaveScan(context.Background(), req, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrSaveScanFailed)
	assert.Empty(t, repo.records)
}

func TestSaveScanRejectsInvalidPreference(t *testing.T) {
	service := newTestScanService(t, &fakeScanRepository{}, newFakeStorage())

	req := domain.SaveScanRequest{
		Image:     makeFileHeader(t, "product.jpg", []byte("product")),
		Preferred: "both",
	}

	_, err := service.SaveScan(context.Background(), req, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrInvalidPreference)
}

func TestSaveScanRequiresImage(t *testing.T) {
	service := newTestScanService(t, &fakeScanRepository{}, newFakeStorage())

	_, err := service.SaveScan(context.Background(), domain.SaveScanRequest{}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrImageRequired)
}

func TestSaveScanRejectsBadUserID(t *testing.T) {
	service := newTestScanService(t, &fakeScanRepository{}, newFakeStorage())

	_, err := service.SaveScan(context.Background(), domain.SaveScanRequest{}, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}

func TestGetHistoryMapsAndSorts(t *testing.T) {
	userID := uuid.New()
	preferred := domain.PreferredProduct
	repo := &fakeScanRepository{records: []*entities.ScanRecord{
		{
			ID:              uuid.New(),
			UserID:          userID,
			ProductImageURL: "https://cdn.test/scans/old.jpg",
			Category:        "beverages",
			EcoScore:        "b",
			Packaging:       datatypes.NewJSONSlice([]string{"glass"}),
			Timestamp:       entities.Timestamp{CreatedAt: time.UnixMilli(1_000)},
		},
		{
			ID:              uuid.New(),
			UserID:          userID,
			ProductImageURL: "https://cdn.test/scans/new.jpg",
			Category:        "snacks",
			EcoScore:        "c",
			Packaging:       datatypes.NewJSONSlice([]string{"plastic"}),
			HasAlternative:  true,
			AltBrand:        "EcoBrand",
			AltEcoScore:     "a",
			AltPackaging:    "cardboard",
			AltImageURL:     "https://cdn.test/scans/alt.jpg",
			Preferred:       &preferred,
			Timestamp:       entities.Timestamp{CreatedAt: time.UnixMilli(2_000)},
		},
		{
			// Write time never resolved, sorts last.
			ID:       uuid.New(),
			UserID:   userID,
			Category: "dairy",
			EcoScore: "junk",
		},
	}}

	service := newTestScanService(t, repo, newFakeStorage())
	history, err := service.GetHistory(context.Background(), userID.String())
	require.NoError(t, err)
	require.Len(t, history, 3)

	assert.Equal(t, "snacks", history[0].Prediction.Category)
	assert.Equal(t, "C", history[0].Prediction.EcoScore)
	assert.Equal(t, int64(2_000), history[0].Timestamp)
	require.NotNil(t, history[0].GreenerAlternative)
	assert.Equal(t, "A", history[0].GreenerAlternative.EcoScore)
	assert.Equal(t, "cardboard", history[0].GreenerAlternative.Packaging)
	require.NotNil(t, history[0].Preferred)
	assert.Equal(t, domain.PreferredProduct, *history[0].Preferred)

	assert.Equal(t, "beverages", history[1].Prediction.Category)
	assert.Nil(t, history[1].GreenerAlternative)

	assert.Equal(t, "dairy", history[2].Prediction.Category)
	assert.Equal(t, int64(0), history[2].Timestamp)
	assert.Equal(t, "N/A", history[2].Prediction.EcoScore)
}

func TestSortHistoryDescending(t *testing.T) {
	items := []domain.ScanRecordResponse{
		{ID: "a", Timestamp: 100},
		{ID: "b", Timestamp: 0},
		{ID: "c", Timestamp: 300},
		{ID: "d", Timestamp: 100},
		{ID: "e", Timestamp: 0},
	}

	SortHistoryDescending(items)

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	// Stable: equal timestamps keep their relative order, zeros land last.
	assert.Equal(t, []string{"c", "a", "d", "b", "e"}, ids)
}
