package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylist-server/internal/utils/platformerrors"
)

type fakeStorage struct {
	puts    int
	putErr  error
	deletes []string
}

func (f *fakeStorage) Put(ctx context.Context, data []byte, ext, contentType string) (*StoredImage, error) {
	f.puts++
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &StoredImage{URL: "/static/images/deadbeef.jpg", Backend: "local", Key: "deadbeef.jpg"}, nil
}

func (f *fakeStorage) Delete(ctx context.Context, url string) bool {
	f.deletes = append(f.deletes, url)
	return true
}

type fakeClassifier struct {
	checkErr    error
	notClothing bool
	hang        bool
	classifyErr error
	nameErr     error
	generated   string
}

func (f *fakeClassifier) CheckClothing(ctx context.Context, imageRef string) (bool, string, float64, error) {
	if f.hang {
		<-ctx.Done()
		return false, "", 0, ctx.Err()
	}
	if f.checkErr != nil {
		return false, "", 0, f.checkErr
	}
	return !f.notClothing, "t-shirt", 0.92, nil
}

func (f *fakeClassifier) Classify(ctx context.Context, imageRef string) (string, string, string, error) {
	if f.hang {
		<-ctx.Done()
		return "", "", "", ctx.Err()
	}
	if f.classifyErr != nil {
		return "", "", "", f.classifyErr
	}
	return "t-shirt", "синий", "casual", nil
}

func (f *fakeClassifier) GenerateName(ctx context.Context, imageRef string) (string, error) {
	if f.hang {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.nameErr != nil {
		return "", f.nameErr
	}
	return f.generated, nil
}

type fakeRecorder struct {
	existing  *Record
	findErr   error
	createErr error
	created   []*Record
}

func (f *fakeRecorder) FindByUserAndHash(ctx context.Context, userID int64, hash string) (*Record, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.existing, nil
}

func (f *fakeRecorder) Create(ctx context.Context, rec *Record) error {
	if f.createErr != nil {
		return f.createErr
	}
	rec.ID = int64(len(f.created) + 1)
	f.created = append(f.created, rec)
	return nil
}

func newTestService(storage *fakeStorage, cls *fakeClassifier, rec *fakeRecorder) *Service {
	log := zerolog.Nop()
	return NewService(
		NewScraper(time.Second, 5*1024*1024, log),
		NewDownloader(time.Second, 5*1024*1024, log),
		storage, cls, rec,
		800, 5*1024*1024, 45*time.Second, log,
	)
}

func uploadRequest(t *testing.T, name string) Request {
	return Request{
		UserID: 7,
		Source: Source{Kind: SourceUpload, Filename: "photo.png", Data: encodePNG(t, 200, 160)},
		Name:   name,
	}
}

func TestIngestUpload(t *testing.T) {
	storage := &fakeStorage{}
	recorder := &fakeRecorder{}
	svc := newTestService(storage, &fakeClassifier{generated: "Синяя футболка"}, recorder)

	result, err := svc.Ingest(context.Background(), uploadRequest(t, "Белая рубашка"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.ItemID)
	assert.Equal(t, "Белая рубашка", result.ItemName)
	assert.False(t, result.Deduped)
	assert.Equal(t, 1, storage.puts)
	require.Len(t, recorder.created, 1)

	rec := recorder.created[0]
	assert.Equal(t, int64(7), rec.UserID)
	assert.Equal(t, "t-shirt", rec.ItemType)
	assert.Len(t, rec.PhotoHash, 64)
	assert.Equal(t, `["синий"]`, rec.Colors)
}

func TestIngestGeneratedNameWhenMissing(t *testing.T) {
	recorder := &fakeRecorder{}
	svc := newTestService(&fakeStorage{}, &fakeClassifier{generated: "Синяя футболка"}, recorder)

	result, err := svc.Ingest(context.Background(), uploadRequest(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "Синяя футболка", result.ItemName)
}

func TestIngestRejectsBadName(t *testing.T) {
	storage := &fakeStorage{}
	svc := newTestService(storage, &fakeClassifier{}, &fakeRecorder{})

	_, err := svc.Ingest(context.Background(), uploadRequest(t, "random stuff"))
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeValidation))

	var perr *platformerrors.PlatformError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ReasonNameNotClothes, perr.Detail)
	assert.Zero(t, storage.puts, "nothing may be stored after a rejected name")
}

func TestIngestDeduplicates(t *testing.T) {
	storage := &fakeStorage{}
	recorder := &fakeRecorder{existing: &Record{ID: 42, ItemName: "Джинсы", PhotoURL: "/static/images/old.jpg"}}
	svc := newTestService(storage, &fakeClassifier{}, recorder)

	result, err := svc.Ingest(context.Background(), uploadRequest(t, ""))
	require.NoError(t, err)
	assert.True(t, result.Deduped)
	assert.Equal(t, int64(42), result.ItemID)
	assert.Equal(t, "/static/images/old.jpg", result.PhotoURL)
	assert.Zero(t, storage.puts, "duplicates must not hit storage")
	assert.Empty(t, recorder.created)
}

func TestIngestRejectsNonClothing(t *testing.T) {
	storage := &fakeStorage{}
	svc := newTestService(storage, &fakeClassifier{notClothing: true}, &fakeRecorder{})

	_, err := svc.Ingest(context.Background(), uploadRequest(t, ""))
	require.Error(t, err)

	var perr *platformerrors.PlatformError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ReasonNotClothing, perr.Detail)
	assert.Zero(t, storage.puts)
}

func TestIngestRollsBackStorageOnRecordFailure(t *testing.T) {
	storage := &fakeStorage{}
	recorder := &fakeRecorder{createErr: errors.New("deadlock")}
	svc := newTestService(storage, &fakeClassifier{generated: "Футболка"}, recorder)

	_, err := svc.Ingest(context.Background(), uploadRequest(t, ""))
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeDatabaseError))

	require.Len(t, storage.deletes, 1, "failed commit must delete the stored image")
	assert.Equal(t, "/static/images/deadbeef.jpg", storage.deletes[0])
}

func TestIngestUploadSurvivesClassifierOutage(t *testing.T) {
	recorder := &fakeRecorder{}
	cls := &fakeClassifier{
		checkErr:    errors.New("connection refused"),
		classifyErr: errors.New("connection refused"),
		nameErr:     errors.New("connection refused"),
	}
	svc := newTestService(&fakeStorage{}, cls, recorder)

	result, err := svc.Ingest(context.Background(), uploadRequest(t, ""))
	require.NoError(t, err, "direct uploads proceed when the classifier is down")
	assert.Equal(t, fallbackItemName, result.ItemName)

	require.Len(t, recorder.created, 1)
	assert.Equal(t, defaultItemType, recorder.created[0].ItemType)
}

func TestIngestURLRejectedOnClassifierOutage(t *testing.T) {
	payload := encodePNG(t, 200, 160)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	storage := &fakeStorage{}
	svc := newTestService(storage, &fakeClassifier{checkErr: errors.New("connection refused")}, &fakeRecorder{})

	_, err := svc.Ingest(context.Background(), Request{
		UserID: 7,
		Source: Source{Kind: SourceURL, ImageURL: server.URL + "/img.png"},
	})
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeUnavailable))
	assert.Zero(t, storage.puts)
}

func TestIngestHonorsDeadlineWithHangingClassifier(t *testing.T) {
	svc := newTestService(&fakeStorage{}, &fakeClassifier{hang: true}, &fakeRecorder{})

	req := uploadRequest(t, "")
	req.Deadline = 300 * time.Millisecond

	start := time.Now()
	_, err := svc.Ingest(context.Background(), req)
	elapsed := time.Since(start)

	// Upload mode treats a dead check as unchecked and keeps going, so
	// the call must come back shortly after the deadline either way.
	assert.Less(t, elapsed, req.Deadline+2*time.Second)
	_ = err
}
