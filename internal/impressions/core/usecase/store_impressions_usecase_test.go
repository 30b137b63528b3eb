package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ctr-insight-service/internal/impressions/core/domain"
	"ctr-insight-service/internal/impressions/core/usecase"
)

// fakeArchive fakes the ImpressionArchivePort.
type fakeArchive struct {
	InsertFn func(ctx context.Context, rec *domain.ImpressionRecord) (bool, error)
	inserted []*domain.ImpressionRecord
}

func (f *fakeArchive) InsertImpression(ctx context.Context, rec *domain.ImpressionRecord) (bool, error) {
	f.inserted = append(f.inserted, rec)
	if f.InsertFn != nil {
		return f.InsertFn(ctx, rec)
	}
	return true, nil
}

func (f *fakeArchive) FetchRows(ctx context.Context, limit int) ([]domain.RawRow, error) {
	return nil, nil
}

func TestStoreImpression_Success(t *testing.T) {
	archive := &fakeArchive{}
	uc := usecase.NewStoreImpressionsUseCase(archive)

	in := usecase.StoreImpressionInput{
		ID:        "imp-1",
		GroupKey:  "app_01",
		UserID:    "u-1",
		Timestamp: time.Now().Add(-time.Hour).Unix(),
		Click:     true,
	}

	created, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true")
	}
	if len(archive.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(archive.inserted))
	}
	if archive.inserted[0].Attributes == nil {
		t.Fatalf("attributes should be initialized, got nil")
	}
}

func TestStoreImpression_InvalidInput(t *testing.T) {
	archive := &fakeArchive{}
	uc := usecase.NewStoreImpressionsUseCase(archive)

	_, err := uc.Execute(context.Background(), usecase.StoreImpressionInput{
		GroupKey: "app_01",
	})
	if !errors.Is(err, usecase.ErrInvalidImpression) {
		t.Fatalf("expected ErrInvalidImpression, got %v", err)
	}
	if len(archive.inserted) != 0 {
		t.Fatalf("archive should not be called on invalid input")
	}
}

func TestStoreImpression_FutureTimestamp(t *testing.T) {
	uc := usecase.NewStoreImpressionsUseCase(&fakeArchive{})

	_, err := uc.Execute(context.Background(), usecase.StoreImpressionInput{
		ID:        "imp-1",
		GroupKey:  "app_01",
		Timestamp: time.Now().Add(time.Hour).Unix(),
	})
	if !errors.Is(err, usecase.ErrFutureTimestamp) {
		t.Fatalf("expected ErrFutureTimestamp, got %v", err)
	}
}

func TestBulkStore_CountsDuplicates(t *testing.T) {
	archive := &fakeArchive{
		InsertFn: func(ctx context.Context, rec *domain.ImpressionRecord) (bool, error) {
			return rec.ID != "dup", nil
		},
	}
	uc := usecase.NewStoreImpressionsUseCase(archive)

	res, err := uc.BulkStore(context.Background(), usecase.BulkStoreImpressionsInput{
		Impressions: []usecase.StoreImpressionInput{
			{ID: "a", GroupKey: "g", Timestamp: 100},
			{ID: "dup", GroupKey: "g", Timestamp: 100},
			{ID: "b", GroupKey: "g", Timestamp: 100},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Created != 2 || res.Duplicates != 1 {
		t.Fatalf("expected created=2 duplicates=1, got %+v", res)
	}
}

func TestBulkStore_ValidatesBeforeStoring(t *testing.T) {
	archive := &fakeArchive{}
	uc := usecase.NewStoreImpressionsUseCase(archive)

	_, err := uc.BulkStore(context.Background(), usecase.BulkStoreImpressionsInput{
		Impressions: []usecase.StoreImpressionInput{
			{ID: "a", GroupKey: "g", Timestamp: 100},
			{ID: "", GroupKey: "g", Timestamp: 100}, // invalid
		},
	})
	if !errors.Is(err, usecase.ErrInvalidImpression) {
		t.Fatalf("expected ErrInvalidImpression, got %v", err)
	}
	if len(archive.inserted) != 0 {
		t.Fatalf("nothing should be stored when the batch fails validation")
	}
}
