package usecase

import (
	"context"
	"errors"
	"time"

	"ctr-insight-service/internal/impressions/core/domain"
	"ctr-insight-service/internal/impressions/core/ports"
)

var (
	ErrInvalidImpression = errors.New("invalid impression")
	ErrFutureTimestamp   = errors.New("impression timestamp cannot be in the future")
)

type StoreImpressionsUseCase struct {
	archive ports.ImpressionArchivePort
}

func NewStoreImpressionsUseCase(archive ports.ImpressionArchivePort) *StoreImpressionsUseCase {
	return &StoreImpressionsUseCase{archive: archive}
}

type StoreImpressionInput struct {
	ID         string
	GroupKey   string
	UserID     string
	Timestamp  int64
	Click      bool
	Attributes map[string]string
}

func (uc *StoreImpressionsUseCase) Execute(ctx context.Context, in StoreImpressionInput) (bool, error) {
	if err := uc.validateInput(in); err != nil {
		return false, err
	}

	if in.Attributes == nil {
		in.Attributes = map[string]string{}
	}

	rec := &domain.ImpressionRecord{
		ID:         in.ID,
		Timestamp:  time.Unix(in.Timestamp, 0).UTC(),
		UserID:     in.UserID,
		GroupKey:   in.GroupKey,
		Click:      in.Click,
		Attributes: in.Attributes,
	}

	created, err := uc.archive.InsertImpression(ctx, rec)
	if err != nil {
		return false, err
	}

	return created, nil
}

type BulkStoreImpressionsInput struct {
	Impressions []StoreImpressionInput
}

type BulkStoreImpressionsResult struct {
	Created    int
	Duplicates int
}

func (uc *StoreImpressionsUseCase) BulkStore(ctx context.Context, in BulkStoreImpressionsInput) (BulkStoreImpressionsResult, error) {
	var res BulkStoreImpressionsResult

	for _, imp := range in.Impressions {
		if err := uc.validateInput(imp); err != nil {
			return res, err
		}
	}

	for _, imp := range in.Impressions {
		ok, err := uc.Execute(ctx, imp)
		if err != nil {
			return res, err
		}

		if ok {
			res.Created++
		} else {
			res.Duplicates++
		}
	}

	return res, nil
}

func (uc *StoreImpressionsUseCase) validateInput(in StoreImpressionInput) error {
	if in.ID == "" || in.GroupKey == "" {
		return ErrInvalidImpression
	}

	now := time.Now().Unix()
	if in.Timestamp > now {
		return ErrFutureTimestamp
	}

	return nil
}
