package gateway

import (
	"context"
	"search-highlighter/domain"
	"search-highlighter/driver"
	"time"
)

type RecordDriver interface {
	GetRecords(ctx context.Context, lastCreatedAt *time.Time, lastID string, limit int) ([]*driver.RecordModel, *time.Time, string, error)
	GetRecordsForward(ctx context.Context, lastCreatedAt time.Time, lastID string, limit int) ([]*driver.RecordModel, *time.Time, string, error)
	GetLatestCreatedAt(ctx context.Context) (*time.Time, error)
	GetRecordsByIDs(ctx context.Context, ids []string) ([]*driver.RecordModel, error)
}

type RecordRepositoryGateway struct {
	driver RecordDriver
}

func NewRecordRepositoryGateway(driver RecordDriver) *RecordRepositoryGateway {
	return &RecordRepositoryGateway{
		driver: driver,
	}
}

func (g *RecordRepositoryGateway) GetRecords(ctx context.Context, lastCreatedAt *time.Time, lastID string, limit int) ([]*domain.Record, *time.Time, string, error) {
	models, newLastCreatedAt, newLastID, err := g.driver.GetRecords(ctx, lastCreatedAt, lastID, limit)
	if err != nil {
		return nil, nil, "", &domain.RepositoryError{
			Op:  "GetRecords",
			Err: err.Error(),
		}
	}

	records, err := g.convertAll("GetRecords", models)
	if err != nil {
		return nil, nil, "", err
	}
	return records, newLastCreatedAt, newLastID, nil
}

func (g *RecordRepositoryGateway) GetRecordsForward(ctx context.Context, lastCreatedAt time.Time, lastID string, limit int) ([]*domain.Record, *time.Time, string, error) {
	models, newLastCreatedAt, newLastID, err := g.driver.GetRecordsForward(ctx, lastCreatedAt, lastID, limit)
	if err != nil {
		return nil, nil, "", &domain.RepositoryError{
			Op:  "GetRecordsForward",
			Err: err.Error(),
		}
	}

	records, err := g.convertAll("GetRecordsForward", models)
	if err != nil {
		return nil, nil, "", err
	}
	return records, newLastCreatedAt, newLastID, nil
}

func (g *RecordRepositoryGateway) GetLatestCreatedAt(ctx context.Context) (*time.Time, error) {
	latest, err := g.driver.GetLatestCreatedAt(ctx)
	if err != nil {
		return nil, &domain.RepositoryError{
			Op:  "GetLatestCreatedAt",
			Err: err.Error(),
		}
	}
	return latest, nil
}

func (g *RecordRepositoryGateway) GetRecordsByIDs(ctx context.Context, ids []string) ([]*domain.Record, error) {
	models, err := g.driver.GetRecordsByIDs(ctx, ids)
	if err != nil {
		return nil, &domain.RepositoryError{
			Op:  "GetRecordsByIDs",
			Err: err.Error(),
		}
	}
	return g.convertAll("GetRecordsByIDs", models)
}

func (g *RecordRepositoryGateway) convertAll(op string, models []*driver.RecordModel) ([]*domain.Record, error) {
	records := make([]*domain.Record, 0, len(models))
	for _, model := range models {
		record, err := domain.NewRecord(model.ID, model.Title, model.Body, model.URL, model.Metadata, model.CreatedAt)
		if err != nil {
			return nil, &domain.RepositoryError{
				Op:  op,
				Err: "failed to convert record to domain: id=" + model.ID + ", " + err.Error(),
			}
		}
		records = append(records, record)
	}
	return records, nil
}
