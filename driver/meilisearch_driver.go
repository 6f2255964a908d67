package driver

import (
	"context"
	"encoding/json"
	"time"

	"github.com/meilisearch/meilisearch-go"
)

// SearchableAttributes are the document fields the index matches against.
var SearchableAttributes = []string{"title", "text", "metadata"}

type MeilisearchDriver struct {
	client      meilisearch.ServiceManager
	index       meilisearch.IndexManager
	indexName   string
	taskTimeout time.Duration
}

func NewMeilisearchDriver(client meilisearch.ServiceManager, indexName string, taskTimeout time.Duration) *MeilisearchDriver {
	if taskTimeout <= 0 {
		taskTimeout = 15 * time.Second
	}
	return &MeilisearchDriver{
		client:      client,
		index:       client.Index(indexName),
		indexName:   indexName,
		taskTimeout: taskTimeout,
	}
}

func (d *MeilisearchDriver) IndexDocuments(ctx context.Context, docs []SearchDocumentDriver) error {
	if len(docs) == 0 {
		return nil
	}

	task, err := d.index.AddDocuments(docs)
	if err != nil {
		return &DriverError{
			Op:  "IndexDocuments",
			Err: err.Error(),
		}
	}

	if _, err = d.index.WaitForTask(task.TaskUID, d.taskTimeout); err != nil {
		return &DriverError{
			Op:  "IndexDocuments",
			Err: "failed to wait for indexing task: " + err.Error(),
		}
	}

	return nil
}

func (d *MeilisearchDriver) DeleteDocuments(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		task, err := d.index.DeleteDocument(id)
		if err != nil {
			return &DriverError{
				Op:  "DeleteDocuments",
				Err: err.Error(),
			}
		}

		if _, err = d.index.WaitForTask(task.TaskUID, d.taskTimeout); err != nil {
			return &DriverError{
				Op:  "DeleteDocuments",
				Err: "failed to wait for delete task: " + err.Error(),
			}
		}
	}

	return nil
}

// Search returns raw hits and the estimated total. The engine's own
// highlighting is not requested.
func (d *MeilisearchDriver) Search(ctx context.Context, query string, offset, limit int64) ([]SearchHit, int64, error) {
	searchRequest := &meilisearch.SearchRequest{
		Query:  query,
		Offset: offset,
		Limit:  limit,
	}

	result, err := d.index.Search(query, searchRequest)
	if err != nil {
		return nil, 0, &DriverError{
			Op:  "Search",
			Err: err.Error(),
		}
	}

	hits := make([]SearchHit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		decoded, err := decodeHit(hit)
		if err != nil {
			return nil, 0, &DriverError{
				Op:  "Search",
				Err: "failed to decode hit: " + err.Error(),
			}
		}
		hits = append(hits, decoded)
	}

	return hits, result.EstimatedTotalHits, nil
}

func (d *MeilisearchDriver) EnsureIndex(ctx context.Context) error {
	if _, err := d.index.FetchInfo(); err != nil {
		task, err := d.client.CreateIndex(&meilisearch.IndexConfig{
			Uid:        d.indexName,
			PrimaryKey: "id",
		})
		if err != nil {
			return &DriverError{
				Op:  "EnsureIndex",
				Err: "failed to create index: " + err.Error(),
			}
		}

		if _, err = d.index.WaitForTask(task.TaskUID, d.taskTimeout); err != nil {
			return &DriverError{
				Op:  "EnsureIndex",
				Err: "failed to wait for index creation: " + err.Error(),
			}
		}
	}

	task, err := d.index.UpdateSearchableAttributes(&SearchableAttributes)
	if err != nil {
		return &DriverError{
			Op:  "EnsureIndex",
			Err: "failed to set searchable attributes: " + err.Error(),
		}
	}

	if _, err = d.index.WaitForTask(task.TaskUID, d.taskTimeout); err != nil {
		return &DriverError{
			Op:  "EnsureIndex",
			Err: "failed to wait for settings update: " + err.Error(),
		}
	}

	return nil
}

func (d *MeilisearchDriver) Healthy() bool {
	return d.client.IsHealthy()
}

// decodeHit normalizes a hit of any JSON-compatible shape into a SearchHit.
func decodeHit(hit any) (SearchHit, error) {
	raw, err := json.Marshal(hit)
	if err != nil {
		return nil, err
	}

	var decoded SearchHit
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	if decoded == nil {
		decoded = SearchHit{}
	}
	return decoded, nil
}
