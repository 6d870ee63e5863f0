// Package index is the thin search-index client: it pushes projected
// documents into Weaviate and owns nothing but the wire concerns
// (schema, batching, deletion). All document shaping happens in the
// search package.
package index

import (
	"context"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	wvmodels "github.com/weaviate/weaviate/entities/models"

	"github.com/testsabirweb/slack_archive/pkg/search"
)

// ClassName is the Weaviate class holding archive messages.
const ClassName = "ArchiveMessage"

// docNamespace is the fixed namespace for deriving Weaviate object
// UUIDs from document IDs. Weaviate requires UUID object IDs; a v5 UUID
// over the deterministic document key keeps upserts idempotent.
var docNamespace = uuid.MustParse("8a4097d1-6a34-4e52-9a7e-2c58ab1287f0")

// ObjectID maps a document ID to its deterministic Weaviate object ID.
func ObjectID(docID string) string {
	return uuid.NewSHA1(docNamespace, []byte(docID)).String()
}

// Client interface for the search-index sink.
type Client interface {
	// Initialize sets up the index schema if it does not exist.
	Initialize(ctx context.Context) error

	// UpsertBatch writes one batch of documents; re-writing a batch
	// with the same document IDs replaces, never duplicates.
	UpsertBatch(ctx context.Context, docs []search.Document) error

	// DeleteIndex drops the whole index class.
	DeleteIndex(ctx context.Context) error

	// HealthCheck verifies the connection to the index.
	HealthCheck(ctx context.Context) error
}

// WeaviateClient implements Client against a Weaviate instance.
type WeaviateClient struct {
	client *weaviate.Client
}

// NewWeaviateClient creates a client for the given endpoint. An empty
// apiKey skips authentication.
func NewWeaviateClient(scheme, host, apiKey string) (*WeaviateClient, error) {
	if host == "" {
		return nil, fmt.Errorf("weaviate host cannot be empty")
	}

	cfg := weaviate.Config{
		Scheme: scheme,
		Host:   host,
	}
	if apiKey != "" {
		cfg.AuthConfig = auth.ApiKey{Value: apiKey}
	}

	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %w", err)
	}

	return &WeaviateClient{client: client}, nil
}

// Initialize creates the ArchiveMessage class if it does not exist.
// The class has no vectorizer; search runs BM25 over body and context.
func (c *WeaviateClient) Initialize(ctx context.Context) error {
	exists, err := c.client.Schema().ClassExistenceChecker().
		WithClassName(ClassName).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check class existence: %w", err)
	}
	if exists {
		return nil
	}

	classObj := &wvmodels.Class{
		Class:       ClassName,
		Description: "One archived chat message with thread context",
		Vectorizer:  "none",
		Properties: []*wvmodels.Property{
			{
				Name:        "docId",
				DataType:    []string{"string"},
				Description: "Stable document key: <channel>:<ts>",
			},
			{
				Name:        "channel",
				DataType:    []string{"string"},
				Description: "Channel ID",
			},
			{
				Name:        "channelName",
				DataType:    []string{"string"},
				Description: "Channel display name",
			},
			{
				Name:        "author",
				DataType:    []string{"string"},
				Description: "Author display name",
			},
			{
				Name:        "body",
				DataType:    []string{"text"},
				Description: "Message body",
			},
			{
				Name:        "ts",
				DataType:    []string{"string"},
				Description: "Message timestamp, the ordering key",
			},
			{
				Name:        "threadRootTs",
				DataType:    []string{"string"},
				Description: "Thread root timestamp, set on replies",
			},
			{
				Name:        "context",
				DataType:    []string{"text"},
				Description: "Snippet of the thread root body, set on replies",
			},
		},
	}

	if err := c.client.Schema().ClassCreator().
		WithClass(classObj).
		Do(ctx); err != nil {
		return fmt.Errorf("failed to create class schema: %w", err)
	}

	return nil
}

// UpsertBatch writes one projected batch. Object IDs derive from the
// document IDs, so repeated runs replace in place.
func (c *WeaviateClient) UpsertBatch(ctx context.Context, docs []search.Document) error {
	if len(docs) == 0 {
		return nil
	}

	objects := make([]*wvmodels.Object, 0, len(docs))
	for _, doc := range docs {
		objects = append(objects, &wvmodels.Object{
			Class: ClassName,
			ID:    strfmt.UUID(ObjectID(doc.ID)),
			Properties: map[string]interface{}{
				"docId":        doc.ID,
				"channel":      doc.Channel,
				"channelName":  doc.ChannelName,
				"author":       doc.Author,
				"body":         doc.Body,
				"ts":           doc.TS,
				"threadRootTs": doc.ThreadRootTS,
				"context":      doc.Context,
			},
		})
	}

	resp, err := c.client.Batch().ObjectsBatcher().
		WithObjects(objects...).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert batch: %w", err)
	}

	for _, obj := range resp {
		if obj.Result != nil && obj.Result.Errors != nil && len(obj.Result.Errors.Error) > 0 {
			return fmt.Errorf("failed to upsert object %s: %s", obj.ID, obj.Result.Errors.Error[0].Message)
		}
	}

	return nil
}

// DeleteIndex drops the class and everything in it.
func (c *WeaviateClient) DeleteIndex(ctx context.Context) error {
	if err := c.client.Schema().ClassDeleter().
		WithClassName(ClassName).
		Do(ctx); err != nil {
		return fmt.Errorf("failed to delete class: %w", err)
	}
	return nil
}

// HealthCheck verifies the Weaviate connection.
func (c *WeaviateClient) HealthCheck(ctx context.Context) error {
	ready, err := c.client.Misc().ReadyChecker().Do(ctx)
	if err != nil {
		return fmt.Errorf("weaviate health check failed: %w", err)
	}
	if !ready {
		return fmt.Errorf("weaviate is not ready")
	}
	return nil
}
