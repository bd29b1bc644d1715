package cianparser

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/compute/metadata"
	"github.com/PuerkitoBio/goquery"
	"google.golang.org/api/option"
)

// HtmlArchiver keeps the raw HTML of crawled detail pages.
type HtmlArchiver interface {
	Archive(ctx context.Context, url string, doc *goquery.Document) error
}

type BigQueryData struct {
	URL       string    `bigquery:"url"`
	HTMLData  string    `bigquery:"html_data"`
	CreatedAt time.Time `bigquery:"created_at"`
}

// rowInserter is the part of *bigquery.Inserter the archiver needs.
type rowInserter interface {
	Put(ctx context.Context, src interface{}) error
}

// BigQueryArchiver streams one row per detail page into BIGQUERY_DATASET.BIGQUERY_TABLE.
type BigQueryArchiver struct {
	client   *bigquery.Client
	inserter rowInserter
	table    string
}

func NewBigQueryArchiver(ctx context.Context, config *configService) (*BigQueryArchiver, error) {
	projectID, err := resolveProjectID(config)
	if err != nil {
		return nil, err
	}
	dataset := config.EnvString("BIGQUERY_DATASET")
	table := config.EnvString("BIGQUERY_TABLE")
	if dataset == "" || table == "" {
		return nil, fmt.Errorf("BIGQUERY_DATASET and BIGQUERY_TABLE must be set")
	}

	client, err := bigquery.NewClient(ctx, projectID, credentialOptions(config)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery client: %w", err)
	}
	return &BigQueryArchiver{
		client:   client,
		inserter: client.Dataset(dataset).Table(table).Inserter(),
		table:    fmt.Sprintf("%s.%s.%s", projectID, dataset, table),
	}, nil
}

func (a *BigQueryArchiver) Archive(ctx context.Context, url string, doc *goquery.Document) error {
	html, err := doc.Html()
	if err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	rows := []*BigQueryData{
		{
			URL:       url,
			HTMLData:  html,
			CreatedAt: time.Now(), // partitioning column
		},
	}
	if err := a.inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", a.table, err)
	}
	return nil
}

func (a *BigQueryArchiver) Close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

// resolveProjectID prefers PROJECT_ID and falls back to the GCE metadata server.
func resolveProjectID(config *configService) (string, error) {
	if projectID := config.EnvString("PROJECT_ID"); projectID != "" {
		return projectID, nil
	}
	if !metadata.OnGCE() {
		return "", fmt.Errorf("PROJECT_ID is not set and not running on GCE")
	}
	projectID, err := metadata.ProjectID()
	if err != nil {
		return "", fmt.Errorf("failed to get project ID: %w", err)
	}
	return projectID, nil
}

// credentialOptions points GCP clients at GCP_CREDENTIALS_PATH when it is set.
func credentialOptions(config *configService) []option.ClientOption {
	if credentials := config.EnvString("GCP_CREDENTIALS_PATH"); credentials != "" {
		return []option.ClientOption{option.WithCredentialsFile(credentials)}
	}
	return nil
}
