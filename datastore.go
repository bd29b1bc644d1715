package cianparser

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/datastore"
	"google.golang.org/api/option"
)

// DatastoreSink stores each listing as a new entity of kind, under an incomplete key.
type DatastoreSink struct {
	client *datastore.Client
	kind   string
}

func NewDatastoreSink(ctx context.Context, projectID, kind string, opts ...option.ClientOption) (*DatastoreSink, error) {
	client, err := datastore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Datastore client: %w", err)
	}
	return &DatastoreSink{client: client, kind: kind}, nil
}

func newDatastoreSinkFromConfig(ctx context.Context, config *configService, kind string) (*DatastoreSink, error) {
	projectID, err := resolveProjectID(config)
	if err != nil {
		return nil, err
	}
	return NewDatastoreSink(ctx, projectID, kind, credentialOptions(config)...)
}

func (s *DatastoreSink) Save(ctx context.Context, listing *Listing) error {
	props := listingProperties(listing)
	if _, err := s.client.Put(ctx, datastore.IncompleteKey(s.kind, nil), &props); err != nil {
		return fmt.Errorf("put %s: %w", s.kind, err)
	}
	return nil
}

// Listings returns one page of stored listings ordered by creation time. Pages start at 1.
func (s *DatastoreSink) Listings(ctx context.Context, page int) ([]Listing, error) {
	query := datastore.NewQuery(s.kind).
		Order("created_at").
		Offset((page - 1) * exportPageSize).
		Limit(exportPageSize)

	var entities []datastore.PropertyList
	if _, err := s.client.GetAll(ctx, query, &entities); err != nil {
		return nil, fmt.Errorf("query %s: %w", s.kind, err)
	}

	listings := make([]Listing, 0, len(entities))
	for _, props := range entities {
		listing, err := listingFromProperties(props)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.kind, err)
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

func (s *DatastoreSink) Close() error {
	return s.client.Close()
}

// listingProperties flattens a listing into the same keys as the Mongo document. Datastore has no
// int type, so counts are widened to int64.
func listingProperties(listing *Listing) datastore.PropertyList {
	columns := listing.columns()
	props := make(datastore.PropertyList, 0, len(columns))
	for _, c := range columns {
		value := c.Value
		if n, ok := value.(int); ok {
			value = int64(n)
		}
		props = append(props, datastore.Property{Name: c.Key, Value: value})
	}
	return props
}

// listingFromProperties reverses listingProperties. Properties are keyed like the JSON document, so
// the entity is decoded through it.
func listingFromProperties(props datastore.PropertyList) (Listing, error) {
	fields := make(map[string]interface{}, len(props))
	for _, p := range props {
		fields[p.Name] = p.Value
	}

	var listing Listing
	data, err := json.Marshal(fields)
	if err != nil {
		return listing, err
	}
	err = json.Unmarshal(data, &listing)
	return listing, err
}
