package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ai-tutor-backend/models"
)

// MongoDocStore persists documents in the "documents" collection for
// multi-instance deployments.
type MongoDocStore struct {
	collection *mongo.Collection
}

func NewMongoDocStore(client *mongo.Client, dbName string) *MongoDocStore {
	return &MongoDocStore{
		collection: client.Database(dbName).Collection("documents"),
	}
}

func (s *MongoDocStore) Save(ctx context.Context, doc *models.Document) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

func (s *MongoDocStore) Get(ctx context.Context, docID string) (*models.Document, error) {
	var doc models.Document
	err := s.collection.FindOne(ctx, bson.M{"_id": docID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

func (s *MongoDocStore) List(ctx context.Context) ([]models.DocumentSummary, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "name": 1, "status": 1, "page_contexts.page_id": 1}).
		SetSort(bson.M{"_id": 1})

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []models.DocumentSummary
	for cursor.Next(ctx) {
		var doc models.Document
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		summaries = append(summaries, models.DocumentSummary{
			ID:     doc.ID,
			Name:   doc.Name,
			Status: doc.Status,
			Pages:  doc.PageCount(),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return summaries, nil
}

func (s *MongoDocStore) Delete(ctx context.Context, docID string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": docID})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
