package storage

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jobfit/backend/config"
	"github.com/jobfit/backend/models"
)

const analysesCollection = "job_analyses"

// FirestoreAnalysisStore keeps analyses in Firestore
type FirestoreAnalysisStore struct {
	client *firestore.Client
}

// NewFirestoreAnalysisStore creates a new Firestore-backed store
func NewFirestoreAnalysisStore(ctx context.Context, cfg *config.Config) (*FirestoreAnalysisStore, error) {
	client, err := firestore.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &FirestoreAnalysisStore{client: client}, nil
}

// Close closes the Firestore client
func (f *FirestoreAnalysisStore) Close() error {
	return f.client.Close()
}

// Save writes an analysis document
func (f *FirestoreAnalysisStore) Save(ctx context.Context, analysis *models.JobAnalysis) error {
	if analysis.ID == "" {
		analysis.ID = uuid.NewString()
	}
	if analysis.AnalyzedAt.IsZero() {
		analysis.AnalyzedAt = time.Now().UTC()
	}

	_, err := f.client.Collection(analysesCollection).Doc(analysis.ID).Set(ctx, analysis)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// Recent returns up to limit analyses, newest first
func (f *FirestoreAnalysisStore) Recent(ctx context.Context, limit int) ([]models.JobAnalysis, error) {
	query := f.client.Collection(analysesCollection).OrderBy("analyzed_at", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var analyses []models.JobAnalysis
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query analyses: %w", err)
		}

		var a models.JobAnalysis
		if err := doc.DataTo(&a); err != nil {
			return nil, fmt.Errorf("failed to parse analysis data: %w", err)
		}
		a.ID = doc.Ref.ID
		analyses = append(analyses, a)
	}

	return analyses, nil
}

// Get retrieves an analysis by ID
func (f *FirestoreAnalysisStore) Get(ctx context.Context, id string) (*models.JobAnalysis, error) {
	doc, err := f.client.Collection(analysesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	var a models.JobAnalysis
	if err := doc.DataTo(&a); err != nil {
		return nil, fmt.Errorf("failed to parse analysis data: %w", err)
	}

	a.ID = doc.Ref.ID
	return &a, nil
}
