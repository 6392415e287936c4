package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"assistgen-gateway/internal/config"
	"assistgen-gateway/internal/models"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type QdrantClient struct {
	pointsClient      pb.PointsClient
	collectionsClient pb.CollectionsClient
	collection        string
	conn              *grpc.ClientConn
	logger            zerolog.Logger
}

func NewQdrantClient(cfg *config.QdrantConfig, logger zerolog.Logger) (*QdrantClient, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	return &QdrantClient{
		pointsClient:      pb.NewPointsClient(conn),
		collectionsClient: pb.NewCollectionsClient(conn),
		collection:        cfg.Collection,
		conn:              conn,
		logger:            logger,
	}, nil
}

func (q *QdrantClient) Close() error {
	return q.conn.Close()
}

// EnsureCollection creates the chunk collection with the given vector size
// if it does not exist yet. Concurrent creation is tolerated by re-checking
// existence after a failed create.
func (q *QdrantClient) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	exists, err := q.collectionExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = q.collectionsClient.Create(ctx, &pb.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     vectorSize,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		if exists, checkErr := q.collectionExists(ctx); checkErr == nil && exists {
			return nil
		}
		return fmt.Errorf("failed to create collection %s: %w", q.collection, err)
	}

	q.logger.Info().Str("collection", q.collection).Uint64("vector_size", vectorSize).Msg("Created qdrant collection")
	return nil
}

func (q *QdrantClient) collectionExists(ctx context.Context) (bool, error) {
	resp, err := q.collectionsClient.CollectionExists(ctx, &pb.CollectionExistsRequest{
		CollectionName: q.collection,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check collection %s: %w", q.collection, err)
	}
	return resp.GetResult().GetExists(), nil
}

// UpsertChunks writes embedded chunks to the collection, waiting for the
// write to be applied.
func (q *QdrantClient) UpsertChunks(ctx context.Context, points []models.ChunkPoint) error {
	if len(points) == 0 {
		return nil
	}

	wait := true
	pbPoints := make([]*pb.PointStruct, 0, len(points))
	for _, p := range points {
		pbPoints = append(pbPoints, &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: p.ID},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: p.Vector},
				},
			},
			Payload: map[string]*pb.Value{
				"index_id":    {Kind: &pb.Value_StringValue{StringValue: p.IndexID}},
				"document":    {Kind: &pb.Value_StringValue{StringValue: p.Document}},
				"chunk_index": {Kind: &pb.Value_IntegerValue{IntegerValue: int64(p.ChunkIndex)}},
				"content":     {Kind: &pb.Value_StringValue{StringValue: p.Content}},
			},
		})
	}

	_, err := q.pointsClient.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: q.collection,
		Wait:           &wait,
		Points:         pbPoints,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert %d points: %w", len(points), err)
	}

	return nil
}

// SearchChunks returns the closest chunks of one index to the query vector.
func (q *QdrantClient) SearchChunks(ctx context.Context, indexID string, vector []float32, limit uint64) ([]models.ScoredChunk, error) {
	resp, err := q.pointsClient.Search(ctx, &pb.SearchPoints{
		CollectionName: q.collection,
		Vector:         vector,
		Limit:          limit,
		Filter:         indexFilter(indexID),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search index %s: %w", indexID, err)
	}

	chunks := make([]models.ScoredChunk, 0, len(resp.GetResult()))
	for _, hit := range resp.GetResult() {
		payload := hit.GetPayload()
		chunks = append(chunks, models.ScoredChunk{
			Content:  payload["content"].GetStringValue(),
			Document: payload["document"].GetStringValue(),
			Score:    hit.GetScore(),
		})
	}

	return chunks, nil
}

// DeleteIndexVectors deletes all vectors associated with an index.
func (q *QdrantClient) DeleteIndexVectors(ctx context.Context, indexID string) error {
	_, err := q.pointsClient.Delete(ctx, &pb.DeletePoints{
		CollectionName: q.collection,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Filter{
				Filter: indexFilter(indexID),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete vectors for index %s: %w", indexID, err)
	}

	return nil
}

func (q *QdrantClient) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := q.collectionsClient.List(ctx, &pb.ListCollectionsRequest{}); err != nil {
		return fmt.Errorf("qdrant health check failed: %w", err)
	}
	return nil
}

func indexFilter(indexID string) *pb.Filter {
	return &pb.Filter{
		Must: []*pb.Condition{
			{
				ConditionOneOf: &pb.Condition_Field{
					Field: &pb.FieldCondition{
						Key: "index_id",
						Match: &pb.Match{
							MatchValue: &pb.Match_Keyword{
								Keyword: indexID,
							},
						},
					},
				},
			},
		},
	}
}
