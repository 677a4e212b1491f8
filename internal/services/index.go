package services

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/logger"
	"alfredoptarigan/ai-interviewer/internal/models"
)

const (
	transcriptChunkSize    = 800
	transcriptChunkOverlap = 100
	embeddingSize          = 768
	excerptLength          = 240
)

// InterviewIndex stores transcript chunks as vectors so recruiters can find
// interviews by what was said in them.
type InterviewIndex interface {
	EnsureCollection(ctx context.Context) error
	IndexInterview(ctx context.Context, interview *models.Interview) error
	RemoveInterview(ctx context.Context, interviewID uuid.UUID) error
	Search(ctx context.Context, query string, limit int) ([]models.InterviewSearchHit, error)
}

type qdrantIndex struct {
	client     *qdrant.Client
	collection string
	gemini     GeminiService
	chunker    TextChunker
	log        *zap.Logger
}

func NewInterviewIndex(cfg config.QdrantConfig, gemini GeminiService, log *zap.Logger) (InterviewIndex, error) {
	if gemini == nil {
		return nil, unavailable("interview index needs gemini embeddings")
	}

	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid qdrant url: %w", err)
	}

	// The go client speaks gRPC, which listens on 6334 unless told otherwise.
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   parsed.Hostname(),
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantIndex{
		client:     client,
		collection: cfg.Collection,
		gemini:     gemini,
		chunker:    NewTextChunker(),
		log:        logger.WithFields(log, zap.String("component", "index"), zap.String("collection", cfg.Collection)),
	}, nil
}

func (q *qdrantIndex) EnsureCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     embeddingSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.log.Info("qdrant collection created")
	return nil
}

// IndexInterview replaces every chunk previously stored for the interview.
func (q *qdrantIndex) IndexInterview(ctx context.Context, interview *models.Interview) error {
	if !interview.HasTranscript() {
		return nil
	}

	chunks := q.chunker.ChunkText(*interview.Transcript, transcriptChunkSize, transcriptChunkOverlap)
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := q.gemini.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(chunkPointID(interview.ID, i).String()),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"interview_id":    interview.ID.String(),
				"job_position_id": interview.JobPositionID.String(),
				"chunk":           i,
				"text":            chunk,
			}),
		})
	}

	if err := q.RemoveInterview(ctx, interview.ID); err != nil {
		return err
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert transcript chunks: %w", err)
	}

	q.log.Debug("interview indexed",
		zap.String(logger.FieldInterviewID, interview.ID.String()),
		zap.Int("chunks", len(points)))
	return nil
}

func (q *qdrantIndex) RemoveInterview(ctx context.Context, interviewID uuid.UUID) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{
						qdrant.NewMatch("interview_id", interviewID.String()),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to remove interview chunks: %w", err)
	}
	return nil
}

// MaxSearchLimit caps how many interviews one search may return.
const MaxSearchLimit = 50

// Search returns at most limit interviews, each represented by its best
// matching chunk.
func (q *qdrantIndex) Search(ctx context.Context, query string, limit int) ([]models.InterviewSearchHit, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	embedding, err := q.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collection,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit * 3)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search transcripts: %w", err)
	}

	best := make(map[string]models.InterviewSearchHit)
	for _, point := range points {
		hit := models.InterviewSearchHit{
			InterviewID:   payloadString(point.Payload, "interview_id"),
			JobPositionID: payloadString(point.Payload, "job_position_id"),
			Score:         point.Score,
			Excerpt:       logger.TruncateForLog(payloadString(point.Payload, "text"), excerptLength),
		}
		if hit.InterviewID == "" {
			continue
		}
		if prev, ok := best[hit.InterviewID]; !ok || hit.Score > prev.Score {
			best[hit.InterviewID] = hit
		}
	}

	return rankHits(best, limit), nil
}

func rankHits(best map[string]models.InterviewSearchHit, limit int) []models.InterviewSearchHit {
	hits := make([]models.InterviewSearchHit, 0, len(best))
	for _, hit := range best {
		hits = append(hits, hit)
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score == hits[j].Score {
			return strings.Compare(hits[i].InterviewID, hits[j].InterviewID) < 0
		}
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// chunkPointID is stable per interview and chunk so reindexing overwrites.
func chunkPointID(interviewID uuid.UUID, chunk int) uuid.UUID {
	return uuid.NewSHA1(interviewID, []byte(strconv.Itoa(chunk)))
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	value, ok := payload[key]
	if !ok {
		return ""
	}
	if v, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
		return v.StringValue
	}
	return ""
}
