package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/facesocial/facesocial-backend/internal/platform/logger"
	"github.com/facesocial/facesocial-backend/internal/repos"
	"github.com/facesocial/facesocial-backend/internal/types"
)

// FaceMatchService finds the registered user whose stored embeddings best
// match a freshly captured one. The scan is an exhaustive pairwise walk:
// every stored embedding of every enrolled user is compared remotely, one
// call at a time.
type FaceMatchService interface {
	MatchEmbedding(ctx context.Context, embedding []float64) (*types.MatchResult, error)
}

type faceMatchService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	faceAI   FaceAIClient
}

func NewFaceMatchService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, faceAI FaceAIClient) FaceMatchService {
	serviceLog := log.With("service", "FaceMatchService")
	return &faceMatchService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
		faceAI:   faceAI,
	}
}

// MatchEmbedding returns the single candidate with the strictly highest
// confidence among comparisons the AI service flagged as the same person,
// or nil when nobody matched. A failed compare call skips that candidate
// only; if every call fails the result is still "no match", not an error.
func (fm *faceMatchService) MatchEmbedding(ctx context.Context, embedding []float64) (*types.MatchResult, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("empty embedding")
	}

	users, err := fm.userRepo.GetWithFaceEmbeddings(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error loading enrolled users: %w", err)
	}

	var matched *types.MatchResult
	highestConfidence := 0.0
	for _, user := range users {
		vectors, decErr := user.EmbeddingVectors()
		if decErr != nil {
			// Corrupt stored embeddings disqualify this user, nobody else.
			fm.log.Warn("Skipping user with undecodable embeddings", "user_id", user.ID, "error", decErr)
			continue
		}
		for _, stored := range vectors {
			result, cmpErr := fm.faceAI.Compare(ctx, embedding, stored)
			if cmpErr != nil {
				fm.log.Warn("Compare call failed, skipping candidate", "user_id", user.ID, "error", cmpErr)
				continue
			}
			if !result.IsSamePerson {
				continue
			}
			// Strictly greater: on a tie the first highest wins.
			if result.Confidence > highestConfidence {
				highestConfidence = result.Confidence
				matched = &types.MatchResult{
					User:       user,
					Confidence: result.Confidence,
					Distance:   result.Distance,
				}
			}
		}
	}

	return matched, nil
}
