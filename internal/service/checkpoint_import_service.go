package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gorm.io/datatypes"

	"github.com/lumilearn/lumilearn-api/internal/dto"
	"github.com/lumilearn/lumilearn-api/internal/models"
	"github.com/lumilearn/lumilearn-api/internal/repository"
)

// ErrImportInvalid indicates the import payload failed validation.
var ErrImportInvalid = errors.New("checkpoint import payload is invalid")

// checkpointImportSchema is the authoring contract for checkpoint imports.
// Structural rules live here; semantic rules (timestamps inside the video,
// at least one correct answer) are checked after decoding.
const checkpointImportSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["checkpoints"],
  "properties": {
    "checkpoints": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["timestamp", "questions"],
        "properties": {
          "timestamp": {"type": "number", "minimum": 0},
          "questions": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["text", "answers"],
              "properties": {
                "text": {"type": "string", "minLength": 1},
                "answers": {
                  "type": "array",
                  "minItems": 2,
                  "items": {
                    "type": "object",
                    "required": ["text"],
                    "properties": {
                      "text": {"type": "string", "minLength": 1},
                      "correct": {"type": "boolean"}
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

// CheckpointImportService replaces the checkpoint set of a video from an
// authored JSON payload.
type CheckpointImportService interface {
	Import(ctx context.Context, videoID uint, payload []byte) (dto.CheckpointImportResponse, error)
}

type checkpointImportService struct {
	videos      repository.VideoRepository
	checkpoints repository.CheckpointRepository
	schema      *jsonschema.Schema
	logger      zerolog.Logger
}

// NewCheckpointImportService constructs the import service.
func NewCheckpointImportService(videos repository.VideoRepository, checkpoints repository.CheckpointRepository, logger zerolog.Logger) CheckpointImportService {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("checkpoints.schema.json", strings.NewReader(checkpointImportSchema)); err != nil {
		panic(err)
	}
	return &checkpointImportService{
		videos:      videos,
		checkpoints: checkpoints,
		schema:      compiler.MustCompile("checkpoints.schema.json"),
		logger:      logger.With().Str("component", "checkpoint_import_service").Logger(),
	}
}

func (s *checkpointImportService) Import(ctx context.Context, videoID uint, payload []byte) (dto.CheckpointImportResponse, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return dto.CheckpointImportResponse{}, err
	}

	var document any
	if err := json.Unmarshal(payload, &document); err != nil {
		return dto.CheckpointImportResponse{}, fmt.Errorf("%w: %v", ErrImportInvalid, err)
	}
	if err := s.schema.Validate(document); err != nil {
		return dto.CheckpointImportResponse{}, fmt.Errorf("%w: %v", ErrImportInvalid, err)
	}

	var request dto.CheckpointImportRequest
	if err := json.Unmarshal(payload, &request); err != nil {
		return dto.CheckpointImportResponse{}, fmt.Errorf("%w: %v", ErrImportInvalid, err)
	}

	records, err := buildCheckpoints(video, request.Checkpoints)
	if err != nil {
		return dto.CheckpointImportResponse{}, err
	}

	if err := s.checkpoints.ReplaceForVideo(ctx, videoID, records); err != nil {
		return dto.CheckpointImportResponse{}, err
	}

	s.logger.Info().
		Uint("video_id", videoID).
		Int("checkpoints", len(records)).
		Msg("checkpoint set replaced")
	return dto.CheckpointImportResponse{VideoID: videoID, Imported: len(records)}, nil
}

func buildCheckpoints(video models.Video, imports []dto.CheckpointImport) ([]models.Checkpoint, error) {
	records := make([]models.Checkpoint, 0, len(imports))
	for i, item := range imports {
		if video.DurationSeconds > 0 && item.Timestamp > video.DurationSeconds {
			return nil, fmt.Errorf("%w: checkpoint %d at %.1fs is past the end of the video", ErrImportInvalid, i, item.Timestamp)
		}

		questions := make([]models.Question, 0, len(item.Questions))
		for qi, question := range item.Questions {
			answers := make([]models.Answer, 0, len(question.Answers))
			hasCorrect := false
			for _, answer := range question.Answers {
				if answer.Correct {
					hasCorrect = true
				}
				answers = append(answers, models.Answer{Text: answer.Text, Correct: answer.Correct})
			}
			if !hasCorrect {
				return nil, fmt.Errorf("%w: checkpoint %d question %d has no correct answer", ErrImportInvalid, i, qi)
			}
			questions = append(questions, models.Question{Text: question.Text, Answers: answers})
		}

		records = append(records, models.Checkpoint{
			VideoID:   video.ID,
			MediaID:   video.MediaID,
			Timestamp: item.Timestamp,
			Questions: datatypes.NewJSONType(questions),
		})
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].Timestamp < records[j].Timestamp })
	return records, nil
}
