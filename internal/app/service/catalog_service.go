package service

import (
	"context"
	"fmt"
	"sync"

	"codecampus/internal/app/nav"
	"codecampus/internal/common"
	"codecampus/internal/domain/model"
	"codecampus/internal/domain/repository"
	"codecampus/internal/platform/logger"

	"github.com/gosimple/slug"
)

// CatalogService serves the merged challenge set. The merge guarantees
// every compiled-in default id stays available even when the persisted
// list was written by an older build: the persisted list wins by id,
// defaults with missing ids are appended. Admin-created challenges are
// prepended and the whole list is overwritten on every mutation.
type CatalogService struct {
	challengeRepo repository.ChallengeRepository
	log           *logger.Logger

	mu sync.Mutex // serializes load-merge-save cycles
}

func NewCatalogService(challengeRepo repository.ChallengeRepository, log *logger.Logger) *CatalogService {
	return &CatalogService{challengeRepo: challengeRepo, log: log}
}

// merge applies the catalog-merge rule. Same-id conflicts resolve
// silently in favor of the persisted copy.
func merge(persisted, defaults []model.Challenge) []model.Challenge {
	present := make(map[int]struct{}, len(persisted))
	for _, c := range persisted {
		present[c.ID] = struct{}{}
	}
	merged := make([]model.Challenge, 0, len(persisted)+len(defaults))
	merged = append(merged, persisted...)
	for _, d := range defaults {
		if _, ok := present[d.ID]; !ok {
			merged = append(merged, d)
		}
	}
	return merged
}

// ListAll returns the merged challenge list. The first load seeds the
// store with the default set.
func (s *CatalogService) ListAll(ctx context.Context) ([]model.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked(ctx)
}

func (s *CatalogService) listLocked(ctx context.Context) ([]model.Challenge, error) {
	persisted, ok := s.challengeRepo.Load(ctx)
	if !ok {
		defaults := model.DefaultChallenges()
		if err := s.challengeRepo.Save(ctx, defaults); err != nil {
			return nil, fmt.Errorf("failed to seed challenge list: %w", err)
		}
		s.log.Info("seeded challenge catalog with defaults", "count", len(defaults))
		return defaults, nil
	}
	return merge(persisted, model.DefaultChallenges()), nil
}

// ListByCourse filters the merged list by course classification. An
// empty course returns everything.
func (s *CatalogService) ListByCourse(ctx context.Context, course string) ([]model.Challenge, error) {
	challenges, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if course == "" {
		return challenges, nil
	}
	var filtered []model.Challenge
	for _, c := range challenges {
		if c.CourseOf() == course {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id int) (*model.Challenge, error) {
	challenges, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range challenges {
		if challenges[i].ID == id {
			return &challenges[i], nil
		}
	}
	return nil, fmt.Errorf("challenge %d: %w", id, common.ErrNotFound)
}

type CreateChallengeRequest struct {
	Title        string                    `json:"title"`
	Difficulty   model.ChallengeDifficulty `json:"difficulty"`
	Category     string                    `json:"category"`
	Score        int                       `json:"score"`
	Description  string                    `json:"description"`
	InputFormat  string                    `json:"input_format"`
	OutputFormat string                    `json:"output_format"`
	Constraints  string                    `json:"constraints"`
	Boilerplate  string                    `json:"boilerplate"`
	TestCases    []model.TestCase          `json:"test_cases"`
}

// Create prepends an admin-created challenge and overwrites the
// persisted list. The new id is one past the highest id in the merged
// set, keeping id uniqueness across defaults and user entries.
func (s *CatalogService) Create(ctx context.Context, req CreateChallengeRequest) (*model.Challenge, error) {
	if req.Title == "" || req.Description == "" || len(req.TestCases) == 0 {
		return nil, fmt.Errorf("missing required fields for challenge creation: %w", common.ErrBadRequest)
	}
	if req.Difficulty == "" {
		req.Difficulty = model.DifficultyEasy
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	challenges, err := s.listLocked(ctx)
	if err != nil {
		return nil, err
	}

	nextID := 0
	for _, c := range challenges {
		if c.ID > nextID {
			nextID = c.ID
		}
	}
	nextID++

	challenge := model.Challenge{
		ID:           nextID,
		Title:        req.Title,
		Slug:         slug.Make(req.Title),
		Difficulty:   req.Difficulty,
		Category:     req.Category,
		Score:        req.Score,
		SuccessRate:  "0%",
		Description:  req.Description,
		InputFormat:  req.InputFormat,
		OutputFormat: req.OutputFormat,
		Constraints:  req.Constraints,
		Boilerplate:  req.Boilerplate,
		TestCases:    req.TestCases,
	}

	updated := append([]model.Challenge{challenge}, challenges...)
	if err := s.challengeRepo.Save(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to persist challenge list: %w", err)
	}
	s.log.Info("challenge created", "id", challenge.ID, "title", challenge.Title)
	return &challenge, nil
}

// Delete removes a challenge by id and overwrites the persisted list.
// A deleted default reappears on the next load through the merge.
func (s *CatalogService) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	challenges, err := s.listLocked(ctx)
	if err != nil {
		return err
	}

	remaining := make([]model.Challenge, 0, len(challenges))
	found := false
	for _, c := range challenges {
		if c.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, c)
	}
	if !found {
		return fmt.Errorf("challenge %d: %w", id, common.ErrNotFound)
	}
	if err := s.challengeRepo.Save(ctx, remaining); err != nil {
		return fmt.Errorf("failed to persist challenge list: %w", err)
	}
	s.log.Info("challenge deleted", "id", id)
	return nil
}

// Classifier adapts the catalog for the navigation machine's course
// derivation.
func (s *CatalogService) Classifier() nav.Classifier {
	return func(challengeID int) (string, error) {
		challenge, err := s.GetByID(context.Background(), challengeID)
		if err != nil {
			return "", err
		}
		return challenge.CourseOf(), nil
	}
}
