package service

import (
	"context"
	"strings"

	"github.com/okian/linguist/internal/adapters/repository"
	"github.com/okian/linguist/internal/domain/access"
	"github.com/okian/linguist/internal/domain/freelancer"
	"github.com/okian/linguist/internal/domain/model"
	"github.com/okian/linguist/internal/domain/types"
	"github.com/okian/linguist/pkg/logger"
)

// CreateFreelancer registers an applicant. Emails are unique.
func (s *Service) CreateFreelancer(ctx context.Context, actor model.User, in model.Freelancer) (model.Freelancer, error) {
	if !access.IsStaff(actor) {
		return model.Freelancer{}, forbidden("create freelancer")
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	if err := freelancer.Validate(in); err != nil {
		return model.Freelancer{}, err
	}
	if in.Status == "" {
		in.Status = model.StageNewApplication
	} else {
		st, err := freelancer.ParseStage(string(in.Status))
		if err != nil {
			return model.Freelancer{}, err
		}
		in.Status = st
	}

	existing, err := s.freelancers.Filter(ctx, repository.Criteria{"email": in.Email})
	if err != nil {
		return model.Freelancer{}, err
	}
	if len(existing) > 0 {
		return model.Freelancer{}, repository.ErrConflict
	}

	now := s.now().UTC()
	f := model.Freelancer{
		ID:            s.newID(),
		FullName:      in.FullName,
		Email:         in.Email,
		Status:        in.Status,
		LanguagePairs: in.LanguagePairs,
		Rates:         in.Rates,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.freelancers.Create(ctx, &f); err != nil {
		return model.Freelancer{}, err
	}
	s.logger.Info(ctx, "freelancer created", logger.String("freelancer_id", f.ID))
	return f, nil
}

// GetFreelancer returns one freelancer.
func (s *Service) GetFreelancer(ctx context.Context, actor model.User, id string) (model.Freelancer, error) {
	f, err := s.freelancers.Get(ctx, id)
	if err != nil {
		return model.Freelancer{}, err
	}
	if !access.CanViewFreelancer(actor, f) {
		return model.Freelancer{}, forbidden("view freelancer")
	}
	return f, nil
}

// ListFreelancers returns freelancers, optionally in one stage.
func (s *Service) ListFreelancers(ctx context.Context, actor model.User, stage string) ([]model.Freelancer, error) {
	if !access.IsStaff(actor) {
		return s.freelancers.Filter(ctx, repository.Criteria{"email": strings.ToLower(actor.Email)})
	}
	if stage == "" {
		return s.freelancers.List(ctx, repository.OldestFirst)
	}
	st, err := freelancer.ParseStage(stage)
	if err != nil {
		return nil, err
	}
	return s.freelancers.Filter(ctx, repository.Criteria{"status": st})
}

// UpdateFreelancerStage moves a freelancer through the pipeline.
func (s *Service) UpdateFreelancerStage(ctx context.Context, actor model.User, id, stage string) (model.Freelancer, error) {
	if !access.IsStaff(actor) {
		return model.Freelancer{}, forbidden("update stage")
	}
	st, err := freelancer.ParseStage(stage)
	if err != nil {
		return model.Freelancer{}, err
	}
	f, err := s.freelancers.Update(ctx, id, map[string]any{
		"status":     st,
		"updated_at": s.now().UTC(),
	})
	if err != nil {
		return model.Freelancer{}, err
	}
	s.logger.Info(ctx, "freelancer stage changed",
		logger.String("freelancer_id", id),
		logger.String("stage", string(st)),
	)
	return f, nil
}

// Ranking lists freelancers by cost-effectiveness.
func (s *Service) Ranking(ctx context.Context, actor model.User, limit int) ([]types.RankingEntry, error) {
	if !access.IsStaff(actor) {
		return nil, forbidden("view ranking")
	}
	if limit <= 0 || limit > s.maxRankingLimit {
		limit = s.maxRankingLimit
	}
	fs, err := s.freelancers.List(ctx, repository.OldestFirst)
	if err != nil {
		return nil, err
	}
	ranked := freelancer.Rank(fs)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]types.RankingEntry, len(ranked))
	for i, f := range ranked {
		e := types.RankingEntry{
			Rank:         i + 1,
			FreelancerID: f.ID,
			FullName:     f.FullName,
			QualityScore: f.QualityScore,
			ValueIndex:   f.ValueIndex,
		}
		if rate, ok := freelancer.PrimaryRate(f); ok {
			e.Rate = &rate
		}
		out[i] = e
	}
	return out, nil
}

// freelancerForUser finds the freelancer record of an applicant.
func (s *Service) freelancerForUser(ctx context.Context, u model.User) (model.Freelancer, bool) {
	fs, err := s.freelancers.Filter(ctx, repository.Criteria{"email": strings.ToLower(strings.TrimSpace(u.Email))})
	if err != nil || len(fs) == 0 {
		return model.Freelancer{}, false
	}
	return fs[0], true
}

func valueIndexFor(f model.Freelancer, combined *float64) *float64 {
	return freelancer.Rescore(f, combined).ValueIndex
}
