// Package chat orchestrates one request-scoped turn through the core:
// profile loading, intake submission, context building, the AI call, and
// persistence. The service performs no long-lived state keeping; everything
// it needs is loaded per call and saved before returning.
package chat

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/teigesaccord/sandy/internal/catalog"
	"github.com/teigesaccord/sandy/internal/config"
	"github.com/teigesaccord/sandy/internal/database"
	"github.com/teigesaccord/sandy/internal/gemini"
	"github.com/teigesaccord/sandy/internal/intake"
	"github.com/teigesaccord/sandy/internal/profile"
)

// recommendationRequest is the synthetic user turn sent for recommendation
// flows, which have no free-text user message.
const recommendationRequest = "Please provide recommendations based on my profile."

// Service wires the intake engine, the store, and the AI collaborator into
// the operations callers invoke per request.
type Service struct {
	log    *slog.Logger
	store  database.Store
	ai     gemini.Client
	engine *intake.Engine
	cfg    config.ChatConfig
}

// NewService creates a chat service.
func NewService(logger *slog.Logger, store database.Store, ai gemini.Client, engine *intake.Engine, cfg config.ChatConfig) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		log:    logger.With("component", "chat_service"),
		store:  store,
		ai:     ai,
		engine: engine,
		cfg:    cfg,
	}
}

// Sections returns the questionnaire in its frontend-safe shape.
func (s *Service) Sections() []catalog.UISection {
	return s.engine.Catalog().UISections()
}

// Completion reports the user's intake progress so callers can route them to
// the intake flow or straight to chat. Unknown users get a fresh, unstarted
// signal.
func (s *Service) Completion(ctx context.Context, userID string) (intake.CompletionSignal, error) {
	p, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return intake.CompletionSignal{}, err
	}
	return s.engine.Signal(p), nil
}

// SubmitSection validates one section submission and, when valid, folds the
// answers into the profile, records section completion, and persists the
// result. Validation failures are reported in the result and leave the
// profile untouched; the returned signal is nil in that case.
func (s *Service) SubmitSection(ctx context.Context, userID, sectionID string, answers map[string]any) (intake.ValidationResult, *intake.CompletionSignal, error) {
	result := s.engine.ValidateSection(sectionID, answers)
	if !result.Valid {
		s.log.DebugContext(ctx, "section submission failed validation",
			"user_id", userID, "section_id", sectionID, "error_count", len(result.Errors))
		return result, nil, nil
	}

	p, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return result, nil, err
	}

	section, ok := s.engine.Catalog().Section(sectionID)
	if !ok {
		// Unreachable after a valid result; kept for defense against catalog swaps.
		return result, nil, fmt.Errorf("%w: %q", intake.ErrUnknownSection, sectionID)
	}

	if err := s.engine.Apply(p, section.Questions, answers); err != nil {
		return result, nil, fmt.Errorf("failed to project answers for user %s: %w", userID, err)
	}
	if err := s.engine.RecordSectionCompletion(p, sectionID); err != nil {
		return result, nil, err
	}

	if err := s.saveProfile(ctx, p); err != nil {
		return result, nil, err
	}

	sig := s.engine.Signal(p)
	s.log.InfoContext(ctx, "section submitted",
		"user_id", userID, "section_id", sectionID,
		"completion_percentage", sig.CompletionPercentage, "is_completed", sig.IsCompleted)
	return result, &sig, nil
}

// Chat handles one conversational turn. The AI failure path is recoverable:
// the turn is still recorded and the configured fallback reply is returned.
func (s *Service) Chat(ctx context.Context, userID, text string) (*gemini.Reply, error) {
	if text == "" {
		return nil, fmt.Errorf("message is empty")
	}

	p, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	userMsg := profile.NewMessage(profile.RoleUser, text)
	p.AppendMessage(userMsg)
	s.archive(ctx, userID, userMsg)

	pctx := profile.BuildContext(p)

	reply := s.complete(ctx, gemini.SupportSystemInstruction, pctx, text)

	assistantMsg := profile.NewMessage(profile.RoleAssistant, reply.Text)
	p.AppendMessage(assistantMsg)
	s.archive(ctx, userID, assistantMsg)

	p.RecordInteraction()
	if err := s.saveProfile(ctx, p); err != nil {
		return nil, err
	}

	return reply, nil
}

// Recommend asks the AI for recommendations, or for clarifying questions
// when the profile is below the completeness threshold.
func (s *Service) Recommend(ctx context.Context, userID string) (*gemini.Reply, error) {
	p, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	rctx := profile.BuildRecommendationContext(p)
	instruction := gemini.RecommendationSystemInstruction
	if rctx.NeedsMoreInfo {
		instruction = gemini.ClarifyingSystemInstruction
	}
	s.log.DebugContext(ctx, "building recommendation",
		"user_id", userID,
		"profile_completeness", rctx.ProfileCompleteness,
		"needs_more_info", rctx.NeedsMoreInfo)

	reply := s.complete(ctx, instruction, rctx, recommendationRequest)

	assistantMsg := profile.NewMessage(profile.RoleAssistant, reply.Text)
	p.AppendMessage(assistantMsg)
	s.archive(ctx, userID, assistantMsg)

	p.RecordInteraction()
	if err := s.saveProfile(ctx, p); err != nil {
		return nil, err
	}

	return reply, nil
}

// RecordRecommendationOutcome persists whether the user accepted a
// recommendation.
func (s *Service) RecordRecommendationOutcome(ctx context.Context, userID, recommendationID string, accepted bool) error {
	p, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	p.RecordRecommendationOutcome(recommendationID, accepted)
	return s.saveProfile(ctx, p)
}

// History returns a page of the archived conversation in chronological order.
func (s *Service) History(ctx context.Context, userID string, limit, offset int) ([]profile.ConversationMessage, error) {
	dbCtx, cancel := context.WithTimeout(ctx, s.cfg.DBTimeout)
	defer cancel()
	return s.store.GetConversationHistory(dbCtx, userID, limit, offset)
}

// DeleteProfile removes the user's profile and conversation archive. Only
// the owning user's explicit request should reach this.
func (s *Service) DeleteProfile(ctx context.Context, userID string) (bool, error) {
	dbCtx, cancel := context.WithTimeout(ctx, s.cfg.DBTimeout)
	defer cancel()
	return s.store.DeleteProfile(dbCtx, userID)
}

// complete calls the AI collaborator under the request timeout, substituting
// the configured fallback reply on failure.
func (s *Service) complete(ctx context.Context, instruction string, personalization any, message string) *gemini.Reply {
	aiCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	reply, err := s.ai.Complete(aiCtx, instruction, personalization, message)
	if err != nil {
		s.log.WarnContext(ctx, "AI completion failed, using fallback reply", "error", err)
		return &gemini.Reply{Text: s.cfg.FallbackReply}
	}
	return reply
}

// archive writes one message to the conversation archive. Archive failures
// are logged and swallowed: the capped history on the profile document is the
// source the context builder reads, and a lost archive row must not fail the
// turn.
func (s *Service) archive(ctx context.Context, userID string, msg profile.ConversationMessage) {
	dbCtx, cancel := context.WithTimeout(ctx, s.cfg.DBTimeout)
	defer cancel()

	if err := s.store.AppendConversationMessage(dbCtx, userID, msg); err != nil {
		s.log.WarnContext(ctx, "failed to archive conversation message",
			"user_id", userID, "message_id", msg.ID, "error", err)
	}
}

func (s *Service) loadOrCreate(ctx context.Context, userID string) (*profile.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id cannot be empty")
	}

	dbCtx, cancel := context.WithTimeout(ctx, s.cfg.DBTimeout)
	defer cancel()

	p, err := s.store.GetProfile(dbCtx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		s.log.InfoContext(ctx, "creating profile", "user_id", userID)
		p = profile.New(userID)
	}
	return p, nil
}

func (s *Service) saveProfile(ctx context.Context, p *profile.Profile) error {
	dbCtx, cancel := context.WithTimeout(ctx, s.cfg.DBTimeout)
	defer cancel()
	return s.store.SaveProfile(dbCtx, p)
}
