package chat_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teigesaccord/sandy/internal/catalog"
	"github.com/teigesaccord/sandy/internal/chat"
	"github.com/teigesaccord/sandy/internal/config"
	"github.com/teigesaccord/sandy/internal/gemini"
	"github.com/teigesaccord/sandy/internal/intake"
	"github.com/teigesaccord/sandy/internal/profile"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	profiles map[string]*profile.Profile
	archive  map[string][]profile.ConversationMessage

	getErr  error
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{
		profiles: make(map[string]*profile.Profile),
		archive:  make(map[string][]profile.ConversationMessage),
	}
}

func (m *memStore) Ping(context.Context) error { return nil }

func (m *memStore) GetProfile(_ context.Context, userID string) (*profile.Profile, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) SaveProfile(_ context.Context, p *profile.Profile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *p
	m.profiles[p.UserID] = &cp
	return nil
}

func (m *memStore) DeleteProfile(_ context.Context, userID string) (bool, error) {
	_, ok := m.profiles[userID]
	delete(m.profiles, userID)
	delete(m.archive, userID)
	return ok, nil
}

func (m *memStore) AppendConversationMessage(_ context.Context, userID string, msg profile.ConversationMessage) error {
	m.archive[userID] = append(m.archive[userID], msg)
	return nil
}

func (m *memStore) GetConversationHistory(_ context.Context, userID string, limit, _ int) ([]profile.ConversationMessage, error) {
	msgs := m.archive[userID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

func (m *memStore) RunMaintenance(context.Context) error { return nil }

// stubAI is a scripted gemini.Client.
type stubAI struct {
	reply *gemini.Reply
	err   error

	instructions []string
	messages     []string
	contexts     []any
}

func (s *stubAI) Complete(_ context.Context, systemPrompt string, personalization any, userMessage string) (*gemini.Reply, error) {
	s.instructions = append(s.instructions, systemPrompt)
	s.contexts = append(s.contexts, personalization)
	s.messages = append(s.messages, userMessage)
	if s.err != nil {
		return nil, s.err
	}
	return s.reply, nil
}

func testConfig() config.ChatConfig {
	return config.ChatConfig{
		FallbackReply:  "Sorry, I'm having trouble right now.",
		RequestTimeout: time.Second,
		DBTimeout:      time.Second,
	}
}

func newService(t *testing.T, store *memStore, ai *stubAI) *chat.Service {
	t.Helper()
	c, err := catalog.New()
	require.NoError(t, err)
	engine := intake.NewEngine(c, nil)
	return chat.NewService(nil, store, ai, engine, testConfig())
}

func validPersonalAnswers() map[string]any {
	return map[string]any{
		"name":      "Alex",
		"age_range": "18_29",
	}
}

func TestChat_RecordsTurnAndReturnsReply(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	ai := &stubAI{reply: &gemini.Reply{Text: "Take a short break.", Confidence: 1}}
	svc := newService(t, store, ai)

	reply, err := svc.Chat(context.Background(), "u1", "I'm exhausted today")
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Equal(t, "Take a short break.", reply.Text)

	require.Len(t, ai.instructions, 1)
	assert.Equal(t, gemini.SupportSystemInstruction, ai.instructions[0])
	assert.Equal(t, "I'm exhausted today", ai.messages[0])

	p := store.profiles["u1"]
	require.NotNil(t, p, "profile must be persisted")
	require.Len(t, p.ConversationHistory, 2)
	assert.Equal(t, profile.RoleUser, p.ConversationHistory[0].Role)
	assert.Equal(t, profile.RoleAssistant, p.ConversationHistory[1].Role)
	assert.Equal(t, 1, p.Interactions.TotalInteractions)

	assert.Len(t, store.archive["u1"], 2)
}

func TestChat_EmptyMessageRejected(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	svc := newService(t, store, &stubAI{reply: &gemini.Reply{Text: "hi"}})

	_, err := svc.Chat(context.Background(), "u1", "")
	require.Error(t, err)
	assert.Empty(t, store.profiles, "no profile should be created for a rejected turn")
}

func TestChat_AIFailureFallsBack(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	ai := &stubAI{err: errors.New("upstream unavailable")}
	svc := newService(t, store, ai)

	reply, err := svc.Chat(context.Background(), "u1", "hello")
	require.NoError(t, err, "AI failure is recoverable")
	assert.Equal(t, testConfig().FallbackReply, reply.Text)

	p := store.profiles["u1"]
	require.NotNil(t, p)
	require.Len(t, p.ConversationHistory, 2, "turn is still recorded with the fallback")
	assert.Equal(t, testConfig().FallbackReply, p.ConversationHistory[1].Content)
}

func TestChat_StoreFailurePropagates(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	store.getErr = errors.New("disk on fire")
	svc := newService(t, store, &stubAI{reply: &gemini.Reply{Text: "hi"}})

	_, err := svc.Chat(context.Background(), "u1", "hello")
	require.Error(t, err)
}

func TestSubmitSection_ValidFlow(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	svc := newService(t, store, &stubAI{reply: &gemini.Reply{Text: "hi"}})

	result, sig, err := svc.SubmitSection(context.Background(), "u1", "personal", validPersonalAnswers())
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	require.NotNil(t, sig)
	assert.False(t, sig.IsCompleted)
	assert.Positive(t, sig.CompletionPercentage)
	require.NotNil(t, sig.NextSection)

	p := store.profiles["u1"]
	require.NotNil(t, p)
	assert.Equal(t, "Alex", p.Personal.Name)
	assert.Equal(t, "18_29", p.Personal.AgeRange)
	assert.True(t, p.Intake.HasCompleted("personal"))
	assert.Equal(t, "personal", p.Intake.LastUpdatedSection)
}

func TestSubmitSection_InvalidLeavesProfileUntouched(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	svc := newService(t, store, &stubAI{reply: &gemini.Reply{Text: "hi"}})

	result, sig, err := svc.SubmitSection(context.Background(), "u1", "personal", map[string]any{
		"name": "A", // below minimum length
	})
	require.NoError(t, err, "validation failure is not an error")
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
	assert.Nil(t, sig)
	assert.Empty(t, store.profiles, "invalid submission must not persist anything")
}

func TestSubmitSection_ClosedGateAnswerNotPersisted(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	svc := newService(t, store, &stubAI{reply: &gemini.Reply{Text: "hi"}})

	// With professional support declined, the gated professional_type answer
	// is never validated and must not reach the stored profile.
	result, sig, err := svc.SubmitSection(context.Background(), "u1", "support", map[string]any{
		"family_support":       "strong",
		"professional_support": false,
		"professional_type":    "wizard",
	})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	require.NotNil(t, sig)

	p := store.profiles["u1"]
	require.NotNil(t, p)
	assert.False(t, p.Support.Professional)
	assert.Empty(t, p.Support.ProfessionalType)
	assert.Equal(t, "strong", p.Support.Family)
}

func TestSubmitSection_UnknownSectionReportedInResult(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	svc := newService(t, store, &stubAI{reply: &gemini.Reply{Text: "hi"}})

	result, sig, err := svc.SubmitSection(context.Background(), "u1", "astral_plane", map[string]any{})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "astral_plane")
	assert.Nil(t, sig)
}

func TestCompletion_UnknownUserGetsFreshSignal(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	svc := newService(t, store, &stubAI{reply: &gemini.Reply{Text: "hi"}})

	sig, err := svc.Completion(context.Background(), "stranger")
	require.NoError(t, err)
	assert.False(t, sig.IsCompleted)
	assert.Zero(t, sig.CompletionPercentage)
	require.NotNil(t, sig.NextSection)
	assert.Empty(t, store.profiles, "a progress check must not create a profile")
}

func TestRecommend_UsesClarifyingInstructionBelowThreshold(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	ai := &stubAI{reply: &gemini.Reply{Text: "Tell me more about your energy."}}
	svc := newService(t, store, ai)

	_, err := svc.Recommend(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, ai.instructions, 1)
	assert.Equal(t, gemini.ClarifyingSystemInstruction, ai.instructions[0])

	rctx, ok := ai.contexts[0].(profile.RecommendationContext)
	require.True(t, ok, "recommendation flow must pass a RecommendationContext")
	assert.True(t, rctx.NeedsMoreInfo)
}

func TestRecommend_UsesRecommendationInstructionWhenComplete(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	p := profile.New("u1")
	p.Intake.CompletionPercentage = 100
	p.Intake.IsCompleted = true
	store.profiles["u1"] = p

	ai := &stubAI{reply: &gemini.Reply{Text: "Try pacing your mornings."}}
	svc := newService(t, store, ai)

	reply, err := svc.Recommend(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Try pacing your mornings.", reply.Text)

	require.Len(t, ai.instructions, 1)
	assert.Equal(t, gemini.RecommendationSystemInstruction, ai.instructions[0])

	saved := store.profiles["u1"]
	assert.Equal(t, 1, saved.Interactions.TotalInteractions)
	require.NotEmpty(t, saved.ConversationHistory)
	assert.Equal(t, profile.RoleAssistant, saved.ConversationHistory[len(saved.ConversationHistory)-1].Role)
}

func TestRecordRecommendationOutcome(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	svc := newService(t, store, &stubAI{reply: &gemini.Reply{Text: "hi"}})

	require.NoError(t, svc.RecordRecommendationOutcome(context.Background(), "u1", "rec-9", true))

	p := store.profiles["u1"]
	require.NotNil(t, p)
	assert.Equal(t, []string{"rec-9"}, p.Interactions.SuccessfulRecommendations)
}

func TestDeleteProfile(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	store.profiles["u1"] = profile.New("u1")
	svc := newService(t, store, &stubAI{reply: &gemini.Reply{Text: "hi"}})

	existed, err := svc.DeleteProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = svc.DeleteProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, existed)
}
