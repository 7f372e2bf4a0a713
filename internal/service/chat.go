package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/sop-assistant/internal/domain"
	"github.com/Rrens/sop-assistant/internal/llm"
	"github.com/Rrens/sop-assistant/internal/metrics"
)

const (
	// StaleIdentityResponse is returned when the caller's user no longer exists
	StaleIdentityResponse = "Auth issue. Please sign out then sign in."

	// FallbackResponse replaces an empty completion
	FallbackResponse = "Sorry, I couldn't generate a response."

	// ImageSessionTitle names sessions opened by a screenshot without text
	ImageSessionTitle = "Image Analysis Session"

	// ImageMessagePlaceholder is stored as the user message of an image-only turn
	ImageMessagePlaceholder = "Image uploaded"

	titleMaxRunes = 50
)

// ChatService runs SOP-grounded chat turns and manages chat history
type ChatService struct {
	userRepo    domain.UserRepository
	sopRepo     domain.SopRepository
	sessionRepo domain.SessionRepository
	messageRepo domain.MessageRepository
	files       domain.FileStore
	llmRouter   *llm.Router
	now         func() time.Time
}

// NewChatService creates a new chat service
func NewChatService(
	userRepo domain.UserRepository,
	sopRepo domain.SopRepository,
	sessionRepo domain.SessionRepository,
	messageRepo domain.MessageRepository,
	files domain.FileStore,
	llmRouter *llm.Router,
) *ChatService {
	return &ChatService{
		userRepo:    userRepo,
		sopRepo:     sopRepo,
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		files:       files,
		llmRouter:   llmRouter,
		now:         time.Now,
	}
}

// Title derives a session title from the first user text
func Title(text string) string {
	if text == "" {
		return ImageSessionTitle
	}
	if utf8.RuneCountInString(text) <= titleMaxRunes {
		return text
	}
	return string([]rune(text)[:titleMaxRunes]) + "..."
}

// HandleTurn answers one chat message grounded on the active SOPs and records
// the exchange. Nothing is written unless the completion succeeds.
func (s *ChatService) HandleTurn(ctx context.Context, caller *domain.Caller, req domain.ChatRequest) (*domain.ChatResponse, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}

	logger := log.With().Str("user_id", caller.UserID.String()).Logger()

	user, err := s.userRepo.GetByID(ctx, caller.UserID)
	if err != nil {
		metrics.ChatTurnsTotal.WithLabelValues(metrics.ResultLookupError).Inc()
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		metrics.ChatTurnsTotal.WithLabelValues(metrics.ResultStaleIdentity).Inc()
		logger.Warn().Msg("Chat turn from identity without a user record")
		return &domain.ChatResponse{Response: StaleIdentityResponse}, nil
	}

	sops, err := s.sopRepo.ListActive(ctx)
	if err != nil {
		metrics.ChatTurnsTotal.WithLabelValues(metrics.ResultGroundingError).Inc()
		return nil, fmt.Errorf("failed to load sops: %w", err)
	}

	var image *llm.Image
	if req.ImageURL != "" {
		data, err := s.files.Read(ctx, req.ImageURL)
		if err != nil {
			metrics.ChatTurnsTotal.WithLabelValues(metrics.ResultImageError).Inc()
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
		image = &llm.Image{MIMEType: llm.ImageMIMEType(req.ImageURL), Data: data}
	}

	text, err := s.complete(ctx, sops, req, image)
	if err != nil {
		metrics.ChatTurnsTotal.WithLabelValues(metrics.ResultCompletionError).Inc()
		return nil, err
	}

	session, isNew, err := s.resolveSession(ctx, caller.UserID, req.SessionID, req.Message)
	if err != nil {
		metrics.ChatTurnsTotal.WithLabelValues(metrics.ResultPersistenceError).Inc()
		return nil, err
	}

	turn := s.newTurn(session, isNew, req, text)
	if err := s.sessionRepo.SaveTurn(ctx, turn); err != nil {
		metrics.ChatTurnsTotal.WithLabelValues(metrics.ResultPersistenceError).Inc()
		logger.Error().Err(err).
			Str("session_id", session.ID.String()).
			Msg("Failed to persist chat turn, generated answer discarded")
		return nil, fmt.Errorf("failed to save chat turn: %w", err)
	}

	metrics.ChatTurnsTotal.WithLabelValues(metrics.ResultOK).Inc()
	logger.Info().
		Str("session_id", session.ID.String()).
		Bool("new_session", isNew).
		Bool("image", image != nil).
		Msg("Chat turn completed")

	return &domain.ChatResponse{Response: text, SessionID: &session.ID}, nil
}

func (s *ChatService) complete(ctx context.Context, sops []domain.Sop, req domain.ChatRequest, image *llm.Image) (string, error) {
	provider, err := s.llmRouter.GetProvider("")
	if err != nil {
		return "", fmt.Errorf("failed to get LLM provider: %w", err)
	}

	model := llm.SelectModel(provider, image != nil)
	start := time.Now()
	resp, err := provider.Complete(ctx, llm.Request{
		Model:       model,
		Messages:    llm.BuildMessages(sops, req.History, req.Message, image),
		Temperature: llm.Temperature,
		MaxTokens:   llm.MaxTokens,
	})
	metrics.CompletionDuration.WithLabelValues(provider.Name(), model).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		text = FallbackResponse
	}

	log.Debug().
		Str("provider", provider.Name()).
		Str("model", resp.Model).
		Int("tokens", resp.TokensUsed).
		Int64("latency_ms", resp.LatencyMs).
		Msg("Completion received")

	return text, nil
}

// resolveSession reuses the caller's session when sessionID names one they
// own and otherwise prepares a new one. Unknown, malformed and foreign ids all
// start a new session.
func (s *ChatService) resolveSession(ctx context.Context, userID uuid.UUID, sessionID, text string) (*domain.ChatSession, bool, error) {
	if sessionID != "" {
		if id, err := uuid.Parse(sessionID); err == nil {
			session, err := s.sessionRepo.GetOwned(ctx, id, userID)
			if err != nil {
				return nil, false, fmt.Errorf("failed to get session: %w", err)
			}
			if session != nil {
				return session, false, nil
			}
		}
	}

	now := s.now()
	return &domain.ChatSession{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     Title(text),
		CreatedAt: now,
		UpdatedAt: now,
	}, true, nil
}

func (s *ChatService) newTurn(session *domain.ChatSession, isNew bool, req domain.ChatRequest, answer string) *domain.ChatTurn {
	now := s.now()

	content := req.Message
	if content == "" {
		content = ImageMessagePlaceholder
	}

	var imageURL *string
	if req.ImageURL != "" {
		ref := req.ImageURL
		imageURL = &ref
	}

	return &domain.ChatTurn{
		Session:    session,
		NewSession: isNew,
		UserMessage: &domain.ChatMessage{
			ID:        uuid.New(),
			SessionID: session.ID,
			Role:      domain.RoleUser,
			Content:   content,
			ImageURL:  imageURL,
			CreatedAt: now,
		},
		AssistantMessage: &domain.ChatMessage{
			ID:        uuid.New(),
			SessionID: session.ID,
			Role:      domain.RoleAssistant,
			Content:   answer,
			CreatedAt: now.Add(time.Millisecond),
		},
	}
}

// ListSessions returns the user's sessions with their messages, most recent
// first. A limit of zero returns every session.
func (s *ChatService) ListSessions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.ChatSession, error) {
	sessions, err := s.sessionRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		return []domain.ChatSession{}, nil
	}

	ids := make([]uuid.UUID, len(sessions))
	for i, session := range sessions {
		ids[i] = session.ID
	}

	grouped, err := s.messageRepo.ListBySessions(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	for i := range sessions {
		sessions[i].Messages = grouped[sessions[i].ID]
		if sessions[i].Messages == nil {
			sessions[i].Messages = []domain.ChatMessage{}
		}
	}
	return sessions, nil
}

// GetSession returns one of the user's sessions with its messages
func (s *ChatService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.ChatSession, error) {
	session, err := s.sessionRepo.GetOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}

	messages, err := s.messageRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	session.Messages = messages
	return session, nil
}

// DeleteSession removes one of the user's sessions and all of its messages
func (s *ChatService) DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	deleted, err := s.sessionRepo.DeleteOwned(ctx, sessionID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

// ListAllSessions returns the administrator overview of every session
func (s *ChatService) ListAllSessions(ctx context.Context, limit, offset int) ([]domain.SessionSummary, error) {
	summaries, err := s.sessionRepo.ListSummaries(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	now := s.now()
	for i := range summaries {
		summaries[i].Status = domain.StatusAt(summaries[i].LastActivity, now)
	}
	if summaries == nil {
		summaries = []domain.SessionSummary{}
	}
	return summaries, nil
}

