package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bnema/chat-distiller/internal/domain"
	"github.com/bnema/chat-distiller/internal/extract"
	"github.com/bnema/chat-distiller/internal/ports"
	"github.com/bnema/chat-distiller/internal/rebuild"
)

var ErrNoFetcher = errors.New("no page fetcher configured")

type Service struct {
	fetcher ports.PageFetcher
	repo    ports.ChatRepository
	clock   ports.Clock
	logger  *zap.Logger
}

func NewService(fetcher ports.PageFetcher, repo ports.ChatRepository, clock ports.Clock, logger *zap.Logger) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		fetcher: fetcher,
		repo:    repo,
		clock:   clock,
		logger:  logger,
	}
}

// Distill fetches the share page named by cmd (unless cmd carries the page already)
// and rebuilds its visible transcript.
func (s *Service) Distill(ctx context.Context, cmd DistillCommand) (Transcript, error) {
	page := cmd.HTML
	var id domain.ShareID

	if page == "" {
		if err := domain.ValidateShareURL(cmd.URL); err != nil {
			return Transcript{}, err
		}
		if s.fetcher == nil {
			return Transcript{}, ErrNoFetcher
		}

		fetched, err := s.fetcher.Fetch(ctx, cmd.URL)
		if err != nil {
			return Transcript{}, fmt.Errorf("fetch share page: %w", err)
		}
		page = fetched
		s.logger.Debug("fetched share page", zap.String("url", cmd.URL), zap.Int("bytes", len(page)))
	}

	if cmd.URL != "" {
		parsed, err := domain.ParseShareID(cmd.URL)
		if err != nil {
			return Transcript{}, err
		}
		id = parsed
	}

	transcript, err := s.DistillPage(page)
	if err != nil {
		return Transcript{}, err
	}
	transcript.ShareURL = cmd.URL
	transcript.ShareID = id
	transcript.Messages = domain.Tail(transcript.Messages, cmd.Tail)

	return transcript, nil
}

// DistillPage runs extraction and rebuild over page. Extraction failures come back
// as *PageError.
func (s *Service) DistillPage(page string) (Transcript, error) {
	state, strategy, err := extract.Extract(page)
	if err != nil {
		s.logger.Debug("extraction failed", zap.String("strategy", string(strategy)), zap.Error(err))
		return Transcript{}, &PageError{HTML: page, Err: err}
	}
	s.logger.Debug("located conversation state",
		zap.String("strategy", string(strategy)),
		zap.Int("nodes", state.Mapping.Len()),
		zap.String("current_node", state.CurrentNode),
	)

	messages, err := rebuild.Rebuild(state.Mapping, state.CurrentNode)
	if err != nil {
		return Transcript{}, fmt.Errorf("rebuild transcript: %w", err)
	}

	user, assistant := domain.CountRoles(messages)
	s.logger.Info("rebuilt transcript",
		zap.String("strategy", string(strategy)),
		zap.Int("messages", len(messages)),
		zap.Int("user", user),
		zap.Int("assistant", assistant),
	)

	return Transcript{
		PageTitle: extract.Title(page),
		Strategy:  strategy,
		Total:     len(messages),
		Messages:  messages,
	}, nil
}

// Store archives the transcript under its share id. A chat stored before keeps its
// title and first stored time.
func (s *Service) Store(ctx context.Context, t Transcript) (StoreResult, error) {
	if s.repo == nil {
		return StoreResult{}, fmt.Errorf("%w: no chat repository configured", domain.ErrStorage)
	}
	if t.ShareID == "" {
		return StoreResult{}, fmt.Errorf("%w: transcript has no share id", domain.ErrStorage)
	}

	now := s.clock.Now().UTC()
	record := domain.ChatRecord{
		ShareURL:      t.ShareURL,
		ShareID:       t.ShareID,
		Title:         t.Title(),
		StoredAt:      now,
		LastUpdatedAt: now,
		MessageCount:  len(t.Messages),
	}

	created := true
	existing, err := s.repo.GetByShareID(ctx, t.ShareID)
	switch {
	case err == nil:
		created = false
		record.Title = existing.Title
		record.StoredAt = existing.StoredAt
	case !errors.Is(err, domain.ErrChatNotFound):
		return StoreResult{}, fmt.Errorf("get chat by share id: %w", err)
	}

	dir, err := s.repo.Save(ctx, record, domain.NewArchive(t.Messages, now))
	if err != nil {
		return StoreResult{}, fmt.Errorf("save chat: %w", err)
	}
	s.logger.Info("stored chat",
		zap.String("share_id", string(t.ShareID)),
		zap.String("dir", dir),
		zap.Bool("created", created),
	)

	return StoreResult{Dir: dir, Record: record, Created: created}, nil
}

func (s *Service) BuildArchive(cmd BuildArchiveCommand) (domain.Archive, error) {
	messages, err := domain.DecodeMessages(cmd.Messages)
	if err != nil {
		return domain.Archive{}, fmt.Errorf("decode messages: %w", err)
	}

	return domain.NewArchive(messages, s.clock.Now()), nil
}

// MergeArchives builds one archive holding the first archive's messages followed by
// the second's.
func (s *Service) MergeArchives(cmd MergeArchivesCommand) (domain.Archive, error) {
	first, err := domain.DecodeArchive(cmd.First)
	if err != nil {
		return domain.Archive{}, fmt.Errorf("decode first archive: %w", err)
	}
	second, err := domain.DecodeArchive(cmd.Second)
	if err != nil {
		return domain.Archive{}, fmt.Errorf("decode second archive: %w", err)
	}

	return domain.MergeArchives(first, second, s.clock.Now()), nil
}

func (s *Service) ListChats(ctx context.Context) ([]domain.ChatRecord, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("%w: no chat repository configured", domain.ErrStorage)
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	return records, nil
}
