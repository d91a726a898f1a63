// Package interview orchestrates one questionnaire session: the profile
// accumulates answers, the engine ranks breeds and picks the next question.
package interview

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"pawScout/business/content"
	"pawScout/business/engine"
	"pawScout/business/profile"
	"pawScout/domain"
	"pawScout/pkg/logger"
)

var ErrSessionNotFound = errors.New("session not found")

// ---- Repository interfaces ----

type SessionRepository interface {
	SaveSession(ctx context.Context, session domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
}

type AnswerEventRepository interface {
	SaveEvent(ctx context.Context, event domain.AnswerEvent) error
}

// ---- Service ----

type Config struct {
	// TopK is the default ranking size.
	TopK int
	// Epsilon is the advisory convergence threshold: once the best split
	// falls below it the interview is reported as done.
	Epsilon float64
	// ShareKey encrypts profile share codes. Empty disables sharing.
	ShareKey string
}

// NextQuestion is the selector's pick plus the phrasing variant to show.
type NextQuestion struct {
	Question domain.Question `json:"question"`
	Split    float64         `json:"split"`
	Done     bool            `json:"done"`
}

type session struct {
	profile *profile.Profile
	asked   map[string]struct{} // question ids already shown
}

type Service struct {
	matcher  *engine.Matcher
	selector *engine.Selector
	dom      *content.Domain
	load     func() (*content.Domain, error)

	sessionRepo SessionRepository
	eventRepo   AnswerEventRepository

	cfg Config

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewService wires the engine over a loaded domain snapshot. Repositories
// may be nil, which keeps sessions purely in memory.
func NewService(dom *content.Domain, sessionRepo SessionRepository, eventRepo AnswerEventRepository, cfg Config) (*Service, error) {
	matcher, err := engine.NewMatcher(dom.Table, dom.Needs, dom.Breeds)
	if err != nil {
		return nil, fmt.Errorf("build matcher: %w", err)
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 10
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = 0.01
	}
	return &Service{
		matcher:  matcher,
		selector: engine.NewSelector(matcher, dom.Questions),
		dom:      dom,

		sessionRepo: sessionRepo,
		eventRepo:   eventRepo,
		cfg:         cfg,
		sessions:    make(map[string]*session),
	}, nil
}

// engineRefs snapshots the engine under the lock so a concurrent Reload
// cannot tear a request between old and new content.
func (s *Service) engineRefs() (*engine.Matcher, *engine.Selector, *content.Domain) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matcher, s.selector, s.dom
}

func (s *Service) needIDs() []string {
	matcher, _, _ := s.engineRefs()
	return matcher.NeedIDs()
}

// StartSession creates an empty session.
func (s *Service) StartSession(ctx context.Context) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, fmt.Errorf("context error: %w", err)
	}

	sess := domain.Session{ID: uuid.NewString(), CreatedAt: time.Now()}
	p := profile.New(s.needIDs())

	s.mu.Lock()
	s.sessions[sess.ID] = &session{
		profile: p,
		asked:   make(map[string]struct{}),
	}
	s.mu.Unlock()

	if s.sessionRepo != nil {
		if err := s.sessionRepo.SaveSession(ctx, sess); err != nil {
			return domain.Session{}, fmt.Errorf("save session: %w", err)
		}
	}

	SessionsStartedTotal.Inc()
	logger.Info("session started", "session_id", sess.ID)
	return sess, nil
}

// get resolves a live session, falling back to the persisted snapshot.
func (s *Service) get(ctx context.Context, id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess, nil
	}

	if s.sessionRepo == nil {
		return nil, ErrSessionNotFound
	}
	stored, err := s.sessionRepo.GetSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if stored == nil {
		return nil, ErrSessionNotFound
	}

	p := profile.New(s.needIDs())
	if len(stored.ProfileJSON) > 0 {
		p, err = profile.Load(stored.ProfileJSON, s.needIDs(), profile.LoadOptions{IgnoreUnknownNeeds: true})
		if err != nil {
			return nil, fmt.Errorf("rehydrate session %s: %w", id, err)
		}
	}
	sess = &session{profile: p, asked: make(map[string]struct{})}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	return sess, nil
}

// Answer records one answer. questionID may be empty for answers that did
// not come from a served question (imports, CLI shortcuts).
func (s *Service) Answer(ctx context.Context, sessionID, needID string, answer domain.Answer, questionID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return err
	}

	_, _, dom := s.engineRefs()
	questionText := ""
	if questionID != "" {
		for _, q := range dom.Questions[needID] {
			if q.ID == questionID {
				questionText = q.Text
				break
			}
		}
	}

	if err := sess.profile.AddAnswer(needID, answer, questionText); err != nil {
		return err
	}
	if questionID != "" {
		sess.asked[questionID] = struct{}{}
	}

	AnswersTotal.WithLabelValues(string(answer)).Inc()

	if s.eventRepo != nil {
		event := domain.AnswerEvent{
			SessionID: sessionID,
			NeedID:    needID,
			Answer:    string(answer),
			Question:  questionText,
			Context:   datatypes.JSONMap{"question_id": questionID},
		}
		if err := s.eventRepo.SaveEvent(ctx, event); err != nil {
			logger.Warn("failed to persist answer event", err)
		}
	}
	return s.snapshot(ctx, sessionID, sess)
}

// MarkIndependent is the "don't care" shortcut.
func (s *Service) MarkIndependent(ctx context.Context, sessionID, needID string) error {
	return s.Answer(ctx, sessionID, needID, domain.AnswerIndependent, "")
}

func (s *Service) snapshot(ctx context.Context, sessionID string, sess *session) error {
	if s.sessionRepo == nil {
		return nil
	}
	data, err := sess.profile.Save()
	if err != nil {
		return fmt.Errorf("serialize profile: %w", err)
	}
	if err := s.sessionRepo.SaveSession(ctx, domain.Session{ID: sessionID, ProfileJSON: data}); err != nil {
		logger.Warn("failed to persist session snapshot", err)
	}
	return nil
}

// NextQuestion picks the most informative pending need and an unasked
// phrasing variant for it. Done reports the advisory convergence criterion.
func (s *Service) NextQuestion(ctx context.Context, sessionID string) (NextQuestion, error) {
	if err := ctx.Err(); err != nil {
		return NextQuestion{}, fmt.Errorf("context error: %w", err)
	}
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return NextQuestion{}, err
	}

	_, selector, dom := s.engineRefs()
	best, ok := selector.SelectNext(sess.profile.Needs(), sess.profile.AnsweredNeedIDs())
	if !ok {
		return NextQuestion{Done: true}, nil
	}

	q := pickVariant(dom.Questions[best.NeedID], sess.asked)
	QuestionsServedTotal.Inc()
	return NextQuestion{
		Question: q,
		Split:    best.Split,
		Done:     best.Split < s.cfg.Epsilon,
	}, nil
}

// pickVariant prefers unasked variants, heaviest first; ids break ties so
// the choice is stable.
func pickVariant(pool []domain.Question, asked map[string]struct{}) domain.Question {
	variants := make([]domain.Question, len(pool))
	copy(variants, pool)
	sort.Slice(variants, func(i, j int) bool {
		if variants[i].Weight != variants[j].Weight {
			return variants[i].Weight > variants[j].Weight
		}
		return variants[i].ID < variants[j].ID
	})
	for _, q := range variants {
		if _, ok := asked[q.ID]; !ok {
			return q
		}
	}
	return variants[0]
}

// QuestionRankings exposes the full ordered candidate list.
func (s *Service) QuestionRankings(ctx context.Context, sessionID string, topK int) ([]engine.QuestionRanking, error) {
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	_, selector, _ := s.engineRefs()
	return selector.Rankings(sess.profile.Needs(), sess.profile.AnsweredNeedIDs(), topK), nil
}

// Matches returns the current ranking.
func (s *Service) Matches(ctx context.Context, sessionID string, topK int) ([]domain.BreedScore, error) {
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = s.cfg.TopK
	}
	matcher, _, _ := s.engineRefs()
	return matcher.MatchFast(sess.profile.Needs(), topK, nil), nil
}

// MatchesDetailed returns the ranking with per-need breakdowns.
func (s *Service) MatchesDetailed(ctx context.Context, sessionID string, topK int) ([]engine.MatchResult, error) {
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = s.cfg.TopK
	}
	matcher, _, _ := s.engineRefs()
	return matcher.MatchAll(sess.profile.Needs(), topK), nil
}

// Explanation returns the structured pros/cons/conflicts view.
func (s *Service) Explanation(ctx context.Context, sessionID string, topK int) ([]engine.Explanation, error) {
	results, err := s.MatchesDetailed(ctx, sessionID, topK)
	if err != nil {
		return nil, err
	}
	return engine.Explain(results), nil
}

// ExportProfile returns the portable profile document.
func (s *Service) ExportProfile(ctx context.Context, sessionID string) (domain.ProfileDoc, error) {
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return domain.ProfileDoc{}, err
	}
	return sess.profile.Doc(), nil
}

// ImportProfile creates a new session seeded from a profile document.
func (s *Service) ImportProfile(ctx context.Context, data []byte) (domain.Session, error) {
	p, err := profile.Load(data, s.needIDs(), profile.LoadOptions{})
	if err != nil {
		return domain.Session{}, err
	}

	sess, err := s.StartSession(ctx)
	if err != nil {
		return domain.Session{}, err
	}

	s.mu.Lock()
	live := s.sessions[sess.ID]
	live.profile = p
	s.mu.Unlock()

	return sess, s.snapshot(ctx, sess.ID, live)
}
