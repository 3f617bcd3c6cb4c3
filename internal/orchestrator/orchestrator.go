package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/culture-explorer/backend/internal/corpus"
	"github.com/culture-explorer/backend/internal/metrics"
	"github.com/culture-explorer/backend/internal/sanitize"
	"github.com/culture-explorer/backend/internal/storage/sqlite"
	"github.com/culture-explorer/backend/internal/validation"
	"github.com/culture-explorer/backend/pkg/logger"
	"github.com/culture-explorer/backend/pkg/utils"
)

// Status classifies the outcome of one submission attempt. Every rejection
// maps to one of the three user-visible classes; raw backend errors never
// leak into responses.
type Status string

const (
	StatusAccepted        Status = "accepted"
	StatusRejected        Status = "needs_more_detail"
	StatusUnauthenticated Status = "login_required"
	StatusStorageError    Status = "try_again"
)

// Session is the explicit per-request context for a contributor. There is
// no ambient session state; handlers construct one from the verified token
// and pass it in.
type Session struct {
	Username string
	Language string
}

// Validator is the quality gate contract the orchestrator depends on.
type Validator interface {
	Validate(ctx context.Context, content, category string) *validation.Verdict
}

// CorpusAppender is the durability point for accepted submissions.
type CorpusAppender interface {
	Append(rec corpus.Record) (corpus.Record, error)
}

// ContributionCrediter bumps the contributor's counter after a confirmed
// append, idempotently per entry id.
type ContributionCrediter interface {
	CreditContribution(username, entryID string) error
}

// VerdictCache is an optional verdict memo keyed by content hash.
type VerdictCache interface {
	GetVerdict(ctx context.Context, contentHash string, verdict interface{}) (bool, error)
	SetVerdict(ctx context.Context, contentHash string, verdict interface{}, ttl time.Duration) error
}

// Notifier receives accepted records for the live feed.
type Notifier interface {
	NotifyAccepted(rec corpus.Record)
}

type Result struct {
	Status  Status              `json:"status"`
	Message string              `json:"message"`
	Verdict *validation.Verdict `json:"verdict,omitempty"`
	Record  *corpus.Record      `json:"record,omitempty"`
}

// Orchestrator sequences validator, corpus append and contribution credit
// for a single submission. The append is the durability point: the counter
// moves only after the append is confirmed, and a failed append advances
// nothing.
type Orchestrator struct {
	validator  Validator
	corpus     CorpusAppender
	identity   ContributionCrediter
	attemptLog *sqlite.Client
	cache      VerdictCache
	verdictTTL time.Duration
	feed       Notifier
}

func New(validator Validator, corpusStore CorpusAppender, identityStore ContributionCrediter) *Orchestrator {
	return &Orchestrator{
		validator: validator,
		corpus:    corpusStore,
		identity:  identityStore,
	}
}

// WithAttemptLog records every attempt in the sqlite submission log.
func (o *Orchestrator) WithAttemptLog(client *sqlite.Client) *Orchestrator {
	o.attemptLog = client
	return o
}

// WithVerdictCache memoizes verdicts for identical content+category pairs.
func (o *Orchestrator) WithVerdictCache(cache VerdictCache, ttl time.Duration) *Orchestrator {
	o.cache = cache
	o.verdictTTL = ttl
	return o
}

// WithFeed broadcasts accepted records to the live feed.
func (o *Orchestrator) WithFeed(feed Notifier) *Orchestrator {
	o.feed = feed
	return o
}

// Submit runs one contribution through the pipeline. The validator is
// called at most once per attempt, and not at all for unauthenticated or
// malformed submissions.
func (o *Orchestrator) Submit(ctx context.Context, session *Session, rec corpus.Record) *Result {
	started := time.Now()

	if session == nil || strings.TrimSpace(session.Username) == "" {
		result := &Result{
			Status:  StatusUnauthenticated,
			Message: "Please log in to contribute",
		}
		o.finish(session, rec, result, started)
		return result
	}

	rec.Content = sanitize.Text(rec.Content)
	rec.Title = sanitize.Text(rec.Title)

	if err := rec.ValidateShape(); err != nil {
		result := &Result{
			Status:  StatusRejected,
			Message: "Submission needs more detail: " + err.Error(),
		}
		o.finish(session, rec, result, started)
		return result
	}

	var verdict *validation.Verdict

	// Quiz attempts record learner activity, not cultural knowledge, and are
	// stored without the quality gate.
	if rec.Type != corpus.TypeQuizAttempt {
		text := rec.Content
		if text == "" {
			text = strings.TrimSpace(strings.Join([]string{rec.OriginalWord, rec.EnglishTranslation, rec.Question, rec.Explanation}, " "))
		}
		category := rec.Category
		if category == "" {
			category = corpus.Categorize(text)
			rec.Category = category
		}

		verdict = o.validate(ctx, text, category)

		if !verdict.IsValid {
			result := &Result{
				Status:  StatusRejected,
				Message: "Submission needs more detail before it can be accepted",
				Verdict: verdict,
			}
			o.finish(session, rec, result, started)
			return result
		}

		rec.QualityScore = verdict.QualityScore
	}

	rec.ContributedBy = session.Username
	if rec.Language == "" && session.Language != "" {
		rec.UserLanguage = session.Language
	}

	stored, err := o.corpus.Append(rec)
	if err != nil {
		logger.Error("Failed to persist accepted submission",
			zap.String("type", rec.Type),
			zap.String("username", session.Username),
			zap.Error(err),
		)
		metrics.AppendFailures.Inc()
		result := &Result{
			Status:  StatusStorageError,
			Message: "Something went wrong saving your contribution, please try again",
			Verdict: verdict,
		}
		o.finish(session, rec, result, started)
		return result
	}

	// Append succeeded: the contribution is durable. Credit is best effort
	// and idempotent per entry id; a failure here is reconciled from the
	// submission log, never surfaced to the contributor.
	if err := o.identity.CreditContribution(session.Username, stored.ID); err != nil {
		logger.Warn("Failed to credit contribution",
			zap.String("username", session.Username),
			zap.String("entry_id", stored.ID),
			zap.Error(err),
		)
	}

	metrics.CorpusEntries.Inc()

	if o.feed != nil {
		o.feed.NotifyAccepted(stored)
	}

	if verdict != nil {
		metrics.QualityScore.Observe(float64(verdict.QualityScore))
	}

	result := &Result{
		Status:  StatusAccepted,
		Message: "Contribution accepted, thank you",
		Verdict: verdict,
		Record:  &stored,
	}
	o.finish(session, rec, result, started)
	return result
}

func (o *Orchestrator) validate(ctx context.Context, text, category string) *validation.Verdict {
	cacheKey := utils.HashString(text + "|" + category)

	if o.cache != nil {
		var cached validation.Verdict
		hit, err := o.cache.GetVerdict(ctx, cacheKey, &cached)
		if err != nil {
			logger.Warn("Verdict cache lookup failed", zap.Error(err))
		}
		if hit {
			metrics.CacheHits.WithLabelValues("verdict").Inc()
			return &cached
		}
		metrics.CacheMisses.WithLabelValues("verdict").Inc()
	}

	started := time.Now()
	verdict := o.validator.Validate(ctx, text, category)
	metrics.ValidationDuration.WithLabelValues(verdict.ValidationMethod).Observe(time.Since(started).Seconds())
	metrics.ValidationMethodTotal.WithLabelValues(verdict.ValidationMethod).Inc()

	if o.cache != nil {
		if err := o.cache.SetVerdict(ctx, cacheKey, verdict, o.verdictTTL); err != nil {
			logger.Warn("Verdict cache store failed", zap.Error(err))
		}
	}

	return verdict
}

func (o *Orchestrator) finish(session *Session, rec corpus.Record, result *Result, started time.Time) {
	metrics.SubmissionsTotal.WithLabelValues(string(result.Status)).Inc()

	if o.attemptLog == nil {
		return
	}

	entry := &sqlite.SubmissionLog{
		ID:        uuid.NewString(),
		EntryType: rec.Type,
		Accepted:  result.Status == StatusAccepted,
		Outcome:   string(result.Status),
		LatencyMS: int(time.Since(started).Milliseconds()),
		CreatedAt: time.Now(),
	}
	if session != nil {
		entry.Username = session.Username
	}
	if result.Verdict != nil {
		entry.QualityScore = result.Verdict.QualityScore
		entry.ValidationMethod = result.Verdict.ValidationMethod
	}
	if result.Record != nil {
		entry.EntryID = result.Record.ID
	}

	if err := o.attemptLog.InsertSubmission(entry); err != nil {
		logger.Warn("Failed to record submission attempt", zap.Error(err))
	}
}
