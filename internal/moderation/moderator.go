// Package moderation scores property listings and decides whether they are
// published immediately, queued for manual review, or rejected.
package moderation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Moderator runs a fixed sequence of checks over a Submission. It holds no
// mutable state and is safe for concurrent use.
type Moderator struct {
	cfg      Config
	keywords []string
	patterns []*regexp.Regexp
	checks   []Check
}

var nowUTC = func() time.Time { return time.Now().UTC() }

// New validates cfg and builds a Moderator from a private copy of it.
func New(cfg Config) (*Moderator, error) {
	if cfg.ReviewThreshold > cfg.ApproveThreshold {
		return nil, fmt.Errorf("review threshold %d is above approve threshold %d", cfg.ReviewThreshold, cfg.ApproveThreshold)
	}

	keywords := make([]string, 0, len(cfg.SpamKeywords))
	for _, kw := range cfg.SpamKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		keywords = append(keywords, kw)
	}

	patterns := make([]*regexp.Regexp, 0, len(cfg.SuspiciousPatterns))
	for _, p := range cfg.SuspiciousPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile suspicious pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}

	cfg.SpamKeywords = append([]string(nil), keywords...)
	cfg.SuspiciousPatterns = append([]string(nil), cfg.SuspiciousPatterns...)

	m := &Moderator{cfg: cfg, keywords: keywords, patterns: patterns}
	m.checks = []Check{
		m.checkImages,
		m.checkVideos,
		m.checkDescription,
		m.checkPrice,
		m.checkRequiredFields,
		m.checkSpam,
		m.checkCoordinates,
	}
	return m, nil
}

// NewDefault builds a Moderator with DefaultConfig.
func NewDefault() *Moderator {
	m, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return m
}

// Config returns a copy of the moderator's configuration.
func (m *Moderator) Config() Config {
	cfg := m.cfg
	cfg.SpamKeywords = append([]string(nil), m.cfg.SpamKeywords...)
	cfg.SuspiciousPatterns = append([]string(nil), m.cfg.SuspiciousPatterns...)
	return cfg
}

// Moderate scores sub and maps the score to a Status. It always succeeds.
func (m *Moderator) Moderate(sub Submission) Result {
	score, issues := InitialScore, []string{}
	for _, check := range m.checks {
		score, issues = check(sub, score, issues)
	}
	return Result{
		Status: m.cfg.StatusFor(score),
		Score:  score,
		Issues: issues,
	}
}

// Summarize turns a Result into a message for landlords and admins.
func (m *Moderator) Summarize(res Result) Summary {
	var message string
	actionRequired := true
	switch res.Status {
	case StatusApproved:
		message = "Property approved automatically"
		actionRequired = false
	case StatusPendingReview:
		message = "Property flagged for manual review"
	default:
		message = "Property rejected - please fix issues and resubmit"
	}

	issues := res.Issues
	if issues == nil {
		issues = []string{}
	}
	return Summary{
		Status:         res.Status,
		Score:          res.Score,
		Message:        message,
		ActionRequired: actionRequired,
		Issues:         issues,
		ModeratedAt:    nowUTC(),
	}
}
