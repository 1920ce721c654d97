package moderation

// Config holds every threshold, limit and point value the moderator uses.
// A Config is copied into the Moderator at construction and never mutated
// afterwards, so one Moderator can be shared across goroutines.
type Config struct {
	// Disposition thresholds applied to the final score.
	ApproveThreshold int
	ReviewThreshold  int

	// Images and videos.
	RecommendedImages    int
	ManyImages           int
	MaxImages            int
	MaxVideos            int
	PenaltyNoImages      int
	PenaltyFewImages     int
	PenaltyTooManyImages int
	BonusManyImages      int
	BonusHasVideo        int
	PenaltyTooManyVideos int

	// Description quality. Lengths are counted in runes.
	MinDescriptionLength         int
	RecommendedDescriptionLength int
	DetailedDescriptionLength    int
	MinDistinctChars             int
	PenaltyNoDescription         int
	PenaltyShortDescription      int
	PenaltyBriefDescription      int
	BonusDetailedDescription     int
	PenaltyLowVariety            int

	// Price sanity. Prices are plain magnitudes; CurrencyLabel is only used
	// in issue text.
	SuspiciousLowPrice  float64
	MinReasonablePrice  float64
	MaxReasonablePrice  float64
	CurrencyLabel       string
	PenaltyInvalidPrice int
	PenaltyLowPrice     int
	PenaltyBelowRange   int
	PenaltyHighPrice    int

	// Required fields.
	PenaltyMissingField int
	ManyMissingFields   int
	PenaltyManyMissing  int

	// Spam and scam detection.
	SpamKeywords             []string
	SuspiciousPatterns       []string
	SpamKeywordPenalty       int
	MaxSpamPenalty           int
	MaxKeywordsReported      int
	PenaltySuspiciousPattern int
	UppercaseRatio           float64
	PenaltyCapitalization    int

	// Coordinates.
	BonusCoordinates     int
	PenaltyNoCoordinates int
}

// DefaultSpamKeywords is the production keyword list. English only.
var DefaultSpamKeywords = []string{
	"guaranteed", "limited time", "act now", "free money",
	"click here", "winner", "congratulations", "urgent",
	"make money fast", "work from home", "mlm", "pyramid",
	"get rich", "earn cash", "no risk", "100% free",
}

// DefaultSuspiciousPatterns are matched against the lower-cased title and
// description. Only the first match is penalized.
var DefaultSuspiciousPatterns = []string{
	`\$\$\$+`,
	`!!!+`,
	`www\.`,
	`http`,
	`\.com`,
	`\d{10,}`,
}

// DefaultConfig returns the production moderation rules.
func DefaultConfig() Config {
	return Config{
		ApproveThreshold: 80,
		ReviewThreshold:  50,

		RecommendedImages:    3,
		ManyImages:           5,
		MaxImages:            20,
		MaxVideos:            5,
		PenaltyNoImages:      40,
		PenaltyFewImages:     20,
		PenaltyTooManyImages: 10,
		BonusManyImages:      5,
		BonusHasVideo:        10,
		PenaltyTooManyVideos: 5,

		MinDescriptionLength:         50,
		RecommendedDescriptionLength: 100,
		DetailedDescriptionLength:    200,
		MinDistinctChars:             20,
		PenaltyNoDescription:         30,
		PenaltyShortDescription:      25,
		PenaltyBriefDescription:      10,
		BonusDetailedDescription:     5,
		PenaltyLowVariety:            20,

		SuspiciousLowPrice:  1000,
		MinReasonablePrice:  5000,
		MaxReasonablePrice:  1000000,
		CurrencyLabel:       "KES",
		PenaltyInvalidPrice: 30,
		PenaltyLowPrice:     25,
		PenaltyBelowRange:   10,
		PenaltyHighPrice:    15,

		PenaltyMissingField: 8,
		ManyMissingFields:   3,
		PenaltyManyMissing:  10,

		SpamKeywords:             append([]string(nil), DefaultSpamKeywords...),
		SuspiciousPatterns:       append([]string(nil), DefaultSuspiciousPatterns...),
		SpamKeywordPenalty:       15,
		MaxSpamPenalty:           50,
		MaxKeywordsReported:      3,
		PenaltySuspiciousPattern: 10,
		UppercaseRatio:           0.5,
		PenaltyCapitalization:    15,

		BonusCoordinates:     5,
		PenaltyNoCoordinates: 5,
	}
}

// StatusFor maps a final score to a disposition.
func (c Config) StatusFor(score int) Status {
	switch {
	case score >= c.ApproveThreshold:
		return StatusApproved
	case score >= c.ReviewThreshold:
		return StatusPendingReview
	default:
		return StatusRejected
	}
}
