package moderation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

func (m *Moderator) checkImages(sub Submission, score int, issues []string) (int, []string) {
	n := len(sub.Images)
	switch {
	case n == 0:
		score -= m.cfg.PenaltyNoImages
		issues = append(issues, "No images provided (critical)")
	case n < m.cfg.RecommendedImages:
		score -= m.cfg.PenaltyFewImages
		issues = append(issues, fmt.Sprintf("Only %d images (minimum %d recommended)", n, m.cfg.RecommendedImages))
	case n >= m.cfg.ManyImages:
		score += m.cfg.BonusManyImages
	}

	if n > m.cfg.MaxImages {
		score -= m.cfg.PenaltyTooManyImages
		issues = append(issues, fmt.Sprintf("Too many images (max %d)", m.cfg.MaxImages))
	}
	return score, issues
}

func (m *Moderator) checkVideos(sub Submission, score int, issues []string) (int, []string) {
	n := len(sub.Videos)
	if n == 0 {
		return score, issues
	}
	score += m.cfg.BonusHasVideo
	if n > m.cfg.MaxVideos {
		score -= m.cfg.PenaltyTooManyVideos
		issues = append(issues, fmt.Sprintf("Too many videos (max %d)", m.cfg.MaxVideos))
	}
	return score, issues
}

func (m *Moderator) checkDescription(sub Submission, score int, issues []string) (int, []string) {
	if sub.Description == "" {
		score -= m.cfg.PenaltyNoDescription
		issues = append(issues, "No description provided")
		return score, issues
	}

	length := utf8.RuneCountInString(sub.Description)
	switch {
	case length < m.cfg.MinDescriptionLength:
		score -= m.cfg.PenaltyShortDescription
		issues = append(issues, fmt.Sprintf("Description too short (%d chars, min %d)", length, m.cfg.MinDescriptionLength))
	case length < m.cfg.RecommendedDescriptionLength:
		score -= m.cfg.PenaltyBriefDescription
		issues = append(issues, fmt.Sprintf("Description is brief (%d+ chars recommended)", m.cfg.RecommendedDescriptionLength))
	case length >= m.cfg.DetailedDescriptionLength:
		score += m.cfg.BonusDetailedDescription
	}

	if distinctRunes(strings.ToLower(sub.Description)) < m.cfg.MinDistinctChars {
		score -= m.cfg.PenaltyLowVariety
		issues = append(issues, "Description lacks variety (possible spam)")
	}
	return score, issues
}

func (m *Moderator) checkPrice(sub Submission, score int, issues []string) (int, []string) {
	if sub.Price == nil || *sub.Price <= 0 {
		score -= m.cfg.PenaltyInvalidPrice
		issues = append(issues, "Invalid price")
		return score, issues
	}

	price := *sub.Price
	switch {
	case price < m.cfg.SuspiciousLowPrice:
		score -= m.cfg.PenaltyLowPrice
		issues = append(issues, fmt.Sprintf("Suspiciously low price: %s %s", m.cfg.CurrencyLabel, formatPrice(price)))
	case price > m.cfg.MaxReasonablePrice:
		score -= m.cfg.PenaltyHighPrice
		issues = append(issues, fmt.Sprintf("Very high price: %s %s (requires verification)", m.cfg.CurrencyLabel, formatPrice(price)))
	case price < m.cfg.MinReasonablePrice:
		score -= m.cfg.PenaltyBelowRange
		issues = append(issues, "Price below typical range")
	}
	return score, issues
}

// A zero bedroom or bathroom count is treated as not supplied.
func (m *Moderator) checkRequiredFields(sub Submission, score int, issues []string) (int, []string) {
	required := []struct {
		label   string
		present bool
	}{
		{"Title", sub.Title != ""},
		{"Address", sub.Address != ""},
		{"City", sub.City != ""},
		{"Bedrooms", sub.Bedrooms != nil && *sub.Bedrooms != 0},
		{"Bathrooms", sub.Bathrooms != nil && *sub.Bathrooms != 0},
	}

	missing := 0
	for _, f := range required {
		if f.present {
			continue
		}
		score -= m.cfg.PenaltyMissingField
		issues = append(issues, "Missing "+f.label)
		missing++
	}

	if missing >= m.cfg.ManyMissingFields {
		score -= m.cfg.PenaltyManyMissing
		issues = append(issues, "Multiple required fields missing")
	}
	return score, issues
}

func (m *Moderator) checkSpam(sub Submission, score int, issues []string) (int, []string) {
	combined := strings.ToLower(sub.Title + " " + sub.Description)

	var found []string
	for _, kw := range m.keywords {
		if strings.Contains(combined, kw) {
			found = append(found, kw)
		}
	}
	if len(found) > 0 {
		score -= min(len(found)*m.cfg.SpamKeywordPenalty, m.cfg.MaxSpamPenalty)
		reported := found
		if len(reported) > m.cfg.MaxKeywordsReported {
			reported = reported[:m.cfg.MaxKeywordsReported]
		}
		issues = append(issues, "Suspicious keywords detected: "+strings.Join(reported, ", "))
	}

	for _, re := range m.patterns {
		if re.MatchString(combined) {
			score -= m.cfg.PenaltySuspiciousPattern
			issues = append(issues, "Suspicious pattern detected in text")
			break
		}
	}

	if sub.Title != "" && upperRatio(sub.Title) > m.cfg.UppercaseRatio {
		score -= m.cfg.PenaltyCapitalization
		issues = append(issues, "Excessive capitalization in title")
	}
	return score, issues
}

func (m *Moderator) checkCoordinates(sub Submission, score int, issues []string) (int, []string) {
	if sub.Latitude == nil || sub.Longitude == nil {
		score -= m.cfg.PenaltyNoCoordinates
		issues = append(issues, "No location coordinates provided")
		return score, issues
	}
	score += m.cfg.BonusCoordinates
	return score, issues
}

func distinctRunes(s string) int {
	seen := make(map[rune]struct{})
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// upperRatio is the share of upper-case runes among all runes of s,
// spaces and punctuation included.
func upperRatio(s string) float64 {
	total, upper := 0, 0
	for _, r := range s {
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(upper) / float64(total)
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
