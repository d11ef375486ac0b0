package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Schema rules shared by every write path. Single-document saves, partial
// updates and bulk updates all go through these functions so the derived
// fields cannot drift between paths.

const (
	TitleMaxLen       = 500
	DescriptionMaxLen = 2000
	TagMaxLen         = 50
)

var ErrTitleRequired = errors.New("title is required and must not be blank")

// NormalizeTitle trims the raw title and enforces the length bounds.
func NormalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", ErrTitleRequired
	}
	if len(title) > TitleMaxLen {
		return "", fmt.Errorf("title must be at most %d characters", TitleMaxLen)
	}
	return title, nil
}

func NormalizeDescription(raw string) (string, error) {
	desc := strings.TrimSpace(raw)
	if len(desc) > DescriptionMaxLen {
		return "", fmt.Errorf("description must be at most %d characters", DescriptionMaxLen)
	}
	return desc, nil
}

// ParsePriority accepts only the closed enum. An empty value falls back
// to the default.
func ParsePriority(raw string) (Priority, error) {
	if raw == "" {
		return PriorityMedium, nil
	}
	switch p := Priority(strings.ToLower(strings.TrimSpace(raw))); p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p, nil
	default:
		return "", fmt.Errorf("priority must be one of low, medium, high, urgent")
	}
}

// ValidateDueDate enforces the strictly-in-the-future rule. It runs only
// at the moment the field is written; a stored due date is allowed to
// drift into the past afterwards.
func ValidateDueDate(due time.Time, now time.Time) error {
	if !due.After(now) {
		return errors.New("due date must be in the future")
	}
	return nil
}

// NormalizeTags trims, lowercases and drops blank entries. Entries over
// the length cap are rejected rather than truncated.
func NormalizeTags(raw []string) (Tags, error) {
	tags := make(Tags, 0, len(raw))
	for _, r := range raw {
		tag := strings.ToLower(strings.TrimSpace(r))
		if tag == "" {
			continue
		}
		if len(tag) > TagMaxLen {
			return nil, fmt.Errorf("tags must be at most %d characters", TagMaxLen)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// CompletionTimestamp derives completed_at from the completed flag:
// non-nil exactly when completed is true.
func CompletionTimestamp(completed bool, now time.Time) *time.Time {
	if !completed {
		return nil
	}
	ts := now.UTC()
	return &ts
}
