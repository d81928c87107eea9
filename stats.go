package pocat

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const overflowStatKey = "__overflow__"

type bundleStats struct {
	mu                sync.Mutex
	languageFallbacks map[string]int
	missingLanguages  map[string]int
	missingMessages   map[string]int
	droppedEvents     map[string]int
	maxKeys           int
	lastReloadAt      time.Time
}

func newBundleStats(maxKeys int) bundleStats {
	return bundleStats{
		languageFallbacks: map[string]int{},
		missingLanguages:  map[string]int{},
		missingMessages:   map[string]int{},
		droppedEvents:     map[string]int{},
		maxKeys:           maxKeys,
	}
}

func sanitizeStatKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "unknown"
	}
	key = strings.ReplaceAll(key, ContextSeparator, "|")
	if len(key) > 120 {
		return strings.ToValidUTF8(key[:120], "")
	}
	return key
}

func (s *bundleStats) increment(target map[string]int, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if target == nil {
		return
	}
	key = sanitizeStatKey(key)
	if s.maxKeys > 0 {
		if _, exists := target[key]; !exists {
			if _, hasOverflow := target[overflowStatKey]; hasOverflow {
				if len(target) >= s.maxKeys {
					key = overflowStatKey
				}
			} else if len(target) >= s.maxKeys-1 {
				key = overflowStatKey
			}
		}
	}
	target[key]++
}

func (s *bundleStats) incrementLanguageFallback(requestedLang string, resolvedLang string) {
	s.increment(s.languageFallbacks, fmt.Sprintf("%s->%s", requestedLang, resolvedLang))
}

func (s *bundleStats) incrementMissingLanguage(lang string) {
	s.increment(s.missingLanguages, normalizeLangTag(lang))
}

func (s *bundleStats) incrementMissingMessage(lang string, key string) {
	s.increment(s.missingMessages, fmt.Sprintf("%s:%s", lang, key))
}

func (s *bundleStats) incrementDroppedEvent(reason string) {
	s.increment(s.droppedEvents, reason)
}

func (s *bundleStats) setLastReloadAt(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReloadAt = t
}

func (s *bundleStats) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.languageFallbacks = map[string]int{}
	s.missingLanguages = map[string]int{}
	s.missingMessages = map[string]int{}
	s.droppedEvents = map[string]int{}
	s.lastReloadAt = time.Time{}
}

func (s *bundleStats) snapshot() BundleStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	copyMap := func(input map[string]int) map[string]int {
		output := make(map[string]int, len(input))
		for k, v := range input {
			output[k] = v
		}
		return output
	}

	return BundleStats{
		LanguageFallbacks: copyMap(s.languageFallbacks),
		MissingLanguages:  copyMap(s.missingLanguages),
		MissingMessages:   copyMap(s.missingMessages),
		DroppedEvents:     copyMap(s.droppedEvents),
		LastReloadAt:      s.lastReloadAt,
	}
}
