package pocat

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=$GOFILE -package mock_pocat -destination=test/mock/$GOFILE

// Translator looks messages up in the language requested by a context.
// Bundle implements it.
type Translator interface {
	Gettext(ctx context.Context, id string) string
	PGettext(ctx context.Context, msgctxt string, id string) string
	NGettext(ctx context.Context, id string, pluralID string, n int) string
	NPGettext(ctx context.Context, msgctxt string, id string, pluralID string, n int) string
	Errorf(ctx context.Context, format string, args ...interface{}) error
	WrapError(ctx context.Context, err error, format string, args ...interface{}) error
}

// Observer receives bundle events. Calls are made from a single worker
// goroutine, in order; a panic in an observer is recovered and ignored.
type Observer interface {
	OnLanguageFallback(requestedLang string, resolvedLang string)
	OnLanguageMissing(lang string)
	OnMessageMissing(lang string, msgKey string)
}

func Reload(t Translator) error {
	reloadable, ok := t.(interface{ Reload() error })
	if !ok {
		return fmt.Errorf("translator does not support reload")
	}
	return reloadable.Reload()
}

func SnapshotStats(t Translator) (BundleStats, error) {
	statsProvider, ok := t.(interface{ SnapshotStats() BundleStats })
	if !ok {
		return BundleStats{}, fmt.Errorf("translator does not support stats snapshots")
	}
	return statsProvider.SnapshotStats(), nil
}

func ResetStats(t Translator) error {
	statsProvider, ok := t.(interface{ ResetStats() })
	if !ok {
		return fmt.Errorf("translator does not support stats reset")
	}
	statsProvider.ResetStats()
	return nil
}

func Close(t Translator) error {
	closer, ok := t.(interface{ Close() })
	if !ok {
		return fmt.Errorf("translator does not support close")
	}
	closer.Close()
	return nil
}
