package pocat

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptCatalog is matched (with errors.Is) by every error caused by
	// malformed catalog data: unreadable headers, inconsistent MO offsets,
	// invalid Plural-Forms or plural entries with the wrong number of
	// translations.
	ErrCorruptCatalog = errors.New("corrupt catalog")
	// ErrDuplicateEntry is returned by Catalog.Add when an entry with the
	// same context and msgid already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")
	// ErrUnknownFormat is returned when a file extension has no codec.
	ErrUnknownFormat = errors.New("unknown catalog format")
)

// CorruptError describes why a catalog could not be loaded.
type CorruptError struct {
	// Source is the file name, when known.
	Source string
	Reason string
	Err    error
}

func (e *CorruptError) Error() string {
	msg := "corrupt catalog"
	if e.Source != "" {
		msg += " " + e.Source
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

// Is makes every CorruptError match ErrCorruptCatalog.
func (e *CorruptError) Is(target error) bool {
	return target == ErrCorruptCatalog
}

func corruptf(err error, format string, args ...interface{}) error {
	return &CorruptError{Reason: fmt.Sprintf(format, args...), Err: err}
}

// withSource sets the source of a CorruptError, leaving other errors alone.
func withSource(err error, source string) error {
	var ce *CorruptError
	if errors.As(err, &ce) && ce.Source == "" {
		ce.Source = source
	}
	return err
}

// Error is the error type returned by Bundle.Errorf and Bundle.WrapError.
// Error() returns the translated message.
type Error interface {
	Error() string
	Unwrap() error
	MessageID() string // untranslated msgid, stable across languages
	Language() string  // language the message was resolved in
}

type DefaultError struct {
	err     error
	message string
	id      string
	lang    string
}

func (ce *DefaultError) Error() string {
	return ce.message
}

func (ce *DefaultError) Unwrap() error {
	return ce.err
}

func (ce *DefaultError) MessageID() string {
	return ce.id
}

func (ce *DefaultError) Language() string {
	return ce.lang
}

func newCatalogError(id string, lang string, message string, err error) error {
	return &DefaultError{message: message, id: id, lang: lang, err: err}
}
