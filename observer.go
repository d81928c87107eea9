package pocat

type observerEventType int

const (
	observerEventLanguageFallback observerEventType = iota
	observerEventLanguageMissing
	observerEventMessageMissing
)

type observerEvent struct {
	kind      observerEventType
	requested string
	resolved  string
	lang      string
	msgKey    string
}

func safeObserverCall(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}

func (b *Bundle) startObserverWorker() {
	if b.cfg.Observer == nil || b.observerCh != nil {
		return
	}
	b.observerCh = make(chan observerEvent, b.cfg.ObserverBuffer)
	b.observerDone = make(chan struct{})
	go func(ch <-chan observerEvent, done chan<- struct{}) {
		defer close(done)
		for evt := range ch {
			switch evt.kind {
			case observerEventLanguageFallback:
				safeObserverCall(func() {
					b.cfg.Observer.OnLanguageFallback(evt.requested, evt.resolved)
				})
			case observerEventLanguageMissing:
				safeObserverCall(func() {
					b.cfg.Observer.OnLanguageMissing(evt.lang)
				})
			case observerEventMessageMissing:
				safeObserverCall(func() {
					b.cfg.Observer.OnMessageMissing(evt.lang, evt.msgKey)
				})
			}
		}
	}(b.observerCh, b.observerDone)
}

// stopObserverWorker drains pending events. Callers hold b.observerMu.
func (b *Bundle) stopObserverWorker() {
	if b.observerCh == nil {
		return
	}
	close(b.observerCh)
	<-b.observerDone
	b.observerCh = nil
	b.observerDone = nil
}

func (b *Bundle) publishObserverEvent(evt observerEvent) {
	if b.cfg.Observer == nil {
		return
	}
	b.observerMu.RLock()
	defer b.observerMu.RUnlock()
	if b.observerCh == nil {
		b.stats.incrementDroppedEvent("observer_closed")
		return
	}
	select {
	case b.observerCh <- evt:
	default:
		b.stats.incrementDroppedEvent("observer_queue_full")
	}
}

func (b *Bundle) onLanguageFallback(requestedLang string, resolvedLang string) {
	b.stats.incrementLanguageFallback(requestedLang, resolvedLang)
	b.log.Debug().Str("requested", requestedLang).Str("resolved", resolvedLang).Msg("Language fallback")
	b.publishObserverEvent(observerEvent{
		kind:      observerEventLanguageFallback,
		requested: requestedLang,
		resolved:  resolvedLang,
	})
}

func (b *Bundle) onLanguageMissing(lang string) {
	b.stats.incrementMissingLanguage(lang)
	b.log.Debug().Str("lang", lang).Msg("Language missing")
	b.publishObserverEvent(observerEvent{
		kind: observerEventLanguageMissing,
		lang: lang,
	})
}

func (b *Bundle) onMessageMissing(lang string, key string) {
	b.stats.incrementMissingMessage(lang, key)
	b.publishObserverEvent(observerEvent{
		kind:   observerEventMessageMissing,
		lang:   lang,
		msgKey: key,
	})
}
