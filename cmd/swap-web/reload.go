package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/winnersswap/swap-web/internal/i18n"
)

// runLanguageReloader applies supported-language lists read from the config
// file to the shared store. Empty lists are ignored by the reducer. It returns
// when ctx is cancelled or ch is closed.
func runLanguageReloader(ctx context.Context, ch <-chan []string, store *i18n.Store, logger *zap.Logger) {
	for {
		select {
		case langs, ok := <-ch:
			if !ok {
				return
			}
			if len(langs) == 0 {
				logger.Warn("ignoring empty i18n.supported")
				continue
			}
			store.Dispatch(i18n.SetSupported{Languages: langs})
		case <-ctx.Done():
			return
		}
	}
}
