package app

import (
	"context"

	"git.home.luguber.info/inful/recipefeed/internal/logfields"
	"git.home.luguber.info/inful/recipefeed/internal/outcome"
)

// MsgBackOnline is shown once when connectivity returns after an outage.
const MsgBackOnline = "We're back online."

// NetworkStatus returns the user-facing notice for a connectivity value, or
// "" when there is nothing to say. Going offline arms the back-online flag;
// the first online status after that reports MsgBackOnline and clears it.
func (s *Service) NetworkStatus(online bool) string {
	if !online {
		if err := s.prefs.SaveBackOnline(true); err != nil {
			s.logger.Warn("Saving back-online flag failed", logfields.Error(err))
		}
		return outcome.MsgNoInternet
	}
	if s.prefs.BackOnline() {
		if err := s.prefs.SaveBackOnline(false); err != nil {
			s.logger.Warn("Clearing back-online flag failed", logfields.Error(err))
		}
		return MsgBackOnline
	}
	return ""
}

// WatchConnectivity follows the oracle until ctx ends, logging each notice
// and keeping the connectivity gauge current. notify, if non-nil, receives
// every non-empty notice.
func (s *Service) WatchConnectivity(ctx context.Context, notify func(string)) {
	initial, updates, cancel := s.oracle.CurrentAndStream()
	defer cancel()

	handle := func(online bool) {
		s.recorder.SetOnline(online)
		msg := s.NetworkStatus(online)
		if msg == "" {
			return
		}
		s.logger.Info(msg, logfields.Online(online))
		if notify != nil {
			notify(msg)
		}
	}

	handle(initial)
	for {
		select {
		case <-ctx.Done():
			return
		case online, ok := <-updates:
			if !ok {
				return
			}
			handle(online)
		}
	}
}
