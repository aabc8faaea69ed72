package previews

import (
	"time"

	"snippetly/internal/referrers"
	"snippetly/internal/useragent"
	"snippetly/internal/visitors"
)

// View carries one request's metadata into the aggregator. Country is
// an optional pre-resolved ISO code; empty means geo lookup was
// disabled or failed.
type View struct {
	IPAddress string
	UserAgent string
	Referrer  string
	Country   string
	Now       time.Time
}

// Record folds one view into the stats, enforcing every bound:
// oldest-first eviction on the visitor set, a rolling window on daily
// counters, top-N pruning on referrer/user-agent/country maps.
// Views from recognized bots still count toward Views but are kept out
// of the visitor set and tallied in Bots.
func (s *Stats) Record(view View) {
	s.ensureCollections()

	now := view.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	s.Views++
	s.LastViewed = &now
	if s.FirstViewed == nil {
		s.FirstViewed = &now
	}

	isBot := useragent.IsBot(view.UserAgent)
	if isBot {
		s.Bots++
	} else {
		s.UniqueVisitors = s.UniqueVisitors.Add(visitors.Hash(view.IPAddress), MaxUniqueVisitors)
	}

	s.DailyViews.Bump(now.Format(DateFormat))
	s.DailyViews.PruneBefore(now.AddDate(0, 0, -DailyWindowDays).Format(DateFormat))

	s.Referrers.Bump(referrers.Normalize(view.Referrer))
	s.UserAgents.Bump(useragent.Classify(view.UserAgent))

	if view.Country != "" {
		if s.Countries == nil {
			s.Countries = TopCounts{}
		}
		s.Countries.Bump(view.Country)
	}

	s.Referrers.KeepTop(MaxReferrers)
	s.UserAgents.KeepTop(MaxUserAgents)
	if s.Countries != nil {
		s.Countries.KeepTop(MaxCountries)
	}
}
