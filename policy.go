package loglatch

import "math"

// SiteSet is an unordered collection of call sites.
type SiteSet map[*Site]struct{}

// NewSiteSet builds a SiteSet from sites.
func NewSiteSet(sites ...*Site) SiteSet {
	s := make(SiteSet, len(sites))
	for _, site := range sites {
		s[site] = struct{}{}
	}
	return s
}

func (s SiteSet) clone() SiteSet {
	out := make(SiteSet, len(s))
	for site := range s {
		out[site] = struct{}{}
	}
	return out
}

func (s SiteSet) add(site *Site)    { s[site] = struct{}{} }
func (s SiteSet) remove(site *Site) { delete(s, site) }
func (s SiteSet) has(site *Site) bool {
	_, ok := s[site]
	return ok
}

// ChangeSet accumulates the sites a policy gains or loses during a single
// reconciliation pass, plus the full set it currently manages.
type ChangeSet struct {
	Inserted SiteSet
	Removed  SiteSet
	Managed  SiteSet
}

// NewChangeSet returns an empty ChangeSet.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{
		Inserted: make(SiteSet),
		Removed:  make(SiteSet),
		Managed:  make(SiteSet),
	}
}

// Fold merges Inserted into Managed and clears both Inserted and Removed,
// committing one reconciliation pass.
func (c *ChangeSet) Fold() {
	for site := range c.Inserted {
		c.Managed.add(site)
	}
	for site := range c.Removed {
		c.Managed.remove(site)
	}
	c.Inserted = make(SiteSet)
	c.Removed = make(SiteSet)
}

// Policy decides which sites it wants to manage (Match) and what to do
// with a reconciliation pass's changes (Apply).
type Policy interface {
	// Match filters candidates down to the subset this policy claims.
	Match(candidates SiteSet) SiteSet
	// Apply installs this policy's emitter/levels on every site named in
	// changes.Inserted, and is otherwise free to react to Removed/Managed.
	Apply(changes *ChangeSet)
}

// PredicatePolicy composes an arbitrary predicate with a fixed
// (Emitter, LevelSet) pair: every site the predicate matches gets that
// emitter and level mask.
type PredicatePolicy struct {
	Predicate func(*Site) bool
	Target    Emitter
	Levels    LevelSet
}

// NewPredicatePolicy builds a PredicatePolicy.
func NewPredicatePolicy(predicate func(*Site) bool, target Emitter, levels LevelSet) *PredicatePolicy {
	return &PredicatePolicy{Predicate: predicate, Target: target, Levels: levels}
}

// NewTagPolicy builds a PredicatePolicy that matches sites by exact tag.
func NewTagPolicy(tag string, target Emitter, levels LevelSet) *PredicatePolicy {
	return NewPredicatePolicy(func(s *Site) bool { return s.Tag() == tag }, target, levels)
}

// Match implements Policy.
func (p *PredicatePolicy) Match(candidates SiteSet) SiteSet {
	out := make(SiteSet)
	if p.Predicate == nil {
		return out
	}
	for site := range candidates {
		if p.Predicate(site) {
			out.add(site)
		}
	}
	return out
}

// Apply implements Policy: every newly inserted site is pointed at this
// policy's emitter and level mask.
func (p *PredicatePolicy) Apply(changes *ChangeSet) {
	for site := range changes.Inserted {
		site.setEmitter(p.Target)
		site.setLevels(p.Levels)
	}
}

// MatchAllPolicy matches every candidate. It is installed as the
// process-wide default at the lowest possible priority, so any site no
// more specific policy claims still gets a destination.
type MatchAllPolicy struct {
	Target Emitter
	Levels LevelSet
}

// NewMatchAllPolicy builds a MatchAllPolicy.
func NewMatchAllPolicy(target Emitter, levels LevelSet) *MatchAllPolicy {
	return &MatchAllPolicy{Target: target, Levels: levels}
}

// Match implements Policy by claiming every candidate.
func (p *MatchAllPolicy) Match(candidates SiteSet) SiteSet {
	return candidates.clone()
}

// Apply implements Policy.
func (p *MatchAllPolicy) Apply(changes *ChangeSet) {
	for site := range changes.Inserted {
		site.setEmitter(p.Target)
		site.setLevels(p.Levels)
	}
}

// DefaultPriority is the priority Default installs its MatchAllPolicy at
// when it builds the process-wide ConfigManager: lower than any policy a
// caller would reasonably register. NewConfigManager installs no policy.
const DefaultPriority = math.MinInt
