package loglatch

import (
	"sort"
	"sync"
)

type policyNode struct {
	priority int
	policy   Policy
	changes  *ChangeSet
}

// ConfigManager owns the priority-ordered policy registry that decides
// which Emitter and LevelSet every registered Site uses. Priorities are
// descending: the highest-priority matching policy wins. The invariant
// held at all times is that every registered site is Managed by exactly
// one node, and no higher-priority node's predicate also matches it.
type ConfigManager struct {
	mu       sync.Mutex
	nodes    map[int]*policyNode
	allSites SiteSet
	siteNode map[*Site]int // site -> priority of the node currently managing it
}

// NewConfigManager returns an empty ConfigManager with no policies
// installed; every InsertSite call leaves the site unmanaged (nil emitter)
// until a policy is installed.
func NewConfigManager() *ConfigManager {
	return &ConfigManager{
		nodes:    make(map[int]*policyNode),
		allSites: make(SiteSet),
		siteNode: make(map[*Site]int),
	}
}

// InsertPolicy installs policy at priority and reconciles every registered
// site against the new policy set. It fails without changing any state
// and returns false if a policy already exists at priority.
func (c *ConfigManager) InsertPolicy(priority int, policy Policy) bool {
	c.mu.Lock()
	if _, exists := c.nodes[priority]; exists {
		c.mu.Unlock()
		return false
	}
	c.nodes[priority] = &policyNode{priority: priority, policy: policy, changes: NewChangeSet()}
	c.mu.Unlock()
	c.Rescan()
	return true
}

// RemovePolicy removes the policy installed at priority, releases every
// site it was managing, and reconciles so those sites fall through to
// whatever policy now matches them (possibly none). It returns false
// without changing any state if no policy is installed at priority, or if
// policy does not match the one installed there.
func (c *ConfigManager) RemovePolicy(priority int, policy Policy) bool {
	c.mu.Lock()
	node, ok := c.nodes[priority]
	if !ok || node.policy != policy {
		c.mu.Unlock()
		return false
	}
	delete(c.nodes, priority)
	c.mu.Unlock()
	c.Rescan()
	return true
}

// UpdateAt mutates the policy installed at priority in place (e.g. to
// change a predicate's closed-over state) and reconciles afterward. It is
// a no-op if no policy is installed at priority.
func (c *ConfigManager) UpdateAt(priority int, mutate func(Policy)) {
	c.mu.Lock()
	node, ok := c.nodes[priority]
	c.mu.Unlock()
	if !ok {
		return
	}
	mutate(node.policy)
	c.Rescan()
}

// InsertSite registers site and assigns it to the highest-priority
// matching policy, if any. Returns true iff some policy matched site.
func (c *ConfigManager) InsertSite(site *Site) bool {
	c.mu.Lock()
	c.allSites.add(site)
	c.mu.Unlock()
	return c.reconcileOne(site)
}

// RemoveSite unregisters site: it is released from whichever node manages
// it and disabled (no emitter, no levels). Returns false if site was not
// registered.
func (c *ConfigManager) RemoveSite(site *Site) bool {
	c.mu.Lock()
	if !c.allSites.has(site) {
		c.mu.Unlock()
		return false
	}
	c.allSites.remove(site)
	priority, managed := c.siteNode[site]
	var node *policyNode
	if managed {
		node = c.nodes[priority]
		delete(c.siteNode, site)
	}
	c.mu.Unlock()

	if node != nil {
		node.changes.Removed.add(site)
		node.changes.Fold()
	}
	site.setEmitter(nil)
	site.setLevels(None())
	return true
}

// Rescan re-evaluates every registered site against the current policy
// set. Call it after structural changes that InsertPolicy/RemovePolicy
// don't already trigger on their own (they call it for you).
func (c *ConfigManager) Rescan() {
	c.mu.Lock()
	sites := make([]*Site, 0, len(c.allSites))
	for s := range c.allSites {
		sites = append(sites, s)
	}
	c.mu.Unlock()

	for _, site := range sites {
		c.reconcileOne(site)
	}
}

// orderedNodes returns nodes sorted by descending priority.
func (c *ConfigManager) orderedNodes() []*policyNode {
	nodes := make([]*policyNode, 0, len(c.nodes))
	for _, n := range c.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].priority > nodes[j].priority })
	return nodes
}

// reconcileOne finds the target node for site and, if it differs from the
// node currently managing it, releases the old node's claim before the new
// node adopts the site. Returns true iff some policy now matches site.
func (c *ConfigManager) reconcileOne(site *Site) bool {
	c.mu.Lock()
	nodes := c.orderedNodes()
	candidate := NewSiteSet(site)

	var target *policyNode
	for _, node := range nodes {
		if node.policy.Match(candidate).has(site) {
			target = node
			break
		}
	}

	currentPriority, hadNode := c.siteNode[site]
	var current *policyNode
	if hadNode {
		current = c.nodes[currentPriority]
	}

	if target == current && target != nil {
		c.mu.Unlock()
		return true
	}

	if hadNode {
		delete(c.siteNode, site)
	}
	if target != nil {
		c.siteNode[site] = target.priority
	}
	c.mu.Unlock()

	// Release before adopt: the old node must drop the site before the
	// new node's Apply takes effect, so the site is never simultaneously
	// claimed by two policies.
	if current != nil {
		current.changes.Removed.add(site)
		current.changes.Fold()
	}
	if target != nil {
		target.changes.Inserted.add(site)
		target.policy.Apply(target.changes)
		target.changes.Fold()
		return true
	}

	site.setEmitter(nil)
	site.setLevels(None())
	return false
}

// VisitAll calls fn for every installed policy node, in descending
// priority order, with a snapshot of the sites it currently manages.
func (c *ConfigManager) VisitAll(fn func(priority int, policy Policy, managed SiteSet)) {
	c.mu.Lock()
	nodes := c.orderedNodes()
	c.mu.Unlock()

	for _, node := range nodes {
		fn(node.priority, node.policy, node.changes.Managed.clone())
	}
}
