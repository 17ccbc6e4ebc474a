package cache

import (
	"strings"
	"time"
)

// Priority controls how reluctant the store is to drop an entry.
type Priority int

// Possible entry priorities, from most to least evictable.
const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	// PriorityNeverEvict entries ignore TTL expiry entirely and only
	// leave the store through explicit invalidation.
	PriorityNeverEvict
)

// ExpirationMode selects how an entry's TTL behaves.
type ExpirationMode int

const (
	// ExpirationSliding resets the TTL on every access.
	ExpirationSliding ExpirationMode = iota
	// ExpirationAbsolute fixes the deadline at insertion time.
	ExpirationAbsolute
)

// Policy is the expiration behavior of one cache namespace.
type Policy struct {
	TTL         time.Duration
	Priority    Priority
	Mode        ExpirationMode
	Refreshable bool
}

// Default namespace TTLs. The PolicyConfig can override each tier.
const (
	DefaultShortTTL  = 5 * time.Minute
	DefaultMediumTTL = 15 * time.Minute
	DefaultLongTTL   = 30 * time.Minute
)

// PolicyConfig allows overriding the TTL tiers when building a table.
type PolicyConfig struct {
	ShortTTL  time.Duration
	MediumTTL time.Duration
	LongTTL   time.Duration
}

// rule binds a key prefix to its namespace policy.
type rule struct {
	prefix string
	policy Policy
}

// PolicyTable maps cache keys to namespace policies through a closed,
// ordered rule list evaluated most specific first. It is the single
// source of truth for expiration semantics: call sites never pick TTLs
// or priorities themselves.
type PolicyTable struct {
	rules    []rule
	fallback Policy
}

// NewPolicyTable builds the namespace table. Zero fields in cfg fall
// back to the default TTL tiers.
func NewPolicyTable(cfg PolicyConfig) *PolicyTable {
	short := cfg.ShortTTL
	if short <= 0 {
		short = DefaultShortTTL
	}
	medium := cfg.MediumTTL
	if medium <= 0 {
		medium = DefaultMediumTTL
	}
	long := cfg.LongTTL
	if long <= 0 {
		long = DefaultLongTTL
	}

	return &PolicyTable{
		// Ordered most specific first: active_tasks and completed_tasks
		// must win over any broader task-flavored prefix, and the user
		// rule must not swallow user_tasks before it is tried.
		rules: []rule{
			{KeyPrefixActiveTasks, Policy{
				TTL: short, Priority: PriorityHigh, Mode: ExpirationAbsolute, Refreshable: true,
			}},
			{KeyPrefixCompletedTasks, Policy{
				TTL: long, Priority: PriorityLow, Mode: ExpirationAbsolute, Refreshable: true,
			}},
			{KeyPrefixDashboard, Policy{
				TTL: short, Priority: PriorityHigh, Mode: ExpirationAbsolute, Refreshable: true,
			}},
			{KeyPrefixUser, Policy{
				TTL: medium, Priority: PriorityNormal, Mode: ExpirationSliding,
			}},
			{KeyPrefixTeam, Policy{
				TTL: medium, Priority: PriorityNormal, Mode: ExpirationSliding,
			}},
		},
		fallback: Policy{
			TTL: medium, Priority: PriorityNormal, Mode: ExpirationSliding,
		},
	}
}

// DefaultPolicyTable builds the table with the default TTL tiers.
func DefaultPolicyTable() *PolicyTable {
	return NewPolicyTable(PolicyConfig{})
}

// PolicyFor resolves the namespace policy for a key. Rules are tried in
// declaration order; the first prefix match wins, and keys matching no
// rule get the fallback policy.
func (t *PolicyTable) PolicyFor(key string) Policy {
	for _, r := range t.rules {
		if strings.HasPrefix(key, r.prefix) {
			return r.policy
		}
	}
	return t.fallback
}
