package resolve

import "github.com/poiesic/relevit/core"

// ResolveMonitor provides hooks to observe the resolution cascade.
// Implement this interface to track raw and accepted hit counts per tier.
type ResolveMonitor interface {
	Start(field core.IdentifierField, query string)
	AfterExact(rawHits, accepted int)
	AfterPrefix(rawHits, accepted int)
	PrefixOverflow(accepted int)
	AfterFuzzy(rawHits, accepted int)
	FuzzyFallback(kept int)
	Finish(resolution *core.Resolution)
}

// noopMonitor is a no-op implementation of ResolveMonitor
type noopMonitor struct{}

var _ ResolveMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.IdentifierField, _ string) {}
func (n *noopMonitor) AfterExact(_, _ int)                    {}
func (n *noopMonitor) AfterPrefix(_, _ int)                   {}
func (n *noopMonitor) PrefixOverflow(_ int)                   {}
func (n *noopMonitor) AfterFuzzy(_, _ int)                    {}
func (n *noopMonitor) FuzzyFallback(_ int)                    {}
func (n *noopMonitor) Finish(_ *core.Resolution)              {}
