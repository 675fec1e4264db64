package retrieval

import "github.com/poiesic/corpora/core"

// Monitor provides hooks to observe a retrieval pass.
// Implement this interface to track intermediate steps and results.
type Monitor interface {
	Start(query string)
	AfterEmbedding(vector []float32)
	AfterIndexQuery(matches []core.RetrievalMatch)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) AfterEmbedding(_ []float32)              {}
func (n *noopMonitor) AfterIndexQuery(_ []core.RetrievalMatch) {}
func (n *noopMonitor) Finish(_ *Result)                        {}
