package hatim

type Metrics interface {
	HatimStarted()
	PageMarked(completed bool)
	CompletionTransition(source CompletionSource)
}

type noopMetrics struct{}

func (noopMetrics) HatimStarted() {}

func (noopMetrics) PageMarked(bool) {}

func (noopMetrics) CompletionTransition(CompletionSource) {}
