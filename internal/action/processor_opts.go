package action

type ProcessorOpt func(*Processor)

// WithMaxPerTick bounds how many actions one tick may apply. The remainder
// stays queued for the next tick.
func WithMaxPerTick(n int) ProcessorOpt {
	return func(p *Processor) {
		if n > 0 {
			p.maxPerTick = n
		}
	}
}

// WithPublisher sets the outcome event publisher.
func WithPublisher(pub Publisher) ProcessorOpt {
	return func(p *Processor) {
		p.pub = pub
	}
}
