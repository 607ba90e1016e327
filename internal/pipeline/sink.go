package pipeline

// ChannelSink sends every event to Ch. A zero ChannelSink drops events.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch != nil {
		s.Ch <- evt
	}
}

// FuncSink lets a plain function act as a ProgressSink.
type FuncSink func(Event)

func (f FuncSink) OnEvent(evt Event) {
	if f == nil {
		return
	}
	f(evt)
}
