package chime

// Location is the (x, y) position of an electrode.
type Location struct {
	X float64
	Y float64
}

// Extractor is the read contract shared by every recording source.
//
// Traces returns one row per requested channel, in request order, each row
// holding EndFrame-StartFrame samples.
type Extractor interface {
	ChannelIDs() ([]int, error)
	NumFrames() (int, error)
	SamplingFrequency() (float64, error)
	ChannelLocations() ([]Location, error)
	Traces(opts ...TraceOption) ([][]float64, error)
}

// TraceOption narrows a Traces request.
type TraceOption func(*traceArgs)

type traceArgs struct {
	channels    []int
	channelsSet bool
	start       *int
	end         *int
}

// WithChannels selects channels by id. Rows come back in this order and
// repeated ids yield repeated rows. An empty list selects no channels.
func WithChannels(ids ...int) TraceOption {
	selected := append(make([]int, 0, len(ids)), ids...)
	return func(a *traceArgs) {
		a.channels = append(make([]int, 0, len(selected)), selected...)
		a.channelsSet = true
	}
}

// WithStartFrame sets the first frame of the window (default 0).
func WithStartFrame(frame int) TraceOption {
	return func(a *traceArgs) {
		a.start = &frame
	}
}

// WithEndFrame sets the frame one past the end of the window
// (default: the number of frames).
func WithEndFrame(frame int) TraceOption {
	return func(a *traceArgs) {
		a.end = &frame
	}
}

// WithFrames sets the half-open window [start, end).
func WithFrames(start, end int) TraceOption {
	return func(a *traceArgs) {
		a.start = &start
		a.end = &end
	}
}

// TraceWindow is a validated Traces request.
type TraceWindow struct {
	ChannelIDs []int
	StartFrame int
	EndFrame   int
}

// NumFrames returns the window length.
func (w TraceWindow) NumFrames() int {
	return w.EndFrame - w.StartFrame
}

// ResolveTraces applies defaults to a Traces request and checks it against
// rec: all channels, frame 0 and the last frame when omitted. Negative
// frames, start > end, end past the recording and unknown channel ids are
// rejected with a *RangeError.
func ResolveTraces(rec Extractor, opts ...TraceOption) (TraceWindow, error) {
	var args traceArgs
	for _, opt := range opts {
		opt(&args)
	}

	known, err := rec.ChannelIDs()
	if err != nil {
		return TraceWindow{}, err
	}
	frames, err := rec.NumFrames()
	if err != nil {
		return TraceWindow{}, err
	}

	w := TraceWindow{
		ChannelIDs: known,
		StartFrame: 0,
		EndFrame:   frames,
	}
	if args.start != nil {
		w.StartFrame = *args.start
	}
	if args.end != nil {
		w.EndFrame = *args.end
	}

	switch {
	case w.StartFrame < 0:
		return TraceWindow{}, &RangeError{Param: "start_frame", Value: w.StartFrame, Limit: 0, Reason: "negative"}
	case w.EndFrame < 0:
		return TraceWindow{}, &RangeError{Param: "end_frame", Value: w.EndFrame, Limit: 0, Reason: "negative"}
	case w.EndFrame > frames:
		return TraceWindow{}, &RangeError{Param: "end_frame", Value: w.EndFrame, Limit: frames, Reason: "past the last frame"}
	case w.StartFrame > w.EndFrame:
		return TraceWindow{}, &RangeError{Param: "start_frame", Value: w.StartFrame, Limit: w.EndFrame, Reason: "after end_frame"}
	}

	if args.channelsSet {
		set := make(map[int]struct{}, len(known))
		for _, id := range known {
			set[id] = struct{}{}
		}
		for _, id := range args.channels {
			if _, ok := set[id]; !ok {
				return TraceWindow{}, &RangeError{Param: "channel_id", Value: id, Limit: len(known), Reason: "unknown channel"}
			}
		}
		w.ChannelIDs = args.channels
	}

	return w, nil
}
