package playback

const eventBufferSize = 16

// Subscription delivers controller events. Sends never block the
// controller: a full channel drops the new event, except for positions
// where the oldest sample makes room. Done is closed when the controller
// closes.
type Subscription struct {
	StateChanged    <-chan StateChange
	TrackChanged    <-chan TrackChange
	PositionChanged <-chan PositionChange
	CatalogChanged  <-chan CatalogChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	state    chan StateChange
	track    chan TrackChange
	position chan PositionChange
	catalog  chan CatalogChange
	errs     chan ErrorEvent
	done     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		state:    make(chan StateChange, eventBufferSize),
		track:    make(chan TrackChange, eventBufferSize),
		position: make(chan PositionChange, eventBufferSize),
		catalog:  make(chan CatalogChange, eventBufferSize),
		errs:     make(chan ErrorEvent, eventBufferSize),
		done:     make(chan struct{}),
	}
	s.StateChanged = s.state
	s.TrackChanged = s.track
	s.PositionChanged = s.position
	s.CatalogChanged = s.catalog
	s.Error = s.errs
	s.Done = s.done
	return s
}

func (s *Subscription) close() { close(s.done) }

func (s *Subscription) sendState(e StateChange) { offer(s.state, e) }

func (s *Subscription) sendTrack(e TrackChange) { offer(s.track, e) }

func (s *Subscription) sendCatalog(e CatalogChange) { offer(s.catalog, e) }

func (s *Subscription) sendError(e ErrorEvent) { offer(s.errs, e) }

// Callers hold the controller lock, so there is a single sender.
func (s *Subscription) sendPosition(e PositionChange) {
	if offer(s.position, e) {
		return
	}
	select {
	case <-s.position:
	default:
	}
	offer(s.position, e)
}

func offer[T any](ch chan T, v T) bool {
	select {
	case ch <- v:
		return true
	default:
		return false
	}
}
