package playback

import (
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/llehouerou/melodia/internal/catalog"
	"github.com/llehouerou/melodia/internal/errmsg"
)

func TestNewSubscription_ChannelsReadable(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		sub := newSubscription()

		sub.sendState(StateChange{Previous: StatusIdle, Current: StatusLoading})
		sub.sendTrack(TrackChange{Index: 1, Current: &catalog.Track{ID: 7}})
		sub.sendPosition(PositionChange{Position: 30 * time.Second, Duration: time.Minute})
		sub.sendCatalog(CatalogChange{Index: 2, Tracks: []catalog.Track{{Locator: "/test/a.mp3"}}})
		sub.sendError(ErrorEvent{Op: errmsg.OpPlaybackSeek, Err: errors.New("boom")})

		e := <-sub.StateChanged
		if e.Current != StatusLoading {
			t.Errorf("StateChanged.Current = %v, want Loading", e.Current)
		}

		tr := <-sub.TrackChanged
		if tr.Index != 1 || tr.Current.ID != 7 {
			t.Errorf("TrackChanged = %+v, want index 1 track 7", tr)
		}

		pos := <-sub.PositionChanged
		if pos.Position != 30*time.Second {
			t.Errorf("PositionChanged.Position = %v, want 30s", pos.Position)
		}

		c := <-sub.CatalogChanged
		if c.Index != 2 || len(c.Tracks) != 1 {
			t.Errorf("CatalogChanged = %+v, want index 2 with one track", c)
		}

		er := <-sub.Error
		if er.Op != errmsg.OpPlaybackSeek {
			t.Errorf("Error.Op = %q, want %q", er.Op, errmsg.OpPlaybackSeek)
		}
	})
}

func TestSubscription_Close_SignalsDone(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		sub := newSubscription()
		sub.close()
		<-sub.Done
	})
}

func TestSubscription_FullChannelDropsNewest(t *testing.T) {
	sub := newSubscription()

	for i := range eventBufferSize + 5 {
		sub.sendTrack(TrackChange{Index: i})
	}

	if n := len(sub.TrackChanged); n != eventBufferSize {
		t.Fatalf("buffered %d events, want %d", n, eventBufferSize)
	}
	if first := <-sub.TrackChanged; first.Index != 0 {
		t.Errorf("first event index = %d, want 0", first.Index)
	}
}

func TestSubscription_PositionKeepsLatest(t *testing.T) {
	sub := newSubscription()

	for i := range eventBufferSize + 3 {
		sub.sendPosition(PositionChange{Position: time.Duration(i) * time.Second})
	}

	var got []time.Duration
	for len(sub.PositionChanged) > 0 {
		got = append(got, (<-sub.PositionChanged).Position)
	}
	if len(got) != eventBufferSize {
		t.Fatalf("received %d samples, want %d", len(got), eventBufferSize)
	}
	if first := got[0]; first != 3*time.Second {
		t.Errorf("oldest kept sample = %v, want 3s", first)
	}
	if last := got[len(got)-1]; last != time.Duration(eventBufferSize+2)*time.Second {
		t.Errorf("newest sample = %v, want %v", last, time.Duration(eventBufferSize+2)*time.Second)
	}
}
