package star

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/starlane-io/starlane/lane"
	"github.com/starlane-io/starlane/windfinder"
)

// encodeWindUp/encodeWindDown/decodeWindUp/decodeWindDown give the
// opaque lane.Frame.WindPayload a concrete wire format, the same way
// wave.Encode/Decode does for wave.Wave (see wave/codec.go).
func encodeWindUp(wu windfinder.WindUp) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(wu); err != nil {
		return nil, fmt.Errorf("star: encode wind-up: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeWindUp(b []byte) (windfinder.WindUp, error) {
	var wu windfinder.WindUp
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&wu); err != nil {
		return windfinder.WindUp{}, fmt.Errorf("star: decode wind-up: %w", err)
	}
	return wu, nil
}

func encodeWindDown(wd windfinder.WindDown) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(wd); err != nil {
		return nil, fmt.Errorf("star: encode wind-down: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeWindDown(b []byte) (windfinder.WindDown, error) {
	var wd windfinder.WindDown
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&wd); err != nil {
		return windfinder.WindDown{}, fmt.Errorf("star: decode wind-down: %w", err)
	}
	return wd, nil
}

// Broadcast implements windfinder.Relay: it sends wu as a StarWind frame
// to every confirmed lane except arrivalLane, skipping (and dropping,
// logging) any lane whose Send fails rather than aborting the whole
// broadcast over one bad neighbor.
func (s *Star) Broadcast(ctx context.Context, arrivalLane lane.StarKey, wu windfinder.WindUp) ([]lane.StarKey, error) {
	payload, err := encodeWindUp(wu)
	if err != nil {
		return nil, err
	}
	tid := ""
	if len(wu.Transactions) > 0 {
		tid = wu.Transactions[len(wu.Transactions)-1]
	}
	frame := lane.NewWindFrame(lane.WindUp, tid, payload)

	var sent []lane.StarKey
	for _, l := range s.Lanes.Lanes() {
		if l.Remote == arrivalLane {
			continue
		}
		if err := l.Send(ctx, frame); err != nil {
			s.Logger.Debug("star: wind-up send failed", "to", l.Remote, "err", err)
			continue
		}
		sent = append(sent, l.Remote)
	}
	return sent, nil
}

// SendDown implements windfinder.Relay.
func (s *Star) SendDown(ctx context.Context, toLane lane.StarKey, wd windfinder.WindDown) error {
	payload, err := encodeWindDown(wd)
	if err != nil {
		return err
	}
	l, ok := s.Lanes.Get(toLane)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLane, toLane)
	}
	return l.Send(ctx, lane.NewWindFrame(lane.WindDown, wd.Tid, payload))
}

// handleStarWind dispatches an inbound StarWind frame to the windfinder
// manager, decoding it by its WindDirection tag.
func (s *Star) handleStarWind(ctx context.Context, arrival lane.StarKey, f lane.Frame) {
	switch f.WindDirection {
	case lane.WindUp:
		wu, err := decodeWindUp(f.WindPayload)
		if err != nil {
			s.Logger.Debug("star: dropping malformed wind-up", "err", err)
			return
		}
		wd, err := s.Winds.OnWindUp(ctx, s, arrival, wu)
		if err != nil {
			s.Logger.Debug("star: wind-up handling failed", "err", err)
			return
		}
		if wd != nil {
			if err := s.SendDown(ctx, arrival, *wd); err != nil {
				s.Logger.Debug("star: wind-down reply failed", "err", err)
			}
		}
	case lane.WindDown:
		wd, err := decodeWindDown(f.WindPayload)
		if err != nil {
			s.Logger.Debug("star: dropping malformed wind-down", "err", err)
			return
		}
		s.recordHits(arrival, wd)
		s.Winds.OnWindDown(ctx, s, arrival, wd)
	}
}

// recordHits remembers, in arrival's path table, how many hops away
// each star in wd's hits is, so a later SendFrame can route to it via
// BestFor without a fresh search.
func (s *Star) recordHits(arrival lane.StarKey, wd windfinder.WindDown) {
	l, ok := s.Lanes.Get(arrival)
	if !ok {
		return
	}
	for _, h := range wd.Hits {
		l.Paths.Record(h.Star, h.Hops)
	}
}
