package live

import (
	"github.com/hypebeast/go-osc/osc"
	"github.com/sirupsen/logrus"

	"moodmix/logger"
	"moodmix/state"
)

// NewDispatcher builds the notification router: an OSC dispatcher that maps
// inbound AbletonOSC messages onto state store updates. Unknown addresses are
// ignored by the standard dispatcher, which keeps us forward-compatible with
// protocol extensions. Malformed payloads are logged and dropped; nothing
// that arrives over the wire may crash the process.
func NewDispatcher(store *state.Store) *osc.StandardDispatcher {
	d := osc.NewStandardDispatcher()

	// push notifications
	d.AddMsgHandler(AddressTrackVolume, volumeHandler(store))
	d.AddMsgHandler(AddressTrackMute, muteHandler(store))
	d.AddMsgHandler(AddressClipPlayingStatus, clipPlayingHandler(store))
	d.AddMsgHandler(AddressSceneTriggered, sceneHandler(store))
	d.AddMsgHandler(AddressError, errorHandler())

	// replies to the periodic full-state queries arrive addressed as the
	// query itself; routing them here is what makes the mirror self-heal
	d.AddMsgHandler(AddressGetVolume, volumeHandler(store))
	d.AddMsgHandler(AddressGetMute, muteHandler(store))
	d.AddMsgHandler(AddressGetPlayingSlot, playingSlotHandler(store))

	return d
}

func volumeHandler(store *state.Store) osc.HandlerFunc {
	return func(msg *osc.Message) {
		log := logger.GetProjectLogger()

		if len(msg.Arguments) < 2 {
			dropMalformed(msg)
			return
		}
		channel, ok := asInt(msg.Arguments[0])
		if !ok {
			dropMalformed(msg)
			return
		}
		volume, ok := asFloat(msg.Arguments[1])
		if !ok {
			dropMalformed(msg)
			return
		}

		if err := store.SetVolume(channel, volume); err != nil {
			// out-of-range channels are not an error over the wire
			log.Debugf("ignoring volume for channel %d: %v", channel, err)
			return
		}
		log.WithFields(logrus.Fields{"channel": channel, "volume": volume}).Debug("track volume")
	}
}

func muteHandler(store *state.Store) osc.HandlerFunc {
	return func(msg *osc.Message) {
		log := logger.GetProjectLogger()

		if len(msg.Arguments) < 2 {
			dropMalformed(msg)
			return
		}
		channel, ok := asInt(msg.Arguments[0])
		if !ok {
			dropMalformed(msg)
			return
		}
		muted, ok := asBool(msg.Arguments[1])
		if !ok {
			dropMalformed(msg)
			return
		}

		if err := store.SetMute(channel, muted); err != nil {
			log.Debugf("ignoring mute for channel %d: %v", channel, err)
			return
		}
		log.WithFields(logrus.Fields{"channel": channel, "muted": muted}).Debug("track mute")
	}
}

func clipPlayingHandler(store *state.Store) osc.HandlerFunc {
	return func(msg *osc.Message) {
		log := logger.GetProjectLogger()

		if len(msg.Arguments) < 3 {
			dropMalformed(msg)
			return
		}
		channel, ok := asInt(msg.Arguments[0])
		if !ok {
			dropMalformed(msg)
			return
		}
		clip, ok := asInt(msg.Arguments[1])
		if !ok {
			dropMalformed(msg)
			return
		}
		playing, ok := asBool(msg.Arguments[2])
		if !ok {
			dropMalformed(msg)
			return
		}

		var err error
		if playing {
			err = store.SetActiveClip(channel, clip)
		} else {
			// only clears when the stop names the recorded clip, so a
			// stale or duplicate stop cannot wipe a newer clip
			err = store.ClearActiveClip(channel, clip)
		}
		if err != nil {
			log.Debugf("ignoring clip status for channel %d: %v", channel, err)
			return
		}
		log.WithFields(logrus.Fields{"channel": channel, "clip": clip, "playing": playing}).Debug("clip playing status")
	}
}

func playingSlotHandler(store *state.Store) osc.HandlerFunc {
	return func(msg *osc.Message) {
		log := logger.GetProjectLogger()

		if len(msg.Arguments) < 2 {
			dropMalformed(msg)
			return
		}
		channel, ok := asInt(msg.Arguments[0])
		if !ok {
			dropMalformed(msg)
			return
		}
		slot, ok := asInt(msg.Arguments[1])
		if !ok {
			dropMalformed(msg)
			return
		}

		// an authoritative read: a negative slot means nothing is playing
		if err := store.SetActiveClip(channel, slot); err != nil {
			log.Debugf("ignoring playing slot for channel %d: %v", channel, err)
		}
	}
}

func sceneHandler(store *state.Store) osc.HandlerFunc {
	return func(msg *osc.Message) {
		log := logger.GetProjectLogger()

		if len(msg.Arguments) < 1 {
			dropMalformed(msg)
			return
		}
		scene, ok := asInt(msg.Arguments[0])
		if !ok {
			dropMalformed(msg)
			return
		}

		store.SetScene(scene)
		log.WithFields(logrus.Fields{"scene": scene}).Info("scene triggered")
	}
}

// errorHandler surfaces explicit error notifications from the remote app.
// They never mutate the mirror.
func errorHandler() osc.HandlerFunc {
	return func(msg *osc.Message) {
		log := logger.GetProjectLogger()
		log.Errorf("Ableton OSC error: %v", msg.Arguments)
	}
}

func dropMalformed(msg *osc.Message) {
	log := logger.GetProjectLogger()
	log.Warnf("dropping malformed notification %s with args %v", msg.Address, msg.Arguments)
}

// asInt coerces an OSC argument to an int. AbletonOSC sends int32, but other
// senders are sloppier, so integral floats are accepted too.
func asInt(arg interface{}) (int, bool) {
	switch v := arg.(type) {
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float32:
		if v == float32(int(v)) {
			return int(v), true
		}
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

func asFloat(arg interface{}) (float64, bool) {
	switch v := arg.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func asBool(arg interface{}) (bool, bool) {
	switch v := arg.(type) {
	case bool:
		return v, true
	case int32:
		return v != 0, true
	case int64:
		return v != 0, true
	}
	return false, false
}
