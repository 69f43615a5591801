package live

import (
	"github.com/hypebeast/go-osc/osc"

	"moodmix/logger"
)

// Client sends control messages to AbletonOSC. Every send is fire-and-forget:
// UDP gives no acknowledgement, and a lost command simply self-heals on the
// next refresh or the next explicit set.
type Client struct {
	osc      *osc.Client
	channels int
}

// NewClient creates a command client for the AbletonOSC server at ip:port,
// controlling the given number of mixer channels.
func NewClient(ip string, port int, channels int) *Client {
	return &Client{
		osc:      osc.NewClient(ip, port),
		channels: channels,
	}
}

func (c *Client) send(address string, args ...interface{}) error {
	return c.osc.Send(osc.NewMessage(address, args...))
}

// SetVolume asks Ableton to move a track fader.
func (c *Client) SetVolume(channel int, volume float64) error {
	return c.send(AddressSetVolume, int32(channel), float32(volume))
}

// SetMute asks Ableton to mute or unmute a track.
func (c *Client) SetMute(channel int, muted bool) error {
	flag := int32(0)
	if muted {
		flag = 1
	}
	return c.send(AddressSetMute, int32(channel), flag)
}

// FireScene launches an Ableton scene.
func (c *Client) FireScene(scene int) error {
	return c.send(AddressFireScene, int32(scene))
}

// SubscribeAll registers for the push notifications the mirror depends on:
// per-channel volume and mute, clip playing status, and scene triggers.
func (c *Client) SubscribeAll() error {
	log := logger.GetProjectLogger()
	log.Info("Subscribing to Ableton state changes...")

	for i := 0; i < c.channels; i++ {
		if err := c.send(AddressVolumeListen, int32(i), int32(1)); err != nil {
			return err
		}
		if err := c.send(AddressMuteListen, int32(i), int32(1)); err != nil {
			return err
		}
	}
	if err := c.send(AddressClipPlayingListen, int32(1)); err != nil {
		return err
	}
	return c.send(AddressSceneTriggerListen, int32(1))
}

// RefreshAll queries the full mixer state: volume, mute and playing slot for
// every channel. The replies flow back through the notification dispatcher,
// so a mirror that missed a push notification converges again here. Queries
// are idempotent reads; losing one is harmless.
func (c *Client) RefreshAll() error {
	for i := 0; i < c.channels; i++ {
		if err := c.send(AddressGetVolume, int32(i)); err != nil {
			return err
		}
		if err := c.send(AddressGetMute, int32(i)); err != nil {
			return err
		}
		if err := c.send(AddressGetPlayingSlot, int32(i)); err != nil {
			return err
		}
	}
	return nil
}
