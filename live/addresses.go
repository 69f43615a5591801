// Package live speaks the AbletonOSC protocol over UDP: an outbound
// fire-and-forget command client, an inbound notification dispatcher that
// keeps the state mirror current, and the periodic refresh worker.
package live

// AbletonOSC address vocabulary. Notifications arrive on the bare addresses;
// replies to get queries arrive addressed as the query itself.
const (
	// notifications
	AddressTrackVolume       = "/live/track/volume"
	AddressTrackMute         = "/live/track/mute"
	AddressClipPlayingStatus = "/live/clip/playing_status"
	AddressSceneTriggered    = "/live/scene/triggered"
	AddressError             = "/live/error"

	// commands
	AddressSetVolume = "/live/track/set/volume"
	AddressSetMute   = "/live/track/set/mute"
	AddressFireScene = "/live/scene/fire"

	// subscription registrations
	AddressVolumeListen       = "/live/track/volume/listen"
	AddressMuteListen         = "/live/track/mute/listen"
	AddressClipPlayingListen  = "/live/clip/playing_status/listen"
	AddressSceneTriggerListen = "/live/scene/triggered/listen"

	// full-state queries (replies come back on these addresses too)
	AddressGetVolume      = "/live/track/get/volume"
	AddressGetMute        = "/live/track/get/mute"
	AddressGetPlayingSlot = "/live/track/get/playing_slot_index"
)
