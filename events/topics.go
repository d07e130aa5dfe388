package events

const (
	TopicStartingMopidy = "mopify:startingmopidy"
	TopicMopidyStarted  = "mopify:mopidystarted"
	TopicStoppingMopidy = "mopify:stoppingmopidy"
	TopicStoppedMopidy  = "mopify:stoppedmopidy"

	TopicCallingMopidy = "mopify:callingmopidy"
	TopicCalledMopidy  = "mopify:calledmopidy"
	TopicErrorMopidy   = "mopify:errormopidy"

	TopicServicesDisconnected = "mopify:services:disconnected"
	TopicNotify               = "mopify:notify"

	// Every event coming from the Mopidy client is rebroadcast under this prefix
	MopidyPrefix              = "mopidy:"
	TopicTrackPlaybackStarted = "mopidy:event:trackPlaybackStarted"
)

// MopidyTopic returns the bus topic a Mopidy client event is rebroadcast on.
func MopidyTopic(event string) string {
	return MopidyPrefix + event
}
