package mopidy

import (
	"strings"
	"unicode"
)

const corePrefix = "core."

// MethodName turns the dotted names the frontend uses ("mopidy.playback.getTlTracks",
// "playback.getTlTracks") into the JSON-RPC method Mopidy exposes ("core.playback.get_tl_tracks").
func MethodName(name string) string {
	name = strings.TrimPrefix(name, "mopidy.")
	name = strings.TrimPrefix(name, corePrefix)

	parts := strings.Split(name, ".")
	for i, part := range parts {
		parts[i] = snakeCase(part)
	}

	return corePrefix + strings.Join(parts, ".")
}

// EventName turns a server event ("track_playback_started") into the client event name
// ("event:trackPlaybackStarted").
func EventName(serverEvent string) string {
	return "event:" + camelCase(serverEvent)
}

func snakeCase(s string) string {
	var builder strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				builder.WriteRune('_')
			}
			builder.WriteRune(unicode.ToLower(r))
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

func camelCase(s string) string {
	parts := strings.Split(s, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}
