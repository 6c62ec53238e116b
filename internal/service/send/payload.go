package send

import (
	"encoding/base64"

	"github.com/notifbox/notifbox/internal/provider"
)

// stripAttachments returns a copy of the payload without the attachments
// key. Attachment bytes never reach the message store.
func stripAttachments(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}

	out := make(map[string]any, len(payload))
	for k, v := range payload {
		if k == "attachments" {
			continue
		}
		out[k] = v
	}

	return out
}

// attachmentsFrom decodes the attachments carried in a trigger payload,
// keeping only the ones addressed to this channel (no channel list means
// all channels).
func attachmentsFrom(payload map[string]any, channel string) []provider.Attachment {
	items, ok := payload["attachments"].([]any)
	if !ok {
		return nil
	}

	var out []provider.Attachment
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}

		channels := stringSlice(m, "channels")
		if len(channels) > 0 && !contains(channels, channel) {
			continue
		}

		encoded := stringValue(m, "file")
		file, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			continue
		}

		out = append(out, provider.Attachment{
			File:     file,
			Mime:     stringValue(m, "mime"),
			Name:     stringValue(m, "name"),
			Channels: channels,
		})
	}

	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}

	return false
}
