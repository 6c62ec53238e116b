package send

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeOverrides_ProviderWins(t *testing.T) {
	channel := map[string]any{
		"senderName": "channel",
		"ipPoolName": "pool-a",
	}
	prov := map[string]any{
		"senderName": "provider",
		"replyTo":    "replies@example.com",
	}

	merged := MergeOverrides(channel, prov)

	assert.Equal(t, "provider", merged["senderName"])
	assert.Equal(t, "pool-a", merged["ipPoolName"])
	assert.Equal(t, "replies@example.com", merged["replyTo"])
}

func TestMergeOverrides_NilMaps(t *testing.T) {
	assert.Empty(t, MergeOverrides(nil, nil))
	assert.Equal(t, map[string]any{"k": "v"}, MergeOverrides(map[string]any{"k": "v"}, nil))
	assert.Equal(t, map[string]any{"k": "v"}, MergeOverrides(nil, map[string]any{"k": "v"}))
}

func TestRecipients_DedupPreservesOrder(t *testing.T) {
	got := Recipients("a@x.com", map[string]any{
		"to": []any{"a@x.com", "b@x.com"},
	})

	assert.Equal(t, []string{"a@x.com", "b@x.com"}, got)
}

func TestRecipients_NoOverrides(t *testing.T) {
	assert.Equal(t, []string{"a@x.com"}, Recipients("a@x.com", nil))
}

func TestRecipients_StringSliceOverride(t *testing.T) {
	got := Recipients("a@x.com", map[string]any{
		"to": []string{"c@x.com", "b@x.com", "c@x.com"},
	})

	assert.Equal(t, []string{"a@x.com", "c@x.com", "b@x.com"}, got)
}
