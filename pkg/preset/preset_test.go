package preset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mjiggidy/adderlib/pkg/channel"
	"github.com/mjiggidy/adderlib/pkg/device"
	"github.com/mjiggidy/adderlib/pkg/preset"
)

func TestPreset_Fields(t *testing.T) {
	p := preset.New(map[string]string{
		"cp_id":              "9",
		"cp_name":            "Morning",
		"cp_description":     "Daily setup",
		"cp_pairs":           "4",
		"problem_cp_pairs":   "1",
		"cp_active":          "Partial",
		"connected_rx_count": "2",
		"exclusive_button":   "enabled",
	})

	assert.Equal(t, "9", p.ID())
	assert.Equal(t, "Morning", p.Name())
	assert.Equal(t, "Daily setup", p.Description())
	assert.Equal(t, 4, p.PairCount())
	assert.Equal(t, 1, p.ProblemPairCount())
	assert.Equal(t, 2, p.ConnectedReceiverCount())
	assert.Equal(t, preset.ActivePartial, p.Active())
	assert.True(t, p.ExclusiveAvailable())
	assert.Equal(t, channel.ButtonUnknown, p.View())
	assert.Empty(t, p.Pairs())
}

func TestPreset_Unset(t *testing.T) {
	p := preset.New(map[string]string{"cp_pairs": "lots", "cp_active": "sideways"})

	assert.Equal(t, 0, p.PairCount())
	assert.Equal(t, preset.ActiveUnknown, p.Active())
	assert.Equal(t, "Unknown", p.Active().String())
}

func TestPreset_Pairs(t *testing.T) {
	ch := channel.New(map[string]string{"c_id": "5"})
	rx := device.NewReceiver(map[string]string{"d_id": "21"})

	pairs := []preset.Pair{{Channel: ch, Receiver: rx}}
	p := preset.New(map[string]string{"cp_id": "9"}, pairs...)
	pairs[0] = preset.Pair{}

	got := p.Pairs()
	assert.Len(t, got, 1)
	assert.Equal(t, "5-21", got[0].String())
	assert.Equal(t, "-", preset.Pair{}.String())
}
