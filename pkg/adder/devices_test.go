package adder_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjiggidy/adderlib/pkg/adder"
	"github.com/mjiggidy/adderlib/pkg/apierr"
	"github.com/mjiggidy/adderlib/pkg/device"
)

const oneTransmitter = `<api_response>
	<success>1</success>
	<count_devices>1</count_devices>
	<devices>
		<device>
			<d_id>1</d_id>
			<d_name>Only TX</d_name>
		</device>
	</devices>
</api_response>`

const oneReceiver = `<api_response>
	<success>1</success>
	<count_devices>1</count_devices>
	<devices>
		<device>
			<d_id>10</d_id>
			<d_name>Only RX</d_name>
		</device>
	</devices>
</api_response>`

func TestGetTransmitters(t *testing.T) {
	api, s := loggedIn(t)

	seq, err := api.GetTransmitters(context.Background())
	require.NoError(t, err)

	txs := adder.Collect(seq)
	require.Len(t, txs, 2)
	assert.Equal(t, "Edit 1 TX", txs[0].Name())
	assert.Equal(t, device.ModelALIF1000, txs[0].Model())
	assert.Equal(t, 2, txs[0].ChannelCount())
	assert.Equal(t, device.ModelALIF2002, txs[1].Model())
	assert.Equal(t, device.StatusOffline, txs[1].Status())

	p := s.last()
	assert.Equal(t, "get_devices", p.Get("method"))
	assert.Equal(t, "tx", p.Get("device_type"))
	assert.Equal(t, "7a3f2c9d41e84b6c", p.Get("token"))
}

func TestGetTransmitters_FilterByID(t *testing.T) {
	api, _ := loggedIn(t)

	seq, err := api.GetTransmitters(context.Background(), "2")
	require.NoError(t, err)

	txs := adder.Collect(seq)
	require.Len(t, txs, 1)
	assert.Equal(t, "2", txs[0].ID())

	seq, err = api.GetTransmitters(context.Background(), "404")
	require.NoError(t, err)
	assert.Empty(t, adder.Collect(seq))
}

func TestGetReceivers(t *testing.T) {
	api, s := loggedIn(t)

	seq, err := api.GetReceivers(context.Background())
	require.NoError(t, err)

	rxs := adder.Collect(seq)
	require.Len(t, rxs, 2)
	assert.True(t, rxs[0].Connected())
	assert.Equal(t, device.ControlShared, rxs[0].ControlMode())
	assert.Equal(t, 4, rxs[0].LastUserID())
	assert.False(t, rxs[1].Connected())
	assert.Equal(t, 7, rxs[1].LastUserID())
	assert.Equal(t, device.ControlUnknown, rxs[1].ControlMode())
	assert.Equal(t, "rx", s.last().Get("device_type"))
}

func TestListings_SingleRecord(t *testing.T) {
	api, _ := newMapAPI(t, fstest.MapFS{
		"get_devices_tx.xml": xmlFile(oneTransmitter),
		"get_devices_rx.xml": xmlFile(oneReceiver),
	})

	txSeq, err := api.GetTransmitters(context.Background())
	require.NoError(t, err)
	txs := adder.Collect(txSeq)
	require.Len(t, txs, 1)
	assert.Equal(t, "Only TX", txs[0].Name())

	rxSeq, err := api.GetReceivers(context.Background())
	require.NoError(t, err)
	rxs := adder.Collect(rxSeq)
	require.Len(t, rxs, 1)
	assert.Equal(t, "10", rxs[0].ID())
}

func TestListings_AreSinglePass(t *testing.T) {
	api, s := loggedIn(t)

	seq, err := api.GetReceivers(context.Background())
	require.NoError(t, err)
	calls := len(s.calls)

	assert.Len(t, adder.Collect(seq), 2)
	assert.Empty(t, adder.Collect(seq))
	assert.Len(t, s.calls, calls, "ranging does not issue requests")
}

func TestListings_ErrorBlock(t *testing.T) {
	api, _ := newMapAPI(t, fstest.MapFS{
		"get_devices.xml": xmlFile(`<api_response><errors><error><code>3</code><msg>Invalid token</msg></error></errors></api_response>`),
	})

	seq, err := api.GetTransmitters(context.Background())
	assert.Nil(t, seq)
	assert.Equal(t, apierr.KindRequest, apierr.KindOf(err))
}

func TestListings_EmptyCollection(t *testing.T) {
	api, _ := newMapAPI(t, fstest.MapFS{
		"get_devices.xml": xmlFile(`<api_response><success>1</success><count_devices>0</count_devices><devices/></api_response>`),
	})

	seq, err := api.GetReceivers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, adder.Collect(seq))
}

func TestGetServers(t *testing.T) {
	api, s := loggedIn(t)

	seq, err := api.GetServers(context.Background())
	require.NoError(t, err)

	servers := adder.Collect(seq)
	require.Len(t, servers, 1)
	assert.Equal(t, device.RolePrimary, servers[0].Role())
	assert.Equal(t, device.ServerActive, servers[0].ServerStatus())
	assert.True(t, servers[0].DualEthernet())
	assert.Equal(t, "get_servers", s.last().Get("method"))
}

func TestGetUSB(t *testing.T) {
	api, s := loggedIn(t)

	seq, err := api.GetUSBReceivers(context.Background())
	require.NoError(t, err)
	rxs := adder.Collect(seq)
	require.Len(t, rxs, 1)
	assert.Equal(t, "00:0d:5c:05:00:11", rxs[0].ConnectedMAC())
	assert.Equal(t, "get_all_c_usb", s.last().Get("method"))
	assert.Equal(t, "rx", s.last().Get("device_type"))

	seq, err = api.GetUSBTransmitters(context.Background(), "00:0D:5C:05:00:12")
	require.NoError(t, err)
	txs := adder.Collect(seq)
	require.Len(t, txs, 1)
	assert.Equal(t, "Edit 2 USB", txs[0].Name())
	assert.Empty(t, txs[0].ConnectedMAC())
}

func receivers(t *testing.T, api *adder.API) []*device.Receiver {
	t.Helper()

	seq, err := api.GetReceivers(context.Background())
	require.NoError(t, err)

	return adder.Collect(seq)
}

func transmitters(t *testing.T, api *adder.API) []*device.Transmitter {
	t.Helper()

	seq, err := api.GetTransmitters(context.Background())
	require.NoError(t, err)

	return adder.Collect(seq)
}

func TestSetDeviceInfo(t *testing.T) {
	api, s := loggedIn(t)
	tx := transmitters(t, api)[0]

	desc, loc := "Avid 3", ""
	require.NoError(t, api.SetDeviceInfo(context.Background(), tx, adder.DeviceInfo{Description: &desc, Location: &loc}))

	p := s.last()
	assert.Equal(t, "update_device", p.Get("method"))
	assert.Equal(t, "1", p.Get("id"))
	assert.Equal(t, "Avid 3", p.Get("desc"))
	assert.Equal(t, adder.BlankSentinel, p.Get("loc"))
}

func TestSetDeviceInfo_OnlyLocation(t *testing.T) {
	api, s := loggedIn(t)
	rx := receivers(t, api)[0]

	loc := "Suite C"
	require.NoError(t, api.SetDeviceInfo(context.Background(), rx, adder.DeviceInfo{Location: &loc}))

	assert.False(t, s.last().Has("desc"))
	assert.Equal(t, "Suite C", s.last().Get("loc"))
}

func TestSetDeviceInfo_NothingToSet(t *testing.T) {
	api, s := loggedIn(t)
	calls := len(s.calls)

	err := api.SetDeviceInfo(context.Background(), transmitters(t, api)[0], adder.DeviceInfo{})

	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
	assert.Len(t, s.calls, calls+1, "only the listing was sent")
}

func TestRebootDevices(t *testing.T) {
	api, s := loggedIn(t)
	txs := transmitters(t, api)
	rxs := receivers(t, api)

	require.NoError(t, api.RebootDevices(context.Background(), rxs[1], txs[0]))

	assert.Equal(t, "reboot_devices", s.last().Get("method"))
	assert.Equal(t, "11,1", s.last().Get("ids"))

	err := api.RebootDevices(context.Background())
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
}

func TestReplaceDevice(t *testing.T) {
	api, s := loggedIn(t)
	txs := transmitters(t, api)

	require.NoError(t, api.ReplaceDevice(context.Background(), txs[0], txs[1]))
	assert.Equal(t, "replace_device", s.last().Get("method"))
	assert.Equal(t, "1", s.last().Get("old_id"))
	assert.Equal(t, "2", s.last().Get("new_id"))

	err := api.ReplaceDevice(context.Background(), txs[0], receivers(t, api)[0])
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
}

func TestIdentifyDevice(t *testing.T) {
	api, s := loggedIn(t)

	require.NoError(t, api.IdentifyDevice(context.Background(), receivers(t, api)[0]))
	assert.Equal(t, "identify_device", s.last().Get("method"))
	assert.Equal(t, "10", s.last().Get("id"))

	var nilRX *device.Receiver
	err := api.IdentifyDevice(context.Background(), nilRX)
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))

	err = api.IdentifyDevice(context.Background(), device.NewReceiver(nil))
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
}
