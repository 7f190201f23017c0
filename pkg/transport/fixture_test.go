package transport_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjiggidy/adderlib/pkg/apierr"
	"github.com/mjiggidy/adderlib/pkg/transport"
)

func params(kv ...string) url.Values {
	p := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		p.Set(kv[i], kv[i+1])
	}

	return p
}

var replies = fstest.MapFS{
	"login.xml":          {Data: []byte(`<api_response><success>1</success><token>t0k</token></api_response>`)},
	"get_devices.xml":    {Data: []byte(`<api_response><success>1</success><devices/></api_response>`)},
	"get_devices_tx.xml": {Data: []byte(`<api_response><success>1</success><devices><device><d_id>1</d_id></device></devices></api_response>`)},
	"broken.xml":         {Data: []byte(`<api_response><success>`)},
	"empty.xml":          {Data: []byte(``)},
}

func TestFixture_ResolvesByMethod(t *testing.T) {
	fx, err := transport.NewFixture(transport.FixtureConfig{FS: replies})
	require.NoError(t, err)

	env, err := fx.Call(context.Background(), nil, params("v", "8", "method", "login"))
	require.NoError(t, err)
	assert.Equal(t, "t0k", env.Value("token"))
}

func TestFixture_PrefersDeviceType(t *testing.T) {
	fx, err := transport.NewFixture(transport.FixtureConfig{FS: replies})
	require.NoError(t, err)

	name, err := fx.Resolve(params("method", "get_devices", "device_type", "tx"))
	require.NoError(t, err)
	assert.Equal(t, "get_devices_tx.xml", name)

	name, err = fx.Resolve(params("method", "get_devices", "device_type", "rx"))
	require.NoError(t, err)
	assert.Equal(t, "get_devices.xml", name)
}

func TestFixture_UnknownMethod(t *testing.T) {
	fx, err := transport.NewFixture(transport.FixtureConfig{FS: replies})
	require.NoError(t, err)

	_, err = fx.Call(context.Background(), nil, params("method", "get_users"))

	var nf *apierr.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "get_users", nf.Method)
}

func TestFixture_NoMethod(t *testing.T) {
	fx, err := transport.NewFixture(transport.FixtureConfig{FS: replies})
	require.NoError(t, err)

	_, err = fx.Call(context.Background(), nil, params("v", "8"))
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
}

func TestFixture_MalformedAndEmpty(t *testing.T) {
	fx, err := transport.NewFixture(transport.FixtureConfig{FS: replies})
	require.NoError(t, err)

	_, err = fx.Call(context.Background(), nil, params("method", "broken"))
	assert.Equal(t, apierr.KindMalformed, apierr.KindOf(err))

	_, err = fx.Call(context.Background(), nil, params("method", "empty"))
	assert.Equal(t, apierr.KindMalformed, apierr.KindOf(err))
}

func TestFixture_Dir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logout.xml"), []byte(`<api_response><success>1</success></api_response>`), 0o600))

	fx, err := transport.NewFixture(transport.FixtureConfig{Dir: dir})
	require.NoError(t, err)

	env, err := fx.Call(context.Background(), nil, params("method", "logout"))
	require.NoError(t, err)
	assert.True(t, env.Success())
}

func TestNewFixture_BadConfig(t *testing.T) {
	_, err := transport.NewFixture(transport.FixtureConfig{})
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))

	_, err = transport.NewFixture(transport.FixtureConfig{Dir: filepath.Join(t.TempDir(), "missing")})
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
}

func TestFixture_Verbose(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	fx, err := transport.NewFixture(transport.FixtureConfig{FS: replies, Verbose: true, Logger: log})
	require.NoError(t, err)

	_, err = fx.Call(context.Background(), &url.URL{Host: "aim.local"}, params("method", "login", "password", "hunter2"))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "fixture request")
	assert.Contains(t, out, "file=login.xml")
	assert.Contains(t, out, "aim.local")
	assert.NotContains(t, out, "hunter2")
}

func TestFixtureNames(t *testing.T) {
	assert.Nil(t, transport.FixtureNames(params("v", "8")))
	assert.Equal(t, []string{"login.xml"}, transport.FixtureNames(params("method", "login")))
	assert.Equal(t, []string{"get_all_c_usb_rx.xml", "get_all_c_usb.xml"},
		transport.FixtureNames(params("method", "get_all_c_usb", "device_type", "rx")))
}
