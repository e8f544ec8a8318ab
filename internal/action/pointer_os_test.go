package action

import (
	"context"
	"errors"
	"testing"

	"github.com/jezek/xgb/xproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInput struct {
	event, detail byte
	x, y          int16
}

type fakeXServer struct {
	failOn byte
	err    error
	inputs []fakeInput
	closed bool
}

func (f *fakeXServer) FakeInput(event, detail byte, x, y int16) error {
	if f.err != nil && event == f.failOn {
		return f.err
	}
	f.inputs = append(f.inputs, fakeInput{event, detail, x, y})
	return nil
}

func (f *fakeXServer) Close() { f.closed = true }

func newTestOSPointer(env string, srv *fakeXServer, dialErr error) (*OSPointer, *[]string) {
	var dialed []string
	p := &OSPointer{
		getenv: func(string) string { return env },
		dial: func(display string) (xServer, error) {
			dialed = append(dialed, display)
			if dialErr != nil {
				return nil, dialErr
			}
			return srv, nil
		},
	}
	return p, &dialed
}

func TestOSPointerClick(t *testing.T) {
	srv := &fakeXServer{}
	p, dialed := newTestOSPointer(":0", srv, nil)

	require.NoError(t, p.Click(context.Background(), ScreenPoint{X: 640, Y: 371}))
	assert.Equal(t, []string{":0"}, *dialed)
	assert.Equal(t, []fakeInput{
		{xproto.MotionNotify, 0, 640, 371},
		{xproto.ButtonPress, 1, 640, 371},
		{xproto.ButtonRelease, 1, 640, 371},
	}, srv.inputs)
	assert.True(t, srv.closed)
}

func TestOSPointerConfiguredDisplayWins(t *testing.T) {
	p, dialed := newTestOSPointer(":0", &fakeXServer{}, nil)
	p.display = ":99"

	require.NoError(t, p.Click(context.Background(), ScreenPoint{X: 1, Y: 1}))
	assert.Equal(t, []string{":99"}, *dialed)
}

func TestOSPointerNoDisplay(t *testing.T) {
	p, dialed := newTestOSPointer("", &fakeXServer{}, nil)

	err := p.Click(context.Background(), ScreenPoint{})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Empty(t, *dialed)
}

func TestOSPointerOutOfRange(t *testing.T) {
	p, dialed := newTestOSPointer(":0", &fakeXServer{}, nil)

	err := p.Click(context.Background(), ScreenPoint{X: 40000, Y: 10})
	assert.ErrorContains(t, err, "outside the X coordinate range")
	assert.Empty(t, *dialed)
}

func TestOSPointerCancelled(t *testing.T) {
	p, dialed := newTestOSPointer(":0", &fakeXServer{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, p.Click(ctx, ScreenPoint{}), context.Canceled)
	assert.Empty(t, *dialed)
}

func TestOSPointerDialFailure(t *testing.T) {
	dialErr := classifyConnectError(":0", errors.New("dial unix /tmp/.X11-unix/X0: connect: no such file or directory"))
	p, _ := newTestOSPointer(":0", nil, dialErr)

	err := p.Click(context.Background(), ScreenPoint{})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestOSPointerInputRejected(t *testing.T) {
	t.Run("access denied", func(t *testing.T) {
		srv := &fakeXServer{failOn: xproto.ButtonPress, err: xproto.AccessError{}}
		p, _ := newTestOSPointer(":0", srv, nil)

		err := p.Click(context.Background(), ScreenPoint{X: 5, Y: 5})
		assert.ErrorIs(t, err, ErrPermissionDenied)
		assert.Len(t, srv.inputs, 1)
		assert.True(t, srv.closed)
	})

	t.Run("other protocol error", func(t *testing.T) {
		srv := &fakeXServer{failOn: xproto.MotionNotify, err: xproto.ValueError{}}
		p, _ := newTestOSPointer(":0", srv, nil)

		err := p.Click(context.Background(), ScreenPoint{X: 5, Y: 5})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrPermissionDenied)
		assert.NotErrorIs(t, err, ErrBackendUnavailable)
	})
}

func TestClassifyConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"refused credentials", errors.New("x protocol authentication refused: Authorization required"), ErrPermissionDenied},
		{"no server", errors.New("dial unix /tmp/.X11-unix/X0: connect: no such file or directory"), ErrBackendUnavailable},
		{"bad display name", errors.New("bad display string: nope"), ErrBackendUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyConnectError(":0", tt.err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
