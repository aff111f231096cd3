package connectivity

import (
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewFromScanUsesImmediateResult(t *testing.T) {
	require.True(t, NewFromScan(ScannerFunc(func() (bool, error) { return true, nil })).Current())
	require.False(t, NewFromScan(ScannerFunc(func() (bool, error) { return false, nil })).Current())
	require.False(t, NewFromScan(ScannerFunc(func() (bool, error) { return true, errors.New("boom") })).Current())
}

func TestSetFlipsImmediately(t *testing.T) {
	o := New(true)
	o.Set(false)
	require.False(t, o.Current())
	o.Set(true)
	require.True(t, o.Current())
}

func TestSubscribersShareSignal(t *testing.T) {
	o := New(false)
	initA, a, cancelA := o.Subscribe()
	initB, b, cancelB := o.CurrentAndStream()
	defer cancelA()
	defer cancelB()
	require.False(t, initA)
	require.False(t, initB)
	require.Equal(t, 2, o.Subscribers())

	o.Set(true)
	require.True(t, <-a)
	require.True(t, <-b)
}

func TestSetNotifiesEvenWithoutChange(t *testing.T) {
	o := New(true)
	_, ch, cancel := o.Subscribe()
	defer cancel()

	o.Set(true)
	select {
	case v := <-ch:
		require.True(t, v)
	case <-time.After(time.Second):
		t.Fatal("expected notification")
	}
}

func TestSlowSubscriberSeesNewestValue(t *testing.T) {
	o := New(true)
	_, ch, cancel := o.Subscribe()
	defer cancel()

	o.Set(false)
	o.Set(true)
	o.Set(false)

	require.False(t, <-ch)
	select {
	case v := <-ch:
		t.Fatalf("unexpected stale update %v", v)
	default:
	}
}

func TestCancelClosesAndUnregisters(t *testing.T) {
	o := New(true)
	_, ch, cancel := o.Subscribe()
	cancel()
	cancel()

	_, open := <-ch
	require.False(t, open)
	require.Equal(t, 0, o.Subscribers())
	o.Set(false)
}

func TestAnyInternetCapable(t *testing.T) {
	global := &net.IPNet{IP: net.ParseIP("192.168.1.20"), Mask: net.CIDRMask(24, 32)}
	linkLocal := &net.IPNet{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)}
	loopback := &net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)}

	require.False(t, anyInternetCapable(nil))
	require.False(t, anyInternetCapable([]interfaceInfo{{flags: net.FlagUp | net.FlagLoopback, addrs: []net.Addr{loopback}}}))
	require.False(t, anyInternetCapable([]interfaceInfo{{flags: 0, addrs: []net.Addr{global}}}))
	require.False(t, anyInternetCapable([]interfaceInfo{{flags: net.FlagUp, addrs: []net.Addr{linkLocal}}}))
	require.True(t, anyInternetCapable([]interfaceInfo{
		{flags: net.FlagUp, addrs: []net.Addr{linkLocal}},
		{flags: net.FlagUp | net.FlagBroadcast, addrs: []net.Addr{&net.IPAddr{IP: global.IP}}},
	}))
}

func TestProberSetsOnlyOnChange(t *testing.T) {
	var result atomic.Bool
	o := New(true)
	_, ch, cancel := o.Subscribe()
	defer cancel()

	p, err := NewProber(o, ScannerFunc(func() (bool, error) { return result.Load(), nil }), time.Hour)
	require.NoError(t, err)

	p.Probe()
	require.False(t, o.Current())
	require.False(t, <-ch)

	result.Store(false)
	p.Probe()
	select {
	case v := <-ch:
		t.Fatalf("unexpected update %v", v)
	default:
	}

	result.Store(true)
	p.Probe()
	require.True(t, <-ch)
}

func TestProberScanErrorIsOffline(t *testing.T) {
	o := New(true)
	p, err := NewProber(o, ScannerFunc(func() (bool, error) { return true, errors.New("no interfaces") }), time.Hour)
	require.NoError(t, err)
	p.Probe()
	require.False(t, o.Current())
}

func TestProberStartAndStop(t *testing.T) {
	o := New(false)
	var calls atomic.Int32
	p, err := NewProber(o, ScannerFunc(func() (bool, error) {
		calls.Add(1)
		return true, nil
	}), 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, p.Start())
	require.Eventually(t, o.Current, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, p.Stop())
	require.Positive(t, calls.Load())
}

func TestNewProberRejectsNonPositiveInterval(t *testing.T) {
	_, err := NewProber(New(true), InterfaceScanner{}, 0)
	require.Error(t, err)
}
