package mopidy

import (
	"context"
	"errors"
	"time"

	"github.com/grandcat/zeroconf"
	"golang.org/x/exp/slog"
)

const (
	mopidyService    = "_mopidy-http._tcp"
	discoveryDomain  = "local."
	discoveryTimeout = 3 * time.Second
)

var ErrNoServerFound = errors.New("no mopidy server found on the local network")

// DiscoverServer browses the local network for a Mopidy HTTP server and returns the first one
// announcing an IPv4 address. It gives up when ctx is done.
func DiscoverServer(ctx context.Context) (string, int, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return "", 0, err
	}

	entries := make(chan *zeroconf.ServiceEntry)
	browseCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	err = resolver.Browse(browseCtx, mopidyService, discoveryDomain, entries)
	if err != nil {
		return "", 0, err
	}

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return "", 0, ErrNoServerFound
			}
			if entry == nil || len(entry.AddrIPv4) == 0 {
				continue
			}
			host := entry.AddrIPv4[0].String()
			slog.Info("Discovered Mopidy server", "name", entry.Instance, "host", host, "port", entry.Port)
			return host, entry.Port, nil
		case <-ctx.Done():
			return "", 0, ErrNoServerFound
		}
	}
}
