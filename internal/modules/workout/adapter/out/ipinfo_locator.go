package out

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ipinfo/go/v2/ipinfo"
	log "github.com/sirupsen/logrus"

	"mapty/internal/modules/workout/domain"
	workoutout "mapty/internal/modules/workout/port/out"
)

// IPInfoLocator approximates the current position from the public IP via ipinfo.io.
type IPInfoLocator struct {
	client *ipinfo.Client
}

func NewIPInfoLocator(token string, timeout time.Duration) workoutout.Geolocator {
	httpClient := &http.Client{Timeout: timeout}
	return NewIPInfoLocatorWithClient(ipinfo.NewClient(httpClient, nil, token))
}

func NewIPInfoLocatorWithClient(client *ipinfo.Client) workoutout.Geolocator {
	return &IPInfoLocator{client: client}
}

func (l *IPInfoLocator) Locate(ctx context.Context) (domain.Coords, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coords{}, err
	}
	info, err := l.client.GetIPInfo(nil)
	if err != nil {
		return domain.Coords{}, fmt.Errorf("ipinfo lookup: %w", err)
	}
	if info.Bogon {
		return domain.Coords{}, fmt.Errorf("ipinfo: %s is a bogon address", info.IP)
	}
	coords, err := parseLoc(info.Location)
	if err != nil {
		return domain.Coords{}, err
	}
	log.WithFields(log.Fields{"city": info.City, "country": info.Country}).Debugf("located at %s", coords)
	return coords, nil
}

// parseLoc reads ipinfo's "lat,lng" field.
func parseLoc(loc string) (domain.Coords, error) {
	latRaw, lngRaw, ok := strings.Cut(loc, ",")
	if !ok {
		return domain.Coords{}, fmt.Errorf("ipinfo: unexpected location %q", loc)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	if err != nil {
		return domain.Coords{}, fmt.Errorf("ipinfo: latitude %q: %w", latRaw, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngRaw), 64)
	if err != nil {
		return domain.Coords{}, fmt.Errorf("ipinfo: longitude %q: %w", lngRaw, err)
	}
	coords := domain.Coords{Lat: lat, Lng: lng}
	if err := coords.Validate(); err != nil {
		return domain.Coords{}, err
	}
	return coords, nil
}
