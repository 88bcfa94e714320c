package tz

import "time"

// Load resolves an IANA zone name. "" and "Local" mean the host's zone.
func Load(name string) (*time.Location, error) {
	switch name {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}
