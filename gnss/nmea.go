/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package gnss

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnsupported is returned for sentences the parser has no use for,
// such as GSV or GGA. Callers are expected to skip those.
var ErrUnsupported = errors.New("unsupported NMEA sentence")

// ErrNoFix is returned for an RMC sentence without a valid fix
var ErrNoFix = errors.New("receiver reports no fix")

// ParseSentence extracts UTC time from a single NMEA sentence.
// RMC (position/time) and ZDA (time/date) sentences are supported,
// anything else yields ErrUnsupported.
func ParseSentence(line string) (time.Time, error) {
	if !strings.HasPrefix(line, "$") {
		return time.Time{}, ErrUnsupported
	}
	body, err := stripChecksum(line[1:])
	if err != nil {
		return time.Time{}, err
	}
	fields := strings.Split(body, ",")
	// fields[0] is talker + sentence type, i.e. GPRMC, GNZDA
	if len(fields[0]) != 5 {
		return time.Time{}, ErrUnsupported
	}
	switch fields[0][2:] {
	case "RMC":
		return parseRMC(fields)
	case "ZDA":
		return parseZDA(fields)
	}
	return time.Time{}, ErrUnsupported
}

// stripChecksum cuts the trailing *hh and verifies it when present
func stripChecksum(body string) (string, error) {
	i := strings.LastIndex(body, "*")
	if i < 0 {
		return body, nil
	}
	want, err := strconv.ParseUint(body[i+1:], 16, 8)
	if err != nil {
		return "", fmt.Errorf("bad NMEA checksum field %q", body[i+1:])
	}
	var sum byte
	for j := 0; j < i; j++ {
		sum ^= body[j]
	}
	if sum != byte(want) {
		return "", fmt.Errorf("NMEA checksum mismatch: got %02X, want %02X", sum, want)
	}
	return body[:i], nil
}

// parseRMC handles $--RMC: field 1 is hhmmss.sss UTC,
// field 2 is status (A = valid), field 9 is ddmmyy date
func parseRMC(fields []string) (time.Time, error) {
	if len(fields) < 10 {
		return time.Time{}, fmt.Errorf("RMC sentence with %d fields", len(fields))
	}
	if fields[2] != "A" {
		return time.Time{}, ErrNoFix
	}
	hour, min, sec, nsec, err := parseUTC(fields[1])
	if err != nil {
		return time.Time{}, err
	}
	date := fields[9]
	if len(date) != 6 {
		return time.Time{}, fmt.Errorf("bad RMC date %q", date)
	}
	day, err1 := strconv.Atoi(date[0:2])
	month, err2 := strconv.Atoi(date[2:4])
	year, err3 := strconv.Atoi(date[4:6])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, fmt.Errorf("bad RMC date %q", date)
	}
	// NMEA carries a two-digit year
	return time.Date(2000+year, time.Month(month), day, hour, min, sec, nsec, time.UTC), nil
}

// parseZDA handles $--ZDA: hhmmss.sss,dd,mm,yyyy,local zone fields
func parseZDA(fields []string) (time.Time, error) {
	if len(fields) < 5 {
		return time.Time{}, fmt.Errorf("ZDA sentence with %d fields", len(fields))
	}
	hour, min, sec, nsec, err := parseUTC(fields[1])
	if err != nil {
		return time.Time{}, err
	}
	day, err1 := strconv.Atoi(fields[2])
	month, err2 := strconv.Atoi(fields[3])
	year, err3 := strconv.Atoi(fields[4])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, fmt.Errorf("bad ZDA date fields %q", fields[2:5])
	}
	return time.Date(year, time.Month(month), day, hour, min, sec, nsec, time.UTC), nil
}

// parseUTC splits hhmmss with optional fractional seconds
func parseUTC(ts string) (hour, min, sec, nsec int, err error) {
	if len(ts) < 6 {
		return 0, 0, 0, 0, fmt.Errorf("bad NMEA time %q", ts)
	}
	var err1, err2, err3 error
	hour, err1 = strconv.Atoi(ts[0:2])
	min, err2 = strconv.Atoi(ts[2:4])
	sec, err3 = strconv.Atoi(ts[4:6])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, 0, fmt.Errorf("bad NMEA time %q", ts)
	}
	if len(ts) > 7 && ts[6] == '.' {
		frac, err := strconv.ParseFloat(ts[6:], 64)
		if err != nil {
			return 0, 0, 0, 0, fmt.Errorf("bad NMEA time %q", ts)
		}
		nsec = int(frac * float64(time.Second))
	}
	return hour, min, sec, nsec, nil
}
