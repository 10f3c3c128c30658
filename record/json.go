/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package record

import (
	"encoding/hex"
	"encoding/json"
)

// jsonRecord mirrors the documented JSON shape. Arrays are omitted when
// empty and canonical/delegate are omitted when unset, via omitempty.
type jsonRecord struct {
	Version   uint8          `json:"version"`
	Name      string         `json:"name"`
	TTL       uint32         `json:"ttl"`
	Hosts     []string       `json:"hosts,omitempty"`
	Canonical *string        `json:"canonical,omitempty"`
	Delegate  *string        `json:"delegate,omitempty"`
	NS        []string       `json:"ns,omitempty"`
	Service   []jsonService  `json:"service,omitempty"`
	URL       []string       `json:"url,omitempty"`
	Email     []string       `json:"email,omitempty"`
	Text      []string       `json:"text,omitempty"`
	Location  []jsonLocation `json:"location,omitempty"`
	Magnet    []string       `json:"magnet,omitempty"`
	DS        []jsonDS       `json:"ds,omitempty"`
	TLS       []jsonTLS      `json:"tls,omitempty"`
	SSH       []jsonSSH      `json:"ssh,omitempty"`
	PGP       []jsonSSH      `json:"pgp,omitempty"`
	Addr      []string       `json:"addr,omitempty"`
	Extra     []jsonExtra    `json:"extra,omitempty"`
}

type jsonService struct {
	Service  string `json:"service"`
	Protocol string `json:"protocol"`
	Priority uint8  `json:"priority"`
	Weight   uint8  `json:"weight"`
	Target   string `json:"target"`
	Port     uint16 `json:"port"`
}

type jsonSSH struct {
	Algorithm   uint8  `json:"algorithm"`
	Type        uint8  `json:"type"`
	Fingerprint string `json:"fingerprint"`
}

type jsonTLS struct {
	Protocol     string `json:"protocol"`
	Port         uint16 `json:"port"`
	Usage        uint8  `json:"usage"`
	Selector     uint8  `json:"selector"`
	MatchingType uint8  `json:"matchingType"`
	Certificate  string `json:"certificate"`
}

type jsonDS struct {
	KeyTag     uint16 `json:"keyTag"`
	Algorithm  uint8  `json:"algorithm"`
	DigestType uint8  `json:"digestType"`
	Digest     string `json:"digest"`
}

type jsonLocation struct {
	Version   uint8  `json:"version"`
	Size      uint8  `json:"size"`
	HorizPre  uint8  `json:"horizPre"`
	VertPre   uint8  `json:"vertPre"`
	Latitude  uint32 `json:"latitude"`
	Longitude uint32 `json:"longitude"`
	Altitude  uint32 `json:"altitude"`
}

type jsonExtra struct {
	Type uint8  `json:"type"`
	Data string `json:"data"`
}

// ToJSON renders r, under the given query name, into the documented JSON
// object shape.
func ToJSON(r *Record, name string) ([]byte, error) {
	jr := jsonRecord{
		Version: Version,
		Name:    name,
		TTL:     r.TTL,
	}
	for _, t := range r.Hosts {
		jr.Hosts = append(jr.Hosts, t.Value)
	}
	if r.Canonical != nil {
		v := r.Canonical.Value
		jr.Canonical = &v
	}
	if r.Delegate != nil {
		v := r.Delegate.Value
		jr.Delegate = &v
	}
	for _, t := range r.NS {
		jr.NS = append(jr.NS, t.Value)
	}
	for _, s := range r.Service {
		jr.Service = append(jr.Service, jsonService{
			Service: s.Service, Protocol: s.Protocol, Priority: s.Priority,
			Weight: s.Weight, Target: s.Target.Value, Port: s.Port,
		})
	}
	jr.URL = append(jr.URL, r.URL...)
	jr.Email = append(jr.Email, r.Email...)
	jr.Text = append(jr.Text, r.Text...)
	for _, l := range r.Location {
		jr.Location = append(jr.Location, jsonLocation{
			Version: l.Version, Size: l.Size, HorizPre: l.HorizPre, VertPre: l.VertPre,
			Latitude: l.Latitude, Longitude: l.Longitude, Altitude: l.Altitude,
		})
	}
	for _, m := range r.Magnet {
		jr.Magnet = append(jr.Magnet, m.URI())
	}
	for _, d := range r.DS {
		jr.DS = append(jr.DS, jsonDS{
			KeyTag: d.KeyTag, Algorithm: d.Algorithm, DigestType: d.DigestType,
			Digest: hex.EncodeToString(d.Digest),
		})
	}
	for _, t := range r.TLS {
		jr.TLS = append(jr.TLS, jsonTLS{
			Protocol: t.Protocol, Port: t.Port, Usage: t.Usage, Selector: t.Selector,
			MatchingType: t.MatchingType, Certificate: hex.EncodeToString(t.Certificate),
		})
	}
	for _, s := range r.SSH {
		jr.SSH = append(jr.SSH, jsonSSH{Algorithm: s.Algorithm, Type: s.Type, Fingerprint: hex.EncodeToString(s.Fingerprint)})
	}
	for _, p := range r.PGP {
		jr.PGP = append(jr.PGP, jsonSSH{Algorithm: p.Algorithm, Type: p.Type, Fingerprint: hex.EncodeToString(p.Fingerprint)})
	}
	for _, a := range r.Addr {
		jr.Addr = append(jr.Addr, a.Currency+":"+a.Address)
	}
	for _, x := range r.Extra {
		jr.Extra = append(jr.Extra, jsonExtra{Type: uint8(x.Type), Data: hex.EncodeToString(x.Data)})
	}
	return json.Marshal(jr)
}

// FromJSON parses the documented JSON object shape back into a Record and
// its associated query name.
func FromJSON(data []byte) (r *Record, name string, err error) {
	var jr jsonRecord
	if err = json.Unmarshal(data, &jr); err != nil {
		return nil, "", err
	}
	if jr.Version != Version {
		return nil, "", ErrInvalidVersion
	}
	rec := &Record{TTL: jr.TTL}
	for _, s := range jr.Hosts {
		t, perr := ParseTarget(s)
		if perr != nil {
			return nil, "", perr
		}
		rec.Hosts = append(rec.Hosts, t)
	}
	if jr.Canonical != nil {
		t, perr := ParseTarget(*jr.Canonical)
		if perr != nil {
			return nil, "", perr
		}
		rec.Canonical = &t
	}
	if jr.Delegate != nil {
		t, perr := ParseTarget(*jr.Delegate)
		if perr != nil {
			return nil, "", perr
		}
		rec.Delegate = &t
	}
	for _, s := range jr.NS {
		t, perr := ParseTarget(s)
		if perr != nil {
			return nil, "", perr
		}
		rec.NS = append(rec.NS, t)
	}
	for _, js := range jr.Service {
		t, perr := ParseTarget(js.Target)
		if perr != nil {
			return nil, "", perr
		}
		rec.Service = append(rec.Service, Service{
			Service: js.Service, Protocol: js.Protocol, Priority: js.Priority,
			Weight: js.Weight, Target: t, Port: js.Port,
		})
	}
	rec.URL = append(rec.URL, jr.URL...)
	rec.Email = append(rec.Email, jr.Email...)
	rec.Text = append(rec.Text, jr.Text...)
	for _, jl := range jr.Location {
		rec.Location = append(rec.Location, Location{
			Version: jl.Version, Size: jl.Size, HorizPre: jl.HorizPre, VertPre: jl.VertPre,
			Latitude: jl.Latitude, Longitude: jl.Longitude, Altitude: jl.Altitude,
		})
	}
	for _, muri := range jr.Magnet {
		m, perr := parseMagnetURI(muri)
		if perr != nil {
			return nil, "", perr
		}
		rec.Magnet = append(rec.Magnet, m)
	}
	for _, jd := range jr.DS {
		digest, herr := hex.DecodeString(jd.Digest)
		if herr != nil {
			return nil, "", ErrInvalidHex
		}
		rec.DS = append(rec.DS, DS{KeyTag: jd.KeyTag, Algorithm: jd.Algorithm, DigestType: jd.DigestType, Digest: digest})
	}
	for _, jt := range jr.TLS {
		cert, herr := hex.DecodeString(jt.Certificate)
		if herr != nil {
			return nil, "", ErrInvalidHex
		}
		rec.TLS = append(rec.TLS, TLS{
			Protocol: jt.Protocol, Port: jt.Port, Usage: jt.Usage, Selector: jt.Selector,
			MatchingType: jt.MatchingType, Certificate: cert,
		})
	}
	for _, js := range jr.SSH {
		fp, herr := hex.DecodeString(js.Fingerprint)
		if herr != nil {
			return nil, "", ErrInvalidHex
		}
		rec.SSH = append(rec.SSH, SSH{Algorithm: js.Algorithm, Type: js.Type, Fingerprint: fp})
	}
	for _, jp := range jr.PGP {
		fp, herr := hex.DecodeString(jp.Fingerprint)
		if herr != nil {
			return nil, "", ErrInvalidHex
		}
		rec.PGP = append(rec.PGP, PGP{Algorithm: jp.Algorithm, Type: jp.Type, Fingerprint: fp})
	}
	for _, as := range jr.Addr {
		a, perr := parseAddrString(as)
		if perr != nil {
			return nil, "", perr
		}
		rec.Addr = append(rec.Addr, a)
	}
	for _, jx := range jr.Extra {
		d, herr := hex.DecodeString(jx.Data)
		if herr != nil {
			return nil, "", ErrInvalidHex
		}
		rec.Extra = append(rec.Extra, Extra{Type: Tag(jx.Type), Data: d})
	}
	return rec, jr.Name, nil
}

func parseAddrString(s string) (Addr, error) {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return Addr{Currency: s[:i], Address: s[i+1:]}, nil
		}
	}
	return Addr{}, ErrInvalidTarget
}

func parseMagnetURI(uri string) (Magnet, error) {
	const prefix = "magnet:?xt=urn:"
	if len(uri) <= len(prefix) || uri[:len(prefix)] != prefix {
		return Magnet{}, ErrInvalidTarget
	}
	rest := uri[len(prefix):]
	for i := 0; i < len(rest); i++ {
		if rest[i] == ':' {
			return Magnet{NID: rest[:i], NIN: rest[i+1:]}, nil
		}
	}
	return Magnet{}, ErrInvalidTarget
}
