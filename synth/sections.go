/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package synth

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net"

	"github.com/miekg/dns"

	"github.com/gravwell/hnsrec/record"
)

const (
	torSentinel   = "hsk:tor"
	urlSentinel   = "hsk:url"
	emailSentinel = "hsk:email"
	magnetSentinel = "hsk:magnet"
	addrSentinel  = "hsk:addr"
)

func toA(r *record.Record, name string) []dns.RR {
	var out []dns.RR
	for _, h := range r.Hosts {
		if h.Kind != record.INET4 {
			continue
		}
		out = append(out, &dns.A{
			Hdr: dns.RR_Header{Name: name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: r.TTL},
			A:   net.ParseIP(h.Value).To4(),
		})
	}
	return out
}

func toAAAA(r *record.Record, name string) []dns.RR {
	var out []dns.RR
	for _, h := range r.Hosts {
		if h.Kind != record.INET6 {
			continue
		}
		out = append(out, &dns.AAAA{
			Hdr:  dns.RR_Header{Name: name, Rrtype: dns.TypeAAAA, Class: dns.ClassINET, Ttl: r.TTL},
			AAAA: net.ParseIP(h.Value).To16(),
		})
	}
	return out
}

func hasTorHost(r *record.Record) bool {
	for _, h := range r.Hosts {
		if h.IsTor() {
			return true
		}
	}
	return false
}

// toTorTXT returns the TXT RR advertising any onion hosts, keyed off the
// "hsk:tor" sentinel, so resolvers ignorant of onion addresses can still
// discover them via TXT.
func toTorTXT(r *record.Record, name string) dns.RR {
	strs := []string{torSentinel}
	for _, h := range r.Hosts {
		if h.IsTor() {
			strs = append(strs, h.Value)
		}
	}
	return &dns.TXT{
		Hdr: dns.RR_Header{Name: name, Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: r.TTL},
		Txt: strs,
	}
}

func toCNAME(r *record.Record, name string) dns.RR {
	if r.Canonical == nil {
		return nil
	}
	return &dns.CNAME{
		Hdr:    dns.RR_Header{Name: name, Rrtype: dns.TypeCNAME, Class: dns.ClassINET, Ttl: r.TTL},
		Target: r.Canonical.ToDNS(),
	}
}

func toDNAME(r *record.Record, name string) dns.RR {
	if r.Delegate == nil {
		return nil
	}
	return &dns.DNAME{
		Hdr:    dns.RR_Header{Name: name, Rrtype: dns.TypeDNAME, Class: dns.ClassINET, Ttl: r.TTL},
		Target: r.Delegate.ToDNS(),
	}
}

func toNS(r *record.Record, name string) ([]dns.RR, error) {
	var out []dns.RR
	for _, ns := range r.NS {
		n, err := targetName(ns, name)
		if err != nil {
			return nil, err
		}
		out = append(out, &dns.NS{
			Hdr: dns.RR_Header{Name: name, Rrtype: dns.TypeNS, Class: dns.ClassINET, Ttl: r.TTL},
			Ns:  n,
		})
	}
	return out, nil
}

func toNSIP(r *record.Record, name string) ([]dns.RR, error) {
	var out []dns.RR
	for _, ns := range r.NS {
		if !ns.IsINET() {
			continue
		}
		ptr, err := ns.ToPointer(name)
		if err != nil {
			return nil, err
		}
		out = append(out, glueRR(ns, ptr, r.TTL))
	}
	return out, nil
}

func toMX(r *record.Record, name string) ([]dns.RR, error) {
	var out []dns.RR
	for _, s := range r.Service {
		if !s.IsSMTP() {
			continue
		}
		n, err := targetName(s.Target, name)
		if err != nil {
			return nil, err
		}
		out = append(out, &dns.MX{
			Hdr:        dns.RR_Header{Name: name, Rrtype: dns.TypeMX, Class: dns.ClassINET, Ttl: r.TTL},
			Preference: uint16(s.Priority),
			Mx:         n,
		})
	}
	return out, nil
}

// toSRVIP emits additional-section glue for service targets that are
// inline IPs. When mx is true it follows the strict reading that MX glue
// requires both an SMTP service and an IP target; otherwise it glues every
// service with an IP target, matching toSRV's broader answer set.
func toSRVIP(r *record.Record, name string, mx bool) ([]dns.RR, error) {
	var out []dns.RR
	for _, s := range r.Service {
		if !s.Target.IsINET() {
			continue
		}
		if mx && !s.IsSMTP() {
			continue
		}
		ptr, err := s.Target.ToPointer(name)
		if err != nil {
			return nil, err
		}
		out = append(out, glueRR(s.Target, ptr, r.TTL))
	}
	return out, nil
}

func toSRV(r *record.Record, name string) ([]dns.RR, error) {
	var out []dns.RR
	for _, s := range r.Service {
		n, err := targetName(s.Target, name)
		if err != nil {
			return nil, err
		}
		srvName := fmt.Sprintf("_%s._%s.%s", s.Service, s.Protocol, name)
		out = append(out, &dns.SRV{
			Hdr:      dns.RR_Header{Name: srvName, Rrtype: dns.TypeSRV, Class: dns.ClassINET, Ttl: r.TTL},
			Priority: uint16(s.Priority),
			Weight:   uint16(s.Weight),
			Port:     s.Port,
			Target:   n,
		})
	}
	return out, nil
}

// toTXT concatenates every non-empty TXT-bearing collection into a single
// RR in the documented order: raw text first, as is, then URL, email,
// magnet and addr entries, each group preceded by its sentinel string.
func toTXT(r *record.Record, name string) dns.RR {
	var strs []string
	if len(r.Text) > 0 {
		strs = append(strs, r.Text...)
	}
	if len(r.URL) > 0 {
		strs = append(strs, urlSentinel)
		strs = append(strs, r.URL...)
	}
	if len(r.Email) > 0 {
		strs = append(strs, emailSentinel)
		strs = append(strs, r.Email...)
	}
	if len(r.Magnet) > 0 {
		strs = append(strs, magnetSentinel)
		for _, m := range r.Magnet {
			strs = append(strs, m.URI())
		}
	}
	if len(r.Addr) > 0 {
		strs = append(strs, addrSentinel)
		for _, a := range r.Addr {
			strs = append(strs, a.Currency+":"+a.Address)
		}
	}
	if len(strs) == 0 {
		return nil
	}
	return &dns.TXT{
		Hdr: dns.RR_Header{Name: name, Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: r.TTL},
		Txt: strs,
	}
}

func toLOC(r *record.Record, name string) []dns.RR {
	var out []dns.RR
	for _, l := range r.Location {
		out = append(out, &dns.LOC{
			Hdr:       dns.RR_Header{Name: name, Rrtype: dns.TypeLOC, Class: dns.ClassINET, Ttl: r.TTL},
			Version:   l.Version,
			Size:      l.Size,
			HorizPre:  l.HorizPre,
			VertPre:   l.VertPre,
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
			Altitude:  l.Altitude,
		})
	}
	return out
}

func toDSRR(r *record.Record, name string) []dns.RR {
	var out []dns.RR
	for _, d := range r.DS {
		out = append(out, &dns.DS{
			Hdr:        dns.RR_Header{Name: name, Rrtype: dns.TypeDS, Class: dns.ClassINET, Ttl: r.TTL},
			KeyTag:     d.KeyTag,
			Algorithm:  d.Algorithm,
			DigestType: d.DigestType,
			Digest:     hex.EncodeToString(d.Digest),
		})
	}
	return out
}

func toTLSA(r *record.Record, name string) []dns.RR {
	var out []dns.RR
	for _, t := range r.TLS {
		rrName := fmt.Sprintf("_%d._%s.%s", t.Port, t.Protocol, name)
		out = append(out, &dns.TLSA{
			Hdr:          dns.RR_Header{Name: rrName, Rrtype: dns.TypeTLSA, Class: dns.ClassINET, Ttl: r.TTL},
			Usage:        t.Usage,
			Selector:     t.Selector,
			MatchingType: t.MatchingType,
			Certificate:  hex.EncodeToString(t.Certificate),
		})
	}
	return out
}

func toOPENPGPKEY(r *record.Record, name string) []dns.RR {
	var out []dns.RR
	for _, p := range r.PGP {
		out = append(out, &dns.OPENPGPKEY{
			Hdr:       dns.RR_Header{Name: name, Rrtype: dns.TypeOPENPGPKEY, Class: dns.ClassINET, Ttl: r.TTL},
			PublicKey: base64.StdEncoding.EncodeToString(p.Fingerprint),
		})
	}
	return out
}

// toSOA synthesizes the zone's SOA record. The first NS becomes the
// primary nameserver and the first MX becomes the mailbox, when present.
func toSOA(r *record.Record, tld string) (dns.RR, error) {
	ns := tld
	mbox := tld
	nsRRs, err := toNS(r, tld)
	if err != nil {
		return nil, err
	}
	if len(nsRRs) > 0 {
		ns = nsRRs[0].(*dns.NS).Ns
	}
	mxRRs, err := toMX(r, tld)
	if err != nil {
		return nil, err
	}
	if len(mxRRs) > 0 {
		mbox = mxRRs[0].(*dns.MX).Mx
	}
	return &dns.SOA{
		Hdr:     dns.RR_Header{Name: tld, Rrtype: dns.TypeSOA, Class: dns.ClassINET, Ttl: r.TTL},
		Ns:      ns,
		Mbox:    mbox,
		Serial:  0,
		Refresh: 1800,
		Retry:   r.TTL,
		Expire:  604800,
		Minttl:  86400,
	}, nil
}

func toDS(r *record.Record, tld string) []dns.RR {
	return toDSRR(r, tld)
}
