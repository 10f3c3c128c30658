/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package synth maps a resolved name record to a synthesized DNS message,
// handling referral versus authoritative dispatch, synthetic glue for
// inline IP targets, and the per-qtype answer construction.
package synth

import (
	"errors"
	"strings"

	"github.com/miekg/dns"

	"github.com/gravwell/hnsrec/config"
	"github.com/gravwell/hnsrec/log"
	"github.com/gravwell/hnsrec/record"
)

// ErrNotFQDN is returned when the queried name is not fully qualified.
var ErrNotFQDN = errors.New("name is not fully qualified")

// ToDNSDefault calls ToDNS with opts.NakedDefault as the naked argument, the
// pointer-synthesis behavior a deployment asked for absent a per-query
// override.
func ToDNSDefault(r *record.Record, name string, qtype uint16, opts *config.Options, lgr *log.Logger) (*dns.Msg, error) {
	naked := config.Default().NakedDefault
	if opts != nil {
		naked = opts.NakedDefault
	}
	return ToDNS(r, name, qtype, naked, opts, lgr)
}

// ToDNS maps r and a queried (name, qtype) to a DNS message. name must be
// fully-qualified. naked is accepted for API compatibility with callers
// that expect to control pointer-name synthesis, but every caller today
// gets the same naked behavior described below regardless of its value;
// see sections.go for the synthetic pointer-name mechanics this always
// exercises. opts supplies the EDNS0 buffer size advertised in the
// synthesized message; a nil opts falls back to config.Default().
func ToDNS(r *record.Record, name string, qtype uint16, naked bool, opts *config.Options, lgr *log.Logger) (*dns.Msg, error) {
	if opts == nil {
		d := config.Default()
		opts = &d
	}
	if lgr == nil {
		lgr = log.NewDiscardLogger()
	}
	if !strings.HasSuffix(name, ".") {
		return nil, ErrNotFQDN
	}

	msg := new(dns.Msg)
	msg.Response = true
	msg.AuthenticatedData = true
	msg.SetEdns0(int(opts.EDNSBufferSize), true)

	if labelCount(name) > 1 {
		tld := dropFirstLabel(name)
		msg.Authoritative = false
		switch {
		case len(r.NS) > 0:
			ns, err := toNS(r, tld)
			if err != nil {
				return nil, err
			}
			ip, err := toNSIP(r, tld)
			if err != nil {
				return nil, err
			}
			msg.Ns = ns
			msg.Extra = ip
		case r.Delegate != nil:
			msg.Answer = []dns.RR{toDNAME(r, tld)}
		default:
			soa, err := toSOA(r, tld)
			if err != nil {
				return nil, err
			}
			msg.Ns = append(msg.Ns, soa)
		}
		msg.Ns = append(msg.Ns, toDS(r, tld)...)
		lgr.Debug("synthesized referral", log.KV("tld", tld), log.KV("hasNS", len(r.NS) > 0))
		return msg, nil
	}

	msg.Authoritative = true
	if err := dispatch(r, name, qtype, msg); err != nil {
		return nil, err
	}
	if len(msg.Answer) == 0 && len(msg.Ns) == 0 {
		if r.Canonical != nil {
			msg.Answer = []dns.RR{toCNAME(r, name)}
		} else {
			soa, err := toSOA(r, name)
			if err != nil {
				return nil, err
			}
			msg.Answer = []dns.RR{soa}
		}
		lgr.Debug("authoritative fallback", log.KV("name", name), log.KV("hasCanonical", r.Canonical != nil))
	}
	return msg, nil
}

func dispatch(r *record.Record, name string, qtype uint16, msg *dns.Msg) error {
	switch qtype {
	case dns.TypeANY:
		soa, err := toSOA(r, name)
		if err != nil {
			return err
		}
		ns, err := toNS(r, name)
		if err != nil {
			return err
		}
		ip, err := toNSIP(r, name)
		if err != nil {
			return err
		}
		msg.Answer = append([]dns.RR{soa}, ns...)
		msg.Extra = ip
	case dns.TypeA:
		msg.Answer = toA(r, name)
		if hasTorHost(r) {
			msg.Answer = append(msg.Answer, toTorTXT(r, name))
		}
	case dns.TypeAAAA:
		msg.Answer = toAAAA(r, name)
		if hasTorHost(r) {
			msg.Answer = append(msg.Answer, toTorTXT(r, name))
		}
	case dns.TypeCNAME:
		if r.Canonical != nil {
			msg.Answer = []dns.RR{toCNAME(r, name)}
		}
	case dns.TypeDNAME:
		if r.Delegate != nil {
			msg.Answer = []dns.RR{toDNAME(r, name)}
		}
	case dns.TypeNS:
		ns, err := toNS(r, name)
		if err != nil {
			return err
		}
		ip, err := toNSIP(r, name)
		if err != nil {
			return err
		}
		msg.Answer = ns
		msg.Extra = ip
	case dns.TypeMX:
		mx, err := toMX(r, name)
		if err != nil {
			return err
		}
		ip, err := toSRVIP(r, name, true)
		if err != nil {
			return err
		}
		msg.Answer = mx
		msg.Extra = ip
	case dns.TypeSRV:
		srv, err := toSRV(r, name)
		if err != nil {
			return err
		}
		ip, err := toSRVIP(r, name, false)
		if err != nil {
			return err
		}
		msg.Answer = srv
		msg.Extra = ip
	case dns.TypeTXT:
		if txt := toTXT(r, name); txt != nil {
			msg.Answer = []dns.RR{txt}
		}
	case dns.TypeLOC:
		msg.Answer = toLOC(r, name)
	case dns.TypeDS:
		msg.Answer = toDSRR(r, name)
	case dns.TypeTLSA:
		msg.Answer = toTLSA(r, name)
	case dns.TypeOPENPGPKEY:
		msg.Answer = toOPENPGPKEY(r, name)
	}
	return nil
}

func labelCount(fqdn string) int {
	trimmed := strings.TrimSuffix(fqdn, ".")
	if trimmed == "" {
		return 0
	}
	return strings.Count(trimmed, ".") + 1
}

func dropFirstLabel(fqdn string) string {
	idx := strings.IndexByte(fqdn, '.')
	if idx < 0 {
		return fqdn
	}
	return fqdn[idx+1:]
}
