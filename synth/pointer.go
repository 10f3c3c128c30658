/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package synth

import (
	"net"

	"github.com/miekg/dns"

	"github.com/gravwell/hnsrec/record"
)

// targetName renders t as a DNS-usable name: its own FQDN for name-kind
// targets, or a synthetic pointer name carrying its raw bytes for inline
// IP targets, since an IP literal cannot appear where DNS expects a name.
func targetName(t record.Target, zone string) (string, error) {
	if t.IsName() {
		return t.ToDNS(), nil
	}
	return t.ToPointer(zone)
}

// glueRR builds the A or AAAA glue record backing a synthetic pointer
// name for an inline IP target.
func glueRR(t record.Target, pointer string, ttl uint32) dns.RR {
	ip := net.ParseIP(t.Value)
	if t.Kind == record.INET4 {
		return &dns.A{
			Hdr: dns.RR_Header{Name: pointer, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: ttl},
			A:   ip.To4(),
		}
	}
	return &dns.AAAA{
		Hdr:  dns.RR_Header{Name: pointer, Rrtype: dns.TypeAAAA, Class: dns.ClassINET, Ttl: ttl},
		AAAA: ip.To16(),
	}
}
