// Package clientip resolves the caller's IP address behind reverse proxies.
//
//	rs := clientip.NewResolver(clientip.DefaultHeaders...)
//	r.Use(rs.Middleware)
//
// Handlers read the address with FromContext. Addresses are parsed with
// net/netip, so IPv4-mapped IPv6 addresses are unmapped and zones dropped.
package clientip
