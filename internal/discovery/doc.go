// Package discovery finds prediction services on the local network over mDNS.
//
// Services advertise themselves with the "_billwise._tcp" service type. The
// TXT records may carry:
//
//	path=/api       URL prefix of the /predict and /get-tips endpoints
//	version=1.2.0   service version, shown to the user
//
// # Usage Example
//
//	services, err := discovery.Scan(ctx, 5*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, svc := range services {
//	    fmt.Println(svc.Instance, svc.BaseURL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Services must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
