// Package security builds TLS client configurations for the connections
// extkit opens to infrastructure, currently the Redis preference backend.
//
//	tls:
//	  enabled: true
//	  ca_file: /etc/extkit/ca.pem
//	  cert_file: /etc/extkit/client.pem   # optional, for mutual TLS
//	  key_file: /etc/extkit/client-key.pem
package security
