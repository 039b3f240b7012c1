package censusstream

import "fmt"

// StreamURL returns the connection URL of the public push service for the
// given namespace and service ID.
func StreamURL(namespace Namespace, serviceID string) string {
	return StreamURLFor(StreamEndpoint, namespace, serviceID)
}

// StreamURLFor builds the connection URL against an arbitrary endpoint.
// The values are inserted verbatim.
func StreamURLFor(endpoint string, namespace Namespace, serviceID string) string {
	return fmt.Sprintf("%s?environment=%s&service-id=s:%s", endpoint, namespace, serviceID)
}

// Valid reports whether n is one of the known namespaces.
func (n Namespace) Valid() bool {
	switch n {
	case NamespacePC, NamespacePS4US, NamespacePS4EU:
		return true
	default:
		return false
	}
}
