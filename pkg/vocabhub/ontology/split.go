package ontology

import "strings"

// SplitTerm splits a fully qualified RDF term URI into its namespace and
// local name. Hash-namespaced vocabularies split on the last '#',
// slash-namespaced ones on the last '/'; the separator stays with the
// namespace. A URI with neither separator yields an empty namespace.
func SplitTerm(uri string) (namespace, local string) {
	if i := strings.LastIndex(uri, "#"); i >= 0 {
		return uri[:i+1], uri[i+1:]
	}
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[:i+1], uri[i+1:]
	}
	return "", uri
}
