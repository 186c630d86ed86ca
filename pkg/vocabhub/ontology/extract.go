// Package ontology extracts a vocabulary description (classes, properties,
// inheritance, domain/range links) from an RDF/OWL document on the web.
package ontology

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/knakk/rdf"
)

const (
	fetchTimeout    = 15 * time.Second
	maxDocumentSize = 8 << 20 // 8 MiB

	acceptHeader = "text/turtle, application/rdf+xml;q=0.8, application/n-triples;q=0.5"
)

// Description is the normalized in-memory form of one extracted vocabulary.
// Class and property cross-references are left as raw URI strings; the
// management service resolves them against stored entities.
type Description struct {
	Name       string
	Slug       string
	Link       string
	Classes    []ClassDescription
	Properties []PropertyDescription
}

// ClassDescription describes one node typed rdfs:Class.
type ClassDescription struct {
	Slug        string
	Name        string
	Description string
	Inherits    string // raw rdfs:subClassOf URI, "" when absent
}

// PropertyDescription describes one node typed rdf:Property.
type PropertyDescription struct {
	Slug        string
	Name        string
	Description string
	Domain      string // raw rdfs:domain URI, "" when absent
	Range       string // raw rdfs:range URI, "" when absent
}

// Extractor fetches and parses RDF documents.
type Extractor struct {
	client *http.Client
}

// NewExtractor creates an Extractor with a bounded fetch timeout.
func NewExtractor() *Extractor {
	return &Extractor{client: &http.Client{Timeout: fetchTimeout}}
}

// Extract fetches the document at link and assembles a vocabulary
// description from it. It returns (nil, nil) when the document parses but
// contains no ontology the extractor can name: no node typed owl:Ontology,
// no dc:title on it, or no namespace prefix registered for its URI.
// Network and parse failures return an error; callers treat both the same.
func (e *Extractor) Extract(ctx context.Context, link string) (*Description, error) {
	body, contentType, err := e.fetch(ctx, link)
	if err != nil {
		return nil, err
	}

	dec := rdf.NewTripleDecoder(bytes.NewReader(body), formatFor(contentType))
	triples, err := dec.DecodeAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", link, err)
	}

	g := newGraph(triples)

	ontologyURI, ok := g.subjectTyped(owlOntology)
	if !ok {
		return nil, nil
	}
	name := g.value(ontologyURI, dcTitle)
	slug := prefixFor(scanPrefixes(body), ontologyURI)
	if name == "" || slug == "" {
		return nil, nil
	}

	return &Description{
		Name:       name,
		Slug:       slug,
		Link:       ontologyURI,
		Classes:    extractClasses(g, ontologyURI),
		Properties: extractProperties(g, ontologyURI),
	}, nil
}

func (e *Extractor) fetch(ctx context.Context, link string) (body []byte, contentType string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("fetch %s: unexpected status %d", link, resp.StatusCode)
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, "", err
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func extractClasses(g *graph, ontologyURI string) []ClassDescription {
	var classes []ClassDescription
	for _, node := range g.subjectsTyped(rdfsClass) {
		classes = append(classes, ClassDescription{
			Slug:        strings.TrimPrefix(node, ontologyURI),
			Name:        g.value(node, rdfsLabel),
			Description: g.value(node, rdfsComment),
			Inherits:    g.value(node, rdfsSubClass),
		})
	}
	return classes
}

func extractProperties(g *graph, ontologyURI string) []PropertyDescription {
	var properties []PropertyDescription
	for _, node := range g.subjectsTyped(rdfProperty) {
		properties = append(properties, PropertyDescription{
			Slug:        strings.TrimPrefix(node, ontologyURI),
			Name:        g.value(node, rdfsLabel),
			Description: g.value(node, rdfsComment),
			Domain:      g.value(node, rdfsDomain),
			Range:       g.value(node, rdfsRange),
		})
	}
	return properties
}

// graph indexes decoded triples for the lookups the extractor needs.
// Blank-node subjects are skipped: they have no URI to derive a slug from.
type graph struct {
	byType map[string][]string          // type URI -> subject URIs, in document order
	values map[string]map[string]string // subject URI -> predicate URI -> first object value
}

func newGraph(triples []rdf.Triple) *graph {
	g := &graph{
		byType: make(map[string][]string),
		values: make(map[string]map[string]string),
	}
	for _, t := range triples {
		if t.Subj.Type() != rdf.TermIRI {
			continue
		}
		subj := t.Subj.String()
		pred := t.Pred.String()
		obj := t.Obj.String()

		if pred == rdfType {
			g.byType[obj] = append(g.byType[obj], subj)
			continue
		}
		if _, ok := g.values[subj]; !ok {
			g.values[subj] = make(map[string]string)
		}
		if _, ok := g.values[subj][pred]; !ok {
			g.values[subj][pred] = obj
		}
	}
	return g
}

func (g *graph) subjectTyped(typeURI string) (string, bool) {
	subjects := g.byType[typeURI]
	if len(subjects) == 0 {
		return "", false
	}
	return subjects[0], true
}

func (g *graph) subjectsTyped(typeURI string) []string {
	return g.byType[typeURI]
}

func (g *graph) value(subj, pred string) string {
	return g.values[subj][pred]
}

func formatFor(contentType string) rdf.Format {
	switch {
	case strings.Contains(contentType, "turtle"):
		return rdf.Turtle
	case strings.Contains(contentType, "xml"):
		return rdf.RDFXML
	case strings.Contains(contentType, "n-triples"), strings.Contains(contentType, "text/plain"):
		return rdf.NTriples
	default:
		return rdf.Turtle
	}
}

// Prefix declarations as they appear in Turtle, SPARQL and RDF/XML
// serializations. The parser does not expose its prefix table, so the raw
// document is scanned; this mirrors the namespace registration the
// document itself carries.
var (
	turtlePrefixRe = regexp.MustCompile(`@prefix\s+([A-Za-z][\w.-]*):\s*<([^>]*)>`)
	sparqlPrefixRe = regexp.MustCompile(`(?i)\bPREFIX\s+([A-Za-z][\w.-]*):\s*<([^>]*)>`)
	xmlPrefixRe    = regexp.MustCompile(`xmlns:([A-Za-z][\w.-]*)\s*=\s*"([^"]*)"`)
)

func scanPrefixes(body []byte) map[string]string {
	prefixes := make(map[string]string)
	for _, re := range []*regexp.Regexp{turtlePrefixRe, sparqlPrefixRe, xmlPrefixRe} {
		for _, m := range re.FindAllSubmatch(body, -1) {
			prefixes[string(m[1])] = string(m[2])
		}
	}
	return prefixes
}

// prefixFor finds the prefix registered for the ontology's own URI. The
// prefix becomes the vocabulary slug; an ontology nobody prefixed has no
// usable slug and the extraction reports not found.
func prefixFor(prefixes map[string]string, uri string) string {
	for prefix, ns := range prefixes {
		if ns == uri {
			return prefix
		}
	}
	return ""
}
