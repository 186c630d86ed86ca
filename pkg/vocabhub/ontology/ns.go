package ontology

// Well-known RDF namespaces.
const (
	NSRdf  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSRdfs = "http://www.w3.org/2000/01/rdf-schema#"
	NSOwl  = "http://www.w3.org/2002/07/owl#"
	NSDc   = "http://purl.org/dc/elements/1.1/"
)

// Terms the extractor looks for.
const (
	rdfType      = NSRdf + "type"
	rdfProperty  = NSRdf + "Property"
	rdfsClass    = NSRdfs + "Class"
	rdfsLabel    = NSRdfs + "label"
	rdfsComment  = NSRdfs + "comment"
	rdfsSubClass = NSRdfs + "subClassOf"
	rdfsDomain   = NSRdfs + "domain"
	rdfsRange    = NSRdfs + "range"
	owlOntology  = NSOwl + "Ontology"
	dcTitle      = NSDc + "title"
)
