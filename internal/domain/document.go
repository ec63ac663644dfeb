package domain

// DocumentVersion is the layout version written by this build
const DocumentVersion = 1

// Document is the single aggregate holding all six collections.
// Collections keep insertion order; ids are unique within a collection.
type Document struct {
	Version      int           `json:"version"`
	Leads        []Lead        `json:"leads"`
	Applications []Application `json:"applications"`
	Interviews   []Interview   `json:"interviews"`
	Contacts     []Contact     `json:"contacts"`
	Tasks        []Task        `json:"tasks"`
	Offers       []Offer       `json:"offers"`
}

// NewDocument returns a current-version document with every collection empty
func NewDocument() *Document {
	d := &Document{Version: DocumentVersion}
	d.Normalize()
	return d
}

// Normalize replaces nil collections with empty ones so the document
// always serializes six arrays.
func (d *Document) Normalize() {
	if d.Leads == nil {
		d.Leads = []Lead{}
	}
	if d.Applications == nil {
		d.Applications = []Application{}
	}
	if d.Interviews == nil {
		d.Interviews = []Interview{}
	}
	if d.Contacts == nil {
		d.Contacts = []Contact{}
	}
	if d.Tasks == nil {
		d.Tasks = []Task{}
	}
	if d.Offers == nil {
		d.Offers = []Offer{}
	}
}
