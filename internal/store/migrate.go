package store

import "github.com/pbaille/jobtrack/internal/domain"

// migrations[v] upgrades a version v document to v+1
var migrations = map[int]func(*domain.Document){
	// Documents written before versioning have no version field. Their
	// layout is already the version 1 layout.
	0: func(*domain.Document) {},
}

// migrate upgrades doc in place to the current version. It reports the
// starting version and whether anything ran.
func migrate(doc *domain.Document) (int, bool) {
	from := doc.Version
	for doc.Version < domain.DocumentVersion {
		step, ok := migrations[doc.Version]
		if !ok {
			break
		}
		step(doc)
		doc.Version++
	}
	return from, doc.Version != from
}
