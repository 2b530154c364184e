package tree

// Requirement references another record by ID.
type Requirement struct {
	ID string `json:"id" yaml:"id" bson:"id"`
}

// Record is the host-supplied input for one node. Payload is carried
// through layout untouched.
type Record struct {
	ID           string         `json:"id" yaml:"id" bson:"id"`
	Category     string         `json:"category,omitempty" yaml:"category,omitempty" bson:"category,omitempty"`
	Requirements []Requirement  `json:"requirements,omitempty" yaml:"requirements,omitempty" bson:"requirements,omitempty"`
	State        string         `json:"state,omitempty" yaml:"state,omitempty" bson:"state,omitempty"`
	Payload      map[string]any `json:"payload,omitempty" yaml:"payload,omitempty" bson:"payload,omitempty"`
}

// RequirementIDs returns the requirement IDs in declaration order.
func (r Record) RequirementIDs() []string {
	if len(r.Requirements) == 0 {
		return nil
	}
	ids := make([]string, 0, len(r.Requirements))
	for _, req := range r.Requirements {
		ids = append(ids, req.ID)
	}
	return ids
}

// Filter selects the records that belong to one diagram.
type Filter func(Record) bool

// ByCategory returns a Filter matching records whose Category equals key.
// An empty key matches every record.
func ByCategory(key string) Filter {
	if key == "" {
		return nil
	}
	return func(r Record) bool { return r.Category == key }
}

// Categories returns the distinct non-empty categories in first-seen order.
func Categories(records []Record) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		if r.Category == "" {
			continue
		}
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}
