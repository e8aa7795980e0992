package model

import "encoding/json"

// Clone deep-copies the snapshot by round-tripping it through its persisted
// JSON form, so a clone can never share layout the blob itself would not.
func (e *Entities) Clone() (*Entities, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var out Entities
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (e *Entities) JobIndex(id string) int {
	for i := range e.Jobs {
		if e.Jobs[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Entities) Job(id string) (*Job, bool) {
	if i := e.JobIndex(id); i >= 0 {
		return &e.Jobs[i], true
	}
	return nil, false
}

func (e *Entities) Customer(id string) (*Customer, bool) {
	for i := range e.Customers {
		if e.Customers[i].ID == id {
			return &e.Customers[i], true
		}
	}
	return nil, false
}

func (e *Entities) Site(id string) (*Site, bool) {
	for i := range e.Sites {
		if e.Sites[i].ID == id {
			return &e.Sites[i], true
		}
	}
	return nil, false
}

func (e *Entities) Part(id string) (*Part, bool) {
	for i := range e.Parts {
		if e.Parts[i].ID == id {
			return &e.Parts[i], true
		}
	}
	return nil, false
}

func (e *Entities) User(id string) (*User, bool) {
	for i := range e.Users {
		if e.Users[i].ID == id {
			return &e.Users[i], true
		}
	}
	return nil, false
}

func (e *Entities) Quote(id string) (*Quote, bool) {
	for i := range e.Quotes {
		if e.Quotes[i].ID == id {
			return &e.Quotes[i], true
		}
	}
	return nil, false
}

func (e *Entities) Invoice(id string) (*Invoice, bool) {
	for i := range e.Invoices {
		if e.Invoices[i].ID == id {
			return &e.Invoices[i], true
		}
	}
	return nil, false
}

// ActivitiesFor returns the job's audit trail in append order.
func (e *Entities) ActivitiesFor(jobID string) []Activity {
	var out []Activity
	for _, a := range e.Activities {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	return out
}
