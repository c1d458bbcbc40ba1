package bookmark

type Planner struct{}

func NewPlanner() *Planner {
	return &Planner{}
}

// Run lists the proposed changes: one trash item per discarded bookmark in
// discard order, then one URL update per kept bookmark whose URL changed
// under normalization, in kept order.
func (p *Planner) Run(original, kept, discarded []*Bookmark) []PlanItem {
	plan := make([]PlanItem, 0, len(original))

	for _, b := range discarded {
		plan = append(plan, PlanItem{
			Action:     ActionTrash,
			Reason:     ReasonDuplicate,
			BookmarkID: b.ID,
		})
	}

	for _, b := range kept {
		if b.URL == "" || b.NormalizedURL == "" || b.URL == b.NormalizedURL {
			continue
		}
		plan = append(plan, PlanItem{
			Action:     ActionUpdateURL,
			Reason:     ReasonNormalized,
			BookmarkID: b.ID,
		})
	}

	return plan
}
